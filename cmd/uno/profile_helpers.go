package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"uno/internal/prof"
)

var activeProfile *prof.Session

// setupProfiling starts the profilers requested by persistent flags.
func setupProfiling(cmd *cobra.Command) error {
	flags := readFlags(cmd)
	cfg := prof.Config{
		CPU:   flags.String("cpu-profile"),
		Mem:   flags.String("mem-profile"),
		Trace: flags.String("runtime-trace"),
	}
	if err := flags.Err(); err != nil {
		return err
	}
	if !cfg.Enabled() {
		return nil
	}
	var err error
	activeProfile, err = prof.Start(cfg)
	return err
}

func stopProfiling() {
	if err := activeProfile.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
	}
	activeProfile = nil
}
