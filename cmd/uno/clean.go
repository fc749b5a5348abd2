package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the uno result cache",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// кэш нужен даже если он выключен в конфиге: чистим то, что осталось
	cfg.Cache.Enabled = true
	disk := openCache(cmd, cfg)
	if disk == nil {
		return fmt.Errorf("clean: cache is not available")
	}
	if err := disk.DropAll(); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", disk.Dir())
	return nil
}

