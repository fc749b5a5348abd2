package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"uno/internal/cache"
	"uno/internal/driver"
	"uno/internal/observ"
	"uno/internal/project"
)

// loadConfig reads --config, or discovers uno.toml from the working
// directory upwards, or falls back to defaults.
func loadConfig(cmd *cobra.Command) (project.Config, error) {
	flags := readFlags(cmd)
	path := flags.String("config")
	if err := flags.Err(); err != nil {
		return project.Config{}, err
	}
	if path != "" {
		return project.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return project.Config{}, err
	}
	return project.Discover(wd)
}

// openCache returns nil when caching is disabled by flag or config. A cache
// that cannot be opened is reported and skipped.
func openCache(cmd *cobra.Command, cfg project.Config) *cache.Disk {
	flags := readFlags(cmd)
	if flags.Bool("no-cache") || flags.Err() != nil || !cfg.Cache.Enabled {
		return nil
	}
	var (
		disk *cache.Disk
		err  error
	)
	if dir := cfg.Cache.Dir; dir != "" {
		if !filepath.IsAbs(dir) && cfg.Root() != "" {
			dir = filepath.Join(cfg.Root(), dir)
		}
		disk, err = cache.OpenDir(dir)
	} else {
		disk, err = cache.Open("uno")
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache disabled: %v\n", err)
		return nil
	}
	return disk
}

// driverOptions builds the options shared by fmt, diag and fix.
func driverOptions(cmd *cobra.Command, cfg project.Config) (driver.Options, error) {
	flags := readFlags(cmd)
	opts := driver.Options{Config: cfg}
	if flags.Has("jobs") {
		opts.Jobs = flags.Int("jobs")
	}
	showTimings := flags.Bool("timings")
	if err := flags.Err(); err != nil {
		return opts, err
	}
	opts.Cache = openCache(cmd, cfg)
	if showTimings {
		opts.Timer = observ.NewTimer()
	}
	if wd, err := os.Getwd(); err == nil {
		opts.BaseDir = wd
	}
	return opts, nil
}

func pathsOrDot(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

func printTimings(out io.Writer, timer *observ.Timer) {
	if timer == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
}
