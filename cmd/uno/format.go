package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"uno/internal/driver"
	"uno/internal/pipeline"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [path...]",
	Short: "Rewrite class strings in source files to their expanded form",
	Long: `Find class attributes and uno.Classes-style calls in markup and Go files
and replace every variant group with its expansion. Directories are walked
recursively; the current directory is used when no path is given.`,
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "report files that need rewriting and exit 1 if any")
	fmtCmd.Flags().Bool("stdout", false, "print rewritten files to stdout instead of writing them")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().Bool("merge", false, "resolve conflicting utilities after expansion")
	fmtCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	fmtCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

type fmtFileJSON struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Sites   int    `json:"sites"`
	Cached  bool   `json:"cached,omitempty"`
	Error   string `json:"error,omitempty"`
}

func runFmt(cmd *cobra.Command, args []string) error {
	flags := readFlags(cmd)
	check := flags.Bool("check")
	writeToStdout := flags.Bool("stdout")
	outputFormat := flags.String("format")
	merge := flags.Bool("merge")
	quiet := flags.Bool("quiet")
	switch {
	case flags.Err() != nil:
		return flags.Err()
	case writeToStdout && check:
		return errors.New("fmt: --stdout cannot be used with --check")
	case writeToStdout && outputFormat != "text":
		return errors.New("fmt: --stdout is only supported with text output")
	case outputFormat != "text" && outputFormat != "json":
		return fmt.Errorf("fmt: unsupported output format %q", outputFormat)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Output.Merge = cfg.Output.Merge || merge
	base, err := driverOptions(cmd, cfg)
	if err != nil {
		return err
	}
	opts := driver.FormatOptions{Options: base, Check: check, Stdout: writeToStdout}

	var result *driver.FormatResult
	err = withProgress(cmd, "uno fmt", func(sink pipeline.Sink) error {
		opts.Progress = sink
		var runErr error
		result, runErr = driver.FormatPaths(cmd.Context(), pathsOrDot(args), opts)
		return runErr
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case writeToStdout:
		renderFmtStdout(out, cmd.ErrOrStderr(), result)
	case outputFormat == "json":
		if err := renderFmtJSON(out, result); err != nil {
			return err
		}
	default:
		renderFmtText(out, cmd.ErrOrStderr(), result, check, quiet)
	}
	printTimings(cmd.ErrOrStderr(), opts.Timer)

	if len(result.Failed()) > 0 {
		return errors.New("fmt: failed to process some files")
	}
	if check && len(result.Changed()) > 0 {
		return errors.New("fmt: rewrites required")
	}
	return nil
}

func renderFmtStdout(out, errOut io.Writer, result *driver.FormatResult) {
	for _, res := range result.Files {
		if res.Err != nil {
			fmt.Fprintf(errOut, "fmt: %v\n", res.Err)
			continue
		}
		_, _ = out.Write(res.Formatted)
	}
}

func renderFmtText(out, errOut io.Writer, result *driver.FormatResult, check, quiet bool) {
	for _, res := range result.Files {
		if res.Err != nil {
			fmt.Fprintf(errOut, "fmt: %v\n", res.Err)
			continue
		}
		if !res.Changed || quiet {
			continue
		}
		if check {
			fmt.Fprintln(out, res.Path)
		} else {
			fmt.Fprintf(out, "rewrote %s\n", res.Path)
		}
	}
	if !quiet && !check {
		fmt.Fprintf(errOut, "%d file(s) checked, %d rewritten\n", len(result.Files), len(result.Changed()))
	}
}

func renderFmtJSON(out io.Writer, result *driver.FormatResult) error {
	files := make([]fmtFileJSON, 0, len(result.Files))
	for _, res := range result.Files {
		item := fmtFileJSON{Path: res.Path, Changed: res.Changed, Sites: res.Sites, Cached: res.Cached}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		files = append(files, item)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(files)
}
