package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"uno/internal/diag"
	"uno/internal/diagfmt"
	"uno/internal/driver"
	"uno/internal/pipeline"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [path...]",
	Short: "Report malformed or expandable variant groups",
	Long: `Inspect every class string found under the given paths and report
unclosed or empty groups, stray parentheses, groups that can be expanded and
classes duplicated by expansion.`,
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	diagCmd.Flags().Bool("no-warnings", false, "only report errors")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "preview fix edits (implies --suggest)")
	diagCmd.Flags().String("path-mode", "auto", "how to print paths (auto|relative|absolute|basename)")
	diagCmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
}

// runDiagnose returns an error when any reported diagnostic is an error,
// so the process exits non-zero.
func runDiagnose(cmd *cobra.Command, args []string) error {
	flags := readFlags(cmd)
	format := flags.String("format")
	maxDiagnostics := flags.Int("max-diagnostics")
	noWarnings := flags.Bool("no-warnings")
	warningsAsErrors := flags.Bool("warnings-as-errors")
	withNotes := flags.Bool("with-notes")
	preview := flags.Bool("preview")
	showFixes := flags.Bool("suggest") || preview
	pathModeStr := flags.String("path-mode")
	if err := flags.Err(); err != nil {
		return err
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if noWarnings && warningsAsErrors {
		return errors.New("no-warnings and warnings-as-errors flags cannot be used together")
	}
	pathMode, err := diagfmt.ParsePathMode(pathModeStr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base, err := driverOptions(cmd, cfg)
	if err != nil {
		return err
	}
	opts := driver.DiagnoseOptions{Options: base, MaxDiagnostics: maxDiagnostics}

	var result *driver.DiagnoseResult
	err = withProgress(cmd, "uno diag", func(sink pipeline.Sink) error {
		opts.Progress = sink
		var runErr error
		result, runErr = driver.DiagnosePaths(cmd.Context(), pathsOrDot(args), opts)
		return runErr
	})
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	adjustSeverities(result.Bag, noWarnings, warningsAsErrors)

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		diagfmt.Pretty(out, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:       useColor(cmd),
			Context:     1,
			PathMode:    pathMode,
			ShowNotes:   withNotes,
			ShowFixes:   showFixes,
			ShowPreview: preview,
		})
	case "short":
		if err := diagfmt.Short(out, result.Bag, result.FileSet, withNotes); err != nil {
			return err
		}
	case "json":
		err := diagfmt.JSON(out, result.Bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  preview,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	printTimings(cmd.ErrOrStderr(), opts.Timer)
	if format != "json" && !flags.Bool("quiet") {
		printDiagSummary(cmd.ErrOrStderr(), result)
	}

	if result.Bag.HasErrors() {
		return errors.New("diag: errors found")
	}
	return nil
}

// adjustSeverities applies --no-warnings and --warnings-as-errors.
func adjustSeverities(bag *diag.Bag, noWarnings, warningsAsErrors bool) {
	if noWarnings {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity >= diag.SevError })
	}
	if warningsAsErrors {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}
}

func printDiagSummary(out io.Writer, result *driver.DiagnoseResult) {
	bag := result.Bag
	if bag.Len() == 0 {
		fmt.Fprintf(out, "%d file(s) checked, no findings\n", len(result.Files))
		return
	}
	fmt.Fprintf(out, "%d file(s) checked: %d error(s), %d warning(s), %d info\n", len(result.Files),
		bag.Count(diag.SevError), bag.Count(diag.SevWarning), bag.Count(diag.SevInfo))
}
