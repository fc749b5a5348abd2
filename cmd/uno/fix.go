package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"uno/internal/driver"
	"uno/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [path...]",
	Short: "Apply suggested fixes to class strings",
	Long:  "Run diagnostics, surface available fixes, and apply them according to the chosen strategy.",
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("dry-run", false, "show what would change without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	flags := readFlags(cmd)
	applyAll := flags.Bool("all")
	applyOnce := flags.Bool("once")
	targetID := flags.String("id")
	dryRun := flags.Bool("dry-run")
	switch {
	case flags.Err() != nil:
		return flags.Err()
	case targetID != "" && (applyAll || applyOnce):
		return errors.New("--id cannot be combined with --all or --once")
	case applyAll && applyOnce:
		return errors.New("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	base, err := driverOptions(cmd, cfg)
	if err != nil {
		return err
	}
	// кэш пропускает только чистые файлы, фиксы он не теряет
	res, applyErr := driver.FixPaths(cmd.Context(), pathsOrDot(args), driver.DiagnoseOptions{Options: base},
		fix.ApplyOptions{Mode: mode, TargetID: targetID, DryRun: dryRun})
	printTimings(cmd.ErrOrStderr(), base.Timer)
	if res == nil {
		return fmt.Errorf("fix: %w", applyErr)
	}
	return handleApplyResult(cmd.OutOrStdout(), res.Apply, applyErr, dryRun)
}

// handleApplyResult prints what was (or would be) applied. ErrNoFixes
// with nothing applied is not a failure.
func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}
	verb, filesHeader := "Applied", "Updated files:"
	if dryRun {
		verb, filesHeader = "Would apply", "Files that would change:"
	}
	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			fmt.Fprintf(out, "  %s [%s] %s: %s (%d edits, %s)\n", item.Title, item.ID, item.Code.ID(),
				cmp.Or(item.PrimaryPath, "(unknown location)"), item.EditCount, item.Applicability)
		}
	}
	if len(res.FileChanges) > 0 {
		fmt.Fprintln(out, filesHeader)
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			label := "[" + cmp.Or(skip.ID, "(unnamed)") + "]"
			if skip.Title != "" {
				label = skip.Title + " " + label
			}
			fmt.Fprintf(out, "  %s: %s\n", label, skip.Reason)
		}
	}
	if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
		fmt.Fprintln(out, "No applicable fixes found.")
		return nil
	}
	return applyErr
}
