package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"uno/internal/classes"
	"uno/internal/variant"
)

var expandCmd = &cobra.Command{
	Use:   "expand [text...]",
	Short: "Expand variant groups in class strings",
	Long: `Expand every argument as one class string and print the result, one per
line. Without arguments every line of stdin is expanded on its own, so a
group spanning several lines stays unexpanded; pass --whole to read all of
stdin as one class string.`,
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().String("engine", "", "expansion engine (parser|pattern); default from uno.toml")
	expandCmd.Flags().Int("max-depth", 0, "pass ceiling for the pattern engine (0 = config)")
	expandCmd.Flags().Bool("merge", false, "resolve conflicting utilities after expansion")
	expandCmd.Flags().Bool("passes", false, "print every intermediate pass")
	expandCmd.Flags().String("format", "text", "output format (text|json)")
	expandCmd.Flags().Bool("whole", false, "expand all of stdin as one class string instead of line by line")
}

type expandResult struct {
	Input  string   `json:"input"`
	Output string   `json:"output"`
	Passes []string `json:"passes,omitempty"`
}

func runExpand(cmd *cobra.Command, args []string) error {
	flags := readFlags(cmd)
	engine := flags.String("engine")
	maxDepth := flags.Int("max-depth")
	merge := flags.Bool("merge")
	showPasses := flags.Bool("passes")
	format := flags.String("format")
	whole := flags.Bool("whole")
	if err := flags.Err(); err != nil {
		return err
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("expand: unsupported output format %q", format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := cfg.Options()
	if engine != "" {
		if opts.Engine, err = variant.ParseEngine(engine); err != nil {
			return err
		}
	}
	if maxDepth > 0 {
		opts.MaxDepth = maxDepth
	}
	merge = merge || cfg.Output.Merge

	inputs := args
	if len(inputs) == 0 {
		if inputs, err = readInputs(cmd.InOrStdin(), whole); err != nil {
			return fmt.Errorf("expand: read stdin: %w", err)
		}
	}

	results := make([]expandResult, 0, len(inputs))
	for _, in := range inputs {
		res := expandResult{Input: in}
		if merge {
			res.Output = classes.MergeWith(in, opts)
		} else {
			res.Output = variant.ExpandWith(in, opts)
		}
		if showPasses {
			res.Passes = variant.Passes(in, opts)
		}
		results = append(results, res)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, res := range results {
		if showPasses {
			for i, pass := range res.Passes {
				fmt.Fprintf(out, "pass %d: %s\n", i+1, pass)
			}
		}
		fmt.Fprintln(out, res.Output)
	}
	return nil
}

func readInputs(r io.Reader, whole bool) ([]string, error) {
	if !whole {
		return readLines(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return []string{string(data)}, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}
