package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"uno/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "uno",
	Short: "Variant group expansion for utility-class strings",
	Long: `uno expands variant groups such as "hover:(bg-gray-400 font-medium)"
into plain utility classes, at runtime or by rewriting source files.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRoot,
	PersistentPostRun: func(*cobra.Command, []string) { shutdown() },
}

func init() {
	// Добавляем команды
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "path to uno.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the on-disk result cache")

	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")

	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
}

// main sets the version, runs the root command and exits with status 1 on
// any error.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Read().Version

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// PersistentPostRun не вызывается при ошибке
		dumpTrace()
		shutdown()
		os.Exit(1)
	}
}

func setupRoot(cmd *cobra.Command, _ []string) error {
	flags := readFlags(cmd)
	colorFlag := flags.String("color")
	if err := flags.Err(); err != nil {
		return err
	}
	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	if err := setupTracing(cmd); err != nil {
		return err
	}
	return setupProfiling(cmd)
}

// shutdown stops profilers and the tracer; safe to call twice.
func shutdown() {
	stopProfiling()
	closeTracing()
}

// useColor reports whether pretty output should be colored.
func useColor(cmd *cobra.Command) bool {
	colorFlag := readFlags(cmd).String("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
