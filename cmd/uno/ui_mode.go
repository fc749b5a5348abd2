package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"uno/internal/pipeline"
	"uno/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stderr) && isTerminal(os.Stdout)
	}
}

// withProgress runs work under the progress TUI on stderr, or directly
// when --ui, --quiet or the terminal rule it out.
func withProgress(cmd *cobra.Command, title string, work func(pipeline.Sink) error) error {
	flags := readFlags(cmd)
	value := flags.String("ui")
	quiet := flags.Bool("quiet")
	if err := flags.Err(); err != nil {
		return err
	}
	mode, err := readUIMode(value)
	if err != nil {
		return err
	}
	if quiet || !shouldUseTUI(mode) {
		return work(nil)
	}
	return ui.Run(cmd.ErrOrStderr(), title, work)
}
