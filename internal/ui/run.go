package ui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"uno/internal/pipeline"
)

// Run shows the progress model on out while work runs with a sink feeding
// it. It returns work's error, or the UI error when rendering failed.
func Run(out io.Writer, title string, work func(pipeline.Sink) error) error {
	events := make(chan pipeline.Event, 256)
	errCh := make(chan error, 1)

	go func() {
		err := work(pipeline.ChannelSink{Ch: events})
		close(events)
		errCh <- err
	}()

	program := tea.NewProgram(NewProgressModel(title, events), tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	// модель могла выйти раньше, не даём работе зависнуть на канале
	for range events {
	}
	err := <-errCh
	if uiErr != nil {
		return uiErr
	}
	return err
}
