package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestRead_LdflagsWin(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	Version = " 1.2.3 "
	GitCommit = "abc123def4567890"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Read()
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.GitCommit != "abc123def4567890" || info.ShortCommit() != "abc123def456" {
		t.Errorf("commit = %q / %q", info.GitCommit, info.ShortCommit())
	}
	if info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q", info.BuildDate)
	}
}

func TestRead_EmptyVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = ""
	if got := Read().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })
	color.NoColor = true

	tests := map[string]string{
		"0.1.0-dev":  "0.1.0-dev",
		"1.2.3":      "1.2.3",
		"1.0.0-rc.1": "1.0.0-rc.1",
		"nightly":    "nightly",
		"1.2":        "1.2",
	}
	for in, want := range tests {
		if got := Colored(in); got != want {
			t.Errorf("Colored(%q) = %q, want %q", in, got, want)
		}
	}

	color.NoColor = false
	if got := Colored("1.2.3"); got == "1.2.3" {
		t.Error("expected escape codes with colors enabled")
	}
}
