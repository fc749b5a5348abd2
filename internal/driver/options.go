// Package driver runs uno over files and directories: it collects sources,
// extracts class sites, expands them and either rewrites the files (fmt) or
// reports diagnostics (diag).
package driver

import (
	"runtime"

	"uno/internal/cache"
	"uno/internal/observ"
	"uno/internal/pipeline"
	"uno/internal/project"
	"uno/internal/variant"
)

// Options is shared by FormatPaths and DiagnosePaths.
type Options struct {
	Config project.Config
	// Jobs caps parallel file workers; <= 0 means GOMAXPROCS.
	Jobs int
	// Cache skips files already known to be clean. nil disables it.
	Cache *cache.Disk
	// Progress receives per-file events. nil disables them.
	Progress pipeline.Sink
	// Timer collects phase durations for --timings. nil disables it.
	Timer *observ.Timer
	// BaseDir is the directory paths are displayed relative to.
	BaseDir string
}

func (o Options) jobs(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(min(jobs, files), 1)
}

func (o Options) expandOptions() variant.Options {
	return o.Config.Options()
}
