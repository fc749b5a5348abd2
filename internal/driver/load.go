package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"uno/internal/extract"
	"uno/internal/pipeline"
	"uno/internal/source"
	"uno/internal/trace"
)

// FileResult is the outcome for one file. Err is per file: one unreadable
// file never aborts the run.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Sites   int
	Changed bool
	Cached  bool
	Err     error
	// Formatted holds the rewritten bytes when fmt ran with Stdout.
	Formatted []byte
	Elapsed   time.Duration
}

// loaded is the read phase output shared by fmt and diag.
type loaded struct {
	fs      *source.FileSet
	files   []string
	ids     []source.FileID
	loadErr []error
}

func displayPath(baseDir, path string) string {
	if baseDir == "" {
		return path
	}
	if rel, err := source.RelativePath(path, baseDir); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// collectAndLoad runs the collect and read phases. Files are loaded
// sequentially because FileSet is not safe for concurrent Add.
func collectAndLoad(ctx context.Context, paths []string, opts Options) (*loaded, error) {
	_, span := trace.BeginCtx(ctx, trace.ScopePhase, "collect")
	idx := opts.Timer.Begin("collect")
	files, err := CollectFiles(paths, opts.Config)
	opts.Timer.End(idx, fmt.Sprintf("%d files", len(files)))
	span.End(fmt.Sprintf("%d files", len(files)))
	if err != nil {
		return nil, err
	}

	display := make([]string, len(files))
	for i, f := range files {
		display[i] = displayPath(opts.BaseDir, f)
	}
	pipeline.Queue(opts.Progress, display)

	_, span = trace.BeginCtx(ctx, trace.ScopePhase, "read")
	idx = opts.Timer.Begin("read")
	fs := source.NewFileSet()
	if opts.BaseDir != "" {
		fs.SetBaseDir(opts.BaseDir)
	}
	out := &loaded{
		fs:      fs,
		files:   files,
		ids:     make([]source.FileID, len(files)),
		loadErr: make([]error, len(files)),
	}
	for i, path := range files {
		pipeline.Emit(opts.Progress, pipeline.Event{File: display[i], Stage: pipeline.StageRead, Status: pipeline.StatusWorking})
		id, err := fs.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы диагностике было куда указать
			id = fs.Add(path, nil, source.FileVirtual)
			out.loadErr[i] = err
		}
		out.ids[i] = id
	}
	opts.Timer.End(idx, "")
	span.End("")
	return out, nil
}

// extractors hands every worker its own Extractor; the automaton inside is
// not safe for concurrent use.
type extractors struct {
	pool sync.Pool
}

func newExtractors(cfg extract.Config) *extractors {
	return &extractors{pool: sync.Pool{New: func() any { return extract.New(cfg) }}}
}

func (e *extractors) extract(f *source.File) ([]extract.Site, error) {
	x, ok := e.pool.Get().(*extract.Extractor)
	if !ok {
		return nil, fmt.Errorf("extractor pool returned %T", x)
	}
	defer e.pool.Put(x)
	return x.Extract(f)
}
