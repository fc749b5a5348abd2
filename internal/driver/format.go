package driver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"uno/internal/cache"
	"uno/internal/classes"
	"uno/internal/diag"
	"uno/internal/extract"
	"uno/internal/fix"
	"uno/internal/pipeline"
	"uno/internal/project"
	"uno/internal/source"
	"uno/internal/trace"
	"uno/internal/variant"
)

// FormatOptions configures FormatPaths.
type FormatOptions struct {
	Options
	// Check reports files that would change without writing them.
	Check bool
	// Stdout keeps rewritten bytes in FileResult.Formatted instead of
	// writing them.
	Stdout bool
}

// FormatResult is the outcome of FormatPaths, one entry per collected file.
type FormatResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Changed returns the files whose content differs after expansion.
func (r *FormatResult) Changed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Changed {
			out = append(out, f)
		}
	}
	return out
}

// Failed returns the files that could not be processed.
func (r *FormatResult) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// FormatPaths rewrites class strings in every file under paths to their
// expanded form. Per-file failures land in FileResult.Err; the returned
// error is reserved for collection failures and cancellation.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) (*FormatResult, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "fmt")
	defer span.End("")

	in, err := collectAndLoad(ctx, paths, opts.Options)
	if err != nil {
		return nil, err
	}
	result := &FormatResult{FileSet: in.fs, Files: make([]FileResult, len(in.files))}
	if len(in.files) == 0 {
		return result, nil
	}

	ex := newExtractors(extract.Config{
		Attributes: opts.Config.Scan.Attributes,
		Functions:  opts.Config.Scan.Functions,
	})
	fingerprint := opts.Config.Fingerprint()

	pctx, pspan := trace.BeginCtx(ctx, trace.ScopePhase, "process")
	idx := opts.Timer.Begin("process")
	g, gctx := errgroup.WithContext(pctx)
	g.SetLimit(opts.jobs(len(in.files)))
	for i := range in.files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file := in.fs.Get(in.ids[i])
			display := displayPath(opts.BaseDir, in.files[i])
			if in.loadErr[i] != nil {
				result.Files[i] = FileResult{Path: in.files[i], FileID: in.ids[i], Err: in.loadErr[i]}
				pipeline.Emit(opts.Progress, pipeline.Event{File: display, Stage: pipeline.StageRead, Status: pipeline.StatusError, Err: in.loadErr[i]})
				return nil
			}
			res := formatFile(gctx, file, ex, fingerprint, opts, display)
			res.Path = in.files[i]
			result.Files[i] = res
			opts.Timer.Track(idx, res.Elapsed)
			return nil
		})
	}
	err = g.Wait()
	opts.Timer.End(idx, fmt.Sprintf("%d changed", len(result.Changed())))
	pspan.End("")
	if err != nil {
		return result, err
	}
	return result, nil
}

func formatFile(ctx context.Context, file *source.File, ex *extractors, fingerprint project.Digest, opts FormatOptions, display string) FileResult {
	start := time.Now()
	ctx, span := trace.BeginCtx(ctx, trace.ScopeFile, file.Path)
	res := FileResult{FileID: file.ID}
	finish := func(status pipeline.Status, stage pipeline.Stage) FileResult {
		res.Elapsed = time.Since(start)
		span.WithExtra("sites", fmt.Sprint(res.Sites)).End(string(status))
		pipeline.Emit(opts.Progress, pipeline.Event{File: display, Stage: stage, Status: status, Err: res.Err, Elapsed: res.Elapsed})
		return res
	}

	key := cache.Key(file.Hash, fingerprint, "fmt")
	var payload cache.Payload
	// --stdout печатает каждый файл, кэш тут не помогает
	if hit, err := opts.Cache.Get(key, &payload); err == nil && hit && payload.Clean && !opts.Stdout {
		res.Sites = payload.Sites
		res.Cached = true
		return finish(pipeline.StatusCached, pipeline.StageRead)
	}

	pipeline.Emit(opts.Progress, pipeline.Event{File: display, Stage: pipeline.StageExtract, Status: pipeline.StatusWorking})
	sites, err := ex.extract(file)
	if err != nil {
		res.Err = err
		return finish(pipeline.StatusError, pipeline.StageExtract)
	}
	res.Sites = len(sites)

	pipeline.Emit(opts.Progress, pipeline.Event{File: display, Stage: pipeline.StageExpand, Status: pipeline.StatusWorking})
	edits := siteEdits(ctx, file, sites, opts.expandOptions(), opts.Config.Output.Merge)
	content := file.Content
	if len(edits) == 0 {
		storeClean(ctx, opts.Cache, key, file.Path, res.Sites)
		if !opts.Stdout {
			return finish(pipeline.StatusDone, pipeline.StageExpand)
		}
	} else {
		content, err = fix.ApplyEdits(file.Content, edits)
		if err != nil {
			res.Err = fmt.Errorf("%s: %w", file.Path, err)
			return finish(pipeline.StatusError, pipeline.StageExpand)
		}
		res.Changed = true
	}
	if opts.Check {
		return finish(pipeline.StatusDone, pipeline.StageExpand)
	}

	encoded, err := file.Encode(content)
	if err != nil {
		res.Err = err
		return finish(pipeline.StatusError, pipeline.StageWrite)
	}
	if opts.Stdout {
		res.Formatted = encoded
		return finish(pipeline.StatusDone, pipeline.StageExpand)
	}

	pipeline.Emit(opts.Progress, pipeline.Event{File: display, Stage: pipeline.StageWrite, Status: pipeline.StatusWorking})
	if err := source.WriteFile(file.Path, encoded); err != nil {
		res.Err = fmt.Errorf("write %s: %w", file.Path, err)
		return finish(pipeline.StatusError, pipeline.StageWrite)
	}
	// переписанный файл уже чистый: следующий прогон его пропустит
	cleanKey := cache.Key(sha256.Sum256(content), fingerprint, "fmt")
	storeClean(ctx, opts.Cache, cleanKey, file.Path, res.Sites)
	return finish(pipeline.StatusDone, pipeline.StageWrite)
}

// rewrite returns the new class string for value and whether the site
// should be rewritten. Sites whose only difference is whitespace are left
// alone so hand-wrapped attributes keep their layout.
func rewrite(value string, opts variant.Options, merge bool) (string, bool) {
	if merge {
		merged := classes.MergeWith(value, opts)
		return merged, merged != variant.Normalize(value)
	}
	if !variant.HasGroups(value) {
		return value, false
	}
	return variant.ExpandWith(value, opts), true
}

func siteEdits(ctx context.Context, file *source.File, sites []extract.Site, opts variant.Options, merge bool) []diag.TextEdit {
	tr, parent := trace.FromContext(ctx), trace.ParentID(ctx)
	var edits []diag.TextEdit
	for _, site := range sites {
		value, ok := rewrite(site.Value, opts, merge)
		if !ok {
			continue
		}
		trace.Point(tr, trace.ScopeSite, "rewrite", quoteClasses(site.Value)+" -> "+quoteClasses(value), parent)
		edits = append(edits, diag.TextEdit{
			Span:    site.Span,
			NewText: site.Render(value),
			OldText: file.Text(site.Span),
		})
	}
	return edits
}

// storeClean records a clean file; cache failures only cost a future miss.
func storeClean(ctx context.Context, c *cache.Disk, key project.Digest, path string, sites int) {
	if err := c.Put(key, &cache.Payload{Path: path, Sites: sites, Clean: true}); err != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache.put", err.Error(), trace.ParentID(ctx))
	}
}
