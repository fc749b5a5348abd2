package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
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

// DiagnoseOptions configures DiagnosePaths.
type DiagnoseOptions struct {
	Options
	// MaxDiagnostics caps the merged bag; <= 0 means no limit.
	MaxDiagnostics int
}

// DiagnoseResult holds the findings of DiagnosePaths. Bag is sorted by
// file and position.
type DiagnoseResult struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	Files   []FileResult
}

// DiagnosePaths inspects every class string under paths and reports
// malformed groups, expandable groups and duplicate classes.
func DiagnosePaths(ctx context.Context, paths []string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "diag")
	defer span.End("")

	in, err := collectAndLoad(ctx, paths, opts.Options)
	if err != nil {
		return nil, err
	}
	result := &DiagnoseResult{
		FileSet: in.fs,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Files:   make([]FileResult, len(in.files)),
	}
	if len(in.files) == 0 {
		return result, nil
	}

	ex := newExtractors(extract.Config{
		Attributes: opts.Config.Scan.Attributes,
		Functions:  opts.Config.Scan.Functions,
	})
	fingerprint := opts.Config.Fingerprint()
	bags := make([]*diag.Bag, len(in.files))

	pctx, pspan := trace.BeginCtx(ctx, trace.ScopePhase, "process")
	idx := opts.Timer.Begin("process")
	g, gctx := errgroup.WithContext(pctx)
	g.SetLimit(opts.jobs(len(in.files)))
	for i := range in.files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// у каждого файла свой bag, сливаем по порядку после Wait
			bag := diag.NewBag(opts.MaxDiagnostics)
			bags[i] = bag
			file := in.fs.Get(in.ids[i])
			display := displayPath(opts.BaseDir, in.files[i])
			if in.loadErr[i] != nil {
				bag.Add(diag.NewError(diag.IOReadFailed, source.Span{File: file.ID},
					fmt.Sprintf("cannot read %s: %v", display, in.loadErr[i])))
				result.Files[i] = FileResult{Path: in.files[i], FileID: in.ids[i], Err: in.loadErr[i]}
				pipeline.Emit(opts.Progress, pipeline.Event{File: display, Stage: pipeline.StageRead, Status: pipeline.StatusError, Err: in.loadErr[i]})
				return nil
			}
			res := diagnoseFile(gctx, file, ex, fingerprint, opts, bag, display)
			res.Path = in.files[i]
			result.Files[i] = res
			opts.Timer.Track(idx, res.Elapsed)
			return nil
		})
	}
	err = g.Wait()

	dropped := 0
	for _, bag := range bags {
		dropped += result.Bag.Merge(bag)
	}
	if dropped > 0 {
		trace.Point(trace.FromContext(ctx), trace.ScopePhase, "limit", fmt.Sprintf("%d diagnostics dropped", dropped), pspan.ID())
	}
	result.Bag.Sort()
	opts.Timer.End(idx, fmt.Sprintf("%d diagnostics", result.Bag.Len()))
	pspan.End("")
	if err != nil {
		return result, err
	}
	return result, nil
}

func diagnoseFile(ctx context.Context, file *source.File, ex *extractors, fingerprint project.Digest, opts DiagnoseOptions, bag *diag.Bag, display string) FileResult {
	start := time.Now()
	ctx, span := trace.BeginCtx(ctx, trace.ScopeFile, file.Path)
	res := FileResult{FileID: file.ID}
	finish := func(status pipeline.Status, stage pipeline.Stage) FileResult {
		res.Elapsed = time.Since(start)
		span.WithExtra("diagnostics", fmt.Sprint(bag.Len())).End(string(status))
		pipeline.Emit(opts.Progress, pipeline.Event{File: display, Stage: stage, Status: status, Err: res.Err, Elapsed: res.Elapsed})
		return res
	}

	key := cache.Key(file.Hash, fingerprint, "diag")
	var payload cache.Payload
	if hit, err := opts.Cache.Get(key, &payload); err == nil && hit && payload.Clean {
		res.Sites = payload.Sites
		res.Cached = true
		return finish(pipeline.StatusCached, pipeline.StageRead)
	}

	pipeline.Emit(opts.Progress, pipeline.Event{File: display, Stage: pipeline.StageExtract, Status: pipeline.StatusWorking})
	sites, err := ex.extract(file)
	if err != nil {
		res.Err = err
		code := diag.IOExtractFailed
		if errors.Is(err, extract.ErrUnsupported) {
			code = diag.IOUnsupportedFile
		}
		bag.Add(diag.NewError(code, source.Span{File: file.ID}, err.Error()))
		return finish(pipeline.StatusError, pipeline.StageExtract)
	}
	res.Sites = len(sites)

	pipeline.Emit(opts.Progress, pipeline.Event{File: display, Stage: pipeline.StageExpand, Status: pipeline.StatusWorking})
	reporter := &diag.BagReporter{Bag: bag}
	expandOpts := opts.expandOptions()
	tr, parent := trace.FromContext(ctx), trace.ParentID(ctx)
	for _, site := range sites {
		if ctx.Err() != nil {
			break
		}
		before := bag.Len()
		diagnoseSite(reporter, file, site, expandOpts)
		if n := bag.Len() - before; n > 0 {
			trace.Point(tr, trace.ScopeSite, "site", fmt.Sprintf("%s: %d finding(s)", quoteClasses(site.Value), n), parent)
		}
	}

	if bag.Len() == 0 {
		storeClean(ctx, opts.Cache, key, file.Path, res.Sites)
	}
	return finish(pipeline.StatusDone, pipeline.StageExpand)
}

// diagnoseSite reports everything wrong or improvable about one class string.
func diagnoseSite(r diag.Reporter, file *source.File, site extract.Site, opts variant.Options) {
	issues := variant.Inspect(site.Value)
	closeFix, hasCloseFix := closeGroupsFix(site, issues)
	for _, issue := range issues {
		b := diag.ReportWarning(r, issueCode(issue.Kind), site.ValueSpan(issue.Start, issue.End), issue.Message())
		if issue.Kind == variant.IssueUnclosedGroup && hasCloseFix {
			b.WithFixSuggestion(closeFix)
			hasCloseFix = false // одна правка на строку, у первой группы
		}
		b.Emit()
	}

	oldText := file.Text(site.Span)
	expanded := variant.ExpandWith(site.Value, opts)
	if variant.HasGroups(site.Value) {
		diag.ReportInfo(r, diag.StyleExpandable, site.Span, "variant group can be expanded").
			WithNote(site.Span, "expands to "+quoteClasses(expanded)).
			WithFixSuggestion(fix.ExpandGroups(site.Span, oldText, site.Render(expanded))).
			Emit()
	}

	if dups := classes.Duplicates(expanded); len(dups) > 0 {
		msg := fmt.Sprintf("duplicate class %s after expansion", quoteClasses(strings.Join(dups, " ")))
		if len(dups) > 1 {
			msg = fmt.Sprintf("duplicate classes %s after expansion", quoteClasses(strings.Join(dups, " ")))
		}
		diag.ReportWarning(r, diag.StyleDuplicateClass, site.Span, msg).
			WithFixSuggestion(fix.ReplaceSpan("remove duplicate classes", site.Span,
				site.Render(classes.Dedup(expanded)), oldText,
				fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
				fix.WithID(fmt.Sprintf("dedup-%d-%d", site.Span.File, site.Span.Start)),
			)).
			Emit()
	}
}

// closeGroupsFix appends the missing ')' at the end of the class string.
// Only offered when the value maps byte for byte onto the source and no
// bracket is left open, since the ')' would land inside it.
func closeGroupsFix(site extract.Site, issues []variant.Issue) (diag.Fix, bool) {
	open := 0
	for _, issue := range issues {
		switch issue.Kind {
		case variant.IssueUnclosedGroup:
			open++
		case variant.IssueUnclosedBracket:
			return diag.Fix{}, false
		}
	}
	end := site.ValueSpan(len(site.Value), len(site.Value))
	if open == 0 || !end.Empty() {
		return diag.Fix{}, false
	}
	return fix.InsertText("close variant group", end, strings.Repeat(")", open),
		fix.WithApplicability(diag.FixApplicabilityManualReview),
		fix.WithID(fmt.Sprintf("close-%d-%d", site.Span.File, site.Span.Start)),
	), true
}

func issueCode(kind variant.IssueKind) diag.Code {
	switch kind {
	case variant.IssueUnclosedGroup:
		return diag.GroupUnclosed
	case variant.IssueEmptyGroup:
		return diag.GroupEmpty
	case variant.IssueStrayParen:
		return diag.GroupStrayParen
	case variant.IssueUnclosedBracket:
		return diag.GroupUnclosedBracket
	}
	return diag.GroupInfo
}

func quoteClasses(s string) string {
	return "'" + runewidth.Truncate(s, 80, "...") + "'"
}
