package driver

import (
	"context"

	"uno/internal/fix"
	"uno/internal/trace"
)

// FixResult pairs the diagnostics a fix run started from with what was
// applied.
type FixResult struct {
	Diagnose *DiagnoseResult
	Apply    *fix.ApplyResult
}

// FixPaths diagnoses paths and applies the selected fixes. It returns
// fix.ErrNoFixes when nothing could be applied.
func FixPaths(ctx context.Context, paths []string, opts DiagnoseOptions, apply fix.ApplyOptions) (*FixResult, error) {
	ctx, span := trace.BeginCtx(ctx, trace.ScopeDriver, "fix")
	defer span.End("")

	// лимит диагностик отрезал бы фиксы
	opts.MaxDiagnostics = 0
	diagRes, err := DiagnosePaths(ctx, paths, opts)
	if err != nil {
		return nil, err
	}
	res := &FixResult{Diagnose: diagRes}

	idx := opts.Timer.Begin("fix")
	res.Apply, err = fix.Apply(diagRes.FileSet, diagRes.Bag.Items(), apply)
	opts.Timer.End(idx, "")
	return res, err
}
