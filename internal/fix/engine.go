package fix

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"uno/internal/diag"
	"uno/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun computes results without writing files.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts, and applies them.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, skips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected, skips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, skips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	err := applyCandidates(fs, selected, opts.DryRun, result)
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates flattens fixes of all diagnostics. Fixes without edits
// and fixes repeating an already seen ID are skipped; missing IDs are
// synthesised from code, file, start and index.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var cands []candidate
	var skips []SkippedFix
	seen := make(map[string]bool)

	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if seen[f.ID] {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[f.ID] = true
			cands = append(cands, candidate{diag: d, fix: f, order: len(cands)})
		}
	}
	return cands, skips
}

// sortCandidates orders by primary span, then by the order diagnostics
// were reported; preferred fixes win ties.
func sortCandidates(candidates []candidate) {
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		pa, pb := a.diag.Primary, b.diag.Primary
		return cmp.Or(
			cmp.Compare(pa.File, pb.File),
			cmp.Compare(pa.Start, pb.Start),
			cmp.Compare(pa.End, pb.End),
			cmp.Compare(a.order, b.order),
			cmp.Compare(a.diag.Code, b.diag.Code),
			-boolCmp(a.fix.IsPreferred, b.fix.IsPreferred),
			cmp.Compare(a.fix.ID, b.fix.ID),
			cmp.Compare(a.fix.Title, b.fix.Title),
		)
	})
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

func skipped(c candidate, reason string) SkippedFix {
	return SkippedFix{ID: c.fix.ID, Title: c.fix.Title, Reason: reason}
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		return selectByID(candidates, opts.TargetID)
	case ApplyModeAll:
		return selectSafe(candidates)
	case ApplyModeOnce:
		return selectFirst(candidates)
	}
	return nil, nil
}

func selectByID(candidates []candidate, id string) ([]candidate, []SkippedFix) {
	i := slices.IndexFunc(candidates, func(c candidate) bool { return c.fix.ID == id })
	if i < 0 {
		return nil, []SkippedFix{{ID: id, Reason: "fix id not found"}}
	}
	return candidates[i : i+1], nil
}

// selectSafe keeps only always-safe fixes: dedup rewrites are heuristic
// and wait for an explicit --id.
func selectSafe(candidates []candidate) (selected []candidate, skips []SkippedFix) {
	for _, c := range candidates {
		if c.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
			selected = append(selected, c)
		} else {
			skips = append(skips, skipped(c, "applicability is "+c.fix.Applicability.String()))
		}
	}
	return selected, skips
}

// selectFirst picks the first always-safe fix, else the first fix at all.
func selectFirst(candidates []candidate) ([]candidate, []SkippedFix) {
	i := slices.IndexFunc(candidates, func(c candidate) bool {
		return c.fix.Applicability == diag.FixApplicabilityAlwaysSafe
	})
	if i < 0 {
		i = 0
	}
	return candidates[i : i+1], nil
}

// rejectReason checks cand against the file contents and the edits
// already accepted; "" means the fix can go in.
func rejectReason(fs *source.FileSet, cand candidate, accepted map[source.FileID][]diag.TextEdit, dryRun bool) string {
	for _, e := range cand.fix.Edits {
		file := fs.Get(e.Span.File)
		switch {
		case file.Flags&source.FileVirtual != 0 && !dryRun:
			return "target file is virtual"
		case slices.ContainsFunc(accepted[e.Span.File], func(prev diag.TextEdit) bool { return spansConflict(prev, e) }):
			return "conflicts with previously applied edits in " + file.FormatPath("auto", fs.BaseDir())
		case int(e.Span.End) > len(file.Content) || e.Span.Start > e.Span.End:
			return "edit span out of range"
		case e.OldText != "" && file.Text(e.Span) != e.OldText:
			// файл поменялся после diag
			return "existing text does not match expected content"
		}
	}
	return ""
}

func applyCandidates(fs *source.FileSet, selected []candidate, dryRun bool, result *ApplyResult) error {
	accepted := make(map[source.FileID][]diag.TextEdit)
	for _, cand := range selected {
		if reason := rejectReason(fs, cand, accepted, dryRun); reason != "" {
			result.Skipped = append(result.Skipped, skipped(cand, reason))
			continue
		}
		for _, e := range cand.fix.Edits {
			accepted[e.Span.File] = append(accepted[e.Span.File], e)
		}
		result.Applied = append(result.Applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			PrimaryPath:   fs.Get(cand.diag.Primary.File).FormatPath("auto", fs.BaseDir()),
			EditCount:     len(cand.fix.Edits),
		})
	}
	return writeChanges(fs, accepted, dryRun, result)
}

// writeChanges applies accepted edits file by file in FileID order.
func writeChanges(fs *source.FileSet, accepted map[source.FileID][]diag.TextEdit, dryRun bool, result *ApplyResult) error {
	for _, id := range slices.Sorted(maps.Keys(accepted)) {
		file := fs.Get(id)
		content, err := ApplyEdits(file.Content, accepted[id])
		if err != nil {
			return fmt.Errorf("%s: %w", file.Path, err)
		}
		result.FileChanges = append(result.FileChanges, FileChange{
			Path:      file.FormatPath("relative", fs.BaseDir()),
			EditCount: len(accepted[id]),
			Content:   content,
		})
		if dryRun {
			continue
		}
		out, err := file.Encode(content)
		if err != nil {
			return err
		}
		if err := source.WriteFile(file.Path, out); err != nil {
			return fmt.Errorf("write %s: %w", file.Path, err)
		}
	}
	return nil
}

// ApplyEdits returns content with all edits applied. Edits address the
// original content and must not overlap.
func ApplyEdits(content []byte, edits []diag.TextEdit) ([]byte, error) {
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b diag.TextEdit) int {
		return cmp.Or(cmp.Compare(a.Span.Start, b.Span.Start), cmp.Compare(a.Span.End, b.Span.End))
	})

	out := make([]byte, 0, len(content))
	pos := 0
	for _, e := range sorted {
		start, end := int(e.Span.Start), int(e.Span.End)
		if start < pos || end < start || end > len(content) {
			return nil, fmt.Errorf("edit %s overlaps or is out of range", e.Span)
		}
		if e.OldText != "" && string(content[start:end]) != e.OldText {
			return nil, fmt.Errorf("edit %s: existing text does not match", e.Span)
		}
		out = append(out, content[pos:start]...)
		out = append(out, e.NewText...)
		pos = end
	}
	return append(out, content[pos:]...), nil
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are half-open; two insertions at one point conflict because their
// order would be ambiguous.
func spansConflict(a, b diag.TextEdit) bool {
	as, ae, bs, be := a.Span.Start, a.Span.End, b.Span.Start, b.Span.End
	switch {
	case as == ae && bs == be:
		return as == bs
	case as == ae:
		return bs <= as && as < be
	case bs == be:
		return as <= bs && bs < ae
	}
	return as < be && bs < ae
}
