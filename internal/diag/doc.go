// Package diag defines the diagnostic model shared by the extractor, the
// driver and the fix engine.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span of the offending class string.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// # Fix suggestions
//
// Fix carries a title, a kind, an applicability level and concrete TextEdit
// values. TextEdit.OldText is an optional guard the fix engine checks before
// it rewrites a span.
//
// # Emitting diagnostics
//
// Producers use a Reporter (usually BagReporter) or build a record with
// NewReportBuilder and call Emit. Bag supports sorting, merging and
// filtering.
//
// Package diag performs no formatting and no IO. Rendering lives in
// internal/diagfmt, applying fixes in internal/fix.
package diag
