// Package trace is the logging layer of uno.
//
// Events are emitted by the driver and the CLI and describe pipeline
// phases (collect, extract, expand, write) and per-file work.
//
// # Usage
//
//	uno fmt --trace=- --trace-level=detail ./web
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for dumps on failure
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only failure dumps
//   - LevelPhase: driver and phase boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: per-site events
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "extract", 0)
//	defer span.End("")
package trace
