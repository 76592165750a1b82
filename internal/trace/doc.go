// Package trace records what taskml is doing while it runs.
//
// Tracing is off unless --trace is given:
//
//	taskml check --trace=- --trace-level=detail plans/
//
// # Tracers
//
//   - Nop: disabled tracing, zero overhead
//   - StreamTracer: writes each event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only crash dumps from the ring
//   - LevelPhase: command and lex/parse/sema boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything
//
// Tracers travel with the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "parse", 0)
//	defer span.End("")
package trace
