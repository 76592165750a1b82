// Package diag defines the diagnostic model shared by the lexer, parser and
// semantic pass.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     by each phase.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not perform any IO or terminal rendering. Rendering
// lives in internal/diagfmt; orchestration lives in internal/driver.
//
// # Codes
//
// Codes form a closed set grouped by stage:
//
//   - E1xx lexical (lexer)
//   - E2xx syntax (parser)
//   - E3xx semantic (internal/sema; E305 is emitted by the parser in strict mode)
//   - E4xx interchange (codecs, schema loading)
//   - E5xx renderer (external collaborators)
//
// Each code owns a message template with positional placeholders ({0},
// {1}, ...) and an optional canned suggestion. New builds a Diagnostic from
// the tables so producers only pass the arguments.
//
// # Emitting diagnostics
//
// Phases call Reporter.Report directly or chain a ReportBuilder
// (ReportError / ReportWarning / ReportInfo → WithNote → Emit).
// BagReporter aggregates into a Bag, which supports sorting, deduplication
// and error/warning splitting.
package diag
