// Package token defines lexical token kinds for the task markup.
// Invariants:
//   - Token.Value holds the semantic payload (tag name without '#', priority
//     digit, date, id without '^'); Token.Raw holds directive payloads and
//     view options.
//   - Line and Column are 1-based; Column counts bytes from line start.
//   - Every Indent is balanced by exactly one Dedent before EOF.
//   - Status and criterion markers are closed sets; Status/CriterionStatus
//     map them with exhaustive switches.
package token
