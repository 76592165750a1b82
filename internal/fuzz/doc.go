// Package fuzztests houses Go fuzz harnesses that exercise the taskml
// pipeline (source -> lexer -> parser -> checks). Its goal is to smoke test
// robustness and guard against panics, hangs and broken token invariants
// on arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер/парсер/драйвер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/driver, internal/testkit.

package fuzztests
