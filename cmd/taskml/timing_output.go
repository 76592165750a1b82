package main

import (
	"io"

	"taskml/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil || len(timer.Phases()) == 0 {
		return
	}
	io.WriteString(out, timer.Summary())
}
