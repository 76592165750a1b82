package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withPlainColors(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func override(t *testing.T, v, commit, msg, date string) {
	t.Helper()
	origVersion, origCommit, origMsg, origDate := Version, GitCommit, GitMessage, BuildDate
	Version, GitCommit, GitMessage, BuildDate = v, commit, msg, date
	t.Cleanup(func() {
		Version, GitCommit, GitMessage, BuildDate = origVersion, origCommit, origMsg, origDate
	})
}

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored_Plain(t *testing.T) {
	withPlainColors(t)
	cases := []string{"0.1.0", "1.2.3-rc.1+build.123", "2.0.0+meta", "weird"}
	for _, v := range cases {
		override(t, v, "", "", "")
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestColored_ForcedColor(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = orig })

	override(t, "1.2.3-dev", "", "", "")
	got := Colored()
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI escapes in %q", got)
	}
	if !strings.HasSuffix(got, "-dev") {
		t.Errorf("pre-release suffix lost: %q", got)
	}
}

func TestInfo(t *testing.T) {
	withPlainColors(t)

	override(t, "1.0.0", "", "", "")
	if got := Info(); got != "taskml 1.0.0\n" {
		t.Errorf("Info() = %q", got)
	}

	override(t, "1.0.0", "abc123", "fix lexer", "2026-01-15T10:30:00Z")
	want := "taskml 1.0.0\ncommit: abc123 (fix lexer)\nbuilt:  2026-01-15T10:30:00Z\n"
	if got := Info(); got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
}
