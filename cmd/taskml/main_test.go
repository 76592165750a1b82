package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return runResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionJSON(t *testing.T) {
	r := run(t, "", "version", "--format", "json", "--hash")
	if r.err != nil {
		t.Fatal(r.err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(r.stdout), &payload); err != nil {
		t.Fatalf("bad json %q: %v", r.stdout, err)
	}
	if payload.Tool != "taskml" || payload.Version == "" || payload.GitCommit == "" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestVersionRejectsFormat(t *testing.T) {
	if r := run(t, "", "version", "--format", "xml"); r.err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTokenizeFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.tm", "[ ] Ship it #p1\n")
	r := run(t, "", "tokenize", path)
	if r.err != nil {
		t.Fatalf("%v\n%s", r.err, r.stderr)
	}
	for _, want := range []string{"StatusPending", `Text`, `Priority`, `"1"`, "Newline"} {
		if !strings.Contains(r.stdout, want) {
			t.Errorf("output missing %q:\n%s", want, r.stdout)
		}
	}
}

func TestTokenizeStdinJSON(t *testing.T) {
	r := run(t, "[x] done\n", "tokenize", "--format", "json", "-")
	if r.err != nil {
		t.Fatalf("%v\n%s", r.err, r.stderr)
	}
	var toks []map[string]any
	if err := json.Unmarshal([]byte(r.stdout), &toks); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(toks) == 0 || toks[0]["kind"] != "StatusCompleted" {
		t.Errorf("first token = %v", toks[0])
	}
}

func TestTokenizeReportsLexErrors(t *testing.T) {
	r := run(t, "[ ] a ~3w\n", "tokenize", "-")
	if !errors.Is(r.err, errDiagnostics) {
		t.Fatalf("err = %v", r.err)
	}
	if !strings.Contains(r.stderr, "error[E104]") {
		t.Errorf("stderr = %q", r.stderr)
	}
}

func TestParseTree(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plan.tm", "@project Demo\n[ ] a ^a\n  [x] b\n")
	r := run(t, "", "parse", path)
	if r.err != nil {
		t.Fatalf("%v\n%s", r.err, r.stderr)
	}
	if !strings.HasPrefix(r.stdout, "Document v") || !strings.Contains(r.stdout, "Task[0]") {
		t.Errorf("tree:\n%s", r.stdout)
	}
}

func TestParseJSONFromStdin(t *testing.T) {
	r := run(t, "[~] build ^b #p2\n", "parse", "--format", "json", "-")
	if r.err != nil {
		t.Fatalf("%v\n%s", r.err, r.stderr)
	}
	var doc struct {
		Tasks []struct {
			Description string `json:"description"`
			ID          string `json:"id"`
			Priority    int    `json:"priority"`
		} `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(r.stdout), &doc); err != nil {
		t.Fatalf("bad json: %v\n%s", err, r.stdout)
	}
	if len(doc.Tasks) != 1 || doc.Tasks[0].ID != "b" || doc.Tasks[0].Priority != 2 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestParseErrorsExitNonZero(t *testing.T) {
	r := run(t, "oops\n[ ] fine\n", "parse", "--format", "none", "-")
	if !errors.Is(r.err, errDiagnostics) {
		t.Fatalf("err = %v", r.err)
	}
	if !strings.Contains(r.stderr, "error[E200]") {
		t.Errorf("stderr = %q", r.stderr)
	}
	if r.stdout != "" {
		t.Errorf("format none printed %q", r.stdout)
	}
}

func TestParseStrictAndCheck(t *testing.T) {
	r := run(t, "[ ] a ~2h #p0\n", "parse", "--strict", "--format", "none", "-")
	if r.err != nil {
		t.Fatalf("warnings must not fail: %v", r.err)
	}
	if !strings.Contains(r.stderr, "warning[E305]") {
		t.Errorf("stderr = %q", r.stderr)
	}

	r = run(t, "[ ] a ^x\n[ ] b ^x\n", "parse", "--check", "--format", "none", "-")
	if !errors.Is(r.err, errDiagnostics) || !strings.Contains(r.stderr, "E301") {
		t.Errorf("duplicate id: err=%v stderr=%q", r.err, r.stderr)
	}
}

func TestCheckDirectoryShort(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.tm", "[ ] fine ^fine\n")
	writeFile(t, dir, "nested/bad.taskml", "oops\n[ ] ok\n  depends: ^ghost\n")
	writeFile(t, dir, "README.md", "# not a task file\n")

	r := run(t, "", "check", "--ui", "off", "--format", "short", "--path-mode", "relative", dir)
	if !errors.Is(r.err, errDiagnostics) {
		t.Fatalf("err = %v\n%s", r.err, r.stderr)
	}
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("output:\n%s", r.stdout)
	}
	if !strings.HasPrefix(lines[0], filepath.Join("nested", "bad.taskml")+":1:1: error[E200]") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "warning[E302]") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if lines[2] != "checked 2 file(s): 1 error(s), 1 warning(s)" {
		t.Errorf("summary = %q", lines[2])
	}
}

func TestCheckCleanFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ok.tm", "[ ] a\n  [x] b\n")
	r := run(t, "", "check", path)
	if r.err != nil {
		t.Fatalf("%v\n%s", r.err, r.stderr)
	}
	if strings.TrimSpace(r.stdout) != "checked 1 file(s): 0 error(s), 0 warning(s)" {
		t.Errorf("stdout = %q", r.stdout)
	}
}

func TestCheckSarif(t *testing.T) {
	path := writeFile(t, t.TempDir(), "x.tm", "nope\n")
	r := run(t, "", "check", "--format", "sarif", path)
	if !errors.Is(r.err, errDiagnostics) {
		t.Fatalf("err = %v", r.err)
	}
	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(r.stdout), &log); err != nil {
		t.Fatalf("bad sarif: %v\n%s", err, r.stdout)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 || len(log.Runs[0].Results) != 1 || log.Runs[0].Results[0].RuleID != "E200" {
		t.Errorf("sarif = %+v", log)
	}
}

func TestCheckUsesConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "taskml.toml", "[directives]\nknown = [\"milestone\"]\n\n[parse]\nstrict = true\n")
	path := writeFile(t, dir, "plan.tm", "@milestone M1\n[ ] a ~2h #p0\n")

	r := run(t, "", "check", "--format", "short", path)
	if r.err != nil {
		t.Fatalf("%v\n%s", r.err, r.stderr)
	}
	if strings.Contains(r.stdout, "E300") {
		t.Errorf("known directive reported:\n%s", r.stdout)
	}
	if !strings.Contains(r.stdout, "warning[E305]") {
		t.Errorf("strict from config not applied:\n%s", r.stdout)
	}
}

func TestCheckBadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "taskml.toml", "[diagnostics]\ncolour = \"on\"\n")
	path := writeFile(t, dir, "plan.tm", "[ ] a\n")
	r := run(t, "", "check", path)
	if r.err == nil || errors.Is(r.err, errDiagnostics) {
		t.Fatalf("expected config error, got %v", r.err)
	}
	if !strings.Contains(r.err.Error(), "unknown keys") {
		t.Errorf("err = %v", r.err)
	}
}

func TestCheckMissingSchema(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plan.tm", "[ ] a\n")
	r := run(t, "", "check", "--schema", filepath.Join(t.TempDir(), "nope.json"), path)
	if !errors.Is(r.err, errDiagnostics) {
		t.Fatalf("err = %v", r.err)
	}
	if !strings.Contains(r.stderr, "E401") {
		t.Errorf("stderr = %q", r.stderr)
	}
}

func TestCheckCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := writeFile(t, t.TempDir(), "plan.tm", "[ ] a ^a\n")

	if r := run(t, "", "check", "--cache", path); r.err != nil {
		t.Fatalf("%v\n%s", r.err, r.stderr)
	}
	r := run(t, "", "check", "--cache", path)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if !strings.Contains(r.stdout, "1 from cache") {
		t.Errorf("stdout = %q", r.stdout)
	}

	r = run(t, "", "check", "--cache", "--clear-cache", path)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if strings.Contains(r.stdout, "from cache") {
		t.Errorf("cache not cleared: %q", r.stdout)
	}
}

func TestTimingsAndTrace(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plan.tm", "[ ] a\n")
	r := run(t, "", "parse", "--format", "none", "--timings", "--trace", "-", "--trace-level", "phase", path)
	if r.err != nil {
		t.Fatalf("%v\n%s", r.err, r.stderr)
	}
	for _, want := range []string{"timings:", "lex", "parse", "total"} {
		if !strings.Contains(r.stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, r.stderr)
		}
	}
}

func TestUnknownFormats(t *testing.T) {
	cases := [][]string{
		{"tokenize", "--format", "yaml", "-"},
		{"parse", "--format", "yaml", "-"},
		{"check", "--format", "yaml", "."},
		{"check", "--ui", "sometimes", "."},
	}
	for _, args := range cases {
		if r := run(t, "", args...); r.err == nil || errors.Is(r.err, errDiagnostics) {
			t.Errorf("%v: err = %v", args, r.err)
		}
	}
}

func TestProfileFlags(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "plan.tm", "[ ] a\n")
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")
	r := run(t, "", "check", "--cpu-profile", cpu, "--mem-profile", mem, path)
	if r.err != nil {
		t.Fatalf("%v\n%s", r.err, r.stderr)
	}
	for _, p := range []string{cpu, mem} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("profile not written: %v", err)
		}
	}
}
