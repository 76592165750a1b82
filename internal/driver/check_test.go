package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"taskml/internal/driver"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

var sampleTree = map[string]string{
	"a.tm":          "[ ] alpha ^a\n",
	"sub/b.taskml":  "oops\n[ ] beta ^b\n  depends: ^zzz\n",
	".hidden/c.tm":  "[ ] hidden\n",
	"notes.txt":     "not a task file\n",
	"sub/deep/d.TM": "[x] delta\n",
}

func TestListFiles(t *testing.T) {
	root := writeTree(t, sampleTree)
	files, err := driver.ListFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "a.tm"),
		filepath.Join(root, "sub", "b.taskml"),
		filepath.Join(root, "sub", "deep", "d.TM"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v", files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestCheckDir(t *testing.T) {
	root := writeTree(t, sampleTree)

	var mu sync.Mutex
	var events []driver.Event
	sink := driver.SinkFunc(func(e driver.Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	res, err := driver.CheckDir(context.Background(), root, driver.CheckOptions{
		Parse: driver.ParseOptions{Check: true},
		Jobs:  2,
		Sink:  sink,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 3 {
		t.Fatalf("files = %d", len(res.Files))
	}
	errs, warns := res.Counts()
	if errs != 1 || warns != 1 {
		t.Errorf("counts = %d errors, %d warnings", errs, warns)
	}
	if !res.HasErrors() {
		t.Error("HasErrors should be true")
	}

	b := res.Files[1]
	if codes(b.Result.Errors) != "E200" || codes(b.Result.Warnings) != "E302" {
		t.Errorf("b.taskml: %s / %s", codes(b.Result.Errors), codes(b.Result.Warnings))
	}
	if got := res.FileSet.Get(b.Result.Errors[0].Primary.File).Path; filepath.Base(got) != "b.taskml" {
		t.Errorf("diagnostic points at %q", got)
	}
	if res.Bag().Len() != 2 {
		t.Errorf("bag len = %d", res.Bag().Len())
	}

	var final *driver.Event
	for i := range events {
		if events[i].File == "" {
			final = &events[i]
		}
	}
	if final == nil || final.Status != driver.StatusDone || final.Errors != 1 {
		t.Errorf("missing summary event: %+v", final)
	}
}

func TestCheckFilesUnreadable(t *testing.T) {
	root := writeTree(t, map[string]string{"ok.tm": "[ ] fine\n"})
	paths := []string{filepath.Join(root, "ok.tm"), filepath.Join(root, "gone.tm")}
	res, err := driver.CheckFiles(context.Background(), root, paths, driver.CheckOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Files[1].Err == nil || res.Files[1].Result != nil {
		t.Fatalf("unreadable file: %+v", res.Files[1])
	}
	if errs, _ := res.Counts(); errs != 1 {
		t.Errorf("errors = %d", errs)
	}
}

func TestCheckFilesCancelled(t *testing.T) {
	root := writeTree(t, sampleTree)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.CheckDir(ctx, root, driver.CheckOptions{Jobs: 1})
	if err == nil {
		t.Error("expected context error")
	}
}

func TestCheckEmptyDir(t *testing.T) {
	res, err := driver.CheckDir(context.Background(), t.TempDir(), driver.CheckOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 0 || res.HasErrors() {
		t.Errorf("unexpected result: %+v", res)
	}
}
