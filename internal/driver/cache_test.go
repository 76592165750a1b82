package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheKey(t *testing.T) {
	content := []byte("[ ] a\n")
	base := CacheKey(content, ParseOptions{})
	if base != CacheKey(content, ParseOptions{}) {
		t.Fatal("key must be deterministic")
	}
	if base == CacheKey(content, ParseOptions{Strict: true}) {
		t.Error("strict flag must change the key")
	}
	if base == CacheKey([]byte("[ ] b\n"), ParseOptions{}) {
		t.Error("content must change the key")
	}
	a := CacheKey(content, ParseOptions{KnownDirectives: []string{"x", "y"}})
	b := CacheKey(content, ParseOptions{KnownDirectives: []string{"y", "x"}})
	if a != b {
		t.Error("directive order must not matter")
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	res := ParseString("[~] build ^b #p1\n  ✓ compiles\n  evidence: ci\nbad line\n", ParseOptions{})
	key := CacheKey([]byte("k"), ParseOptions{})

	var miss CachePayload
	if hit, err := cache.Get(key, &miss); hit || err != nil {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}
	if err := cache.Put(key, payloadOf(res)); err != nil {
		t.Fatal(err)
	}

	var got CachePayload
	hit, err := cache.Get(key, &got)
	if err != nil || !hit {
		t.Fatalf("expected hit: %v", err)
	}
	task := got.Document.Tasks[0]
	if task.Description != "build" || task.ID != "b" || *task.Priority != 1 {
		t.Errorf("task = %+v", task)
	}
	if len(task.Criteria) != 1 || task.Criteria[0].Evidence != "ci" {
		t.Errorf("criteria = %+v", task.Criteria)
	}
	if len(got.Errors) != len(res.Errors) || got.Errors[0].Code != res.Errors[0].Code {
		t.Errorf("errors = %+v", got.Errors)
	}
}

func TestDiskCacheSchemaMismatch(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey([]byte("x"), ParseOptions{})
	if err := cache.Put(key, &CachePayload{}); err != nil {
		t.Fatal(err)
	}
	// перезаписываем файл мусором
	if err := os.WriteFile(cache.pathFor(key), []byte{0xc1}, 0o644); err != nil {
		t.Fatal(err)
	}
	var p CachePayload
	if hit, err := cache.Get(key, &p); hit || err == nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestCheckFilesUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.tm")
	if err := os.WriteFile(path, []byte("[ ] a ^a\n[ ] b ^a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cache, err := NewDiskCache(filepath.Join(dir, ".cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := CheckOptions{Parse: ParseOptions{Check: true}, Cache: cache}

	first, err := CheckFiles(context.Background(), dir, []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Files[0].Cached {
		t.Fatal("first run cannot be cached")
	}
	second, err := CheckFiles(context.Background(), dir, []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	f := second.Files[0]
	if !f.Cached {
		t.Fatal("second run should hit the cache")
	}
	if len(f.Result.Errors) != 1 || f.Result.Errors[0].Code != first.Files[0].Result.Errors[0].Code {
		t.Errorf("cached errors = %+v", f.Result.Errors)
	}
	if f.Result.Tokens != nil {
		t.Error("cached results carry no tokens")
	}
	if len(f.Result.Document.Tasks) != 2 {
		t.Errorf("tasks = %d", len(f.Result.Document.Tasks))
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	third, err := CheckFiles(context.Background(), dir, []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Files[0].Cached {
		t.Error("DropAll must invalidate entries")
	}
}
