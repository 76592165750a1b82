package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"taskml/internal/ast"
	"taskml/internal/diag"
	"taskml/internal/source"
)

// Current schema version - increment when CachePayload format changes
const cacheSchemaVersion uint16 = 1

// Digest identifies a cached parse.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache хранит результаты разбора на диске, ключ — хеш содержимого
// и опций. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is what a cache entry holds. Tokens are not stored.
type CachePayload struct {
	Schema   uint16
	Document *ast.Document
	Errors   []diag.Diagnostic
	Warnings []diag.Diagnostic
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app, falling back to
// ~/.cache/app.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate cache directory: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey hashes everything that influences a parse result: the content,
// the parse flags, the extra directive names and the context schema.
func CacheKey(content []byte, opts ParseOptions) Digest {
	h := sha256.New()
	fmt.Fprintf(h, "v%d strict=%t comments=%t check=%t max=%d\n",
		cacheSchemaVersion, opts.Strict, opts.PreserveComments, opts.Check, opts.MaxDiagnostics)
	known := slices.Clone(opts.KnownDirectives)
	slices.Sort(known)
	for _, name := range known {
		fmt.Fprintf(h, "directive=%s\n", name)
	}
	if opts.ContextSchema != nil {
		fmt.Fprintf(h, "schema=%s\n", opts.ContextSchema.Location)
	}
	h.Write(content)
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// подкаталог по первым двум символам, чтобы не раздувать один каталог
	return filepath.Join(c.dir, "parse", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *CachePayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = cacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a payload. Entries written by another schema version are
// reported as misses.
func (c *DiskCache) Get(key Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if out.Schema != cacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// payloadOf snapshots a parse result for storage.
func payloadOf(r *ParseResult) *CachePayload {
	return &CachePayload{
		Document: r.Document,
		Errors:   r.Errors,
		Warnings: r.Warnings,
	}
}

// resultOf rebuilds a ParseResult from a cached payload, pointing every
// diagnostic at file.
func resultOf(p *CachePayload, fs *source.FileSet, file *source.File) *ParseResult {
	return &ParseResult{
		Document: p.Document,
		Errors:   rebase(p.Errors, file.ID),
		Warnings: rebase(p.Warnings, file.ID),
		FileSet:  fs,
		File:     file,
	}
}

func rebase(ds []diag.Diagnostic, id source.FileID) []diag.Diagnostic {
	for i := range ds {
		ds[i].Primary.File = id
		for j := range ds[i].Notes {
			ds[i].Notes[j].Loc.Span.File = id
		}
	}
	return ds
}
