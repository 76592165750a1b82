package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"taskml/internal/diag"
	"taskml/internal/logging"
	"taskml/internal/source"
	"taskml/internal/trace"
)

// Extensions lists the file suffixes picked up by directory checks.
var Extensions = []string{".taskml", ".tm"}

// HasTaskExtension reports whether path looks like a task file.
func HasTaskExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(Extensions, ext)
}

// ListFiles возвращает отсортированный список всех файлов задач в директории.
// Hidden directories are skipped.
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if HasTaskExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// CheckOptions configure a multi-file check.
type CheckOptions struct {
	Parse ParseOptions
	// Jobs bounds concurrent parses; <= 0 means GOMAXPROCS.
	Jobs  int
	Cache *DiskCache
	Sink  ProgressSink
}

// FileResult is the outcome for one input file. Err is set when the file
// could not be read; Result is nil in that case.
type FileResult struct {
	Path   string
	Result *ParseResult
	Cached bool
	Err    error
}

// CheckResult holds per-file results in input order.
type CheckResult struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Counts sums errors and warnings over all files. Unreadable files count
// as one error each.
func (r *CheckResult) Counts() (errs, warns int) {
	for _, f := range r.Files {
		if f.Err != nil {
			errs++
			continue
		}
		errs += len(f.Result.Errors)
		warns += len(f.Result.Warnings)
	}
	return errs, warns
}

func (r *CheckResult) HasErrors() bool {
	errs, _ := r.Counts()
	return errs > 0
}

// Bag concatenates each file's sorted diagnostics in file order.
func (r *CheckResult) Bag() *diag.Bag {
	bag := diag.NewBag(0)
	for _, f := range r.Files {
		if f.Result != nil {
			bag.Merge(f.Result.Bag())
		}
	}
	return bag
}

// CheckDir checks every task file under dir.
func CheckDir(ctx context.Context, dir string, opts CheckOptions) (*CheckResult, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	logging.FromContext(ctx).Debug("files discovered", "dir", dir, "count", len(files))
	return CheckFiles(ctx, dir, files, opts)
}

// CheckFiles parses paths in parallel. Files are loaded up front into one
// FileSet rooted at baseDir; each worker owns its own lexer and parser.
func CheckFiles(ctx context.Context, baseDir string, paths []string, opts CheckOptions) (*CheckResult, error) {
	fileSet := source.NewFileSetWithBase(baseDir)
	res := &CheckResult{FileSet: fileSet, Files: make([]FileResult, len(paths))}
	if len(paths) == 0 {
		return res, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopeCommand, "check")
	defer span.End("")
	logger := logging.FromContext(ctx)

	fileIDs := make([]source.FileID, len(paths))
	for i, path := range paths {
		res.Files[i].Path = path
		emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			res.Files[i].Err = fmt.Errorf("failed to load %s: %w", path, err)
			continue
		}
		fileIDs[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i := range paths {
		if res.Files[i].Err != nil {
			emit(opts.Sink, Event{File: paths[i], Stage: StageLoad, Status: StatusError, Err: res.Files[i].Err})
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для горутины, мьютекс не нужен
			res.Files[i] = checkOne(gctx, fileSet, fileSet.Get(fileIDs[i]), paths[i], opts, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	errs, warns := res.Counts()
	span.WithExtra("files", fmt.Sprint(len(paths))).WithExtra("errors", fmt.Sprint(errs))
	emit(opts.Sink, Event{Stage: StageCheck, Status: StatusDone, Errors: errs, Warnings: warns})
	return res, nil
}

func checkOne(ctx context.Context, fileSet *source.FileSet, file *source.File, path string, opts CheckOptions, logger *log.Logger) FileResult {
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+path)
	defer span.End("")

	start := time.Now()
	emit(opts.Sink, Event{File: path, Stage: StageParse, Status: StatusWorking})

	var key Digest
	if opts.Cache != nil {
		key = CacheKey(file.Content, opts.Parse)
		var payload CachePayload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			logger.Warn("cache read failed", "file", path, "err", err)
		}
		if hit {
			logger.Debug("cache hit", "file", path, "key", key.String()[:12])
			r := resultOf(&payload, fileSet, file)
			emit(opts.Sink, doneEvent(path, r, true, time.Since(start)))
			return FileResult{Path: path, Result: r, Cached: true}
		}
		logger.Debug("cache miss", "file", path)
	}

	r := runPipeline(ctx, fileSet, file, opts.Parse)

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, payloadOf(r)); err != nil {
			logger.Warn("cache write failed", "file", path, "err", err)
		}
	}
	emit(opts.Sink, doneEvent(path, r, false, time.Since(start)))
	return FileResult{Path: path, Result: r}
}

func doneEvent(path string, r *ParseResult, cached bool, elapsed time.Duration) Event {
	status := StatusDone
	if len(r.Errors) > 0 {
		status = StatusError
	}
	return Event{
		File:     path,
		Stage:    StageCheck,
		Status:   status,
		Errors:   len(r.Errors),
		Warnings: len(r.Warnings),
		Cached:   cached,
		Elapsed:  elapsed,
	}
}
