package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"

	"taskml/internal/config"
	"taskml/internal/diag"
	"taskml/internal/diagfmt"
	"taskml/internal/driver"
	"taskml/internal/logging"
	"taskml/internal/observ"
	"taskml/internal/prof"
	"taskml/internal/sema"
	"taskml/internal/trace"
)

// env is the per-invocation state shared by all commands: resolved
// settings, logger, tracer and timer.
type env struct {
	cmd      *cobra.Command
	cfg      config.Config
	logger   *log.Logger
	tracer   trace.Tracer
	profile  *prof.Session
	timer    *observ.Timer
	color    string
	quiet    bool
	timings  bool
	maxDiag  int
	context  int8
	pathMode diagfmt.PathMode
}

// setup resolves configuration for target (a file, directory or "-") and
// wires logging and tracing into cmd's context. Callers must defer close.
func setup(cmd *cobra.Command, target string) (*env, error) {
	flags := cmd.Flags()
	e := &env{cmd: cmd, timer: observ.NewTimer()}

	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	e.logger = logger

	cfg, err := loadConfig(cmd, target, logger)
	if err != nil {
		return nil, err
	}
	e.cfg = cfg

	if e.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if e.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	colorMode := cfg.Diagnostics.Color
	if flags.Changed("color") {
		colorMode, _ = flags.GetString("color")
	}
	switch colorMode {
	case config.ColorOn, config.ColorOff, config.ColorAuto:
		e.color = colorMode
	default:
		return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}
	color.NoColor = !e.useColor(cmd.OutOrStdout())

	e.maxDiag = 100
	if cfg.Diagnostics.Max > 0 {
		e.maxDiag = cfg.Diagnostics.Max
	}
	if flags.Changed("max-diagnostics") {
		if e.maxDiag, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if e.context, err = safecast.Conv[int8](cfg.Diagnostics.Context); err != nil {
		return nil, fmt.Errorf("[diagnostics].context: %w", err)
	}

	modeStr, _ := flags.GetString("path-mode")
	mode, ok := diagfmt.ParsePathMode(modeStr)
	if !ok {
		return nil, fmt.Errorf("invalid --path-mode value %q", modeStr)
	}
	e.pathMode = mode

	tracer, err := newTracer(cmd)
	if err != nil {
		return nil, err
	}
	e.tracer = tracer

	var profOpts prof.Options
	profOpts.CPU, _ = flags.GetString("cpu-profile")
	profOpts.Mem, _ = flags.GetString("mem-profile")
	profOpts.Trace, _ = flags.GetString("runtime-trace")
	if profOpts.Enabled() {
		if e.profile, err = prof.Start(profOpts); err != nil {
			closeTracer(cmd, tracer)
			return nil, err
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)
	ctx = trace.WithTracer(ctx, tracer)
	cmd.SetContext(ctx)
	return e, nil
}

func newLogger(cmd *cobra.Command) (*log.Logger, error) {
	levelStr, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	formatStr, _ := cmd.Flags().GetString("log-format")
	formatter, err := logging.ParseFormatter(formatStr)
	if err != nil {
		return nil, err
	}
	opts := logging.DefaultOptions()
	opts.Level = level
	opts.Formatter = formatter
	return logging.New(cmd.ErrOrStderr(), opts), nil
}

func loadConfig(cmd *cobra.Command, target string, logger *log.Logger) (config.Config, error) {
	if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
		cfg, err := config.LoadFile(explicit)
		if err != nil {
			return config.Config{}, err
		}
		logger.Debug("config loaded", "path", cfg.Path)
		return cfg, nil
	}

	startDir := "."
	if target != "" && target != "-" {
		startDir = target
		if st, err := os.Stat(target); err == nil && !st.IsDir() {
			startDir = filepath.Dir(target)
		}
	}
	cfg, found, err := config.Load(startDir)
	if err != nil {
		return config.Config{}, err
	}
	if found {
		logger.Debug("config loaded", "path", cfg.Path)
	} else {
		logger.Debug("no config found, using defaults", "start", startDir)
	}
	return cfg, nil
}

// parseOptions merges config values with the command's --strict flag.
func (e *env) parseOptions() (driver.ParseOptions, *diag.Diagnostic, error) {
	opts := driver.ParseOptions{
		Strict:           e.cfg.Parse.Strict,
		PreserveComments: e.cfg.Parse.PreserveComments,
		MaxDiagnostics:   e.maxDiag,
		KnownDirectives:  e.cfg.Directives.Known,
	}
	if f := e.cmd.Flags().Lookup("strict"); f != nil && f.Changed {
		strict, err := e.cmd.Flags().GetBool("strict")
		if err != nil {
			return opts, nil, fmt.Errorf("failed to get strict flag: %w", err)
		}
		opts.Strict = strict
	}
	if e.timings {
		opts.Timer = e.timer
	}

	schemaPath := e.cfg.SchemaPath()
	if f := e.cmd.Flags().Lookup("schema"); f != nil && f.Changed {
		schemaPath = f.Value.String()
	}
	if schemaPath != "" {
		schema, loadDiag := loadSchema(schemaPath)
		if loadDiag != nil {
			return opts, loadDiag, nil
		}
		opts.ContextSchema = schema
		e.logger.Debug("context schema compiled", "path", schemaPath)
	}
	return opts, nil, nil
}

func loadSchema(path string) (*jsonschema.Schema, *diag.Diagnostic) {
	schema, err := sema.LoadSchema(path)
	if err != nil {
		d := sema.SchemaLoadDiagnostic(path, err)
		return nil, &d
	}
	return schema, nil
}

// useColor resolves the color mode for output written to w.
func (e *env) useColor(w io.Writer) bool {
	switch e.color {
	case config.ColorOn:
		return true
	case config.ColorOff:
		return false
	default:
		return isTerminal(w)
	}
}

func (e *env) prettyOpts(w io.Writer) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     e.useColor(w),
		Context:   e.context,
		PathMode:  e.pathMode,
		ShowNotes: true,
	}
}

// reportStandalone prints a diagnostic that belongs to no file.
func (e *env) reportStandalone(d diag.Diagnostic) error {
	bag := diag.NewBag(1)
	bag.Add(d)
	diagfmt.Pretty(e.cmd.ErrOrStderr(), bag, nil, e.prettyOpts(e.cmd.ErrOrStderr()))
	return errDiagnostics
}

func (e *env) close() {
	if e == nil {
		return
	}
	if e.timings && !e.quiet {
		printTimings(e.cmd.ErrOrStderr(), e.timer)
	}
	if err := e.profile.Stop(); err != nil {
		e.logger.Error("profiling failed", "err", err)
	}
	closeTracer(e.cmd, e.tracer)
}
