package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"taskml/internal/diagfmt"
	"taskml/internal/driver"
	"taskml/internal/version"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file.tm|directory>",
		Short: "Check task files and report diagnostics",
		Long:  `Check parses and semantically checks one task file or every *.tm/*.taskml file under a directory`,
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().Bool("cache", false, "reuse parse results from the disk cache")
	cmd.Flags().Bool("clear-cache", false, "drop the disk cache before checking")
	cmd.Flags().Bool("strict", false, "warn about metadata out of canonical order")
	cmd.Flags().String("schema", "", "JSON schema for ---context payloads")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	e, err := setup(cmd, target)
	if err != nil {
		return err
	}
	defer e.close()

	parseOpts, schemaDiag, err := e.parseOptions()
	if err != nil {
		return err
	}
	if schemaDiag != nil {
		return e.reportStandalone(*schemaDiag)
	}
	parseOpts.Check = true
	// таймер общий на все файлы, фазы по файлам не пишем
	parseOpts.Timer = nil

	opts := driver.CheckOptions{Parse: parseOpts, Jobs: e.cfg.Check.Jobs}
	if cmd.Flags().Changed("jobs") {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if opts.Cache, err = e.openCache(); err != nil {
		return err
	}

	baseDir, files, err := collectFiles(target)
	if err != nil {
		return err
	}
	e.logger.Info("checking", "files", len(files), "jobs", opts.Jobs, "cache", opts.Cache != nil)

	ctx := cmd.Context()
	start := time.Now()
	var result *driver.CheckResult
	if shouldUseTUI(mode, cmd.OutOrStdout(), len(files)) && !e.quiet {
		result, err = runCheckWithUI(ctx, cmd.OutOrStdout(), "checking "+target, baseDir, files, opts)
	} else {
		result, err = driver.CheckFiles(ctx, baseDir, files, opts)
	}
	if err != nil {
		dumpTrace(cmd, e.tracer)
		return fmt.Errorf("check failed: %w", err)
	}
	e.timer.Add("check", time.Since(start), fmt.Sprintf("%d files", len(files)))

	if err := e.writeCheckResult(cmd, format, result, args); err != nil {
		return err
	}
	if result.HasErrors() {
		return errDiagnostics
	}
	return nil
}

// collectFiles expands target into the files to check and the directory
// paths are reported against.
func collectFiles(target string) (string, []string, error) {
	st, err := os.Stat(target)
	if err != nil {
		return "", nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		return filepath.Dir(target), []string{target}, nil
	}
	files, err := driver.ListFiles(target)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list %s: %w", target, err)
	}
	return target, files, nil
}

func (e *env) openCache() (*driver.DiskCache, error) {
	flags := e.cmd.Flags()
	useCache := e.cfg.Check.Cache
	if flags.Changed("cache") {
		useCache, _ = flags.GetBool("cache")
	}
	clearCache, _ := flags.GetBool("clear-cache")
	if !useCache && !clearCache {
		return nil, nil
	}
	cache, err := driver.OpenDiskCache("taskml")
	if err != nil {
		return nil, err
	}
	if clearCache {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
		e.logger.Info("cache cleared", "dir", cache.Dir())
	}
	if !useCache {
		return nil, nil
	}
	return cache, nil
}

func (e *env) writeCheckResult(cmd *cobra.Command, format string, result *driver.CheckResult, args []string) error {
	out := cmd.OutOrStdout()
	bag := result.Bag()

	// нечитаемые файлы не имеют диагностик, печатаем их отдельно
	for _, f := range result.Files {
		if f.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", f.Err)
		}
	}

	switch format {
	case "json":
		return diagfmt.JSON(out, bag, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         e.pathMode,
			Max:              e.maxDiag,
			IncludeNotes:     true,
		})
	case "sarif":
		return diagfmt.Sarif(out, bag, result.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "taskml",
			ToolVersion:    version.Version,
			InvocationArgs: append([]string{"taskml", "check"}, args...),
		})
	case "short":
		diagfmt.Short(out, bag, result.FileSet, e.pathMode)
	default:
		if bag.Len() > 0 {
			diagfmt.Pretty(out, bag, result.FileSet, e.prettyOpts(out))
		}
	}

	if e.quiet || format == "json" || format == "sarif" {
		return nil
	}
	errs, warns := result.Counts()
	cached := 0
	for _, f := range result.Files {
		if f.Cached {
			cached++
		}
	}
	summary := fmt.Sprintf("checked %d file(s): %d error(s), %d warning(s)", len(result.Files), errs, warns)
	if cached > 0 {
		summary += fmt.Sprintf(", %d from cache", cached)
	}
	if format == "pretty" && bag.Len() > 0 {
		fmt.Fprintln(out)
	}
	_, err := fmt.Fprintln(out, summary)
	return err
}
