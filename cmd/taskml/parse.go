package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"taskml/internal/diagfmt"
	"taskml/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.tm|->",
		Short: "Parse a task file and print its document tree",
		Long:  `Parse builds the document of a task file (or stdin with "-") and prints it as a tree or JSON`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "tree", "output format (tree|json|none)")
	cmd.Flags().Bool("strict", false, "warn about metadata out of canonical order")
	cmd.Flags().Bool("check", false, "also run semantic checks")
	cmd.Flags().String("schema", "", "JSON schema for ---context payloads")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "tree", "json", "none":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}

	e, err := setup(cmd, filePath)
	if err != nil {
		return err
	}
	defer e.close()

	opts, schemaDiag, err := e.parseOptions()
	if err != nil {
		return err
	}
	if schemaDiag != nil {
		return e.reportStandalone(*schemaDiag)
	}
	opts.Check = check || opts.ContextSchema != nil

	var result *driver.ParseResult
	if filePath == "-" {
		content, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		result = driver.ParseSource(cmd.Context(), "<stdin>", content, opts)
	} else {
		result, err = driver.ParseFile(cmd.Context(), filePath, opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
	}

	bag := result.Bag()
	if bag.Len() > 0 {
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, result.FileSet, e.prettyOpts(cmd.ErrOrStderr()))
	}
	if result.Document == nil {
		dumpTrace(cmd, e.tracer)
		return errDiagnostics
	}

	out := cmd.OutOrStdout()
	switch format {
	case "tree":
		err = diagfmt.FormatDocumentTree(out, result.Document)
	case "json":
		err = diagfmt.FormatDocumentJSON(out, result.Document)
	}
	if err != nil {
		return err
	}
	if !result.OK() {
		return errDiagnostics
	}
	return nil
}
