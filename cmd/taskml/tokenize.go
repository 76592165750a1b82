package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"taskml/internal/diagfmt"
	"taskml/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.tm|->",
		Short: "Tokenize a task file",
		Long:  `Tokenize breaks a task file (or stdin with "-") down into its tokens`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("comments", false, "emit comment tokens")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	e, err := setup(cmd, filePath)
	if err != nil {
		return err
	}
	defer e.close()

	comments := e.cfg.Parse.PreserveComments
	if cmd.Flags().Changed("comments") {
		comments, _ = cmd.Flags().GetBool("comments")
	}

	// Выполняем токенизацию
	done := e.timer.Track("tokenize")
	var result *driver.TokenizeResult
	if filePath == "-" {
		content, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		result = driver.TokenizeSource("<stdin>", content, comments, e.maxDiag)
	} else {
		result, err = driver.Tokenize(filePath, comments, e.maxDiag)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
	}
	done(fmt.Sprintf("%d tokens", len(result.Tokens)))

	// Выводим диагностику в stderr, если есть
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		result.Bag.Sort()
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, e.prettyOpts(cmd.ErrOrStderr()))
	}

	// Выводим токены в выбранном формате
	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatTokensJSON(out, result.Tokens)
	} else {
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
