package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"taskml/internal/source"
	"taskml/internal/token"
)

type TokenOutput struct {
	Kind   string      `json:"kind"`
	Value  string      `json:"value,omitempty"`
	Raw    string      `json:"raw,omitempty"`
	Line   int         `json:"line"`
	Column int         `json:"column"`
	Span   source.Span `json:"span"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %-17s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Value != "" {
			fmt.Fprintf(w, " %q", tok.Value)
		}
		if tok.Raw != "" && tok.Raw != tok.Value {
			fmt.Fprintf(w, " raw=%q", tok.Raw)
		}

		if f := sourceFile(fs, tok.Span.File); f != nil {
			startPos, endPos := fs.Resolve(tok.Span)
			fmt.Fprintf(w, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		} else {
			fmt.Fprintf(w, " at %d:%d", tok.Line, tok.Column)
		}
		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind:   tok.Kind.String(),
			Value:  tok.Value,
			Line:   tok.Line,
			Column: tok.Column,
			Span:   tok.Span,
		}
		if tok.Raw != tok.Value {
			out.Raw = tok.Raw
		}
		output = append(output, out)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
