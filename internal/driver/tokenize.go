package driver

import (
	"fmt"

	"taskml/internal/diag"
	"taskml/internal/lexer"
	"taskml/internal/source"
	"taskml/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes the file at path. The bag holds lexical diagnostics only.
func Tokenize(path string, preserveComments bool, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return tokenizeFile(fs, fs.Get(fileID), preserveComments, maxDiagnostics), nil
}

// TokenizeString lexes text as an anonymous file.
func TokenizeString(text string, preserveComments bool, maxDiagnostics int) *TokenizeResult {
	return TokenizeSource("<input>", []byte(text), preserveComments, maxDiagnostics)
}

// TokenizeSource lexes content registered under name, e.g. "<stdin>".
func TokenizeSource(name string, content []byte, preserveComments bool, maxDiagnostics int) *TokenizeResult {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	return tokenizeFile(fs, fs.Get(id), preserveComments, maxDiagnostics)
}

func tokenizeFile(fs *source.FileSet, file *source.File, preserveComments bool, maxDiagnostics int) *TokenizeResult {
	bag := diag.NewBag(maxDiagnostics)
	res := lexer.TokenizeFile(file, lexer.Options{
		PreserveComments: preserveComments,
		Reporter:         diag.BagReporter{Bag: bag},
	})
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  res.Tokens,
		Bag:     bag,
	}
}
