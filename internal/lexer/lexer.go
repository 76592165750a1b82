package lexer

import (
	"taskml/internal/diag"
	"taskml/internal/source"
	"taskml/internal/token"
)

type blockKind uint8

const (
	blockNone blockKind = iota
	blockContext
	blockHandoff
)

func (b blockKind) String() string {
	switch b {
	case blockContext:
		return "context"
	case blockHandoff:
		return "handoff"
	default:
		return ""
	}
}

// Lexer turns a normalized source file into a token stream. Work is done one
// physical line at a time; Next drains the tokens of the current line before
// scanning the following one.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	queue []token.Token // токены текущей строки, ещё не отданные
	head  int
	done  bool // EOF выдан

	indents []int // стек отступов, всегда начинается с 0

	// raw block state (---context / ---handoff)
	block     blockKind
	blockOpen source.Span

	// per-line state
	lineStart uint32
	content   uint32 // offset of first non-blank byte of the line
	emitted   int    // significant tokens emitted on the line
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:    file,
		cursor:  NewCursor(file),
		opts:    opts,
		indents: []int{0},
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	for lx.head >= len(lx.queue) {
		if lx.done {
			return lx.eofToken()
		}
		lx.queue = lx.queue[:0]
		lx.head = 0
		if lx.cursor.EOF() {
			lx.finish()
			continue
		}
		lx.scanLine()
	}
	tok := lx.queue[lx.head]
	lx.head++
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.head < len(lx.queue) {
		return lx.queue[lx.head]
	}
	tok := lx.Next()
	lx.head--
	return tok
}

// Result is the outcome of Tokenize.
type Result struct {
	Tokens []token.Token
	Errors []diag.Diagnostic
}

// Tokenize lexes input as an anonymous in-memory file. Diagnostics are
// collected into Result.Errors and also forwarded to opts.Reporter when set.
func Tokenize(input string, opts Options) Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<input>", []byte(input))
	return TokenizeFile(fs.Get(id), opts)
}

// TokenizeFile lexes an already loaded file until EOF.
func TokenizeFile(file *source.File, opts Options) Result {
	bag := diag.NewBag(0)
	fwd := opts.Reporter
	opts.Reporter = teeReporter{bag: bag, next: fwd}

	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return Result{Tokens: toks, Errors: bag.Items()}
}

type teeReporter struct {
	bag  *diag.Bag
	next diag.Reporter
}

func (t teeReporter) Report(d diag.Diagnostic) {
	t.bag.Add(d)
	if t.next != nil {
		t.next.Report(d)
	}
}

// finish closes an open raw block and unwinds the indentation stack.
func (lx *Lexer) finish() {
	if lx.block != blockNone {
		lx.errLex(diag.LexUnterminatedBlock, lx.blockOpen, lx.block.String())
		lx.block = blockNone
	}
	end := lx.emptySpan()
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.push(token.Dedent, "", "", end)
	}
	lx.push(token.EOF, "", "", end)
	lx.done = true
}

func (lx *Lexer) eofToken() token.Token {
	return lx.makeToken(token.EOF, "", "", lx.emptySpan())
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) makeToken(kind token.Kind, value, raw string, sp source.Span) token.Token {
	pos := lx.file.Position(sp.Start)
	return token.Token{
		Kind:   kind,
		Value:  value,
		Raw:    raw,
		Line:   int(pos.Line),
		Column: int(pos.Col),
		Span:   sp,
	}
}

func (lx *Lexer) push(kind token.Kind, value, raw string, sp source.Span) {
	lx.queue = append(lx.queue, lx.makeToken(kind, value, raw, sp))
}

// emit queues a significant token of the current line.
func (lx *Lexer) emit(kind token.Kind, value, raw string, sp source.Span) {
	lx.push(kind, value, raw, sp)
	lx.emitted++
}
