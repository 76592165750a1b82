package parser

import (
	"encoding/json"
	"strings"

	"taskml/internal/ast"
	"taskml/internal/diag"
	"taskml/internal/token"
)

// parseView handles `---view:NAME key=value ...`.
func (p *Parser) parseView() {
	tok := p.peek()
	if tok.Value == "" {
		p.err(diag.SynMissingViewName)
		p.skipLine()
		return
	}
	p.advance()

	view := &ast.ViewConfig{
		Type:    tok.Value,
		Options: make(map[string]string),
		Line:    tok.Line,
	}
	for _, opt := range splitOptions(tok.Raw) {
		key, val, ok := strings.Cut(opt, "=")
		if !ok || key == "" {
			p.report(diag.SevError, diag.SynInvalidViewOption, tok, opt)
			continue
		}
		view.Options[key] = unquote(val)
	}
	p.doc.View = view
	p.skipLine()
}

// rawBlock collects the TEXT lines of a fenced block up to the closing
// fence (or EOF when the block is unterminated).
func (p *Parser) rawBlock() []token.Token {
	p.skipLine() // строка открывающего фенса
	var lines []token.Token
	for !p.at(token.EOF) {
		tok := p.advance()
		switch tok.Kind {
		case token.Fence:
			p.endLine()
			return lines
		case token.Text:
			lines = append(lines, tok)
		}
	}
	return lines
}

func joinLines(lines []token.Token) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Value
	}
	return strings.Join(parts, "\n")
}

// parseContext handles a ---context block. The body is decoded as a JSON
// object; otherwise it is kept verbatim under Data["raw"].
func (p *Parser) parseContext() {
	open := p.peek()
	raw := strings.TrimSpace(joinLines(p.rawBlock()))

	ctx := p.agentContext(open.Line)
	ctx.Line = open.Line
	ctx.Raw = raw
	if data, ok := decodeObject(raw); ok {
		ctx.Data = data
	} else {
		ctx.Data = map[string]any{"raw": raw}
	}
}

var handoffFields = map[string]bool{
	"from":    true,
	"to":      true,
	"reason":  true,
	"context": true,
}

// parseHandoff handles a ---handoff block of `field: value` lines. The
// context field may continue over the following lines and is decoded as
// JSON when possible.
func (p *Parser) parseHandoff() {
	open := p.peek()
	lines := p.rawBlock()

	h := &ast.HandoffInfo{Line: open.Line}
	var ctx []string
	field := ""
	for _, l := range lines {
		text := strings.TrimSpace(l.Value)
		key, val, isField := splitField(text)
		switch {
		case isField && handoffFields[key]:
			field = key
			p.setHandoffField(h, key, val, &ctx)
		case isField && field != "context":
			p.report(diag.SevWarning, diag.SynInvalidHandoffField, l, key)
			field = ""
		case field == "context":
			ctx = append(ctx, l.Value)
		case field != "":
			p.setHandoffField(h, field, text, &ctx)
		}
	}

	if len(ctx) > 0 {
		h.RawContext = strings.TrimSpace(strings.Join(ctx, "\n"))
		if data, ok := decodeObject(h.RawContext); ok {
			h.Context = data
		}
	}
	p.doc.Handoff = h
}

// setHandoffField assigns a field value; repeated or continuation lines
// are appended with a space.
func (p *Parser) setHandoffField(h *ast.HandoffInfo, key, val string, ctx *[]string) {
	appendTo := func(dst *string) {
		if *dst == "" {
			*dst = val
		} else if val != "" {
			*dst += " " + val
		}
	}
	switch key {
	case "from":
		appendTo(&h.From)
	case "to":
		appendTo(&h.To)
	case "reason":
		appendTo(&h.Reason)
	case "context":
		if val != "" {
			*ctx = append(*ctx, val)
		}
	}
}

// splitField splits `key: value` where key is a lowercase identifier.
func splitField(line string) (key, val string, ok bool) {
	key, val, ok = strings.Cut(line, ":")
	if !ok || key == "" {
		return "", "", false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '-') {
			return "", "", false
		}
	}
	return strings.ToLower(key), strings.TrimSpace(val), true
}

func decodeObject(raw string) (map[string]any, bool) {
	if raw == "" {
		return nil, false
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil || data == nil {
		return nil, false
	}
	return data, true
}

// splitOptions splits on blanks outside double quotes.
func splitOptions(s string) []string {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
