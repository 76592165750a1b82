package sema

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"taskml/internal/diag"
)

// LoadSchema compiles the JSON schema at path.
func LoadSchema(path string) (*jsonschema.Schema, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// CompileSchema compiles an in-memory schema document registered under url.
func CompileSchema(url, doc string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(url, strings.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// SchemaLoadDiagnostic wraps a LoadSchema failure as E401.
func SchemaLoadDiagnostic(path string, err error) diag.Diagnostic {
	return diag.NewError(diag.InterSchemaLoad, diag.Location{}, path, err)
}

func (c *checker) checkContext() {
	ctx := c.doc.AgentContext
	if ctx == nil || ctx.Raw == "" {
		return
	}
	if _, isRaw := ctx.Data["raw"]; isRaw && looksLikeJSON(ctx.Raw) {
		if err := jsonError(ctx.Raw); err != nil {
			c.warnf(diag.InterInvalidJSON, ctx.Line, "context block", err)
			return
		}
	}
	if c.opts.ContextSchema == nil {
		return
	}
	if err := c.opts.ContextSchema.Validate(any(ctx.Data)); err != nil {
		for _, msg := range schemaMessages(err) {
			c.errorf(diag.SemaContextSchema, ctx.Line, msg)
		}
	}
}

func (c *checker) checkHandoff() {
	h := c.doc.Handoff
	if h == nil || h.Context != nil || !looksLikeJSON(h.RawContext) {
		return
	}
	if err := jsonError(h.RawContext); err != nil {
		c.warnf(diag.InterInvalidJSON, h.Line, "handoff context", err)
	}
}

func looksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

func jsonError(raw string) error {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return err
	}
	if _, ok := v.(map[string]any); !ok {
		return errors.New("expected a JSON object")
	}
	return nil
}

// schemaMessages flattens a validation error into leaf messages prefixed
// with their instance path.
func schemaMessages(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	var collect func(e *jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := strings.TrimPrefix(e.InstanceLocation, "#")
			if loc == "" {
				loc = "/"
			}
			out = append(out, loc+": "+e.Message)
			return
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(ve)
	return out
}
