package openapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// Schema names referenced by the API handlers.
const (
	SchemaAnswers     = "Answers"
	SchemaLeadRequest = "LeadRequest"
)

//go:embed careassess.yaml
var embedded []byte

// Raw returns a copy of the embedded YAML document.
func Raw() []byte {
	return append([]byte(nil), embedded...)
}

// Document is a loaded and validated API contract.
type Document struct {
	spec *openapi3.T
	json []byte
}

var (
	defaultOnce sync.Once
	defaultDoc  *Document
	defaultErr  error
)

// Default returns the embedded document, loading it on first use.
func Default() (*Document, error) {
	defaultOnce.Do(func() {
		defaultDoc, defaultErr = Load(context.Background(), embedded)
	})
	return defaultDoc, defaultErr
}

// Load parses and validates raw (YAML or JSON).
func Load(ctx context.Context, raw []byte) (*Document, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := spec.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	encoded, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode document: %w", err)
	}
	return &Document{spec: spec, json: encoded}, nil
}

// JSON returns the document encoded as JSON.
func (d *Document) JSON() []byte {
	return append([]byte(nil), d.json...)
}

// Title is the info.title of the document.
func (d *Document) Title() string {
	if d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// OperationIDs lists every operationId keyed by "METHOD path".
func (d *Document) OperationIDs() map[string]string {
	out := make(map[string]string)
	if d.spec.Paths == nil {
		return out
	}
	for path, item := range d.spec.Paths.Map() {
		for method, op := range item.Operations() {
			out[method+" "+path] = op.OperationID
		}
	}
	return out
}

func (d *Document) schema(name string) (*openapi3.Schema, error) {
	if d.spec.Components == nil {
		return nil, fmt.Errorf("openapi: schema %q not found", name)
	}
	ref, ok := d.spec.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: schema %q not found", name)
	}
	return ref.Value, nil
}
