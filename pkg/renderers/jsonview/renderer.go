// Package jsonview renders wizard snapshots as JSON documents for clients
// that drive the wizard themselves.
package jsonview

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-careassess/pkg/render"
	"github.com/goliatone/go-careassess/pkg/wizard"
)

// Name is the registry name of the JSON renderer.
const Name = "json"

// Document is the rendered payload.
type Document struct {
	Data   wizard.Snapshot     `json:"data"`
	Errors map[string][]string `json:"errors,omitempty"`
	Form   []string            `json:"form,omitempty"`
	LeadID string              `json:"leadId,omitempty"`
	Links  map[string]string   `json:"links,omitempty"`
}

type Option func(*Renderer)

// WithIndent pretty prints the output.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(ctx context.Context, snapshot wizard.Snapshot, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := Document{
		Data:   snapshot,
		Errors: options.Errors,
		Form:   render.MergeFormErrors(options.Form),
		LeadID: options.LeadID,
	}
	if options.Action != "" {
		doc.Links = map[string]string{"self": options.Action}
	}

	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonview: encode snapshot: %w", err)
	}
	return out, nil
}
