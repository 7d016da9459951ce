package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/goliatone/go-careassess/pkg/render"
	"github.com/goliatone/go-careassess/pkg/wizard"
)

// RendererName is the registry name of the terminal renderer.
const RendererName = "terminal"

// StyleAuto picks a dark or light style from the terminal background.
const StyleAuto = "auto"

// Renderer turns snapshots into terminal text through glamour. The default
// "notty" style emits plain text, which is also what HTTP clients asking for
// text/plain receive.
type Renderer struct {
	style string
	width int
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithStyle selects a glamour standard style ("dark", "light", "notty", ...)
// or StyleAuto.
func WithStyle(style string) RendererOption {
	return func(r *Renderer) {
		if style != "" {
			r.style = style
		}
	}
}

// WithWordWrap sets the wrap width.
func WithWordWrap(width int) RendererOption {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

var _ render.Renderer = (*Renderer)(nil)

func NewRenderer(options ...RendererOption) *Renderer {
	r := &Renderer{style: "notty", width: 80}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return RendererName
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, snapshot wizard.Snapshot, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	md, err := Markdown(snapshot, options)
	if err != nil {
		return nil, err
	}

	style := glamour.WithStandardStyle(r.style)
	if r.style == StyleAuto {
		style = glamour.WithAutoStyle()
	}
	term, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(r.width))
	if err != nil {
		return nil, fmt.Errorf("tui: configure markdown renderer: %w", err)
	}
	out, err := term.Render(md)
	if err != nil {
		return nil, fmt.Errorf("tui: render markdown: %w", err)
	}
	return []byte(out), nil
}
