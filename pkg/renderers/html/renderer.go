// Package html renders wizard snapshots as full HTML pages using pongo2
// templates. Every page is a plain form that posts an "action" back to the
// wizard route, so the flow works without client-side scripting.
package html

import (
	"context"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-careassess/pkg/brand"
	"github.com/goliatone/go-careassess/pkg/render"
	rendertemplate "github.com/goliatone/go-careassess/pkg/render/template"
	"github.com/goliatone/go-careassess/pkg/render/template/gotemplate"
	"github.com/goliatone/go-careassess/pkg/wizard"
)

// Name is the registry name of the HTML renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk instead of the
// bundle. The directory must hold the full set, layout and partials included.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = path
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme sets the theme used when RenderOptions.Theme is nil.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     *theme.RendererConfig
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), theme: brand.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	engine := cfg.templateRenderer
	if engine == nil {
		source := gotemplate.WithFS(cfg.templateFS)
		if cfg.templatesDir != "" {
			source = gotemplate.WithBaseDir(cfg.templatesDir)
		}
		built, err := gotemplate.New(
			gotemplate.WithSetName(Name),
			source,
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		engine = built
	}
	return &Renderer{templates: engine, theme: cfg.theme}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, snapshot wizard.Snapshot, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := pageTemplate(snapshot.Phase)
	if err != nil {
		return nil, err
	}
	if options.Theme == nil {
		options.Theme = r.theme
	}

	result, err := r.templates.RenderTemplate(page, buildView(snapshot, options))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render %s: %w", page, err)
	}
	return []byte(result), nil
}

func pageTemplate(phase string) (string, error) {
	switch phase {
	case wizard.PhaseWelcome.String():
		return "welcome", nil
	case wizard.PhaseQuestioning.String():
		return "question", nil
	case wizard.PhaseContact.String():
		return "contact", nil
	case wizard.PhaseResults.String():
		return "results", nil
	default:
		return "", fmt.Errorf("html renderer: unknown phase %q", phase)
	}
}
