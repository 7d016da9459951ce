package assessment

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/brand"
	"github.com/goliatone/go-careassess/pkg/lead"
	"github.com/goliatone/go-careassess/pkg/openapi"
	"github.com/goliatone/go-careassess/pkg/render"
	"github.com/goliatone/go-careassess/pkg/renderers/html"
	"github.com/goliatone/go-careassess/pkg/renderers/jsonview"
	"github.com/goliatone/go-careassess/pkg/renderers/tui"
	"github.com/goliatone/go-careassess/pkg/session"
)

// Component bundles the wizard page handler, the JSON API and their
// collaborators.
type Component struct {
	opts  Options
	pages *pageHandler
	api   *apiHandler
}

// New constructs a component. Collaborators left nil get working defaults:
// the embedded catalog, an in-memory session store, a lead service backed by
// an in-memory repository, and the html/json/terminal renderers.
func New(fns ...OptionFn) (*Component, error) {
	opts, err := resolve(NewOptions(fns...))
	if err != nil {
		return nil, err
	}
	return &Component{
		opts:  opts,
		pages: &pageHandler{opts: opts},
		api:   &apiHandler{opts: opts},
	}, nil
}

// DefaultRenderers registers html (the fallback), json and terminal.
func DefaultRenderers(htmlOpts ...html.Option) (*render.Registry, error) {
	page, err := html.New(htmlOpts...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	for _, renderer := range []render.Renderer{page, jsonview.New(), tui.NewRenderer()} {
		if err := registry.Register(renderer); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func resolve(opts Options) (Options, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Catalog == nil {
		catalog, err := assessment.DefaultCatalog()
		if err != nil {
			return opts, fmt.Errorf("assessment: load catalog: %w", err)
		}
		opts.Catalog = catalog
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore(session.WithLogger(opts.Logger))
	}
	if opts.Leads == nil {
		dispatcher := lead.NewDispatcher([]lead.Route{
			{Sink: lead.NewRepositorySink("memory", lead.NewMemoryRepository()), Required: true},
		}, lead.WithDispatchLogger(opts.Logger))
		opts.Leads = lead.NewService(opts.Catalog, dispatcher, lead.WithLogger(opts.Logger))
	}
	if opts.Theme == nil {
		opts.Theme = brand.Default()
	}
	if opts.Renderers == nil {
		registry, err := DefaultRenderers(html.WithTheme(opts.Theme))
		if err != nil {
			return opts, fmt.Errorf("assessment: build renderers: %w", err)
		}
		opts.Renderers = registry
	}
	if opts.OpenAPI == nil {
		doc, err := openapi.Default()
		if err != nil {
			return opts, fmt.Errorf("assessment: load openapi document: %w", err)
		}
		opts.OpenAPI = doc
	}
	return opts, nil
}

// Options returns a copy of the resolved configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return c.opts
}

// PageHandler serves the wizard screens.
func (c *Component) PageHandler() http.Handler {
	return c.pages
}

// APIHandler routes the JSON API by path suffix, for callers that mount the
// API under a single prefix.
func (c *Component) APIHandler() http.Handler {
	return http.HandlerFunc(c.api.route)
}

// RegisterRoutes registers the wizard page and every API endpoint under
// basePath on mux and returns the registered patterns.
func (c *Component) RegisterRoutes(mux Mux, basePath string) ([]string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return c.registerRoutes(mux, basePath)
}
