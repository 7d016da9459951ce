package assessment

import (
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/lead"
	"github.com/goliatone/go-careassess/pkg/openapi"
	"github.com/goliatone/go-careassess/pkg/render"
	"github.com/goliatone/go-careassess/pkg/session"
)

const (
	defaultRoutePath    = "/assessment"
	defaultAPIPath      = "/api/assessment"
	defaultCookieName   = "careassess_session"
	defaultCSRFField    = "_csrf"
	defaultMaxBodyBytes = 1 << 20
)

// GuardFunc authorises API requests. Returning an HTTPError selects the
// response status; any other error yields 403.
type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath    string
	APIPath      string
	CookieName   string
	SecureCookie bool
	CSRFField    string
	DisableCSRF  bool
	MaxBodyBytes int64
	Guard        GuardFunc

	Catalog   *assessment.Catalog
	Sessions  session.Store
	Leads     *lead.Service
	Renderers *render.Registry
	Theme     *theme.RendererConfig
	OpenAPI   *openapi.Document
	Logger    *zap.Logger
	Now       func() time.Time
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    defaultRoutePath,
		APIPath:      defaultAPIPath,
		CookieName:   defaultCookieName,
		CSRFField:    defaultCSRFField,
		MaxBodyBytes: defaultMaxBodyBytes,
	}
}

// NewOptions applies fns over the defaults and restores any scalar left
// empty. Collaborators are resolved later by New.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.APIPath == "" {
		opts.APIPath = defaultAPIPath
	}
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	if opts.CSRFField == "" {
		opts.CSRFField = defaultCSRFField
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithAPIPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.APIPath = path
	}
}

func WithCookie(name string, secure bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
		o.SecureCookie = secure
	}
}

// WithoutCSRF stops embedding and checking the per-session form token.
func WithoutCSRF() OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DisableCSRF = true
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithCatalog(catalog *assessment.Catalog) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Catalog = catalog
	}
}

func WithSessions(store session.Store) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Sessions = store
	}
}

func WithLeads(service *lead.Service) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Leads = service
	}
}

func WithRenderers(registry *render.Registry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderers = registry
	}
}

func WithTheme(cfg *theme.RendererConfig) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Theme = cfg
	}
}

func WithOpenAPI(doc *openapi.Document) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.OpenAPI = doc
	}
}

func WithLogger(log *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = log
	}
}

func WithClock(now func() time.Time) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Now = now
	}
}

// APIKeyGuard accepts requests carrying key in the X-API-Key header or as a
// bearer token. An empty key disables the check.
func APIKeyGuard(key string) GuardFunc {
	return func(r *http.Request) error {
		if key == "" {
			return nil
		}
		if r.Header.Get("X-API-Key") == key {
			return nil
		}
		if auth := r.Header.Get("Authorization"); auth == "Bearer "+key {
			return nil
		}
		return StatusError{Code: http.StatusUnauthorized}
	}
}
