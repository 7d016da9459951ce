package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-careassess/pkg/assessment"
)

// RenderOptions carry per-request data that is not part of the wizard state.
type RenderOptions struct {
	// Action is the URL wizard forms post to.
	Action string
	// Errors holds field feedback keyed by dotted path ("contact.email").
	Errors map[string][]string
	// Form holds messages that belong to the page rather than a field.
	Form []string
	// Hidden fields are emitted in every wizard form, sorted by name.
	Hidden map[string]string
	// Theme supplies brand tokens and asset URLs.
	Theme *theme.RendererConfig
	// Catalog supplies facility copy and contact times; nil selects the
	// embedded default.
	Catalog *assessment.Catalog
	// LeadID is set once the submission has been delivered.
	LeadID string
}

// ResolveCatalog returns the configured catalog or the embedded default.
func (o RenderOptions) ResolveCatalog() *assessment.Catalog {
	if o.Catalog != nil {
		return o.Catalog
	}
	return assessment.MustDefaultCatalog()
}

// FieldErrors returns the messages recorded for path.
func (o RenderOptions) FieldErrors(path string) []string {
	if len(o.Errors) == 0 {
		return nil
	}
	return o.Errors[path]
}
