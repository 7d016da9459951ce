// Package render defines the presentation contract for the assessment wizard.
// Renderers turn a wizard.Snapshot into bytes (HTML pages, JSON documents) and
// are looked up by name or content type through a Registry.
package render

import (
	"context"

	"github.com/goliatone/go-careassess/pkg/wizard"
)

// Renderer converts a wizard snapshot into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, snapshot wizard.Snapshot, options RenderOptions) ([]byte, error)
}
