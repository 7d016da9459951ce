package careassess

import (
	"io/fs"

	"github.com/goliatone/go-careassess/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// or override them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
