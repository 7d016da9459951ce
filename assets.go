package careassess

import (
	"io/fs"
	"net/http"

	"github.com/goliatone/go-careassess/pkg/renderers/html"
)

// AssetsPrefix matches the asset prefix of the built-in theme.
const AssetsPrefix = "/assets/"

// AssetsFS exposes the stylesheet the page templates link to.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(careassess.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}

// AssetsHandler serves AssetsFS under AssetsPrefix.
func AssetsHandler() http.Handler {
	return http.StripPrefix(AssetsPrefix, http.FileServerFS(AssetsFS()))
}
