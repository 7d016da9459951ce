package tui

import "github.com/goliatone/go-careassess/pkg/render"

func renderOptions(errs map[string][]string) render.RenderOptions {
	return render.RenderOptions{Errors: errs}
}
