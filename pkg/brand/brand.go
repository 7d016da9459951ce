// Package brand describes the facility theme as a go-theme manifest and
// resolves it into the renderer configuration templates consume.
package brand

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	ThemeName           = "kensington"
	VariantDefault      = "default"
	VariantHighContrast = "high-contrast"
)

// Asset keys resolved through RendererConfig.AssetURL.
const (
	AssetStylesheet = "stylesheet"
	AssetLogo       = "logo"
)

// Manifest returns the built-in facility theme.
func Manifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"primary":      "#012169",
			"accent":       "#84754e",
			"surface":      "#ffffff",
			"background":   "#eef2ff",
			"text":         "#23272a",
			"muted":        "#6b7280",
			"quote":        "#6b7ba3",
			"border":       "#e5e7eb",
			"success":      "#16a34a",
			"font-heading": "Georgia, 'Times New Roman', serif",
			"font-body":    "'Helvetica Neue', Arial, sans-serif",
		},
		Templates: map[string]string{
			"page.layout": "layout.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				AssetStylesheet: "careassess.css",
			},
		},
		Variants: map[string]theme.Variant{
			VariantHighContrast: {
				Tokens: map[string]string{
					"primary": "#000033",
					"accent":  "#5c4f2f",
					"muted":   "#374151",
					"border":  "#4b5563",
				},
			},
		},
	}
}

// Selector resolves theme names and variants against registered manifests.
type Selector struct {
	manifests      map[string]*theme.Manifest
	provider       theme.ThemeProvider
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector registers manifests; the first one becomes the default. With
// no manifests the built-in theme is used.
func NewSelector(manifests ...*theme.Manifest) (*Selector, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{Manifest()}
	}
	registry := theme.NewRegistry()
	s := &Selector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		provider:       registry,
		defaultVariant: VariantDefault,
	}
	for _, m := range manifests {
		if m == nil {
			continue
		}
		if err := registry.Register(m); err != nil {
			return nil, fmt.Errorf("brand: register theme %q: %w", m.Name, err)
		}
		s.manifests[m.Name] = m
		if s.defaultTheme == "" {
			s.defaultTheme = m.Name
		}
	}
	if s.defaultTheme == "" {
		return nil, fmt.Errorf("brand: no themes registered")
	}
	return s, nil
}

// Provider exposes the go-theme registry backing the selector.
func (s *Selector) Provider() theme.ThemeProvider { return s.provider }

// Themes lists the registered theme names.
func (s *Selector) Themes() []string {
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named theme and variant. Empty values pick the
// defaults; an unknown variant is an error.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("brand: theme %q not found", name)
	}
	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}
	if variant != VariantDefault {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("brand: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig flattens a selection: variant tokens, templates and asset
// files override the base manifest, and every token becomes a "--name" CSS
// variable.
func RendererConfig(sel *theme.Selection) *theme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	m := sel.Manifest
	tokens := mergeMaps(m.Tokens, nil)
	partials := mergeMaps(m.Templates, nil)
	files := mergeMaps(m.Assets.Files, nil)
	prefix := m.Assets.Prefix

	if v, ok := m.Variants[sel.Variant]; ok {
		tokens = mergeMaps(tokens, v.Tokens)
		partials = mergeMaps(partials, v.Templates)
		files = mergeMaps(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join("/", prefix, file)
		},
	}
}

// Default resolves the built-in theme's default variant.
func Default() *theme.RendererConfig {
	return RendererConfig(&theme.Selection{
		Theme:    ThemeName,
		Variant:  VariantDefault,
		Manifest: Manifest(),
	})
}

// CSSVarsStyle renders CSS variables as a sorted declaration list for a
// style attribute or :root block.
func CSSVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s; ", key, cfg.CSSVars[key])
	}
	return strings.TrimSpace(b.String())
}

func mergeMaps(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overrides {
		out[key] = value
	}
	return out
}
