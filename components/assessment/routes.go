package assessment

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// API endpoint suffixes, relative to Options.APIPath.
const (
	EndpointQuestions = "/questions"
	EndpointScore     = "/score"
	EndpointLeads     = "/leads"
	EndpointOpenAPI   = "/openapi.json"
)

// MountPath returns the wizard page path under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// APIMountPath returns the path of one API endpoint under basePath.
func APIMountPath(basePath, endpoint string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, mountPath(opts.APIPath, endpoint))
}

// RegisterRoutes builds a component from fns and registers it on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) ([]string, error) {
	c, err := New(fns...)
	if err != nil {
		return nil, err
	}
	return c.RegisterRoutes(mux, basePath)
}

func (c *Component) registerRoutes(mux Mux, basePath string) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("assessment: missing mux")
	}
	routes := []struct {
		pattern string
		handler http.Handler
	}{
		{mountPath(basePath, c.opts.RoutePath), c.PageHandler()},
		{mountPath(basePath, mountPath(c.opts.APIPath, EndpointQuestions)), http.HandlerFunc(c.api.questions)},
		{mountPath(basePath, mountPath(c.opts.APIPath, EndpointScore)), http.HandlerFunc(c.api.score)},
		{mountPath(basePath, mountPath(c.opts.APIPath, EndpointLeads)), http.HandlerFunc(c.api.leads)},
		{mountPath(basePath, mountPath(c.opts.APIPath, EndpointOpenAPI)), http.HandlerFunc(c.api.openAPI)},
	}
	patterns := make([]string, 0, len(routes))
	for _, route := range routes {
		mux.Handle(route.pattern, route.handler)
		patterns = append(patterns, route.pattern)
	}
	return patterns, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
