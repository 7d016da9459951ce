// Package assessment mounts the care assessment on a net/http mux: the
// server-rendered wizard pages backed by a session store, and a small JSON
// API for scoring answers and submitting leads.
//
// The wizard route answers GET with the current screen (HTML by default,
// negotiated through the renderer registry) and POST with one wizard action
// followed by a 303 redirect. Gate failures re-render with 422.
package assessment
