package assessment

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/care"); got != "/care/assessment" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("care/"); got != "/care/assessment" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("", WithRoutePath("start")); got != "/start" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := APIMountPath("/care", EndpointLeads); got != "/care/api/assessment/leads" {
		t.Fatalf("unexpected api mount path: %q", got)
	}
}

func TestRegisterRoutes_RegistersEveryEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	patterns, err := RegisterRoutes(mux, "/care", WithAPIPath("/api/v1"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []string{
		"/care/assessment",
		"/care/api/v1/questions",
		"/care/api/v1/score",
		"/care/api/v1/leads",
		"/care/api/v1/openapi.json",
	}
	if len(patterns) != len(want) {
		t.Fatalf("expected %d patterns, got %v", len(want), patterns)
	}
	for i := range want {
		if patterns[i] != want[i] {
			t.Fatalf("pattern %d: want %q, got %q", i, want[i], patterns[i])
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/care/api/v1/questions", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRegisterRoutes_MissingMux(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
