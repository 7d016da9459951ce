package assessment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/lead"
)

var csrfPattern = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

// browser replays the session cookie and form token like a user agent would.
type browser struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
	token  string
}

func newBrowser(t *testing.T, fns ...OptionFn) (*browser, *lead.MemoryRepository) {
	t.Helper()
	repo := lead.NewMemoryRepository()
	dispatcher := lead.NewDispatcher([]lead.Route{{Sink: lead.NewRepositorySink("memory", repo), Required: true}})
	service := lead.NewService(nil, dispatcher, lead.WithIDGenerator(func() string { return "lead-1" }))

	fns = append([]OptionFn{WithLeads(service)}, fns...)
	c, err := New(fns...)
	if err != nil {
		t.Fatalf("new component: %v", err)
	}
	return &browser{t: t, h: c.PageHandler()}, repo
}

func (b *browser) get(accept string) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/assessment", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return b.do(req)
}

func (b *browser) post(form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	if b.token != "" && !form.Has("_csrf") {
		form.Set("_csrf", b.token)
	}
	req := httptest.NewRequest(http.MethodPost, "/assessment", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == defaultCookieName {
			b.cookie = c
		}
	}
	if m := csrfPattern.FindStringSubmatch(rec.Body.String()); m != nil {
		b.token = m[1]
	}
	return rec
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestPageHandler_StartsSessionAtWelcome(t *testing.T) {
	b, _ := newBrowser(t)

	rec := b.get("")
	expectStatus(t, rec, http.StatusOK)
	if b.cookie == nil {
		t.Fatalf("expected session cookie")
	}
	if !b.cookie.HttpOnly || b.cookie.SameSite != http.SameSiteLaxMode || b.cookie.Path != "/assessment" {
		t.Fatalf("unexpected cookie attributes: %#v", b.cookie)
	}
	if b.token == "" {
		t.Fatalf("expected csrf token in page")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html, got %q", ct)
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("expected no-store cache control")
	}
	if !strings.Contains(rec.Body.String(), `data-phase="welcome"`) {
		t.Fatalf("expected welcome screen")
	}

	first := b.cookie.Value
	b.get("")
	if b.cookie.Value != first {
		t.Fatalf("expected session to be reused")
	}
}

func TestPageHandler_CompletesAssessment(t *testing.T) {
	b, repo := newBrowser(t)
	b.get("")

	rec := b.post(url.Values{"action": {ActionStart}})
	expectStatus(t, rec, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != "/assessment" {
		t.Fatalf("expected redirect to /assessment, got %q", loc)
	}

	rec = b.post(url.Values{"action": {ActionNext}, "question": {string(assessment.QuestionRelationship)}})
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	if !strings.Contains(rec.Body.String(), msgSelectAnswer) {
		t.Fatalf("expected gate message, got %s", rec.Body.String())
	}

	rec = b.post(url.Values{"action": {ActionAnswer}, "question": {string(assessment.QuestionRelationship)}, "option": {"My cousin"}})
	expectStatus(t, rec, http.StatusUnprocessableEntity)

	catalog := assessment.MustDefaultCatalog()
	for _, q := range catalog.Questions {
		option := q.Options[0]
		if q.ID == assessment.QuestionChallenges {
			option = assessment.OptionMemoryLoss
		}
		rec = b.post(url.Values{"action": {ActionNext}, "question": {string(q.ID)}, "option": {option}})
		expectStatus(t, rec, http.StatusSeeOther)
	}

	rec = b.get("")
	if !strings.Contains(rec.Body.String(), `data-phase="contact"`) {
		t.Fatalf("expected contact screen, got %s", rec.Body.String())
	}

	rec = b.post(url.Values{"action": {ActionSubmit}, "email": {"jordan@example.com"}})
	expectStatus(t, rec, http.StatusUnprocessableEntity)
	if !strings.Contains(rec.Body.String(), "Full name is required") {
		t.Fatalf("expected missing name message")
	}

	rec = b.post(url.Values{
		"action":            {ActionSubmit},
		"name":              {"Jordan Doe"},
		"phone":             {"5714948100"},
		"email":             {"jordan@example.com"},
		"bestTimeToContact": {"Anytime"},
	})
	expectStatus(t, rec, http.StatusSeeOther)

	rec = b.get("")
	body := rec.Body.String()
	if !strings.Contains(body, `data-phase="results"`) || !strings.Contains(body, `data-lead-id="lead-1"`) {
		t.Fatalf("expected results with lead id, got %s", body)
	}

	stored, err := repo.Get(t.Context(), "lead-1")
	if err != nil {
		t.Fatalf("expected stored lead: %v", err)
	}
	if stored.Source != lead.SourceWeb || stored.Contact.Phone != "(571) 494-8100" {
		t.Fatalf("unexpected lead: %#v", stored)
	}

	rec = b.post(url.Values{"action": {ActionAnswer}, "question": {string(assessment.QuestionTimeline)}, "option": {"Within 6 months"}})
	expectStatus(t, rec, http.StatusConflict)

	rec = b.post(url.Values{"action": {ActionRestart}})
	expectStatus(t, rec, http.StatusSeeOther)
	if !strings.Contains(b.get("").Body.String(), `data-phase="welcome"`) {
		t.Fatalf("expected welcome after restart")
	}
}

func TestPageHandler_BackKeepsContactInput(t *testing.T) {
	b, _ := newBrowser(t, WithoutCSRF())
	b.get("")
	b.post(url.Values{"action": {ActionStart}})
	for _, q := range assessment.MustDefaultCatalog().Questions {
		b.post(url.Values{"action": {ActionNext}, "question": {string(q.ID)}, "option": {q.Options[0]}})
	}

	rec := b.post(url.Values{"action": {ActionBack}, "name": {"Jordan"}})
	expectStatus(t, rec, http.StatusSeeOther)
	rec = b.post(url.Values{"action": {ActionNext}, "question": {string(assessment.QuestionWanderingConcerns)}, "option": {"No, not an issue"}})
	expectStatus(t, rec, http.StatusSeeOther)

	if !strings.Contains(b.get("").Body.String(), `value="Jordan"`) {
		t.Fatalf("expected contact name to survive going back")
	}
}

func TestPageHandler_RejectsBadCSRF(t *testing.T) {
	b, _ := newBrowser(t)
	b.get("")

	rec := b.post(url.Values{"action": {ActionStart}, "_csrf": {"forged"}})
	expectStatus(t, rec, http.StatusForbidden)
}

func TestPageHandler_UnknownActionAndMethod(t *testing.T) {
	b, _ := newBrowser(t, WithoutCSRF())
	b.get("")

	expectStatus(t, b.post(url.Values{"action": {"jump"}}), http.StatusBadRequest)

	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/assessment", nil))
	expectStatus(t, rec, http.StatusMethodNotAllowed)
	if allow := rec.Header().Get("Allow"); allow != "GET, HEAD, POST" {
		t.Fatalf("unexpected Allow header %q", allow)
	}
}

func TestPageHandler_NegotiatesJSON(t *testing.T) {
	b, _ := newBrowser(t, WithoutCSRF())
	b.get("")
	b.post(url.Values{"action": {ActionStart}})

	rec := b.get("application/json")
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected json, got %q", ct)
	}
	var doc struct {
		Data struct {
			Phase    string `json:"phase"`
			Step     int    `json:"step"`
			Question struct {
				ID string `json:"id"`
			} `json:"question"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Data.Phase != "questioning" || doc.Data.Step != 1 || doc.Data.Question.ID != string(assessment.QuestionRelationship) {
		t.Fatalf("unexpected document: %#v", doc.Data)
	}
}

func TestPageHandler_ExpiredSessionStartsOver(t *testing.T) {
	b, _ := newBrowser(t, WithoutCSRF())
	b.get("")

	b.cookie = &http.Cookie{Name: defaultCookieName, Value: "missing"}
	rec := b.get("")
	expectStatus(t, rec, http.StatusOK)
	if b.cookie.Value == "missing" {
		t.Fatalf("expected a fresh session cookie")
	}
}
