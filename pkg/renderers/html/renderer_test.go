package html_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/brand"
	"github.com/goliatone/go-careassess/pkg/render"
	"github.com/goliatone/go-careassess/pkg/renderers/html"
	"github.com/goliatone/go-careassess/pkg/testsupport"
	"github.com/goliatone/go-careassess/pkg/wizard"
)

func newRenderer(t *testing.T, opts ...html.Option) *html.Renderer {
	t.Helper()
	r, err := html.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func renderPage(t *testing.T, w *wizard.Wizard, opts render.RenderOptions) string {
	t.Helper()
	if opts.Action == "" {
		opts.Action = "/assessment"
	}
	out, err := newRenderer(t).Render(context.Background(), w.Snapshot(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, page string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(page, want) {
			t.Fatalf("expected page to contain %q\n%s", want, page)
		}
	}
}

func TestRenderer_Metadata(t *testing.T) {
	r := newRenderer(t)
	if r.Name() != "html" || !strings.HasPrefix(r.ContentType(), "text/html") {
		t.Fatalf("unexpected metadata %s %s", r.Name(), r.ContentType())
	}
}

func TestRenderer_Welcome(t *testing.T) {
	page := renderPage(t, testsupport.NewWizard(t, 0), render.RenderOptions{
		Hidden: map[string]string{"_csrf": "tok"},
	})
	assertContains(t, page,
		"<title>Kensington Senior Living - Care Assessment Tool</title>",
		"Care Assessment Tool",
		"Mandy Hale",
		`href="tel:5714948100"`,
		`name="action" value="start"`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`href="/assets/careassess.css"`,
		"--primary: #012169;",
		`data-phase="welcome"`,
	)
	if strings.Contains(page, "ca-progress") {
		t.Fatalf("welcome page must not show progress")
	}
}

func TestRenderer_FirstQuestionHidesPrevious(t *testing.T) {
	page := renderPage(t, testsupport.NewWizard(t, 1), render.RenderOptions{})
	assertContains(t, page,
		"Who is this assessment for?",
		"Step 1 of 11",
		"9%",
		`type="radio" name="option" value="My parent"`,
		`name="action" value="next">Next</button>`,
	)
	if strings.Contains(page, `value="back"`) {
		t.Fatalf("first question must not offer Previous")
	}
}

func TestRenderer_MultiSelectQuestion(t *testing.T) {
	w := testsupport.NewWizard(t, 6)
	if err := w.ToggleOption(assessment.QuestionChallenges, assessment.OptionMemoryLoss); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	page := renderPage(t, w, render.RenderOptions{
		Form: []string{"Please select an answer to continue"},
	})
	assertContains(t, page,
		"(Select all that apply)",
		`type="checkbox" name="option" value="Memory loss or confusion" checked`,
		`value="back" formnovalidate>Previous</button>`,
		"Please select an answer to continue",
		"Step 6 of 11",
		"55%",
	)
}

func TestRenderer_LastQuestionLabel(t *testing.T) {
	page := renderPage(t, testsupport.NewWizard(t, 10), render.RenderOptions{})
	assertContains(t, page, "Continue to Contact Info", "Step 10 of 11", "91%")
}

func TestRenderer_ContactWithErrors(t *testing.T) {
	w := testsupport.NewWizard(t, 11)
	_ = w.SetContact(assessment.ContactName, "Jordan")
	_ = w.SetContact(assessment.ContactBestTimeToContact, "Anytime")

	page := renderPage(t, w, render.RenderOptions{
		Errors: map[string][]string{
			"contact.phone": {"Phone number is required"},
			"contact.email": {"Email address is required"},
		},
	})
	assertContains(t, page,
		"Almost done! Let",
		"Step 11 of 11",
		"100%",
		`name="name" value="Jordan"`,
		"Phone number is required",
		"Email address is required",
		`aria-invalid="true"`,
		`<option value="Anytime" selected>Anytime</option>`,
		`value="submit"`,
		"Get My Recommendation",
	)
}

func TestRenderer_ResultsForCouple(t *testing.T) {
	w := testsupport.NewWizard(t, 0)
	_ = w.RecordAnswer(assessment.QuestionOccupancyType, assessment.Single(assessment.OptionCouple))
	_ = w.RecordAnswer(assessment.QuestionChallenges, assessment.Multi(assessment.OptionMemoryLoss))
	_ = w.RecordAnswer(assessment.QuestionWanderingConcerns, assessment.Single(assessment.OptionWanderingConcern))
	_ = w.SetContact(assessment.ContactName, "Jordan Rivera")
	w.Submit()

	page := renderPage(t, w, render.RenderOptions{LeadID: "lead-123"})
	assertContains(t, page,
		"Your Personalized Recommendation",
		"<h2 class=\"ca-heading\">Memory Care</h2>",
		"See How Couples Thrive at Kensington",
		"/suite-3.jpg",
		"/suite-5.jpg",
		"Suite 2",
		"24/7 specialized memory care support",
		"Thank you, Jordan Rivera!",
		"What happens next?",
		"Schedule a Tour",
		`data-lead-id="lead-123"`,
		`value="restart"`,
	)
}

func TestRenderer_EscapesUserInput(t *testing.T) {
	w := testsupport.NewWizard(t, 0)
	_ = w.SetContact(assessment.ContactName, "<script>alert(1)</script>")
	w.Submit()

	page := renderPage(t, w, render.RenderOptions{})
	if strings.Contains(page, "<script>alert(1)</script>") {
		t.Fatalf("expected contact name to be escaped")
	}
}

func TestRenderer_ThemeVariant(t *testing.T) {
	selector, err := brand.NewSelector()
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	sel, err := selector.Select("", brand.VariantHighContrast)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	page := renderPage(t, testsupport.NewWizard(t, 0), render.RenderOptions{Theme: brand.RendererConfig(sel)})
	assertContains(t, page, `data-theme-variant="high-contrast"`, "--primary: #000033;")
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"welcome.tmpl": {Data: []byte("custom {{ facility.name }}")},
	}
	r := newRenderer(t, html.WithTemplatesFS(files))
	out, err := r.Render(context.Background(), testsupport.NewWizard(t, 0).Snapshot(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "custom The Kensington Reston" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderer_TemplatesDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.CopyFS(dir, html.TemplatesFS()); err != nil {
		t.Fatalf("copy templates: %v", err)
	}
	page := `{% extends "layout.tmpl" %}{% block content %}<p class="local">Hello from {{ facility.name }}</p>{% endblock %}`
	if err := os.WriteFile(filepath.Join(dir, "welcome.tmpl"), []byte(page), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	r := newRenderer(t, html.WithTemplatesDir(dir))

	out, err := r.Render(context.Background(), testsupport.NewWizard(t, 0).Snapshot(), render.RenderOptions{Action: "/assessment"})
	if err != nil {
		t.Fatalf("render welcome: %v", err)
	}
	assertContains(t, string(out),
		"<title>Kensington Senior Living - Care Assessment Tool</title>",
		`<p class="local">Hello from The Kensington Reston</p>`,
	)

	out, err = r.Render(context.Background(), testsupport.NewWizard(t, 1).Snapshot(), render.RenderOptions{Action: "/assessment"})
	if err != nil {
		t.Fatalf("render question: %v", err)
	}
	assertContains(t, string(out), `name="question" value="relationship"`)
}

func TestRenderer_TemplatesDirMissing(t *testing.T) {
	if _, err := html.New(html.WithTemplatesDir(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Fatalf("expected error for missing templates dir")
	}
}

type recordingEngine struct {
	name string
	data any
}

func (e *recordingEngine) Render(name string, data any, out ...io.Writer) (string, error) {
	return e.RenderTemplate(name, data, out...)
}

func (e *recordingEngine) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	e.name, e.data = name, data
	return "page:" + name, nil
}

func (e *recordingEngine) RenderString(string, any, ...io.Writer) (string, error) { return "", nil }

func (e *recordingEngine) RegisterFilter(string, func(any, any) (any, error)) error { return nil }

func (e *recordingEngine) GlobalContext(any) error { return nil }

func TestRenderer_InjectedTemplateRenderer(t *testing.T) {
	engine := &recordingEngine{}
	r := newRenderer(t, html.WithTemplateRenderer(engine))

	out, err := r.Render(context.Background(), testsupport.NewWizard(t, 11).Snapshot(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "page:contact" || engine.name != "contact" {
		t.Fatalf("unexpected render %q via template %q", out, engine.name)
	}
	if engine.data == nil {
		t.Fatalf("expected view data")
	}
}

func TestRenderer_UnknownPhase(t *testing.T) {
	r := newRenderer(t)
	if _, err := r.Render(context.Background(), wizard.Snapshot{Phase: "bogus"}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for unknown phase")
	}
}

func TestAssetsFS_ContainsStylesheet(t *testing.T) {
	f, err := html.AssetsFS().Open(html.StylesheetName)
	if err != nil {
		t.Fatalf("open stylesheet: %v", err)
	}
	_ = f.Close()
}
