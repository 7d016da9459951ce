// Package careassess exposes the care assessment wizard, scoring and lead
// capture through a small top-level API.
package careassess

import (
	"net/http"

	"github.com/goliatone/go-careassess/components/assessment"
	pkgassessment "github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/render"
	"github.com/goliatone/go-careassess/pkg/wizard"
)

// Answers aliases the collected responses.
type Answers = pkgassessment.Answers

// Evaluation aliases the scoring result.
type Evaluation = pkgassessment.Evaluation

// CareRecommendation aliases the recommendation shown on the results screen.
type CareRecommendation = pkgassessment.CareRecommendation

// RenderOptions describes per-request render overrides such as field errors.
type RenderOptions = render.RenderOptions

// Component aliases the HTTP component.
type Component = assessment.Component

// NewComponent builds the wizard page and JSON API handlers.
func NewComponent(options ...assessment.OptionFn) (*Component, error) {
	return assessment.New(options...)
}

// NewWizard starts a wizard over the embedded catalog.
func NewWizard() (*wizard.Wizard, error) {
	return wizard.New(nil)
}

// Evaluate scores answers and picks a recommendation.
func Evaluate(answers Answers) Evaluation {
	return pkgassessment.Evaluate(answers.Normalize())
}

// Mount registers the wizard and the API under basePath, and the stylesheet
// under AssetsPrefix.
func Mount(mux *http.ServeMux, basePath string, options ...assessment.OptionFn) ([]string, error) {
	c, err := assessment.New(options...)
	if err != nil {
		return nil, err
	}
	patterns, err := c.RegisterRoutes(mux, basePath)
	if err != nil {
		return nil, err
	}
	mux.Handle(AssetsPrefix, AssetsHandler())
	return append(patterns, AssetsPrefix), nil
}
