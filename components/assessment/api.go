package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/lead"
	"github.com/goliatone/go-careassess/pkg/openapi"
	"github.com/goliatone/go-careassess/pkg/render"
)

type apiHandler struct {
	opts Options
}

type leadRequest struct {
	Answers assessment.Answers     `json:"answers"`
	Contact assessment.ContactInfo `json:"contact"`
}

type leadResponse struct {
	Data     lead.Lead   `json:"data"`
	Delivery lead.Report `json:"delivery"`
}

// route dispatches on the path suffix so the API can sit behind a single
// prefix handler.
func (a *apiHandler) route(w http.ResponseWriter, r *http.Request) {
	switch path := strings.TrimRight(r.URL.Path, "/"); {
	case strings.HasSuffix(path, EndpointQuestions):
		a.questions(w, r)
	case strings.HasSuffix(path, EndpointScore):
		a.score(w, r)
	case strings.HasSuffix(path, EndpointLeads):
		a.leads(w, r)
	case strings.HasSuffix(path, EndpointOpenAPI):
		a.openAPI(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (a *apiHandler) questions(w http.ResponseWriter, r *http.Request) {
	if !a.allow(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	writeJSON(w, r, http.StatusOK, dataResponse{Data: a.opts.Catalog.Questions})
}

func (a *apiHandler) score(w http.ResponseWriter, r *http.Request) {
	if !a.allow(w, r, http.MethodPost) {
		return
	}
	body, ok := a.readBody(w, r)
	if !ok {
		return
	}
	violations, ok := a.validate(w, r, openapi.SchemaAnswers, body)
	if !ok {
		return
	}
	if !violations.Empty() {
		a.writeViolations(w, r, prefixViolations("answers", violations), nil)
		return
	}

	var answers assessment.Answers
	if err := json.Unmarshal(body, &answers); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Form: []string{"Request body is not valid JSON"}})
		return
	}
	answers = answers.Normalize()
	if invalid := a.opts.Catalog.InvalidOptions(answers); len(invalid) > 0 {
		a.writeViolations(w, r, optionViolations(invalid), nil)
		return
	}
	writeJSON(w, r, http.StatusOK, dataResponse{Data: assessment.Evaluate(answers)})
}

func (a *apiHandler) leads(w http.ResponseWriter, r *http.Request) {
	if !a.allow(w, r, http.MethodPost) {
		return
	}
	body, ok := a.readBody(w, r)
	if !ok {
		return
	}
	violations, ok := a.validate(w, r, openapi.SchemaLeadRequest, body)
	if !ok {
		return
	}
	if !violations.Empty() {
		a.writeViolations(w, r, violations, nil)
		return
	}

	var req leadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Form: []string{"Request body is not valid JSON"}})
		return
	}
	req.Answers = req.Answers.Normalize()
	if invalid := a.opts.Catalog.InvalidOptions(req.Answers); len(invalid) > 0 {
		a.writeViolations(w, r, optionViolations(invalid), nil)
		return
	}

	result, err := a.opts.Leads.Submit(r.Context(), lead.Submission{
		Answers: req.Answers,
		Contact: req.Contact,
		Source:  lead.SourceAPI,
	})
	if err != nil {
		var verr *lead.ValidationError
		if errors.As(err, &verr) {
			a.writeViolations(w, r, verr.Fields, verr.Form)
			return
		}
		a.opts.Logger.Error("lead submission failed", zap.Error(err))
		writeJSON(w, r, http.StatusServiceUnavailable, errorResponse{Form: []string{msgDeliveryFailed}})
		return
	}
	writeJSON(w, r, http.StatusCreated, leadResponse{Data: result.Lead, Delivery: result.Report})
}

func (a *apiHandler) openAPI(w http.ResponseWriter, r *http.Request) {
	if !a.allow(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(a.opts.OpenAPI.JSON())
}

// allow applies the guard and the method check. It reports false once a
// response has been written.
func (a *apiHandler) allow(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	if a.opts.Guard != nil {
		if err := a.opts.Guard(r); err != nil {
			writeGuardError(w, err)
			return false
		}
	}
	for _, method := range methods {
		if r.Method == method {
			return true
		}
	}
	methodNotAllowed(w, strings.Join(methods, ", "))
	return false
}

func (a *apiHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, a.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, r, http.StatusRequestEntityTooLarge, errorResponse{Form: []string{"Request body is too large"}})
			return nil, false
		}
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Form: []string{"Request body could not be read"}})
		return nil, false
	}
	return body, true
}

func (a *apiHandler) validate(w http.ResponseWriter, r *http.Request, schema string, body []byte) (openapi.Violations, bool) {
	violations, err := a.opts.OpenAPI.ValidateBody(schema, body)
	switch {
	case err == nil:
		return violations, true
	case errors.Is(err, openapi.ErrMalformedBody):
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Form: []string{"Request body is not valid JSON"}})
	default:
		a.opts.Logger.Error("schema validation failed", zap.String("schema", schema), zap.Error(err))
		writeJSON(w, r, http.StatusInternalServerError, errorResponse{Form: []string{http.StatusText(http.StatusInternalServerError)}})
	}
	return nil, false
}

func (a *apiHandler) writeViolations(w http.ResponseWriter, r *http.Request, fields map[string][]string, form []string) {
	mapping := render.MapErrorPayload(render.FieldPaths(a.opts.Catalog), fields)
	writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{
		Errors: mapping.Fields,
		Form:   render.MergeFormErrors(form, mapping.Form...),
	})
}

func prefixViolations(prefix string, violations openapi.Violations) map[string][]string {
	out := make(map[string][]string, len(violations))
	for key, messages := range violations {
		path := prefix
		if key != "" {
			path = prefix + "." + key
		}
		out[path] = append(out[path], messages...)
	}
	return out
}

func optionViolations(invalid map[assessment.QuestionID][]string) map[string][]string {
	out := make(map[string][]string, len(invalid))
	for id, values := range invalid {
		sorted := append([]string(nil), values...)
		sort.Strings(sorted)
		for _, value := range sorted {
			out["answers."+string(id)] = append(out["answers."+string(id)], fmt.Sprintf("unknown option %q", value))
		}
	}
	return out
}
