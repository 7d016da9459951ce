package assessment

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/lead"
	"github.com/goliatone/go-careassess/pkg/render"
	"github.com/goliatone/go-careassess/pkg/session"
	"github.com/goliatone/go-careassess/pkg/wizard"
)

// Wizard form actions.
const (
	ActionStart   = "start"
	ActionAnswer  = "answer"
	ActionToggle  = "toggle"
	ActionNext    = "next"
	ActionBack    = "back"
	ActionContact = "contact"
	ActionSubmit  = "submit"
	ActionRestart = "restart"
)

const (
	msgSelectAnswer   = "Please select an answer to continue"
	msgUnknownOption  = "Choose one of the listed options"
	msgCompleted      = "This assessment was already submitted. Start a new one to change your answers."
	msgDeliveryFailed = "We could not send your assessment. Please try again."
)

// formProblem is a rejected action that re-renders the current screen.
type formProblem struct {
	status int
	fields map[string][]string
	form   []string
}

func (p *formProblem) add(path, message string) {
	if p.fields == nil {
		p.fields = make(map[string][]string)
	}
	p.fields[path] = append(p.fields[path], message)
}

type pageHandler struct {
	opts Options
}

func (h *pageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.show(w, r)
	case http.MethodPost:
		h.apply(w, r)
	default:
		methodNotAllowed(w, "GET, HEAD, POST")
	}
}

func (h *pageHandler) show(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		h.fail(w, "load session", err)
		return
	}
	sess.Lock()
	defer sess.Unlock()
	h.render(w, r, sess, http.StatusOK, nil)
}

func (h *pageHandler) apply(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess, err := h.session(w, r)
	if err != nil {
		h.fail(w, "load session", err)
		return
	}
	sess.Lock()
	defer sess.Unlock()

	if !h.opts.DisableCSRF && r.PostFormValue(h.opts.CSRFField) != sess.CSRFToken {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	action := strings.TrimSpace(r.PostFormValue("action"))
	var problem *formProblem
	switch action {
	case ActionStart:
		if sess.Wizard.Phase() == wizard.PhaseWelcome {
			sess.Wizard.Advance()
		}
	case ActionAnswer:
		problem = recordFromForm(sess.Wizard, r.PostForm)
	case ActionToggle:
		problem = toggleFromForm(sess.Wizard, r.PostForm)
	case ActionNext:
		problem = h.next(sess.Wizard, r.PostForm)
	case ActionBack:
		if sess.Wizard.Phase() == wizard.PhaseContact {
			problem = captureContact(sess.Wizard, r.PostForm)
		}
		sess.Wizard.Retreat()
	case ActionContact:
		problem = captureContact(sess.Wizard, r.PostForm)
	case ActionSubmit:
		problem = h.submit(r, sess)
	case ActionRestart:
		sess.Wizard.Restart()
		sess.LeadID = ""
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	h.opts.Logger.Debug("wizard action",
		zap.String("session_id", sess.ID),
		zap.String("action", action),
		zap.String("phase", sess.Wizard.Phase().String()),
		zap.Int("step", sess.Wizard.Step()),
	)

	if err := h.opts.Sessions.Save(r.Context(), sess); err != nil {
		h.fail(w, "save session", err)
		return
	}
	if problem != nil {
		h.render(w, r, sess, problem.status, problem)
		return
	}
	http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
}

func (h *pageHandler) next(wz *wizard.Wizard, form url.Values) *formProblem {
	switch wz.Phase() {
	case wizard.PhaseWelcome:
		wz.Advance()
		return nil
	case wizard.PhaseQuestioning:
	default:
		return nil
	}
	if form.Has("question") {
		if problem := recordFromForm(wz, form); problem != nil {
			return problem
		}
	}
	if !wz.CanAdvance() {
		q, _ := wz.CurrentQuestion()
		problem := &formProblem{status: http.StatusUnprocessableEntity}
		problem.add("answers."+string(q.ID), msgSelectAnswer)
		return problem
	}
	wz.Advance()
	return nil
}

func (h *pageHandler) submit(r *http.Request, sess *session.Session) *formProblem {
	wz := sess.Wizard
	if wz.Phase() == wizard.PhaseResults {
		return nil
	}
	if problem := captureContact(wz, r.PostForm); problem != nil {
		return problem
	}
	if !wz.ContactComplete() {
		problem := &formProblem{status: http.StatusUnprocessableEntity}
		for _, field := range wz.Contact().Missing() {
			problem.add("contact."+string(field), requiredMessage(field))
		}
		return problem
	}

	result, err := h.opts.Leads.Submit(r.Context(), lead.Submission{
		Answers: wz.Answers(),
		Contact: wz.Contact(),
		Source:  lead.SourceWeb,
	})
	if err != nil {
		var verr *lead.ValidationError
		if errors.As(err, &verr) {
			return &formProblem{status: http.StatusUnprocessableEntity, fields: verr.Fields, form: verr.Form}
		}
		h.opts.Logger.Error("lead submission failed", zap.String("session_id", sess.ID), zap.Error(err))
		return &formProblem{status: http.StatusServiceUnavailable, form: []string{msgDeliveryFailed}}
	}

	cleaned := result.Lead.Contact
	for field, value := range map[assessment.ContactField]string{
		assessment.ContactName:              cleaned.Name,
		assessment.ContactPhone:             cleaned.Phone,
		assessment.ContactEmail:             cleaned.Email,
		assessment.ContactBestTimeToContact: cleaned.BestTimeToContact,
	} {
		_ = wz.SetContact(field, value)
	}
	wz.Submit()
	sess.LeadID = result.Lead.ID
	h.opts.Logger.Info("assessment submitted",
		zap.String("session_id", sess.ID),
		zap.String("lead_id", result.Lead.ID),
		zap.String("recommendation", string(result.Lead.Recommendation.Type)),
	)
	return nil
}

func (h *pageHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if cookie, err := r.Cookie(h.opts.CookieName); err == nil && cookie.Value != "" {
		sess, err := h.opts.Sessions.Load(r.Context(), cookie.Value)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return nil, err
		}
	}

	wz, err := wizard.New(h.opts.Catalog)
	if err != nil {
		return nil, err
	}
	sess := session.New(wz, h.opts.Now())
	if err := h.opts.Sessions.Save(r.Context(), sess); err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    sess.ID,
		Path:     r.URL.Path,
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

func (h *pageHandler) render(w http.ResponseWriter, r *http.Request, sess *session.Session, status int, problem *formProblem) {
	renderer, err := h.opts.Renderers.Negotiate(r.Header.Get("Accept"))
	if err != nil {
		h.fail(w, "negotiate renderer", err)
		return
	}
	opts := render.RenderOptions{
		Action:  r.URL.Path,
		Theme:   h.opts.Theme,
		Catalog: h.opts.Catalog,
		LeadID:  sess.LeadID,
	}
	if !h.opts.DisableCSRF {
		opts.Hidden = render.MergeHiddenFields(nil, render.CSRFToken(h.opts.CSRFField, sess.CSRFToken))
	}
	if problem != nil {
		mapping := render.MapErrorPayload(render.FieldPaths(h.opts.Catalog), problem.fields)
		opts.Errors = mapping.Fields
		opts.Form = render.MergeFormErrors(problem.form, mapping.Form...)
	}

	body, err := renderer.Render(r.Context(), sess.Wizard.Snapshot(), opts)
	if err != nil {
		h.fail(w, "render page", err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Add("Vary", "Accept")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

func (h *pageHandler) fail(w http.ResponseWriter, op string, err error) {
	h.opts.Logger.Error("wizard request failed", zap.String("op", op), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func recordFromForm(wz *wizard.Wizard, form url.Values) *formProblem {
	id := assessment.QuestionID(strings.TrimSpace(form.Get("question")))
	q, ok := wz.Catalog().Question(id)
	if !ok {
		return &formProblem{status: http.StatusBadRequest, form: []string{"Unknown question"}}
	}
	values := form["option"]
	for _, v := range values {
		if !q.HasOption(v) {
			problem := &formProblem{status: http.StatusUnprocessableEntity}
			problem.add("answers."+string(q.ID), msgUnknownOption)
			return problem
		}
	}

	value := assessment.Multi(values...)
	if !q.Multiple {
		single := ""
		if len(values) > 0 {
			single = values[0]
		}
		value = assessment.Single(single)
	}
	return problemFor(wz.RecordAnswer(q.ID, value))
}

func toggleFromForm(wz *wizard.Wizard, form url.Values) *formProblem {
	id := assessment.QuestionID(strings.TrimSpace(form.Get("question")))
	q, ok := wz.Catalog().Question(id)
	if !ok {
		return &formProblem{status: http.StatusBadRequest, form: []string{"Unknown question"}}
	}
	option := form.Get("option")
	if !q.HasOption(option) {
		problem := &formProblem{status: http.StatusUnprocessableEntity}
		problem.add("answers."+string(q.ID), msgUnknownOption)
		return problem
	}
	return problemFor(wz.ToggleOption(q.ID, option))
}

func captureContact(wz *wizard.Wizard, form url.Values) *formProblem {
	for _, field := range []assessment.ContactField{
		assessment.ContactName,
		assessment.ContactPhone,
		assessment.ContactEmail,
		assessment.ContactBestTimeToContact,
	} {
		if !form.Has(string(field)) {
			continue
		}
		if err := wz.SetContact(field, strings.TrimSpace(form.Get(string(field)))); err != nil {
			return problemFor(err)
		}
	}
	return nil
}

func problemFor(err error) *formProblem {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, wizard.ErrCompleted):
		return &formProblem{status: http.StatusConflict, form: []string{msgCompleted}}
	default:
		return &formProblem{status: http.StatusBadRequest, form: []string{err.Error()}}
	}
}

func requiredMessage(field assessment.ContactField) string {
	switch field {
	case assessment.ContactName:
		return "Full name is required"
	case assessment.ContactPhone:
		return "Phone number is required"
	case assessment.ContactEmail:
		return "Email address is required"
	default:
		return "This field is required"
	}
}
