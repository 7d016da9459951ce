package html

import (
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/brand"
	"github.com/goliatone/go-careassess/pkg/render"
	"github.com/goliatone/go-careassess/pkg/wizard"
)

type optionView struct {
	ID       string `json:"id"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

type fieldView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Value       string   `json:"value"`
	Placeholder string   `json:"placeholder"`
	MaxLength   int      `json:"maxLength,omitempty"`
	Required    bool     `json:"required"`
	Errors      []string `json:"errors,omitempty"`
}

type suiteView struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type themeView struct {
	Name       string `json:"name"`
	Variant    string `json:"variant"`
	Style      string `json:"style"`
	Stylesheet string `json:"stylesheet"`
	Logo       string `json:"logo"`
}

type pageView struct {
	Snapshot       wizard.Snapshot      `json:"snapshot"`
	Facility       assessment.Facility  `json:"facility"`
	Theme          themeView            `json:"theme"`
	Action         string               `json:"action"`
	Hidden         []render.HiddenField `json:"hidden"`
	FormErrors     []string             `json:"form_errors"`
	LeadID         string               `json:"lead_id"`
	Options        []optionView         `json:"options"`
	InputType      string               `json:"input_type"`
	ShowPrevious   bool                 `json:"show_previous"`
	QuestionErrors []string             `json:"question_errors"`
	Fields         []fieldView          `json:"fields"`
	ContactTimes   []optionView         `json:"contact_times"`
	BestTimeErrors []string             `json:"best_time_errors"`
	Video          assessment.Video     `json:"video"`
	Suites         []suiteView          `json:"suites"`
}

func buildView(snap wizard.Snapshot, opts render.RenderOptions) pageView {
	catalog := opts.ResolveCatalog()
	view := pageView{
		Snapshot:   snap,
		Facility:   catalog.Facility,
		Theme:      buildTheme(opts.Theme),
		Action:     opts.Action,
		Hidden:     render.SortedHiddenFields(opts.Hidden),
		FormErrors: render.MergeFormErrors(opts.Form),
		LeadID:     opts.LeadID,
	}
	if view.Theme.Logo == "" {
		view.Theme.Logo = catalog.Facility.Logo
	}

	switch snap.Phase {
	case wizard.PhaseQuestioning.String():
		if snap.Question != nil {
			view.Options = questionOptions(*snap.Question, snap.Selected)
			view.InputType = "radio"
			if snap.Question.Multiple {
				view.InputType = "checkbox"
			}
			view.QuestionErrors = opts.FieldErrors("answers." + string(snap.Question.ID))
		}
		view.ShowPrevious = snap.CanRetreat && snap.Step > 1
	case wizard.PhaseContact.String():
		view.Fields = contactFields(snap.Contact, opts)
		view.ContactTimes = contactTimes(catalog.ContactTimes, snap.Contact.BestTimeToContact)
		view.BestTimeErrors = opts.FieldErrors("contact." + string(assessment.ContactBestTimeToContact))
	case wizard.PhaseResults.String():
		view.Video = catalog.Facility.VideoFor(snap.Answers.OccupancyType)
		if snap.Recommendation != nil {
			for i, src := range snap.Recommendation.SuiteImages {
				view.Suites = append(view.Suites, suiteView{Src: src, Alt: fmt.Sprintf("Suite %d", i+1)})
			}
		}
	}
	return view
}

func buildTheme(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{}
	}
	view := themeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   brand.CSSVarsStyle(cfg),
	}
	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL(brand.AssetStylesheet)
		view.Logo = cfg.AssetURL(brand.AssetLogo)
	}
	return view
}

func questionOptions(q assessment.Question, selected []string) []optionView {
	chosen := make(map[string]struct{}, len(selected))
	for _, value := range selected {
		chosen[value] = struct{}{}
	}
	out := make([]optionView, 0, len(q.Options))
	for i, option := range q.Options {
		_, ok := chosen[option]
		out = append(out, optionView{
			ID:       fmt.Sprintf("ca-%s-%d", q.ID, i),
			Value:    option,
			Selected: ok,
		})
	}
	return out
}

func contactFields(contact assessment.ContactInfo, opts render.RenderOptions) []fieldView {
	field := func(name assessment.ContactField, label, inputType, value, placeholder string, maxLength int) fieldView {
		return fieldView{
			ID:          "ca-" + string(name),
			Name:        string(name),
			Label:       label,
			Type:        inputType,
			Value:       value,
			Placeholder: placeholder,
			MaxLength:   maxLength,
			Required:    true,
			Errors:      opts.FieldErrors("contact." + string(name)),
		}
	}
	return []fieldView{
		field(assessment.ContactName, "Full Name *", "text", contact.Name, "Enter your full name", 0),
		field(assessment.ContactPhone, "Phone Number *", "tel", contact.Phone, "(555) 123-4567", 14),
		field(assessment.ContactEmail, "Email Address *", "email", contact.Email, "your.email@example.com", 0),
	}
}

func contactTimes(times []string, current string) []optionView {
	out := make([]optionView, 0, len(times))
	for i, value := range times {
		out = append(out, optionView{
			ID:       fmt.Sprintf("ca-time-%d", i),
			Value:    value,
			Selected: value == current,
		})
	}
	return out
}
