package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/lead"
	"github.com/goliatone/go-careassess/pkg/render"
	"github.com/goliatone/go-careassess/pkg/wizard"
)

// PreviousOption is appended to question prompts after the first question so
// the user can step back. Choosing it on a multi-select prompt discards the
// other selections made in that prompt.
const PreviousOption = "« Previous"

// NoPreferenceOption leaves the best time to contact empty.
const NoPreferenceOption = "No preference"

const selectAnswerMessage = "Please select an answer to continue"

// Submitter accepts the finished assessment. *lead.Service satisfies it.
type Submitter interface {
	Submit(ctx context.Context, sub lead.Submission) (lead.Result, error)
}

// Outcome is what a completed terminal session produced.
type Outcome struct {
	Evaluation assessment.Evaluation
	Lead       *lead.Lead
	Delivery   *lead.Report
}

// Runner walks a wizard through prompts and prints each screen.
type Runner struct {
	driver    PromptDriver
	out       io.Writer
	renderer  *Renderer
	submitter Submitter
	log       *zap.Logger
	theme     Theme
}

// NewRunner constructs a runner with the survey driver writing to stdout.
func NewRunner(options ...Option) *Runner {
	r := &Runner{
		out:      os.Stdout,
		renderer: NewRenderer(),
		log:      zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r
}

// Run drives w from its current phase to results. The lead is submitted with
// source "terminal" when a submitter is configured.
func (r *Runner) Run(ctx context.Context, w *wizard.Wizard) (Outcome, error) {
	if w == nil {
		return Outcome{}, errors.New("tui: wizard is nil")
	}

	if w.Phase() == wizard.PhaseWelcome {
		if err := r.show(ctx, w, render.RenderOptions{}); err != nil {
			return Outcome{}, err
		}
		start, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Start Assessment?", Default: true})
		if err != nil {
			return Outcome{}, err
		}
		if !start {
			return Outcome{}, ErrDeclined
		}
		w.Advance()
	}

	for w.Phase() == wizard.PhaseQuestioning || w.Phase() == wizard.PhaseWelcome {
		if w.Phase() == wizard.PhaseWelcome {
			w.Advance()
			continue
		}
		if err := r.askQuestion(ctx, w); err != nil {
			return Outcome{}, err
		}
	}

	if w.Phase() == wizard.PhaseContact {
		if err := r.askContact(ctx, w); err != nil {
			return Outcome{}, err
		}
	}

	outcome := Outcome{Evaluation: w.Submit()}
	r.log.Debug("assessment scored",
		zap.String("phase", w.Phase().String()),
		zap.Int("step", w.Step()),
		zap.Int("score", outcome.Evaluation.MemoryCareScore),
	)

	opts := render.RenderOptions{Catalog: w.Catalog()}
	if r.submitter != nil {
		result, err := r.submitter.Submit(ctx, lead.Submission{
			Answers: w.Answers(),
			Contact: w.Contact(),
			Source:  lead.SourceTerminal,
		})
		if err != nil {
			return outcome, fmt.Errorf("tui: submit lead: %w", err)
		}
		outcome.Lead = &result.Lead
		outcome.Delivery = &result.Report
		opts.LeadID = result.Lead.ID
		for sink, reason := range result.Report.Failed {
			_ = r.notice(ctx, r.theme.ErrorPrefix, fmt.Sprintf("delivery to %s failed: %s", sink, reason))
		}
	}

	if err := r.show(ctx, w, opts); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (r *Runner) askQuestion(ctx context.Context, w *wizard.Wizard) error {
	q, ok := w.CurrentQuestion()
	if !ok {
		return wizard.ErrNoQuestion
	}
	snap := w.Snapshot()
	message := q.Text
	if snap.Progress != nil {
		message = fmt.Sprintf("%s · %s", snap.Progress.Label, q.Text)
	}

	options := append([]string(nil), q.Options...)
	if snap.Step > 1 {
		options = append(options, PreviousOption)
	}

	if q.Multiple {
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  options,
			Defaults: indicesOf(options, snap.Selected),
			Help:     q.Subtitle,
		})
		if err != nil {
			return err
		}
		selected := valuesFromIndices(options, indices)
		if indexOf(selected, PreviousOption) >= 0 {
			w.Retreat()
			return nil
		}
		if err := w.AnswerCurrent(assessment.Multi(selected...)); err != nil {
			return err
		}
	} else {
		defaultIdx := -1
		if len(snap.Selected) > 0 {
			defaultIdx = indexOf(options, snap.Selected[0])
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         q.Subtitle,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			return r.notice(ctx, r.theme.ErrorPrefix, selectAnswerMessage)
		}
		if options[idx] == PreviousOption {
			w.Retreat()
			return nil
		}
		if err := w.AnswerCurrent(assessment.Single(options[idx])); err != nil {
			return err
		}
	}

	if !w.CanAdvance() {
		return r.notice(ctx, r.theme.ErrorPrefix, selectAnswerMessage)
	}
	w.Advance()
	return nil
}

func (r *Runner) askContact(ctx context.Context, w *wizard.Wizard) error {
	if err := r.show(ctx, w, render.RenderOptions{}); err != nil {
		return err
	}
	fields := []struct {
		field   assessment.ContactField
		label   string
		current func() string
	}{
		{assessment.ContactName, "Full Name", func() string { return w.Contact().Name }},
		{assessment.ContactPhone, "Phone Number", func() string { return w.Contact().Phone }},
		{assessment.ContactEmail, "Email Address", func() string { return w.Contact().Email }},
	}

	for !w.ContactComplete() {
		for _, f := range fields {
			for {
				value, err := r.driver.Input(ctx, InputConfig{
					Message:   f.label,
					Default:   f.current(),
					Validator: requiredValidator(f.label),
				})
				if err != nil {
					return err
				}
				if strings.TrimSpace(value) == "" {
					if err := r.notice(ctx, r.theme.ErrorPrefix, f.label+" is required"); err != nil {
						return err
					}
					continue
				}
				if err := w.SetContact(f.field, strings.TrimSpace(value)); err != nil {
					return err
				}
				break
			}
		}
	}

	times := append([]string{NoPreferenceOption}, w.Catalog().ContactTimes...)
	defaultIdx := indexOf(times, w.Contact().BestTimeToContact)
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "Best Time to Contact (Optional)",
		Options:      times,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return err
	}
	best := ""
	if idx > 0 && idx < len(times) {
		best = times[idx]
	}
	return w.SetContact(assessment.ContactBestTimeToContact, best)
}

func (r *Runner) show(ctx context.Context, w *wizard.Wizard, opts render.RenderOptions) error {
	if opts.Catalog == nil {
		opts.Catalog = w.Catalog()
	}
	page, err := r.renderer.Render(ctx, w.Snapshot(), opts)
	if err != nil {
		return err
	}
	_, err = r.out.Write(page)
	return err
}

func (r *Runner) notice(ctx context.Context, prefix, msg string) error {
	return r.driver.Info(ctx, prefix+msg)
}

func requiredValidator(label string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}
