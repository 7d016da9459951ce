package wizard

import (
	"fmt"
	"math"

	"github.com/goliatone/go-careassess/pkg/assessment"
)

// Progress describes the step indicator shown on question and contact screens.
type Progress struct {
	Step    int    `json:"step"`
	Of      int    `json:"of"`
	Percent int    `json:"percent"`
	Label   string `json:"label"`
}

// NewProgress computes the indicator for step out of last.
func NewProgress(step, last int) Progress {
	if last <= 0 {
		return Progress{}
	}
	percent := int(math.Round(float64(step) / float64(last) * 100))
	return Progress{
		Step:    step,
		Of:      last,
		Percent: percent,
		Label:   fmt.Sprintf("Step %d of %d", step, last),
	}
}

// Snapshot is the read-only view a presentation layer renders from.
type Snapshot struct {
	Phase          string                         `json:"phase"`
	Step           int                            `json:"step"`
	LastStep       int                            `json:"lastStep"`
	Progress       *Progress                      `json:"progress,omitempty"`
	Question       *assessment.Question           `json:"question,omitempty"`
	Selected       []string                       `json:"selected,omitempty"`
	CanAdvance     bool                           `json:"canAdvance"`
	CanRetreat     bool                           `json:"canRetreat"`
	IsLastQuestion bool                           `json:"isLastQuestion"`
	NextLabel      string                         `json:"nextLabel,omitempty"`
	Answers        assessment.Answers             `json:"answers"`
	Contact        assessment.ContactInfo         `json:"contact"`
	ContactReady   bool                           `json:"contactReady"`
	Recommendation *assessment.CareRecommendation `json:"recommendation,omitempty"`
	Score          *int                           `json:"memoryCareScore,omitempty"`
	Signals        []assessment.Signal            `json:"signals,omitempty"`
}

// Snapshot captures the wizard state for rendering.
func (w *Wizard) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:        w.phase.String(),
		Step:         w.Step(),
		LastStep:     w.LastStep(),
		CanAdvance:   w.CanAdvance(),
		CanRetreat:   w.phase == PhaseQuestioning || w.phase == PhaseContact,
		Answers:      w.answers.Clone(),
		Contact:      w.contact,
		ContactReady: w.contact.Complete(),
	}

	switch w.phase {
	case PhaseQuestioning:
		progress := NewProgress(w.Step(), w.LastStep())
		snap.Progress = &progress
		if q, ok := w.CurrentQuestion(); ok {
			snap.Question = &q
			if value, ok := w.answers.Get(q.ID); ok {
				if value.IsMulti() {
					snap.Selected = value.Strings()
				} else if value.String() != "" {
					snap.Selected = []string{value.String()}
				}
			}
		}
		snap.IsLastQuestion = w.question == w.catalog.Len()
		snap.NextLabel = "Next"
		if snap.IsLastQuestion {
			snap.NextLabel = "Continue to Contact Info"
		}
	case PhaseContact:
		progress := NewProgress(w.Step(), w.LastStep())
		snap.Progress = &progress
	case PhaseResults:
		if w.evaluation != nil {
			rec := w.evaluation.Recommendation
			score := w.evaluation.MemoryCareScore
			snap.Recommendation = &rec
			snap.Score = &score
			snap.Signals = append([]assessment.Signal(nil), w.evaluation.Signals...)
		}
	}
	return snap
}
