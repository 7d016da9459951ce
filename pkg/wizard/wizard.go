package wizard

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-careassess/pkg/assessment"
)

// TotalSteps counts the welcome screen, the questions and the contact/results
// screen for the standard ten question catalog.
const TotalSteps = 12

var (
	// ErrCompleted is returned by mutations after Submit; Restart clears it.
	ErrCompleted = errors.New("wizard: assessment already submitted")
	// ErrNoQuestion is returned when an answer operation runs outside the
	// questioning phase.
	ErrNoQuestion = errors.New("wizard: no active question")
)

// Phase is the wizard's coarse position.
type Phase int

const (
	PhaseWelcome Phase = iota
	PhaseQuestioning
	PhaseContact
	PhaseResults
)

func (p Phase) String() string {
	switch p {
	case PhaseWelcome:
		return "welcome"
	case PhaseQuestioning:
		return "questioning"
	case PhaseContact:
		return "contact"
	case PhaseResults:
		return "results"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Wizard walks one user through the catalog. It is not safe for concurrent
// use; callers holding a wizard across requests serialise access.
type Wizard struct {
	catalog *assessment.Catalog

	phase      Phase
	question   int // 1-based, meaningful in PhaseQuestioning
	answers    assessment.Answers
	contact    assessment.ContactInfo
	evaluation *assessment.Evaluation
}

// New creates a wizard at the welcome screen. A nil catalog selects the
// embedded default.
func New(catalog *assessment.Catalog) (*Wizard, error) {
	if catalog == nil {
		var err error
		catalog, err = assessment.DefaultCatalog()
		if err != nil {
			return nil, err
		}
	}
	if catalog.Len() == 0 {
		return nil, fmt.Errorf("wizard: catalog has no questions")
	}
	w := &Wizard{catalog: catalog}
	w.Restart()
	return w, nil
}

// Catalog returns the catalog the wizard walks.
func (w *Wizard) Catalog() *assessment.Catalog { return w.catalog }

// Phase reports the current phase.
func (w *Wizard) Phase() Phase { return w.phase }

// LastStep is the index of the contact/results screen.
func (w *Wizard) LastStep() int { return w.catalog.Len() + 1 }

// Step reports the flat step index: 0 for welcome, 1..n for questions and
// n+1 for both contact collection and results.
func (w *Wizard) Step() int {
	switch w.phase {
	case PhaseQuestioning:
		return w.question
	case PhaseContact, PhaseResults:
		return w.LastStep()
	default:
		return 0
	}
}

// CurrentQuestion returns the active question while questioning.
func (w *Wizard) CurrentQuestion() (assessment.Question, bool) {
	if w.phase != PhaseQuestioning {
		return assessment.Question{}, false
	}
	return w.catalog.At(w.question)
}

// Answers returns a copy of the collected answers.
func (w *Wizard) Answers() assessment.Answers { return w.answers.Clone() }

// Contact returns the collected contact details.
func (w *Wizard) Contact() assessment.ContactInfo { return w.contact }

// Recommendation returns the stored recommendation; it is present only in
// the results phase.
func (w *Wizard) Recommendation() (assessment.CareRecommendation, bool) {
	if w.evaluation == nil {
		return assessment.CareRecommendation{}, false
	}
	return w.evaluation.Recommendation, true
}

// Evaluation returns the full scoring detail after Submit.
func (w *Wizard) Evaluation() (assessment.Evaluation, bool) {
	if w.evaluation == nil {
		return assessment.Evaluation{}, false
	}
	return *w.evaluation, true
}

// Advance moves one screen forward. It never validates; callers gate it on
// HasValidAnswer. Contact collection only leaves through Submit.
func (w *Wizard) Advance() {
	switch w.phase {
	case PhaseWelcome:
		w.phase = PhaseQuestioning
		w.question = 1
	case PhaseQuestioning:
		if w.question < w.catalog.Len() {
			w.question++
			return
		}
		w.phase = PhaseContact
		w.question = 0
	}
}

// Retreat moves one screen back. Results are terminal until Restart.
func (w *Wizard) Retreat() {
	switch w.phase {
	case PhaseQuestioning:
		if w.question > 1 {
			w.question--
			return
		}
		w.phase = PhaseWelcome
		w.question = 0
	case PhaseContact:
		w.phase = PhaseQuestioning
		w.question = w.catalog.Len()
	}
}

// RecordAnswer overwrites one answer field.
func (w *Wizard) RecordAnswer(id assessment.QuestionID, value assessment.Value) error {
	if w.phase == PhaseResults {
		return ErrCompleted
	}
	return w.answers.Record(id, value)
}

// ToggleOption flips option in a multi-select answer.
func (w *Wizard) ToggleOption(id assessment.QuestionID, option string) error {
	if w.phase == PhaseResults {
		return ErrCompleted
	}
	return w.answers.Toggle(id, option)
}

// AnswerCurrent records value against the active question.
func (w *Wizard) AnswerCurrent(value assessment.Value) error {
	q, ok := w.CurrentQuestion()
	if !ok {
		return ErrNoQuestion
	}
	return w.RecordAnswer(q.ID, value)
}

// HasValidAnswer reports whether the stored answer for q lets the user move on.
func (w *Wizard) HasValidAnswer(q assessment.Question) bool {
	return q.Answered(w.answers)
}

// CanAdvance applies HasValidAnswer to the active question. Welcome can
// always advance; contact collection never does.
func (w *Wizard) CanAdvance() bool {
	switch w.phase {
	case PhaseWelcome:
		return true
	case PhaseQuestioning:
		q, _ := w.CurrentQuestion()
		return w.HasValidAnswer(q)
	default:
		return false
	}
}

// SetContact stores one contact field; phone input is reformatted.
func (w *Wizard) SetContact(field assessment.ContactField, value string) error {
	if w.phase == PhaseResults {
		return ErrCompleted
	}
	return w.contact.Set(field, value)
}

// ContactComplete reports whether the contact gate is satisfied.
func (w *Wizard) ContactComplete() bool {
	return w.contact.Complete()
}

// Submit scores the answers, stores the result and jumps to results from any
// phase. Submitting again rescores the same answers.
func (w *Wizard) Submit() assessment.Evaluation {
	eval := assessment.Evaluate(w.answers)
	w.evaluation = &eval
	w.phase = PhaseResults
	w.question = 0
	return eval
}

// Restart returns every field to its initial value.
func (w *Wizard) Restart() {
	w.phase = PhaseWelcome
	w.question = 0
	w.answers = assessment.NewAnswers()
	w.contact = assessment.ContactInfo{}
	w.evaluation = nil
}
