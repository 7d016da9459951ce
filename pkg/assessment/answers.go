package assessment

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Answers is the full set of responses collected by the wizard. Single-select
// fields are empty strings until answered; multi-select fields start empty.
type Answers struct {
	Relationship            string   `json:"relationship" yaml:"relationship"`
	OccupancyType           string   `json:"occupancyType" yaml:"occupancyType"`
	AgeRange                string   `json:"ageRange" yaml:"ageRange"`
	LivingSituation         string   `json:"livingSituation" yaml:"livingSituation"`
	Timeline                string   `json:"timeline" yaml:"timeline"`
	Challenges              []string `json:"challenges" yaml:"challenges"`
	SupportNeeded           []string `json:"supportNeeded" yaml:"supportNeeded"`
	PrimaryConcerns         []string `json:"primaryConcerns" yaml:"primaryConcerns"`
	NeedsRoundTheClock      string   `json:"needsRoundTheClock" yaml:"needsRoundTheClock"`
	WanderingConcerns       string   `json:"wanderingConcerns" yaml:"wanderingConcerns"`
	MemoryDiagnosis         string   `json:"memoryDiagnosis" yaml:"memoryDiagnosis"`
	FinancialConsiderations []string `json:"financialConsiderations" yaml:"financialConsiderations"`
	ReadinessToMove         string   `json:"readinessToMove" yaml:"readinessToMove"`
}

// NewAnswers returns the initial, unanswered state.
func NewAnswers() Answers {
	return Answers{
		Challenges:              []string{},
		SupportNeeded:           []string{},
		PrimaryConcerns:         []string{},
		FinancialConsiderations: []string{},
	}
}

// Value is either a single option or a set of options.
type Value struct {
	single string
	multi  []string
	isSet  bool
}

// Single wraps a single-select answer.
func Single(option string) Value {
	return Value{single: option}
}

// Multi wraps a multi-select answer. The slice is copied.
func Multi(options ...string) Value {
	return Value{multi: cloneStrings(options), isSet: true}
}

// IsMulti reports whether the value holds a set of options.
func (v Value) IsMulti() bool { return v.isSet }

// String returns the single-select option, or "" for set values.
func (v Value) String() string { return v.single }

// Strings returns a copy of the selected options for set values.
func (v Value) Strings() []string {
	if !v.isSet {
		return nil
	}
	return cloneStrings(v.multi)
}

// Contains reports whether a set value includes option.
func (v Value) Contains(option string) bool {
	for _, candidate := range v.multi {
		if candidate == option {
			return true
		}
	}
	return false
}

// Record stores value under id. Other fields are left untouched. Unknown ids
// return ErrUnknownQuestion; a value whose shape does not match the field
// returns ErrAnswerKind.
func (a *Answers) Record(id QuestionID, value Value) error {
	multi, known := id.kind()
	if !known {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
	}
	if multi != value.IsMulti() {
		return fmt.Errorf("%w: %q expects %s", ErrAnswerKind, id, kindLabel(multi))
	}

	switch id {
	case QuestionRelationship:
		a.Relationship = value.String()
	case QuestionOccupancyType:
		a.OccupancyType = value.String()
	case QuestionAgeRange:
		a.AgeRange = value.String()
	case QuestionLivingSituation:
		a.LivingSituation = value.String()
	case QuestionTimeline:
		a.Timeline = value.String()
	case QuestionChallenges:
		a.Challenges = value.Strings()
	case QuestionSupportNeeded:
		a.SupportNeeded = value.Strings()
	case QuestionPrimaryConcerns:
		a.PrimaryConcerns = value.Strings()
	case QuestionNeedsRoundTheClock:
		a.NeedsRoundTheClock = value.String()
	case QuestionWanderingConcerns:
		a.WanderingConcerns = value.String()
	case QuestionMemoryDiagnosis:
		a.MemoryDiagnosis = value.String()
	case QuestionFinancialConsiderations:
		a.FinancialConsiderations = value.Strings()
	case QuestionReadinessToMove:
		a.ReadinessToMove = value.String()
	}
	return nil
}

// Get returns the stored value for id.
func (a Answers) Get(id QuestionID) (Value, bool) {
	switch id {
	case QuestionRelationship:
		return Single(a.Relationship), true
	case QuestionOccupancyType:
		return Single(a.OccupancyType), true
	case QuestionAgeRange:
		return Single(a.AgeRange), true
	case QuestionLivingSituation:
		return Single(a.LivingSituation), true
	case QuestionTimeline:
		return Single(a.Timeline), true
	case QuestionChallenges:
		return Multi(a.Challenges...), true
	case QuestionSupportNeeded:
		return Multi(a.SupportNeeded...), true
	case QuestionPrimaryConcerns:
		return Multi(a.PrimaryConcerns...), true
	case QuestionNeedsRoundTheClock:
		return Single(a.NeedsRoundTheClock), true
	case QuestionWanderingConcerns:
		return Single(a.WanderingConcerns), true
	case QuestionMemoryDiagnosis:
		return Single(a.MemoryDiagnosis), true
	case QuestionFinancialConsiderations:
		return Multi(a.FinancialConsiderations...), true
	case QuestionReadinessToMove:
		return Single(a.ReadinessToMove), true
	default:
		return Value{}, false
	}
}

// Toggle adds option to a multi-select field when absent and removes every
// occurrence when present. Applying the same toggle twice restores the
// original set.
func (a *Answers) Toggle(id QuestionID, option string) error {
	multi, known := id.kind()
	if !known {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
	}
	if !multi {
		return fmt.Errorf("%w: %q expects %s", ErrAnswerKind, id, kindLabel(false))
	}

	current, _ := a.Get(id)
	selected := current.Strings()
	if current.Contains(option) {
		kept := make([]string, 0, len(selected))
		for _, candidate := range selected {
			if candidate != option {
				kept = append(kept, candidate)
			}
		}
		return a.Record(id, Multi(kept...))
	}
	return a.Record(id, Multi(append(selected, option)...))
}

// Clone returns a deep copy.
func (a Answers) Clone() Answers {
	out := a
	out.Challenges = cloneStrings(a.Challenges)
	out.SupportNeeded = cloneStrings(a.SupportNeeded)
	out.PrimaryConcerns = cloneStrings(a.PrimaryConcerns)
	out.FinancialConsiderations = cloneStrings(a.FinancialConsiderations)
	return out
}

// Normalize replaces nil sets with empty ones and trims single-select values.
// Decoded payloads go through it before scoring or storage.
func (a Answers) Normalize() Answers {
	out := a.Clone()
	for _, id := range AllQuestionIDs {
		value, _ := out.Get(id)
		if value.IsMulti() {
			_ = out.Record(id, Multi(value.Strings()...))
			continue
		}
		_ = out.Record(id, Single(strings.TrimSpace(value.String())))
	}
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func kindLabel(multi bool) string {
	if multi {
		return "a set of options"
	}
	return "a single option"
}

// ParseAnswers decodes a YAML or JSON answers document and normalizes it.
func ParseAnswers(data []byte) (Answers, error) {
	out := NewAnswers()
	if err := yaml.Unmarshal(data, &out); err != nil {
		return Answers{}, fmt.Errorf("assessment: decode answers: %w", err)
	}
	return out.Normalize(), nil
}
