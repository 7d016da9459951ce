package assessment

// QuestionID names one AssessmentAnswers field. The set is closed: every
// answer update goes through one of these identifiers.
type QuestionID string

const (
	QuestionRelationship            QuestionID = "relationship"
	QuestionOccupancyType           QuestionID = "occupancyType"
	QuestionAgeRange                QuestionID = "ageRange"
	QuestionLivingSituation         QuestionID = "livingSituation"
	QuestionTimeline                QuestionID = "timeline"
	QuestionChallenges              QuestionID = "challenges"
	QuestionSupportNeeded           QuestionID = "supportNeeded"
	QuestionPrimaryConcerns         QuestionID = "primaryConcerns"
	QuestionNeedsRoundTheClock      QuestionID = "needsRoundTheClock"
	QuestionWanderingConcerns       QuestionID = "wanderingConcerns"
	QuestionMemoryDiagnosis         QuestionID = "memoryDiagnosis"
	QuestionFinancialConsiderations QuestionID = "financialConsiderations"
	QuestionReadinessToMove         QuestionID = "readinessToMove"
)

// AllQuestionIDs lists every answer field in declaration order.
var AllQuestionIDs = []QuestionID{
	QuestionRelationship,
	QuestionOccupancyType,
	QuestionAgeRange,
	QuestionLivingSituation,
	QuestionTimeline,
	QuestionChallenges,
	QuestionSupportNeeded,
	QuestionPrimaryConcerns,
	QuestionNeedsRoundTheClock,
	QuestionWanderingConcerns,
	QuestionMemoryDiagnosis,
	QuestionFinancialConsiderations,
	QuestionReadinessToMove,
}

// Known reports whether id names an answer field.
func (id QuestionID) Known() bool {
	_, ok := id.kind()
	return ok
}

// Multi reports whether the field holds a set of options.
func (id QuestionID) Multi() bool {
	multi, _ := id.kind()
	return multi
}

func (id QuestionID) kind() (multi bool, known bool) {
	switch id {
	case QuestionChallenges, QuestionSupportNeeded, QuestionPrimaryConcerns, QuestionFinancialConsiderations:
		return true, true
	case QuestionRelationship, QuestionOccupancyType, QuestionAgeRange, QuestionLivingSituation,
		QuestionTimeline, QuestionNeedsRoundTheClock, QuestionWanderingConcerns,
		QuestionMemoryDiagnosis, QuestionReadinessToMove:
		return false, true
	default:
		return false, false
	}
}

// Question is one entry of the static catalog.
type Question struct {
	ID       QuestionID `json:"id" yaml:"id"`
	Text     string     `json:"question" yaml:"question"`
	Subtitle string     `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Options  []string   `json:"options" yaml:"options"`
	Multiple bool       `json:"multiSelect,omitempty" yaml:"multiSelect,omitempty"`
}

// HasOption reports whether option is one of the question's choices.
func (q Question) HasOption(option string) bool {
	for _, candidate := range q.Options {
		if candidate == option {
			return true
		}
	}
	return false
}

// Answered reports whether answers hold a usable value for the question: a
// non-empty string for single-select questions, at least one entry for
// multi-select questions.
func (q Question) Answered(answers Answers) bool {
	value, ok := answers.Get(q.ID)
	if !ok {
		return false
	}
	if q.Multiple {
		return len(value.Strings()) > 0
	}
	return value.String() != ""
}
