package assessment

// Option labels the scoring rules match on.
const (
	OptionMemoryLoss        = "Memory loss or confusion"
	OptionWanderingConcern  = "Yes, this is a concern"
	OptionFormalDiagnosis   = "Yes, formally diagnosed"
	OptionNoDiagnosis       = "No diagnosis"
	OptionRoundTheClock     = "Yes, definitely needed"
	OptionSafetyConcerns    = "Safety and security concerns"
	OptionImmediateTimeline = "Immediately (within 30 days)"
	OptionCouple            = "A couple"
)

// MemoryCareThreshold is the lowest score that recommends Memory Care.
const MemoryCareThreshold = 2

// MaxMemoryCareScore is the number of signal rules.
const MaxMemoryCareScore = 6

// Signal identifies one memory-care risk indicator.
type Signal string

const (
	SignalMemoryLoss        Signal = "memory_loss"
	SignalWandering         Signal = "wandering"
	SignalDiagnosed         Signal = "diagnosed"
	SignalRoundTheClock     Signal = "round_the_clock"
	SignalSafety            Signal = "safety"
	SignalUrgentUndiagnosed Signal = "urgent_undiagnosed"
)

type signalRule struct {
	signal Signal
	match  func(Answers) bool
}

// An unanswered diagnosis satisfies the last rule's inequality.
var signalRules = []signalRule{
	{SignalMemoryLoss, func(a Answers) bool { return contains(a.Challenges, OptionMemoryLoss) }},
	{SignalWandering, func(a Answers) bool { return a.WanderingConcerns == OptionWanderingConcern }},
	{SignalDiagnosed, func(a Answers) bool { return a.MemoryDiagnosis == OptionFormalDiagnosis }},
	{SignalRoundTheClock, func(a Answers) bool { return a.NeedsRoundTheClock == OptionRoundTheClock }},
	{SignalSafety, func(a Answers) bool { return contains(a.PrimaryConcerns, OptionSafetyConcerns) }},
	{SignalUrgentUndiagnosed, func(a Answers) bool {
		return a.Timeline == OptionImmediateTimeline && a.MemoryDiagnosis != OptionNoDiagnosis
	}},
}

// Evaluation is the scored outcome of an assessment.
type Evaluation struct {
	MemoryCareScore int                `json:"memoryCareScore" yaml:"memoryCareScore"`
	Signals         []Signal           `json:"signals" yaml:"signals"`
	Recommendation  CareRecommendation `json:"recommendation" yaml:"recommendation"`
}

// Signals returns the triggered indicators in rule order.
func Signals(answers Answers) []Signal {
	out := []Signal{}
	for _, rule := range signalRules {
		if rule.match(answers) {
			out = append(out, rule.signal)
		}
	}
	return out
}

// MemoryCareScore counts the triggered indicators; the result is in [0, 6].
func MemoryCareScore(answers Answers) int {
	return len(Signals(answers))
}

// Score maps answers to a recommendation. It is total and deterministic.
func Score(answers Answers) CareRecommendation {
	return Evaluate(answers).Recommendation
}

// Evaluate scores answers and keeps the intermediate detail.
func Evaluate(answers Answers) Evaluation {
	signals := Signals(answers)
	tmpl := assistedLivingTemplate
	if len(signals) >= MemoryCareThreshold {
		tmpl = memoryCareTemplate
	}
	return Evaluation{
		MemoryCareScore: len(signals),
		Signals:         signals,
		Recommendation:  tmpl.build(answers.OccupancyType == OptionCouple),
	}
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
