package lead

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-careassess/pkg/assessment"
)

// Submission is the input to Service.Submit.
type Submission struct {
	Answers assessment.Answers
	Contact assessment.ContactInfo
	Source  Source
}

// Result is an accepted lead and its delivery report.
type Result struct {
	Lead   Lead   `json:"lead"`
	Report Report `json:"delivery"`
}

// Service validates, scores and dispatches submissions.
type Service struct {
	catalog    *assessment.Catalog
	dispatcher *Dispatcher
	now        func() time.Time
	newID      func() string
	log        *zap.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func WithLogger(log *zap.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService wires a service; a nil catalog selects the embedded default.
func NewService(catalog *assessment.Catalog, dispatcher *Dispatcher, opts ...ServiceOption) *Service {
	if catalog == nil {
		catalog = assessment.MustDefaultCatalog()
	}
	if dispatcher == nil {
		dispatcher = NewDispatcher(nil)
	}
	s := &Service{
		catalog:    catalog,
		dispatcher: dispatcher,
		now:        time.Now,
		newID:      uuid.NewString,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Validate sanitises the contact details and checks them. It returns the
// cleaned contact even when validation fails so forms can be re-rendered.
func (s *Service) Validate(contact assessment.ContactInfo) (assessment.ContactInfo, *ValidationError) {
	cleaned := SanitizeContact(contact)
	verr := &ValidationError{}
	for _, field := range cleaned.Missing() {
		verr.Add("contact."+string(field), requiredMessage(field))
	}
	if !s.catalog.IsContactTime(cleaned.BestTimeToContact) {
		verr.Add("contact.bestTimeToContact", "Choose one of the listed times")
	}
	if verr.Empty() {
		return cleaned, nil
	}
	return cleaned, verr
}

// Submit builds a lead from the submission and dispatches it.
func (s *Service) Submit(ctx context.Context, sub Submission) (Result, error) {
	contact, verr := s.Validate(sub.Contact)
	if verr != nil {
		return Result{}, verr
	}

	answers := sub.Answers.Normalize()
	eval := assessment.Evaluate(answers)
	source := sub.Source
	if source == "" {
		source = SourceAPI
	}

	l := Lead{
		ID:              s.newID(),
		CreatedAt:       s.now().UTC(),
		Source:          source,
		Contact:         contact,
		Answers:         answers,
		Recommendation:  eval.Recommendation,
		MemoryCareScore: eval.MemoryCareScore,
		Signals:         eval.Signals,
	}

	report, err := s.dispatcher.Dispatch(ctx, l)
	if err != nil {
		return Result{Lead: l, Report: report}, err
	}
	s.log.Info("lead accepted",
		zap.String("lead_id", l.ID),
		zap.String("source", string(l.Source)),
		zap.String("recommendation", string(l.Recommendation.Type)),
		zap.Int("score", l.MemoryCareScore),
	)
	return Result{Lead: l, Report: report}, nil
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
