package assessment

import "errors"

var (
	// ErrUnknownQuestion is returned when an answer update names a field that
	// does not exist.
	ErrUnknownQuestion = errors.New("assessment: unknown question")
	// ErrAnswerKind is returned when a single value is recorded against a
	// multi-select field or the reverse.
	ErrAnswerKind = errors.New("assessment: answer kind mismatch")
	// ErrInvalidCatalog wraps every catalog loading failure.
	ErrInvalidCatalog = errors.New("assessment: invalid catalog")
)
