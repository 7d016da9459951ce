// Package lead turns a completed assessment into a lead record and delivers
// it to storage and notification sinks.
package lead

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-careassess/pkg/assessment"
)

// ErrNotFound is returned by repositories for unknown lead ids.
var ErrNotFound = errors.New("lead: not found")

// Source records where a lead was captured.
type Source string

const (
	SourceWeb      Source = "web"
	SourceAPI      Source = "api"
	SourceTerminal Source = "terminal"
)

// Lead is one submitted assessment plus the contact details to follow up on.
type Lead struct {
	ID              string                        `json:"id"`
	CreatedAt       time.Time                     `json:"createdAt"`
	Source          Source                        `json:"source"`
	Contact         assessment.ContactInfo        `json:"contact"`
	Answers         assessment.Answers            `json:"answers"`
	Recommendation  assessment.CareRecommendation `json:"recommendation"`
	MemoryCareScore int                           `json:"memoryCareScore"`
	Signals         []assessment.Signal           `json:"signals"`
}

// ValidationError reports request problems keyed by dotted field path.
type ValidationError struct {
	Fields map[string][]string
	Form   []string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "lead: validation failed"
	}
	parts := make([]string, 0, len(e.Fields)+len(e.Form))
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, strings.Join(e.Fields[key], ", ")))
	}
	parts = append(parts, e.Form...)
	if len(parts) == 0 {
		return "lead: validation failed"
	}
	return "lead: validation failed: " + strings.Join(parts, "; ")
}

// Add records a field message.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no problems were recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || (len(e.Fields) == 0 && len(e.Form) == 0)
}
