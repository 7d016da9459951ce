// Package storage holds the column codec shared by the SQL lead repositories.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/lead"
)

// Columns is the flattened row shape of a lead. Structured values are JSON.
type Columns struct {
	ID              string
	Source          string
	Name            string
	Phone           string
	Email           string
	BestTime        string
	CareType        string
	MemoryCareScore int
	Answers         []byte
	Recommendation  []byte
	Signals         []byte
}

// Encode flattens l; CreatedAt is left to the caller since drivers differ in
// how they bind timestamps.
func Encode(l lead.Lead) (Columns, error) {
	answers, err := json.Marshal(l.Answers)
	if err != nil {
		return Columns{}, fmt.Errorf("storage: encode answers: %w", err)
	}
	rec, err := json.Marshal(l.Recommendation)
	if err != nil {
		return Columns{}, fmt.Errorf("storage: encode recommendation: %w", err)
	}
	signals := l.Signals
	if signals == nil {
		signals = []assessment.Signal{}
	}
	sig, err := json.Marshal(signals)
	if err != nil {
		return Columns{}, fmt.Errorf("storage: encode signals: %w", err)
	}
	return Columns{
		ID:              l.ID,
		Source:          string(l.Source),
		Name:            l.Contact.Name,
		Phone:           l.Contact.Phone,
		Email:           l.Contact.Email,
		BestTime:        l.Contact.BestTimeToContact,
		CareType:        string(l.Recommendation.Type),
		MemoryCareScore: l.MemoryCareScore,
		Answers:         answers,
		Recommendation:  rec,
		Signals:         sig,
	}, nil
}

// Decode rebuilds a lead from c; CreatedAt is set by the caller.
func Decode(c Columns) (lead.Lead, error) {
	l := lead.Lead{
		ID:     c.ID,
		Source: lead.Source(c.Source),
		Contact: assessment.ContactInfo{
			Name:              c.Name,
			Phone:             c.Phone,
			Email:             c.Email,
			BestTimeToContact: c.BestTime,
		},
		MemoryCareScore: c.MemoryCareScore,
	}
	if err := json.Unmarshal(c.Answers, &l.Answers); err != nil {
		return lead.Lead{}, fmt.Errorf("storage: decode answers for %s: %w", c.ID, err)
	}
	if err := json.Unmarshal(c.Recommendation, &l.Recommendation); err != nil {
		return lead.Lead{}, fmt.Errorf("storage: decode recommendation for %s: %w", c.ID, err)
	}
	if err := json.Unmarshal(c.Signals, &l.Signals); err != nil {
		return lead.Lead{}, fmt.Errorf("storage: decode signals for %s: %w", c.ID, err)
	}
	l.Answers = l.Answers.Normalize()
	return l, nil
}
