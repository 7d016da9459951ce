// Package session keeps server-side wizard state between HTTP requests.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-careassess/pkg/wizard"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session: not found")

// Session pairs one wizard with its identifier. Callers hold Lock while
// reading or mutating the wizard.
type Session struct {
	sync.Mutex

	ID        string
	Wizard    *wizard.Wizard
	CreatedAt time.Time
	UpdatedAt time.Time
	// CSRFToken is echoed by every form the session renders.
	CSRFToken string
	// LeadID is set once the assessment was delivered as a lead.
	LeadID string
}

// New creates a session around w with a fresh random id.
func New(w *wizard.Wizard, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Wizard:    w,
		CreatedAt: now,
		UpdatedAt: now,
		CSRFToken: uuid.NewString(),
	}
}

// Store persists sessions.
type Store interface {
	Save(ctx context.Context, sess *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
