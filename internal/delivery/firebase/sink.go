// Package firebase mirrors leads into a Firebase Realtime Database.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"github.com/goliatone/go-careassess/pkg/lead"
)

// DefaultRef is the database path leads are pushed under.
const DefaultRef = "leads"

type pusher interface {
	Push(ctx context.Context, v interface{}) (*db.Ref, error)
}

var _ lead.Sink = (*Sink)(nil)

// Sink pushes each lead as a new child of its ref.
type Sink struct {
	ref pusher
}

// Config selects the project and credentials.
type Config struct {
	CredentialsFile string
	DatabaseURL     string
	Ref             string
}

// New initialises the Firebase app and database client.
func New(ctx context.Context, cfg Config) (*Sink, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, errors.New("firebase: database URL is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: cfg.DatabaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: initialise app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: database client: %w", err)
	}

	path := cfg.Ref
	if path == "" {
		path = DefaultRef
	}
	return &Sink{ref: client.NewRef(path)}, nil
}

func (s *Sink) Name() string { return "firebase" }

// record is the stored shape; the database assigns its own key so the lead id
// travels as a field.
type record struct {
	LeadID          string   `json:"leadId"`
	CreatedAt       string   `json:"createdAt"`
	Source          string   `json:"source"`
	Name            string   `json:"name"`
	Phone           string   `json:"phone"`
	Email           string   `json:"email"`
	BestTime        string   `json:"bestTimeToContact,omitempty"`
	CareType        string   `json:"careType"`
	MemoryCareScore int      `json:"memoryCareScore"`
	Signals         []string `json:"signals"`
	Answers         any      `json:"answers"`
}

func (s *Sink) Deliver(ctx context.Context, l lead.Lead) error {
	signals := make([]string, 0, len(l.Signals))
	for _, sig := range l.Signals {
		signals = append(signals, string(sig))
	}
	ref, err := s.ref.Push(ctx, record{
		LeadID:          l.ID,
		CreatedAt:       l.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Source:          string(l.Source),
		Name:            l.Contact.Name,
		Phone:           l.Contact.Phone,
		Email:           l.Contact.Email,
		BestTime:        l.Contact.BestTimeToContact,
		CareType:        string(l.Recommendation.Type),
		MemoryCareScore: l.MemoryCareScore,
		Signals:         signals,
		Answers:         l.Answers,
	})
	if err != nil {
		return fmt.Errorf("firebase: push lead %s: %w", l.ID, err)
	}
	if ref == nil || ref.Key == "" {
		return fmt.Errorf("firebase: push lead %s: empty key", l.ID)
	}
	return nil
}
