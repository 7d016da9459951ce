// Package telegram notifies staff about new leads through a Telegram bot.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/goliatone/go-careassess/pkg/lead"
)

type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

var _ lead.Sink = (*Sink)(nil)

// Sink posts a short summary of every lead to one chat.
type Sink struct {
	client sender
	chatID any
}

// New creates a bot client for token. chatID is a numeric id or an
// "@channel" name.
func New(token string, chatID any) (*Sink, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram: bot token is required")
	}
	if chatID == nil || chatID == "" {
		return nil, errors.New("telegram: chat id is required")
	}
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}
	return &Sink{client: b, chatID: chatID}, nil
}

func (s *Sink) Name() string { return "telegram" }

func (s *Sink) Deliver(ctx context.Context, l lead.Lead) error {
	_, err := s.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: s.chatID,
		Text:   FormatMessage(l),
	})
	if err != nil {
		return fmt.Errorf("telegram: notify lead %s: %w", l.ID, err)
	}
	return nil
}

// FormatMessage renders the plain-text notification for l.
func FormatMessage(l lead.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New care assessment lead (%s)\n", l.Source)
	fmt.Fprintf(&b, "Recommendation: %s (score %d/6)\n", l.Recommendation.Type, l.MemoryCareScore)
	fmt.Fprintf(&b, "Name: %s\n", l.Contact.Name)
	fmt.Fprintf(&b, "Phone: %s\n", l.Contact.Phone)
	fmt.Fprintf(&b, "Email: %s\n", l.Contact.Email)
	if l.Contact.BestTimeToContact != "" {
		fmt.Fprintf(&b, "Best time: %s\n", l.Contact.BestTimeToContact)
	}
	if l.Answers.Timeline != "" {
		fmt.Fprintf(&b, "Timeline: %s\n", l.Answers.Timeline)
	}
	fmt.Fprintf(&b, "Lead ID: %s", l.ID)
	return b.String()
}
