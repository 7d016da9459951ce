package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/lead"
)

type fakeSender struct {
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &models.Message{ID: len(f.sent)}, nil
}

func sample() lead.Lead {
	answers := assessment.NewAnswers()
	answers.Timeline = "Within 6 months"
	return lead.Lead{
		ID:              "lead-7",
		Source:          lead.SourceTerminal,
		Contact:         assessment.ContactInfo{Name: "Lee", Phone: "(555) 987-6543", Email: "lee@example.com", BestTimeToContact: "Morning (8 AM - 12 PM)"},
		Answers:         answers,
		Recommendation:  assessment.CareRecommendation{Type: assessment.CareTypeAssistedLiving},
		MemoryCareScore: 1,
	}
}

func TestSink_DeliverSendsSummary(t *testing.T) {
	sender := &fakeSender{}
	sink := &Sink{client: sender, chatID: int64(-100123)}

	require.NoError(t, sink.Deliver(context.Background(), sample()))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(-100123), sender.sent[0].ChatID)
	assert.Contains(t, sender.sent[0].Text, "Recommendation: Assisted Living (score 1/6)")
	assert.Contains(t, sender.sent[0].Text, "Best time: Morning (8 AM - 12 PM)")
	assert.Contains(t, sender.sent[0].Text, "Timeline: Within 6 months")
}

func TestFormatMessage_OmitsEmptyOptionalLines(t *testing.T) {
	l := sample()
	l.Contact.BestTimeToContact = ""
	l.Answers.Timeline = ""
	msg := FormatMessage(l)
	assert.NotContains(t, msg, "Best time")
	assert.NotContains(t, msg, "Timeline")
	assert.Contains(t, msg, "Lead ID: lead-7")
}

func TestSink_DeliverWrapsErrors(t *testing.T) {
	sink := &Sink{client: &fakeSender{err: errors.New("chat not found")}, chatID: "@staff"}
	err := sink.Deliver(context.Background(), sample())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestNew_Validates(t *testing.T) {
	_, err := New("", int64(1))
	assert.Error(t, err)
	_, err = New("token", nil)
	assert.Error(t, err)
}
