package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/lead"
)

func sampleLead(id string, at time.Time) lead.Lead {
	answers := assessment.NewAnswers()
	answers.Timeline = assessment.OptionImmediateTimeline
	answers.Challenges = []string{assessment.OptionMemoryLoss}
	eval := assessment.Evaluate(answers)
	return lead.Lead{
		ID:              id,
		CreatedAt:       at,
		Source:          lead.SourceWeb,
		Contact:         assessment.ContactInfo{Name: "Robin", Phone: "(555) 000-1111", Email: "r@example.com"},
		Answers:         answers,
		Recommendation:  eval.Recommendation,
		MemoryCareScore: eval.MemoryCareScore,
		Signals:         eval.Signals,
	}
}

func TestRepository_SaveGetList(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(ctx, filepath.Join(t.TempDir(), "data", "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	first := sampleLead("first", base)
	second := sampleLead("second", base.Add(time.Minute))

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Get(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "second", all[0].ID)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, lead.ErrNotFound)
}

func TestRepository_SaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(ctx, filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	l := sampleLead("dup", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, l))
	l.Contact.Name = "Robin Updated"
	require.NoError(t, repo.Save(ctx, l))

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Robin Updated", all[0].Contact.Name)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}
