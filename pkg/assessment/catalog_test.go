package assessment_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-careassess/pkg/assessment"
)

func TestDefaultCatalog_Embedded(t *testing.T) {
	catalog, err := assessment.DefaultCatalog()
	if err != nil {
		t.Fatalf("load default catalog: %v", err)
	}
	if catalog.Len() != 10 {
		t.Fatalf("expected 10 questions, got %d", catalog.Len())
	}

	wantOrder := []assessment.QuestionID{
		assessment.QuestionRelationship,
		assessment.QuestionOccupancyType,
		assessment.QuestionAgeRange,
		assessment.QuestionLivingSituation,
		assessment.QuestionTimeline,
		assessment.QuestionChallenges,
		assessment.QuestionSupportNeeded,
		assessment.QuestionPrimaryConcerns,
		assessment.QuestionNeedsRoundTheClock,
		assessment.QuestionWanderingConcerns,
	}
	for i, id := range wantOrder {
		q, ok := catalog.At(i + 1)
		if !ok || q.ID != id {
			t.Fatalf("step %d: expected %q, got %q", i+1, id, q.ID)
		}
	}
	if _, ok := catalog.At(0); ok {
		t.Fatalf("expected no question at step 0")
	}
	if _, ok := catalog.At(11); ok {
		t.Fatalf("expected no question at step 11")
	}

	challenges, _ := catalog.Question(assessment.QuestionChallenges)
	if !challenges.Multiple || challenges.Subtitle != "(Select all that apply)" {
		t.Fatalf("unexpected challenges question: %#v", challenges)
	}
	if !challenges.HasOption(assessment.OptionMemoryLoss) {
		t.Fatalf("expected memory loss option")
	}

	if catalog.Facility.Phone != "(571) 494-8100" {
		t.Fatalf("unexpected facility phone %q", catalog.Facility.Phone)
	}
	if got := catalog.Facility.VideoFor(assessment.OptionCouple).Heading; got != "See How Couples Thrive at Kensington" {
		t.Fatalf("unexpected couple video heading %q", got)
	}
	if got := catalog.Facility.VideoFor("One person").Heading; got != "Discover Life at Kensington" {
		t.Fatalf("unexpected single video heading %q", got)
	}
	if len(catalog.ContactTimes) != 4 || !catalog.IsContactTime("Anytime") || !catalog.IsContactTime("") {
		t.Fatalf("unexpected contact times %v", catalog.ContactTimes)
	}
	if catalog.IsContactTime("Midnight") {
		t.Fatalf("expected unknown contact time to be rejected")
	}
}

func TestLoadCatalogFS_JSONAndYAMLMerge(t *testing.T) {
	fsys := fstest.MapFS{
		"a_questions.json": {Data: []byte(`{"questions":[{"id":"timeline","question":"When?","options":["Soon","Later"]}]}`)},
		"b_facility.yaml":  {Data: []byte("facility:\n  name: Test Home\ncontactTimes:\n  - Anytime\n")},
		"notes.txt":        {Data: []byte("ignored")},
	}

	catalog, err := assessment.LoadCatalogFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if catalog.Len() != 1 || catalog.Facility.Name != "Test Home" || len(catalog.ContactTimes) != 1 {
		t.Fatalf("unexpected catalog: %#v", catalog)
	}
}

func TestLoadCatalogFS_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		wantMsg string
	}{
		{
			name:    "no questions",
			files:   fstest.MapFS{"facility.yaml": {Data: []byte("facility:\n  name: x\n")}},
			wantMsg: "no questions",
		},
		{
			name:    "unknown id",
			files:   fstest.MapFS{"q.yaml": {Data: []byte("questions:\n  - id: colour\n    question: Colour?\n    options: [red]\n")}},
			wantMsg: "unknown id",
		},
		{
			name:    "multi flag mismatch",
			files:   fstest.MapFS{"q.yaml": {Data: []byte("questions:\n  - id: challenges\n    question: Which?\n    options: [a]\n")}},
			wantMsg: "does not match",
		},
		{
			name:    "duplicate question",
			files:   fstest.MapFS{"q.yaml": {Data: []byte("questions:\n  - id: timeline\n    question: A?\n    options: [a]\n  - id: timeline\n    question: B?\n    options: [b]\n")}},
			wantMsg: "duplicate question",
		},
		{
			name:    "missing options",
			files:   fstest.MapFS{"q.yaml": {Data: []byte("questions:\n  - id: timeline\n    question: A?\n")}},
			wantMsg: "no options",
		},
		{
			name: "questions declared twice",
			files: fstest.MapFS{
				"a.yaml": {Data: []byte("questions:\n  - id: timeline\n    question: A?\n    options: [a]\n")},
				"b.yaml": {Data: []byte("questions:\n  - id: ageRange\n    question: B?\n    options: [b]\n")},
			},
			wantMsg: "questions declared in a.yaml and b.yaml",
		},
		{
			name:    "empty file",
			files:   fstest.MapFS{"q.yaml": {Data: []byte("  \n")}},
			wantMsg: "is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := assessment.LoadCatalogFS(tt.files)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, assessment.ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("expected %q in error, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestCatalog_InvalidOptions(t *testing.T) {
	catalog := assessment.MustDefaultCatalog()

	answers := assessment.NewAnswers()
	answers.Relationship = "My parent"
	answers.Timeline = "Tomorrow"
	answers.Challenges = []string{assessment.OptionMemoryLoss, "Juggling"}
	answers.MemoryDiagnosis = "anything goes"

	got := catalog.InvalidOptions(answers)
	if len(got) != 2 {
		t.Fatalf("expected two invalid fields, got %v", got)
	}
	if got[assessment.QuestionTimeline][0] != "Tomorrow" || got[assessment.QuestionChallenges][0] != "Juggling" {
		t.Fatalf("unexpected invalid options %v", got)
	}
	if len(catalog.InvalidOptions(assessment.NewAnswers())) != 0 {
		t.Fatalf("unanswered fields must not be reported")
	}
}
