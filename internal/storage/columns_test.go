package storage

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/lead"
)

func TestEncodeDecode_PreservesLead(t *testing.T) {
	answers := assessment.NewAnswers()
	answers.OccupancyType = assessment.OptionCouple
	answers.Challenges = []string{assessment.OptionMemoryLoss}
	eval := assessment.Evaluate(answers)

	in := lead.Lead{
		ID:              "abc",
		Source:          lead.SourceTerminal,
		Contact:         assessment.ContactInfo{Name: "Sam", Phone: "(555) 123-4567", Email: "s@x.io"},
		Answers:         answers,
		Recommendation:  eval.Recommendation,
		MemoryCareScore: eval.MemoryCareScore,
		Signals:         eval.Signals,
	}

	cols, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if cols.CareType != string(assessment.CareTypeAssistedLiving) || cols.Name != "Sam" {
		t.Fatalf("unexpected columns: %#v", cols)
	}

	out, err := Decode(cols)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("lead mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_RejectsCorruptJSON(t *testing.T) {
	_, err := Decode(Columns{ID: "x", Answers: []byte("{"), Recommendation: []byte("{}"), Signals: []byte("[]")})
	if err == nil {
		t.Fatalf("expected decode error")
	}
}
