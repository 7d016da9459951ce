package testsupport_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/testsupport"
)

func TestFixturesScoreAsDocumented(t *testing.T) {
	if got := assessment.MemoryCareScore(testsupport.MemoryCareAnswers()); got != 3 {
		t.Fatalf("memory care fixture: expected score 3, got %d", got)
	}
	if got := assessment.MemoryCareScore(testsupport.AssistedLivingAnswers()); got != 0 {
		t.Fatalf("assisted living fixture: expected score 0, got %d", got)
	}
	if !testsupport.Contact().Complete() {
		t.Fatalf("contact fixture must be complete")
	}
}

func TestLoadAnswers_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "answers.yaml")
	jsonPath := filepath.Join(dir, "answers.json")
	if err := os.WriteFile(yamlPath, []byte("occupancyType: A couple\nchallenges:\n  - Memory loss or confusion\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jsonPath, []byte(`{"wanderingConcerns": "Yes, this is a concern"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	fromYAML, err := testsupport.LoadAnswers(yamlPath)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if fromYAML.OccupancyType != "A couple" || len(fromYAML.Challenges) != 1 || fromYAML.SupportNeeded == nil {
		t.Fatalf("unexpected yaml answers %#v", fromYAML)
	}

	fromJSON, err := testsupport.LoadAnswers(jsonPath)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if fromJSON.WanderingConcerns != "Yes, this is a concern" {
		t.Fatalf("unexpected json answers %#v", fromJSON)
	}

	if _, err := testsupport.LoadAnswers(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNewWizardAdvances(t *testing.T) {
	w := testsupport.NewWizard(t, 3)
	if w.Step() != 3 {
		t.Fatalf("expected step 3, got %d", w.Step())
	}
}
