// Package testsupport holds fixtures and golden helpers shared by the
// package tests.
package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/wizard"
)

// MemoryCareAnswers scores 3 (memory loss, wandering, round-the-clock) for a
// couple.
func MemoryCareAnswers() assessment.Answers {
	a := assessment.NewAnswers()
	a.Relationship = "My parent"
	a.OccupancyType = assessment.OptionCouple
	a.AgeRange = "85 and above"
	a.LivingSituation = "At home with some family help"
	a.Timeline = "Within 2-3 months"
	a.Challenges = []string{assessment.OptionMemoryLoss, "Fall risk or mobility issues"}
	a.SupportNeeded = []string{"Help with dressing or bathing"}
	a.PrimaryConcerns = []string{"Peace of mind for family members"}
	a.NeedsRoundTheClock = assessment.OptionRoundTheClock
	a.WanderingConcerns = assessment.OptionWanderingConcern
	a.MemoryDiagnosis = assessment.OptionNoDiagnosis
	a.FinancialConsiderations = []string{"Long-term care insurance"}
	a.ReadinessToMove = "Ready to move soon"
	return a
}

// AssistedLivingAnswers trigger no memory care signal.
func AssistedLivingAnswers() assessment.Answers {
	a := assessment.NewAnswers()
	a.Relationship = "Myself"
	a.OccupancyType = "One person"
	a.AgeRange = "75-84"
	a.LivingSituation = "Living independently at home"
	a.Timeline = "Just exploring options for the future"
	a.Challenges = []string{"Fall risk or mobility issues"}
	a.NeedsRoundTheClock = "No, not at this time"
	a.WanderingConcerns = "No, not an issue"
	a.MemoryDiagnosis = assessment.OptionNoDiagnosis
	return a
}

// Contact returns a complete contact record.
func Contact() assessment.ContactInfo {
	return assessment.ContactInfo{
		Name:              "Jordan Rivera",
		Phone:             "(555) 123-4567",
		Email:             "jordan@example.com",
		BestTimeToContact: "Morning (8 AM - 12 PM)",
	}
}

// NewWizard creates a wizard over the embedded catalog and advances it steps
// times.
func NewWizard(t *testing.T, steps int) *wizard.Wizard {
	t.Helper()
	w, err := wizard.New(nil)
	if err != nil {
		t.Fatalf("new wizard: %v", err)
	}
	for i := 0; i < steps; i++ {
		w.Advance()
	}
	return w
}

// LoadAnswers reads a YAML or JSON answers fixture.
func LoadAnswers(path string) (assessment.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return assessment.Answers{}, fmt.Errorf("testsupport: read answers: %w", err)
	}
	return assessment.ParseAnswers(data)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set and
// reports whether it did.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
