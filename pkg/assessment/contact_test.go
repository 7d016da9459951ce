package assessment_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-careassess/pkg/assessment"
)

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"5", "5"},
		{"555", "555"},
		{"5551", "(555) 1"},
		{"555123", "(555) 123"},
		{"5551234", "(555) 123-4"},
		{"5551234567", "(555) 123-4567"},
		{"555123456789", "(555) 123-4567"},
		{"abc5551234", "(555) 123-4"},
		{"(555) 123-4567", "(555) 123-4567"},
		{"+1 (555) 123-4567", "(155) 512-3456"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := assessment.FormatPhoneNumber(tt.in); got != tt.want {
				t.Fatalf("FormatPhoneNumber(%q): want %q, got %q", tt.in, tt.want, got)
			}
		})
	}
}

func TestContactInfo_SetAndComplete(t *testing.T) {
	var contact assessment.ContactInfo
	if contact.Complete() {
		t.Fatalf("empty contact must not be complete")
	}

	steps := []struct {
		field assessment.ContactField
		value string
	}{
		{assessment.ContactName, "Jordan Doe"},
		{assessment.ContactPhone, "571.494.8100"},
		{assessment.ContactEmail, "not-an-email"},
	}
	for _, step := range steps {
		if err := contact.Set(step.field, step.value); err != nil {
			t.Fatalf("set %s: %v", step.field, err)
		}
	}

	if contact.Phone != "(571) 494-8100" {
		t.Fatalf("expected formatted phone, got %q", contact.Phone)
	}
	if !contact.Complete() {
		t.Fatalf("expected contact to be complete without best time")
	}
	if err := contact.Set("fax", "1"); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestContactInfo_Missing(t *testing.T) {
	contact := assessment.ContactInfo{Email: "a@b.c"}
	want := []assessment.ContactField{assessment.ContactName, assessment.ContactPhone}
	if diff := cmp.Diff(want, contact.Missing()); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}
