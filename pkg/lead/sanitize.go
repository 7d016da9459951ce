package lead

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-careassess/pkg/assessment"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// sanitizeText strips markup from user supplied text and collapses
// whitespace. The policy escapes entities, so they are decoded again to keep
// names such as "O'Neil" intact.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := html.UnescapeString(textSanitizer().Sanitize(trimmed))
	return strings.Join(strings.Fields(cleaned), " ")
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// SanitizeContact cleans every contact field and reformats the phone.
func SanitizeContact(c assessment.ContactInfo) assessment.ContactInfo {
	return assessment.ContactInfo{
		Name:              sanitizeText(c.Name),
		Phone:             assessment.FormatPhoneNumber(c.Phone),
		Email:             sanitizeText(c.Email),
		BestTimeToContact: sanitizeText(c.BestTimeToContact),
	}
}
