package assessment

import (
	"fmt"
	"strings"
)

// ContactField names one ContactInfo field.
type ContactField string

const (
	ContactName              ContactField = "name"
	ContactPhone             ContactField = "phone"
	ContactEmail             ContactField = "email"
	ContactBestTimeToContact ContactField = "bestTimeToContact"
)

// ContactInfo is collected after the last question.
type ContactInfo struct {
	Name              string `json:"name" yaml:"name"`
	Phone             string `json:"phone" yaml:"phone"`
	Email             string `json:"email" yaml:"email"`
	BestTimeToContact string `json:"bestTimeToContact" yaml:"bestTimeToContact"`
}

// Set stores value under field. Phone values are passed through
// FormatPhoneNumber.
func (c *ContactInfo) Set(field ContactField, value string) error {
	switch field {
	case ContactName:
		c.Name = value
	case ContactPhone:
		c.Phone = FormatPhoneNumber(value)
	case ContactEmail:
		c.Email = value
	case ContactBestTimeToContact:
		c.BestTimeToContact = value
	default:
		return fmt.Errorf("assessment: unknown contact field %q", field)
	}
	return nil
}

// Complete reports whether name, phone and email are all non-empty. The best
// time to contact is optional and email is not format-checked.
func (c ContactInfo) Complete() bool {
	return c.Name != "" && c.Phone != "" && c.Email != ""
}

// Missing lists the required fields that are still empty.
func (c ContactInfo) Missing() []ContactField {
	var out []ContactField
	if c.Name == "" {
		out = append(out, ContactName)
	}
	if c.Phone == "" {
		out = append(out, ContactPhone)
	}
	if c.Email == "" {
		out = append(out, ContactEmail)
	}
	return out
}

// FormatPhoneNumber keeps the digits of raw and shapes them as a US number
// while the user types: up to 3 digits are returned bare, up to 6 become
// "(ddd) ddd", anything longer becomes "(ddd) ddd-dddd" with the extra digits
// dropped.
func FormatPhoneNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 6:
		return fmt.Sprintf("(%s) %s", digits[:3], digits[3:])
	default:
		if len(digits) > 10 {
			digits = digits[:10]
		}
		return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
	}
}
