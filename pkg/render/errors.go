package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-careassess/pkg/assessment"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages keyed by dotted paths.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// FieldPaths lists every path a wizard page can show an error against: one
// "answers.<id>" per catalog question and one "contact.<field>" per contact
// field.
func FieldPaths(catalog *assessment.Catalog) []string {
	if catalog == nil {
		catalog = assessment.MustDefaultCatalog()
	}
	paths := []string{"answers", "contact"}
	for _, q := range catalog.Questions {
		paths = append(paths, "answers."+string(q.ID))
	}
	for _, field := range []assessment.ContactField{
		assessment.ContactName,
		assessment.ContactPhone,
		assessment.ContactEmail,
		assessment.ContactBestTimeToContact,
	} {
		paths = append(paths, "contact."+string(field))
	}
	return paths
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises error keys (JSON pointers, bracketed indexes,
// request wrappers such as "body") onto the longest known path. Keys that do
// not resolve become form-level messages so nothing is lost.
func MapErrorPayload(known []string, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	index := make(map[string]struct{}, len(known))
	for _, path := range known {
		if path = strings.TrimSpace(path); path != "" {
			index[path] = struct{}{}
		}
	}

	for rawPath, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		path := resolvePath(rawPath, index)
		if path == "" {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[path] = append(mapping.Fields[path], messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func resolvePath(raw string, index map[string]struct{}) string {
	if isFormLevelKey(raw) {
		return ""
	}
	segments := splitPath(raw)
	best := ""
	for _, candidate := range [][]string{
		segments,
		dropWrappers(segments),
		dropIndexes(segments),
		dropIndexes(dropWrappers(segments)),
	} {
		for end := len(candidate); end > 0; end-- {
			path := strings.Join(candidate[:end], ".")
			if _, ok := index[path]; ok {
				if strings.Count(path, ".") >= strings.Count(best, ".") || best == "" {
					best = path
				}
				break
			}
		}
	}
	return best
}

func splitPath(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$./")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '.' || r == '/' })

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

func dropWrappers(segments []string) []string {
	for len(segments) > 0 {
		switch strings.ToLower(segments[0]) {
		case "body", "request", "payload", "data":
			segments = segments[1:]
			continue
		}
		break
	}
	return segments
}

func dropIndexes(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func normalizeMessages(messages []string) []string {
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
