package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrMalformedBody is returned when a request body is not a JSON document.
var ErrMalformedBody = errors.New("openapi: malformed JSON body")

// Violations maps dotted field paths to messages. The empty key holds
// problems with the document as a whole.
type Violations map[string][]string

// Empty reports whether no violations were found.
func (v Violations) Empty() bool { return len(v) == 0 }

// Fields returns the field paths in sorted order.
func (v Violations) Fields() []string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ValidateBody decodes body and checks it against the named component schema.
func (d *Document) ValidateBody(schemaName string, body []byte) (Violations, error) {
	schema, err := d.schema(schemaName)
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	violations := Violations{}
	verr := schema.VisitJSON(value, openapi3.MultiErrors())
	if verr == nil {
		return violations, nil
	}
	collect(violations, verr)
	return violations, nil
}

func collect(out Violations, err error) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collect(out, inner)
		}
		return
	}
	var serr *openapi3.SchemaError
	if errors.As(err, &serr) {
		path := serr.JSONPointer()
		if serr.SchemaField == "required" {
			if name, ok := missingProperty(serr.Reason); ok && (len(path) == 0 || path[len(path)-1] != name) {
				path = append(append([]string(nil), path...), name)
			}
		}
		key := strings.Join(path, ".")
		out[key] = append(out[key], serr.Reason)
		return
	}
	out[""] = append(out[""], err.Error())
}

// missingProperty extracts the name from `property "x" is missing`.
func missingProperty(reason string) (string, bool) {
	_, rest, ok := strings.Cut(reason, `"`)
	if !ok {
		return "", false
	}
	name, _, ok := strings.Cut(rest, `"`)
	return name, ok && name != ""
}
