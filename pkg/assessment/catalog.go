package assessment

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed content/*.yaml
var embeddedContent embed.FS

// EmbeddedFS returns the bundled catalog and facility content.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedContent, "content")
	if err != nil {
		panic(err)
	}
	return sub
}

// Catalog is the static wizard content: the ordered questions, the facility
// chrome and the contact time choices.
type Catalog struct {
	Questions    []Question `json:"questions" yaml:"questions"`
	ContactTimes []string   `json:"contactTimes" yaml:"contactTimes"`
	Facility     Facility   `json:"facility" yaml:"facility"`
}

// Facility holds static page chrome.
type Facility struct {
	Name      string `json:"name" yaml:"name"`
	Address   string `json:"address" yaml:"address"`
	Phone     string `json:"phone" yaml:"phone"`
	PhoneHref string `json:"phoneHref" yaml:"phoneHref"`
	Logo      string `json:"logo" yaml:"logo"`
	TourURL   string `json:"tourURL" yaml:"tourURL"`
	PageTitle string `json:"pageTitle" yaml:"pageTitle"`
	Heading   string `json:"heading" yaml:"heading"`
	Intro     string `json:"intro" yaml:"intro"`
	Quote     Quote  `json:"quote" yaml:"quote"`
	Videos    struct {
		Couple Video `json:"couple" yaml:"couple"`
		Single Video `json:"single" yaml:"single"`
	} `json:"videos" yaml:"videos"`
}

type Quote struct {
	Text   string `json:"text" yaml:"text"`
	Author string `json:"author" yaml:"author"`
}

type Video struct {
	URL     string `json:"url" yaml:"url"`
	Heading string `json:"heading" yaml:"heading"`
	Title   string `json:"title" yaml:"title"`
}

// VideoFor picks the results video for the occupancy answer.
func (f Facility) VideoFor(occupancy string) Video {
	if occupancy == OptionCouple {
		return f.Videos.Couple
	}
	return f.Videos.Single
}

// Len reports the number of questions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Questions)
}

// At returns the question shown at 1-based position n.
func (c *Catalog) At(n int) (Question, bool) {
	if c == nil || n < 1 || n > len(c.Questions) {
		return Question{}, false
	}
	return c.Questions[n-1], true
}

// Question looks a question up by id.
func (c *Catalog) Question(id QuestionID) (Question, bool) {
	if c == nil {
		return Question{}, false
	}
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// IsContactTime reports whether value is an accepted best-time choice. The
// empty value is accepted because the field is optional.
func (c *Catalog) IsContactTime(value string) bool {
	if value == "" {
		return true
	}
	if c == nil {
		return false
	}
	for _, candidate := range c.ContactTimes {
		if candidate == value {
			return true
		}
	}
	return false
}

// InvalidOptions lists answered values that are not choices of their
// question. Fields without a catalog question are not checked.
func (c *Catalog) InvalidOptions(a Answers) map[QuestionID][]string {
	out := make(map[QuestionID][]string)
	if c == nil {
		return out
	}
	for _, q := range c.Questions {
		value, ok := a.Get(q.ID)
		if !ok {
			continue
		}
		values := value.Strings()
		if !value.IsMulti() {
			values = nil
			if single := value.String(); single != "" {
				values = []string{single}
			}
		}
		for _, v := range values {
			if !q.HasOption(v) {
				out[q.ID] = append(out[q.ID], v)
			}
		}
	}
	return out
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog loads the embedded content once.
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadCatalogFS(EmbeddedFS())
	})
	return defaultCatalog, defaultErr
}

// MustDefaultCatalog panics when the embedded content is invalid.
func MustDefaultCatalog() *Catalog {
	catalog, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return catalog
}

type contentFile struct {
	Questions    []Question `json:"questions" yaml:"questions"`
	ContactTimes []string   `json:"contactTimes" yaml:"contactTimes"`
	Facility     *Facility  `json:"facility" yaml:"facility"`
}

// LoadCatalogFS reads every JSON/YAML file at the root of fsys in name order
// and merges them into one catalog. Questions and contact times may only be
// declared once across the files.
func LoadCatalogFS(fsys fs.FS) (*Catalog, error) {
	if fsys == nil {
		return nil, fmt.Errorf("%w: filesystem is required", ErrInvalidCatalog)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: read content dir: %v", ErrInvalidCatalog, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isContentFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	catalog := &Catalog{}
	var questionsFrom, timesFrom, facilityFrom string
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidCatalog, name, err)
		}
		doc, err := parseContent(data, name)
		if err != nil {
			return nil, err
		}

		if len(doc.Questions) > 0 {
			if questionsFrom != "" {
				return nil, fmt.Errorf("%w: questions declared in %s and %s", ErrInvalidCatalog, questionsFrom, name)
			}
			questionsFrom = name
			catalog.Questions = doc.Questions
		}
		if len(doc.ContactTimes) > 0 {
			if timesFrom != "" {
				return nil, fmt.Errorf("%w: contact times declared in %s and %s", ErrInvalidCatalog, timesFrom, name)
			}
			timesFrom = name
			catalog.ContactTimes = doc.ContactTimes
		}
		if doc.Facility != nil {
			if facilityFrom != "" {
				return nil, fmt.Errorf("%w: facility declared in %s and %s", ErrInvalidCatalog, facilityFrom, name)
			}
			facilityFrom = name
			catalog.Facility = *doc.Facility
		}
	}

	if err := validateQuestions(catalog.Questions, questionsFrom); err != nil {
		return nil, err
	}
	return catalog, nil
}

func parseContent(data []byte, source string) (contentFile, error) {
	var doc contentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return contentFile{}, fmt.Errorf("%w: file %s is empty", ErrInvalidCatalog, source)
	}

	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return contentFile{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidCatalog, source, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return contentFile{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidCatalog, source, err)
	}
	return doc, nil
}

func validateQuestions(questions []Question, source string) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: no questions declared", ErrInvalidCatalog)
	}

	seen := make(map[QuestionID]struct{}, len(questions))
	for i, q := range questions {
		if !q.ID.Known() {
			return fmt.Errorf("%w: question %d (file %s) has unknown id %q", ErrInvalidCatalog, i+1, source, q.ID)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question %q (file %s)", ErrInvalidCatalog, q.ID, source)
		}
		seen[q.ID] = struct{}{}

		if q.Multiple != q.ID.Multi() {
			return fmt.Errorf("%w: question %q (file %s) multiSelect=%t does not match its answer field", ErrInvalidCatalog, q.ID, source, q.Multiple)
		}
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %q (file %s) has no text", ErrInvalidCatalog, q.ID, source)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: question %q (file %s) has no options", ErrInvalidCatalog, q.ID, source)
		}
	}
	return nil
}

func isContentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
