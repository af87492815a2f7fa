// Package vocabulary holds the fixed predicate, role and class tables used
// when emitting triples and ontology text. The tables are read-only after
// loading and safe for concurrent use.
package vocabulary

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrIncomplete is returned when a vocabulary file omits a required entry.
var ErrIncomplete = errors.New("vocabulary incomplete")

// Predicates are the fixed relation names.
type Predicates struct {
	Diagnosis   string `yaml:"diagnosis"`
	Recommended string `yaml:"recommended"`
	Used        string `yaml:"used"`
	Value       string `yaml:"value"`
	Note        string `yaml:"note"`
	And         string `yaml:"and"`
	Or          string `yaml:"or"`
	Not         string `yaml:"not"`
}

// Patients describes the fixed subject of every diagnosis triple.
type Patients struct {
	Label string `yaml:"label"`
	IRI   string `yaml:"iri"`
	Class string `yaml:"class"`
}

// Classes maps node types onto ontology class local names.
type Classes struct {
	Document string `yaml:"document"`
	Root     string `yaml:"root"`
	Method   string `yaml:"method"`
	Criteria string `yaml:"criteria"`
	Logic    string `yaml:"logic"`
	Default  string `yaml:"default"`
}

// CriterionTypes maps structured criterion types onto predicates.
type CriterionTypes struct {
	Default    string            `yaml:"default"`
	NotSuffix  string            `yaml:"not_suffix"`
	Predicates map[string]string `yaml:"predicates"`
}

// Vocabulary is the complete set of tables.
type Vocabulary struct {
	Predicates     Predicates     `yaml:"predicates"`
	Roles          []string       `yaml:"roles"`
	Patients       Patients       `yaml:"patients"`
	Classes        Classes        `yaml:"classes"`
	CriterionTypes CriterionTypes `yaml:"criterion_types"`

	roles map[string]struct{}
}

var (
	defaultOnce  sync.Once
	defaultVocab *Vocabulary
)

// Default returns the embedded vocabulary. It is parsed once per process.
func Default() *Vocabulary {
	defaultOnce.Do(func() {
		v, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded vocabulary: %v", err))
		}
		defaultVocab = v
	})
	return defaultVocab
}

// Load reads a vocabulary file. An empty path returns Default.
func Load(path string) (*Vocabulary, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML vocabulary.
func Parse(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}
	if err := v.validate(); err != nil {
		return nil, err
	}
	v.roles = make(map[string]struct{}, len(v.Roles))
	for _, r := range v.Roles {
		v.roles[r] = struct{}{}
	}
	return &v, nil
}

func (v *Vocabulary) validate() error {
	required := map[string]string{
		"predicates.diagnosis":   v.Predicates.Diagnosis,
		"predicates.recommended": v.Predicates.Recommended,
		"predicates.used":        v.Predicates.Used,
		"predicates.value":       v.Predicates.Value,
		"predicates.note":        v.Predicates.Note,
		"predicates.and":         v.Predicates.And,
		"predicates.or":          v.Predicates.Or,
		"predicates.not":         v.Predicates.Not,
		"patients.label":         v.Patients.Label,
		"patients.iri":           v.Patients.IRI,
		"classes.document":       v.Classes.Document,
		"classes.default":        v.Classes.Default,
	}
	var missing []string
	for key, val := range required {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}
	if len(v.Roles) == 0 {
		missing = append(missing, "roles")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return nil
}

// IsRole reports whether predicate, once trimmed, is a role predicate.
func (v *Vocabulary) IsRole(predicate string) bool {
	_, ok := v.roles[strings.TrimSpace(predicate)]
	return ok
}

// Connective returns the predicate for an operator code (AND, OR, NOT).
// Unknown codes map to the AND connective.
func (v *Vocabulary) Connective(code string) string {
	switch code {
	case "OR":
		return v.Predicates.Or
	case "NOT":
		return v.Predicates.Not
	default:
		return v.Predicates.And
	}
}

// IsLiteral reports whether objects of predicate are literal values rather
// than entities.
func (v *Vocabulary) IsLiteral(predicate string) bool {
	return predicate == v.Predicates.Value || predicate == v.Predicates.Note
}

// Class returns the ontology class local name for a node type.
func (v *Vocabulary) Class(nodeType string) string {
	var c string
	switch nodeType {
	case "root":
		c = v.Classes.Root
	case "method":
		c = v.Classes.Method
	case "criteria":
		c = v.Classes.Criteria
	case "logic":
		c = v.Classes.Logic
	}
	if c == "" {
		return v.Classes.Default
	}
	return c
}

// CriterionPredicate returns the predicate for a structured criterion type.
// negated appends the negation suffix.
func (v *Vocabulary) CriterionPredicate(criterionType string, negated bool) string {
	p, ok := v.CriterionTypes.Predicates[criterionType]
	if !ok {
		p = v.CriterionTypes.Default
	}
	if negated {
		p += v.CriterionTypes.NotSuffix
	}
	return p
}

// Counts returns the number of role predicates and of mapped node classes.
func (v *Vocabulary) Counts() (roles, classes int) {
	for _, c := range []string{
		v.Classes.Document, v.Classes.Root, v.Classes.Method,
		v.Classes.Criteria, v.Classes.Logic, v.Classes.Default,
	} {
		if c != "" {
			classes++
		}
	}
	return len(v.Roles), classes
}
