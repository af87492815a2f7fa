package recommendation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://guidelines.schemas.local/recommendation/disease.schema.json"

// ErrInvalidDocument is returned when input does not match the disease
// schema.
var ErrInvalidDocument = errors.New("invalid recommendation document")

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error

	abbreviation = regexp.MustCompile(`\(([^)]*)\)`)
)

func diseaseSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to load schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// DiseaseLabel turns a disease key into its display label by unwrapping a
// parenthesised abbreviation: "Перелом надколенника (ПН)" becomes
// "Перелом надколенника ПН".
func DiseaseLabel(key string) string {
	return strings.TrimSpace(abbreviation.ReplaceAllString(key, "$1"))
}

// Decode reads {document: {disease: {...}}} JSON. Documents and diseases
// are returned sorted by key.
func Decode(r io.Reader) ([]Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	docKeys := sortedKeys(raw)
	docs := make([]Document, 0, len(docKeys))
	for _, docKey := range docKeys {
		doc := Document{ID: docKey, Title: docKey}
		for _, diseaseKey := range sortedKeys(raw[docKey]) {
			d, err := decodeDisease(diseaseKey, raw[docKey][diseaseKey])
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", docKey, diseaseKey, err)
			}
			doc.Diseases = append(doc.Diseases, *d)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadDisease extracts a single disease of a single document.
func LoadDisease(data []byte, docKey, diseaseKey string) (*Document, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	diseaseRaw, ok := raw[docKey][diseaseKey]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s not found", ErrInvalidDocument, docKey, diseaseKey)
	}
	d, err := decodeDisease(diseaseKey, diseaseRaw)
	if err != nil {
		return nil, err
	}
	return &Document{ID: docKey, Title: docKey, Diseases: []Disease{*d}}, nil
}

// Selection narrows a recommendation input to one disease of one document.
// The zero value selects everything.
type Selection struct {
	Document string
	Disease  string
}

// Load decodes data, honouring sel. Selecting a disease requires naming
// its document.
func Load(data []byte, sel Selection) ([]Document, error) {
	if sel.Disease == "" && sel.Document == "" {
		return Decode(bytes.NewReader(data))
	}
	if sel.Disease != "" {
		if sel.Document == "" {
			return nil, fmt.Errorf("%w: disease %q selected without a document", ErrInvalidDocument, sel.Disease)
		}
		doc, err := LoadDisease(data, sel.Document, sel.Disease)
		if err != nil {
			return nil, err
		}
		return []Document{*doc}, nil
	}

	docs, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.ID == sel.Document {
			return []Document{d}, nil
		}
	}
	return nil, fmt.Errorf("%w: document %s not found", ErrInvalidDocument, sel.Document)
}

func decodeDisease(key string, data json.RawMessage) (*Disease, error) {
	schema, err := diseaseSchema()
	if err != nil {
		return nil, err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var rd rawDisease
	if err := json.Unmarshal(data, &rd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	d := &Disease{ID: key, Label: DiseaseLabel(key), MKBCode: rd.MKBCode}
	for _, rr := range rd.Recommendations {
		d.Recommendations = append(d.Recommendations, rr.toModel())
	}
	return d, nil
}

type rawDisease struct {
	MKBCode         string              `json:"кодМКБ"`
	Recommendations []rawRecommendation `json:"рекомендации"`
}

type rawRecommendation struct {
	ID      string          `json:"id"`
	Type    string          `json:"тип"`
	UDD     scalar          `json:"УДД"`
	UUR     scalar          `json:"УУР"`
	Page    scalar          `json:"номерСтраницы"`
	Text    string          `json:"оригинальныйТекст"`
	Methods rawMethodsGroup `json:"группаМетодовЛечения"`
}

type rawMethodsGroup struct {
	ID        string              `json:"id"`
	Subgroups []rawMethodSubgroup `json:"подгруппыМетодов"`
	Criteria  *rawCriteriaGroup   `json:"группаКритериев"`
}

type rawMethodSubgroup struct {
	ID      string `json:"id"`
	Rule    string `json:"правилоВыбора"`
	Methods []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	} `json:"методыЛечения"`
}

type rawCriteriaGroup struct {
	ID       string `json:"id"`
	Rule     string `json:"правилоВыбора"`
	Criteria []struct {
		ID    string `json:"id"`
		Type  string `json:"тип"`
		Name  string `json:"имя"`
		Value scalar `json:"значение"`
	} `json:"критерии"`
	Subgroups []rawCriteriaGroup `json:"подгруппыКритериев"`
}

func (rr rawRecommendation) toModel() Recommendation {
	rec := Recommendation{
		ID:   rr.ID,
		Type: rr.Type,
		Text: rr.Text,
		Methods: MethodsGroup{
			ID: rr.Methods.ID,
		},
	}
	if rr.UDD.set {
		if n, err := strconv.Atoi(rr.UDD.text); err == nil {
			rec.UDD = &n
		}
	}
	rec.UUR = strings.TrimSpace(rr.UUR.text)
	if n, err := strconv.Atoi(rr.Page.text); err == nil {
		rec.Page = n
	}

	for _, sub := range rr.Methods.Subgroups {
		ms := MethodSubgroup{ID: sub.ID, Rule: sub.Rule}
		if ms.Rule == "" {
			ms.Rule = RuleAny
		}
		for _, m := range sub.Methods {
			label := m.Label
			if label == "" {
				label = m.ID
			}
			ms.Methods = append(ms.Methods, TreatmentMethod{ID: m.ID, Label: label})
		}
		rec.Methods.Subgroups = append(rec.Methods.Subgroups, ms)
	}
	if rr.Methods.Criteria != nil {
		cg := rr.Methods.Criteria.toModel()
		rec.Methods.Criteria = &cg
	}
	return rec
}

func (rg rawCriteriaGroup) toModel() CriteriaGroup {
	g := CriteriaGroup{ID: rg.ID, Rule: rg.Rule}
	if g.Rule == "" {
		g.Rule = RuleAll
	}
	for _, c := range rg.Criteria {
		crit := Criterion{ID: c.ID, Type: c.Type, Name: c.Name}
		if crit.Name == "" {
			crit.Name = c.ID
		}
		if c.Value.set {
			v := c.Value.text
			crit.Value = &v
		}
		g.Criteria = append(g.Criteria, crit)
	}
	for _, sub := range rg.Subgroups {
		g.Subgroups = append(g.Subgroups, sub.toModel())
	}
	return g
}

// scalar accepts a JSON string, number or boolean as text. null leaves it
// unset.
type scalar struct {
	text string
	set  bool
}

func (s *scalar) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.text, s.set = str, true
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		s.text, s.set = num.String(), true
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("unsupported scalar %s", data)
	}
	s.text, s.set = strconv.FormatBool(b), true
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
