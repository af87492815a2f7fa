package recommendation

import (
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/vocabulary"
)

// Context is the recommendation a rule is applied to, with its enclosing
// disease and document.
type Context struct {
	Document       *Document
	Disease        *Disease
	Recommendation *Recommendation
	Vocabulary     *vocabulary.Vocabulary
}

// row builds a row annotated with the context's document metadata.
func (c *Context) row(subject, predicate, object string) guideline.Row {
	return guideline.Row{
		Triple:   guideline.Triple{Subject: subject, Predicate: predicate, Object: object},
		Document: c.Document.ID,
		Page:     strconv.Itoa(c.Recommendation.Page),
		Text:     c.Recommendation.Text,
	}
}

// Rule derives rows from one recommendation.
type Rule interface {
	Name() string
	Apply(ctx *Context) []guideline.Row
}

// DiagnosisRule emits: patients -> diagnosis -> disease.
type DiagnosisRule struct{}

func (DiagnosisRule) Name() string { return "diagnosis" }

func (DiagnosisRule) Apply(ctx *Context) []guideline.Row {
	v := ctx.Vocabulary
	return []guideline.Row{ctx.row(v.Patients.Label, v.Predicates.Diagnosis, ctx.Disease.Label)}
}

// RecommendationRule emits: disease -> recommended -> method, for every
// method of every subgroup.
type RecommendationRule struct{}

func (RecommendationRule) Name() string { return "recommendation" }

func (RecommendationRule) Apply(ctx *Context) []guideline.Row {
	var rows []guideline.Row
	for _, m := range ctx.Recommendation.Methods.AllMethods() {
		rows = append(rows, ctx.row(ctx.Disease.Label, ctx.Vocabulary.Predicates.Recommended, m.Label))
	}
	return rows
}

// CriteriaRule walks the criteria groups. Every criterion is linked from
// every method with the predicate of its type, negated below a NOT group;
// values become value rows; criteria of an ALL or ANY group with at least
// two members are linked pairwise with the matching connective.
type CriteriaRule struct{}

func (CriteriaRule) Name() string { return "criteria" }

func (CriteriaRule) Apply(ctx *Context) []guideline.Row {
	group := ctx.Recommendation.Methods.Criteria
	if group == nil {
		return nil
	}
	w := &criteriaWalker{ctx: ctx, methods: ctx.Recommendation.Methods.AllMethods()}
	w.walk(group, false)
	return w.rows
}

type criteriaWalker struct {
	ctx     *Context
	methods []TreatmentMethod
	rows    []guideline.Row
}

func (w *criteriaWalker) walk(g *CriteriaGroup, negated bool) {
	v := w.ctx.Vocabulary
	rule := strings.ToUpper(g.Rule)
	negated = negated || rule == RuleNot

	for _, c := range g.Criteria {
		pred := v.CriterionPredicate(c.Type, negated)
		for _, m := range w.methods {
			w.rows = append(w.rows, w.ctx.row(m.Label, pred, c.Name))
		}
		if c.Value != nil {
			w.rows = append(w.rows, w.ctx.row(c.Name, v.Predicates.Value, *c.Value))
		}
	}

	if len(g.Criteria) >= 2 && (rule == RuleAll || rule == RuleAny) {
		link := v.Predicates.And
		if rule == RuleAny {
			link = v.Predicates.Or
		}
		for i := range g.Criteria {
			for j := i + 1; j < len(g.Criteria); j++ {
				w.rows = append(w.rows, w.ctx.row(g.Criteria[i].Name, link, g.Criteria[j].Name))
			}
		}
	}

	for i := range g.Subgroups {
		w.walk(&g.Subgroups[i], negated)
	}
}

// DefaultRules returns the standard rule set in application order.
func DefaultRules() []Rule {
	return []Rule{DiagnosisRule{}, RecommendationRule{}, CriteriaRule{}}
}

// Generator applies a rule registry to documents.
type Generator struct {
	vocab *vocabulary.Vocabulary
	rules []Rule
}

// NewGenerator creates a generator. With no rules it uses DefaultRules.
func NewGenerator(v *vocabulary.Vocabulary, rules ...Rule) *Generator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Generator{vocab: v, rules: rules}
}

// Register appends a rule to the registry.
func (g *Generator) Register(r Rule) {
	g.rules = append(g.rules, r)
}

// Rules returns the names of the registered rules in order.
func (g *Generator) Rules() []string {
	names := make([]string, len(g.rules))
	for i, r := range g.rules {
		names[i] = r.Name()
	}
	return names
}

// Generate applies every rule to every recommendation of doc, in order.
func (g *Generator) Generate(doc *Document) []guideline.Row {
	var rows []guideline.Row
	for di := range doc.Diseases {
		disease := &doc.Diseases[di]
		for ri := range disease.Recommendations {
			ctx := &Context{
				Document:       doc,
				Disease:        disease,
				Recommendation: &disease.Recommendations[ri],
				Vocabulary:     g.vocab,
			}
			for _, r := range g.rules {
				rows = append(rows, r.Apply(ctx)...)
			}
		}
	}
	return rows
}

// GenerateAll generates the rows of every document in order.
func (g *Generator) GenerateAll(docs []Document) []guideline.Row {
	var rows []guideline.Row
	for i := range docs {
		rows = append(rows, g.Generate(&docs[i])...)
	}
	return rows
}
