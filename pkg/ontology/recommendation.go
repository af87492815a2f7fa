package ontology

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-guidelines/pkg/recommendation"
)

// Classes and properties of the structured recommendation ontology.
const (
	classDisease          = "Заболевание"
	classRecommendation   = "Рекомендация"
	classMethodsGroup     = "ГруппаМетодовЛечения"
	classMethodSubgroup   = "ПодгруппаМетодовЛечения"
	classMethod           = "МетодЛечения"
	classCriteriaGroup    = "ГруппаКритериев"
	classCriteriaSubgroup = "ПодгруппаКритериев"
	classCriterion        = "Критерий"
	classGoal             = "КритерийЦель"

	propMKB              = "ex:имеетКодМКБ"
	propType             = "ex:имеетТип"
	propSource           = "ex:источник"
	propAppliesTo        = "ex:применимоПри"
	propUDD              = "ex:имеетУДД"
	propUUR              = "ex:имеетУУР"
	propPage             = "ex:номерСтраницы"
	propText             = "ex:оригинальныйТекст"
	propMethodsGroup     = "ex:имеетГруппуМетодовЛечения"
	propCriteriaGroup    = "ex:имеетГруппуКритериев"
	propMethodSubgroup   = "ex:имеетПодгруппуМетодовЛечения"
	propMethod           = "ex:имеетМетодЛечения"
	propRule             = "ex:правилоВыбора"
	propCriterion        = "ex:имеетКритерий"
	propCriteriaSubgroup = "ex:имеетПодгруппуКритериев"
	propName             = "ex:имя"
	propValue            = "ex:значение"
)

var structuredPrefixes = append(append([]string{}, prefixes...),
	"@prefix owl: <http://www.w3.org/2002/07/owl#> .",
	"@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .",
)

var unsafeLocal = regexp.MustCompile(`[^0-9A-Za-zА-Яа-яЁё_\-]+`)

// SerializeRecommendation renders structured recommendation documents as
// individuals of the recommendation ontology: one disease per disease key
// and, for each recommendation, its methods group, method subgroups,
// methods, criteria groups and criteria. String literals carry the @ru
// language tag. Output order follows docs.
func SerializeRecommendation(docs []recommendation.Document) string {
	w := &writer{}
	for _, p := range structuredPrefixes {
		w.writeLine(p)
	}
	w.writeLine("")

	for _, doc := range docs {
		for _, d := range doc.Diseases {
			disease := "ex:" + LocalID(d.ID)
			b := w.individual(disease, classDisease)
			b.add("rdfs:label", ruLiteral(d.Label))
			if d.MKBCode != "" {
				b.add(propMKB, `"`+Escape(d.MKBCode)+`"`)
			}
			b.end()

			for i := range d.Recommendations {
				w.writeRecommendation(doc.ID, disease, &d.Recommendations[i])
			}
		}
	}
	return w.String()
}

func (w *writer) writeRecommendation(docID, disease string, r *recommendation.Recommendation) {
	mg := &r.Methods

	b := w.individual("ex:"+LocalID(r.ID), classRecommendation)
	if r.Type != "" {
		b.add(propType, ruLiteral(r.Type))
	}
	b.add(propSource, ruLiteral(docID))
	b.add(propAppliesTo, disease)
	if r.UDD != nil {
		b.add(propUDD, strconv.Itoa(*r.UDD))
	}
	if r.UUR != "" {
		b.add(propUUR, ruLiteral(r.UUR))
	}
	if r.Page > 0 {
		b.add(propPage, strconv.Itoa(r.Page))
	}
	if r.Text != "" {
		b.add(propText, ruLiteral(r.Text))
	}
	b.add(propMethodsGroup, "ex:"+LocalID(mg.ID))
	b.end()

	b = w.individual("ex:"+LocalID(mg.ID), classMethodsGroup)
	if mg.Criteria != nil {
		b.add(propCriteriaGroup, "ex:"+LocalID(mg.Criteria.ID))
	}
	if len(mg.Subgroups) > 0 {
		ids := make([]string, len(mg.Subgroups))
		for i, sg := range mg.Subgroups {
			ids[i] = sg.ID
		}
		b.add(propMethodSubgroup, iriList(ids))
	}
	b.end()

	for _, sg := range mg.Subgroups {
		b := w.individual("ex:"+LocalID(sg.ID), classMethodSubgroup)
		b.add(propRule, ruLiteral(sg.Rule))
		if len(sg.Methods) > 0 {
			ids := make([]string, len(sg.Methods))
			for i, m := range sg.Methods {
				ids[i] = m.ID
			}
			b.add(propMethod, iriList(ids))
		}
		b.end()

		for _, m := range sg.Methods {
			b := w.individual("ex:"+LocalID(m.ID), classMethod)
			b.add("rdfs:label", ruLiteral(m.Label))
			b.end()
		}
	}

	if mg.Criteria != nil {
		w.writeCriteriaGroup(mg.Criteria, classCriteriaGroup)
	}
}

func (w *writer) writeCriteriaGroup(g *recommendation.CriteriaGroup, class string) {
	b := w.individual("ex:"+LocalID(g.ID), class)
	b.add(propRule, ruLiteral(g.Rule))
	if len(g.Criteria) > 0 {
		ids := make([]string, len(g.Criteria))
		for i, c := range g.Criteria {
			ids[i] = c.ID
		}
		b.add(propCriterion, iriList(ids))
	}
	if len(g.Subgroups) > 0 {
		ids := make([]string, len(g.Subgroups))
		for i, sg := range g.Subgroups {
			ids[i] = sg.ID
		}
		b.add(propCriteriaSubgroup, iriList(ids))
	}
	b.end()

	for _, c := range g.Criteria {
		b := w.individual("ex:"+LocalID(c.ID), CriterionClass(c.Type))
		b.add(propName, ruLiteral(c.Name))
		if c.Value != nil {
			b.add(propValue, ruLiteral(*c.Value))
		}
		b.end()
	}

	for i := range g.Subgroups {
		w.writeCriteriaGroup(&g.Subgroups[i], classCriteriaSubgroup)
	}
}

// CriterionClass maps a structured criterion type onto its class. Types
// already naming a criterion class are kept; "для" is a goal.
func CriterionClass(criterionType string) string {
	t := strings.TrimSpace(criterionType)
	switch {
	case strings.HasPrefix(t, classCriterion):
		return t
	case t == "для":
		return classGoal
	default:
		return classCriterion
	}
}

// LocalID turns a document identifier into an IRI local name. Runs of
// characters outside letters, digits, "_" and "-" become "_".
func LocalID(id string) string {
	s := strings.Trim(unsafeLocal.ReplaceAllString(strings.TrimSpace(id), "_"), "_")
	if s == "" {
		return "x"
	}
	return s
}

func iriList(ids []string) string {
	iris := make([]string, len(ids))
	for i, id := range ids {
		iris[i] = "ex:" + LocalID(id)
	}
	return strings.Join(iris, ", ")
}

func ruLiteral(s string) string {
	return `"` + Escape(s) + `"@ru`
}

// block collects the predicate-object pairs of one subject.
type block struct {
	w       *writer
	subject string
	pairs   []string
}

func (w *writer) individual(subject, class string) *block {
	return &block{w: w, subject: subject, pairs: []string{"a ex:" + class}}
}

func (b *block) add(predicate, object string) {
	b.pairs = append(b.pairs, predicate+" "+object)
}

// end writes the subject with its pairs separated by ";" and terminated
// by ".", followed by a blank line.
func (b *block) end() {
	for i, p := range b.pairs {
		switch {
		case len(b.pairs) == 1:
			b.w.linef("%s %s .", b.subject, p)
		case i == 0:
			b.w.linef("%s %s ;", b.subject, p)
		case i == len(b.pairs)-1:
			b.w.linef("    %s .", p)
		default:
			b.w.linef("    %s ;", p)
		}
	}
	b.w.writeLine("")
}
