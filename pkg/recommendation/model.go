// Package recommendation converts structured clinical recommendations
// (documents of diseases, each with treatment method groups and nested
// criteria groups) into triple rows through a registry of rules.
package recommendation

// Selection rules of method subgroups and criteria groups.
const (
	RuleAll = "ALL"
	RuleAny = "ANY"
	RuleNot = "NOT"
)

// Document is one guideline source with the diseases it covers.
type Document struct {
	ID       string
	Title    string
	Diseases []Disease
}

// Disease groups the recommendations for one diagnosis.
type Disease struct {
	ID              string
	Label           string
	MKBCode         string
	Recommendations []Recommendation
}

// Recommendation is a single recommendation thesis.
type Recommendation struct {
	ID   string
	Type string
	// UDD is the level of evidence, nil when not stated.
	UDD *int
	// UUR is the grade of recommendation.
	UUR     string
	Page    int
	Text    string
	Methods MethodsGroup
}

// MethodsGroup holds the treatment methods of a recommendation and the
// criteria under which they apply.
type MethodsGroup struct {
	ID        string
	Criteria  *CriteriaGroup
	Subgroups []MethodSubgroup
}

// AllMethods returns the methods of every subgroup in order.
func (g *MethodsGroup) AllMethods() []TreatmentMethod {
	var out []TreatmentMethod
	for _, sub := range g.Subgroups {
		out = append(out, sub.Methods...)
	}
	return out
}

// MethodSubgroup is a set of alternative or combined methods.
type MethodSubgroup struct {
	ID      string
	Rule    string
	Methods []TreatmentMethod
}

// TreatmentMethod is a single method.
type TreatmentMethod struct {
	ID    string
	Label string
}

// CriteriaGroup combines criteria and nested groups with a selection rule.
type CriteriaGroup struct {
	ID        string
	Rule      string
	Criteria  []Criterion
	Subgroups []CriteriaGroup
}

// Criterion is a single eligibility criterion.
type Criterion struct {
	ID    string
	Type  string
	Name  string
	Value *string
}
