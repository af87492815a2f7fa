// Package guidelinetest provides decision graphs shared by the tests of the
// conversion packages.
package guidelinetest

import "github.com/dd0wney/cluso-guidelines/pkg/guideline"

// Pneumonia returns the reference scenario: a diagnosis with one AND group
// holding a treatment method, a patient criterion reached through a role
// edge and a plain symptom criterion.
func Pneumonia() *guideline.Graph {
	return &guideline.Graph{
		Doc: guideline.DocInfo{ID: "doc-1", Page: "12", UUR: "A", UDD: "1", Text: "Antibiotics for adults with fever"},
		Nodes: []guideline.Node{
			{ID: "root", Label: "Pneumonia", Type: guideline.TypeRoot},
			{ID: "g1", Label: "AND", Type: guideline.TypeLogic},
			{ID: "m1", Label: "Antibiotics", Type: guideline.TypeMethod},
			{ID: "c1", Label: "Age>18", Type: guideline.TypeCriteria},
			{ID: "c2", Label: "Fever", Type: guideline.TypeCriteria},
		},
		Links: []guideline.Link{
			{Source: "root", Target: "g1"},
			{Source: "g1", Target: "m1"},
			{Source: "g1", Target: "c1", Predicate: "критерий пациент"},
			{Source: "g1", Target: "c2"},
		},
	}
}

// Layered returns a graph whose methods hang off an outer OR group while
// the criteria are combined below it by a NOT over an AND.
func Layered() *guideline.Graph {
	return &guideline.Graph{
		Doc: guideline.DocInfo{ID: "doc 2", Page: "3", Text: "Layered"},
		Nodes: []guideline.Node{
			{ID: "r", Label: "Бронхит", Type: guideline.TypeRoot},
			{ID: "or", Label: "ИЛИ", Type: guideline.TypeLogic},
			{ID: "m1", Label: "Ингаляции", Type: guideline.TypeMethod},
			{ID: "m2", Label: "Покой", Type: guideline.TypeMethod},
			{ID: "not", Label: "нет", Type: guideline.TypeLogic},
			{ID: "and", Label: "ALL", Type: guideline.TypeLogic},
			{ID: "c1", Label: "Беременность", Type: guideline.TypeCriteria},
			{ID: "c2", Label: "Возраст", Type: guideline.TypeCriteria, Value: guideline.StringPtr("<3"), Note: guideline.StringPtr("лет")},
		},
		Links: []guideline.Link{
			{Source: "r", Target: "or"},
			{Source: "or", Target: "m1"},
			{Source: "or", Target: "m2"},
			{Source: "or", Target: "not"},
			{Source: "not", Target: "and"},
			{Source: "and", Target: "c1", Predicate: " критерий время "},
			{Source: "and", Target: "c2"},
		},
	}
}

// Cyclic returns a graph whose criteria groups reference each other.
func Cyclic() *guideline.Graph {
	return &guideline.Graph{
		Nodes: []guideline.Node{
			{ID: "root", Label: "Root", Type: guideline.TypeRoot},
			{ID: "a", Label: "AND", Type: guideline.TypeLogic},
			{ID: "b", Label: "OR", Type: guideline.TypeLogic},
			{ID: "m", Label: "M", Type: guideline.TypeMethod},
			{ID: "c", Label: "C", Type: guideline.TypeCriteria},
		},
		Links: []guideline.Link{
			{Source: "root", Target: "a"},
			{Source: "a", Target: "m"},
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
			{Source: "b", Target: "a"},
		},
	}
}
