package triples

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline/guidelinetest"
	"github.com/dd0wney/cluso-guidelines/pkg/identity"
	"github.com/dd0wney/cluso-guidelines/pkg/logic"
	"github.com/dd0wney/cluso-guidelines/pkg/vocabulary"
)

func tr(s, p, o string) guideline.Triple {
	return guideline.Triple{Subject: s, Predicate: p, Object: o}
}

func TestGenerate_Pneumonia(t *testing.T) {
	res, err := Generate(guidelinetest.Pneumonia(), vocabulary.Default())
	require.NoError(t, err)

	want := []guideline.Triple{
		tr("пациенты", "диагноз", "Pneumonia"),
		tr("Pneumonia", "рекомендуется", "Antibiotics"),
		tr("Antibiotics", "используется", "AND"),
		tr("AND", "критерий пациент", "Age>18"),
		tr("AND", "связь И", "Age>18"),
		tr("AND", "связь И", "Fever"),
	}
	assert.Equal(t, want, res.Triples)
	assert.False(t, res.Degraded)
	assert.Equal(t, guideline.Anchors{Root: "root", Methods: "g1", Criteria: "g1"}, res.Anchors)
	assert.Equal(t, "AND(c1, c2)", res.Expr.String())

	assert.Len(t, res.IRIs, 5)
	assert.Equal(t, "ex:"+identity.Derive("doc-1", "root", "Pneumonia", "", ""), res.IRIs["root"])
}

func TestGenerate_LayeredNegation(t *testing.T) {
	res, err := Generate(guidelinetest.Layered(), vocabulary.Default())
	require.NoError(t, err)

	want := []guideline.Triple{
		tr("пациенты", "диагноз", "Бронхит"),
		tr("Бронхит", "рекомендуется", "Ингаляции"),
		tr("Бронхит", "рекомендуется", "Покой"),
		tr("Ингаляции", "используется", "ИЛИ"),
		tr("Покой", "используется", "ИЛИ"),
		tr("ALL", "критерий время", "Беременность"),
		tr("Возраст", "значение", "<3"),
		tr("Возраст", "уточнение", "лет"),
		tr("ИЛИ", "связь ИЛИ", "нет"),
		tr("нет", "связь ИЛИ", "нет"),
		tr("нет", "связь НЕТ", "Беременность"),
		tr("нет", "связь НЕТ", "Возраст"),
	}
	assert.Equal(t, want, res.Triples)
	assert.True(t, logic.IsNNF(res.Expr))
}

func TestGenerate_NoRoot(t *testing.T) {
	g := guidelinetest.Pneumonia()
	g.Nodes[0].Type = guideline.TypeLogic

	res, err := Generate(g, vocabulary.Default())
	require.NoError(t, err)
	assert.Empty(t, res.Triples)
	assert.Empty(t, res.IRIs)
	assert.Nil(t, res.Expr)
}

func TestGenerate_SingleRoot(t *testing.T) {
	g := &guideline.Graph{Nodes: []guideline.Node{{ID: "r", Label: "Грипп", Type: guideline.TypeRoot}}}

	res, err := Generate(g, vocabulary.Default())
	require.NoError(t, err)
	assert.Equal(t, []guideline.Triple{tr("пациенты", "диагноз", "Грипп")}, res.Triples)
	assert.True(t, res.Degraded)
}

func TestGenerate_UnlabelledNodes(t *testing.T) {
	g := &guideline.Graph{
		Nodes: []guideline.Node{
			{ID: "r", Type: guideline.TypeRoot},
			{ID: "m", Type: guideline.TypeMethod},
		},
		Links: []guideline.Link{{Source: "r", Target: "m"}},
	}

	res, err := Generate(g, vocabulary.Default())
	require.NoError(t, err)
	assert.Equal(t, []guideline.Triple{
		tr("пациенты", "диагноз", "Диагноз"),
		tr("Диагноз", "рекомендуется", "m"),
	}, res.Triples)
}

func TestGenerate_DegradedStillEmitsLiterals(t *testing.T) {
	g := &guideline.Graph{
		Nodes: []guideline.Node{
			{ID: "r", Label: "R", Type: guideline.TypeRoot},
			{ID: "m", Label: "M", Type: guideline.TypeMethod},
			{ID: "c", Label: "C", Type: guideline.TypeCriteria, Value: guideline.StringPtr("5"), Note: guideline.StringPtr("")},
		},
		Links: []guideline.Link{{Source: "r", Target: "m"}},
	}

	res, err := Generate(g, vocabulary.Default())
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, []guideline.Triple{
		tr("пациенты", "диагноз", "R"),
		tr("R", "рекомендуется", "M"),
		tr("C", "значение", "5"),
	}, res.Triples)
}

func TestGenerate_MethodsFallBackToAll(t *testing.T) {
	g := &guideline.Graph{
		Nodes: []guideline.Node{
			{ID: "r", Label: "R", Type: guideline.TypeRoot},
			{ID: "m2", Label: "Second", Type: guideline.TypeMethod},
			{ID: "m1", Label: "First", Type: guideline.TypeMethod},
		},
	}

	res, err := Generate(g, vocabulary.Default())
	require.NoError(t, err)
	assert.Equal(t, []guideline.Triple{
		tr("пациенты", "диагноз", "R"),
		tr("R", "рекомендуется", "Second"),
		tr("R", "рекомендуется", "First"),
	}, res.Triples)
}

func TestGenerate_RoleEdgesRequireLogicToCriteria(t *testing.T) {
	g := guidelinetest.Pneumonia()
	g.Links = append(g.Links,
		guideline.Link{Source: "root", Target: "c2", Predicate: "критерий симптом"},
		guideline.Link{Source: "g1", Target: "ghost", Predicate: "критерий симптом"},
		guideline.Link{Source: "g1", Target: "c2", Predicate: "критерий симптом"},
	)

	res, err := Generate(g, vocabulary.Default())
	require.NoError(t, err)

	var roles []guideline.Triple
	for _, tt := range res.Triples {
		if vocabulary.Default().IsRole(tt.Predicate) {
			roles = append(roles, tt)
		}
	}
	assert.Equal(t, []guideline.Triple{
		tr("AND", "критерий пациент", "Age>18"),
		tr("AND", "критерий симптом", "Fever"),
	}, roles)
}

func TestGenerate_Cycle(t *testing.T) {
	_, err := Generate(guidelinetest.Cyclic(), vocabulary.Default())

	require.Error(t, err)
	assert.True(t, errors.Is(err, logic.ErrCyclicStructure))
	var cycleErr *logic.CycleError
	assert.True(t, errors.As(err, &cycleErr))
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(guidelinetest.Layered(), vocabulary.Default())
	require.NoError(t, err)
	b, err := Generate(guidelinetest.Layered(), vocabulary.Default())
	require.NoError(t, err)

	assert.Equal(t, a.Triples, b.Triples)
	assert.Equal(t, a.IRIs, b.IRIs)
}

func TestDedupe(t *testing.T) {
	in := []guideline.Triple{tr("a", "p", "b"), tr("c", "p", "d"), tr("a", "p", "b"), tr("a", "q", "b")}

	assert.Equal(t, []guideline.Triple{tr("a", "p", "b"), tr("c", "p", "d"), tr("a", "q", "b")}, Dedupe(in))
	assert.Empty(t, Dedupe(nil))
}

// randomGraph builds an acyclic pseudo-random graph: links only point from
// lower to higher node positions.
func randomGraph(seed int64) *guideline.Graph {
	r := rand.New(rand.NewSource(seed))
	types := []string{guideline.TypeLogic, guideline.TypeMethod, guideline.TypeCriteria, guideline.TypeLogic}
	labels := []string{"AND", "OR", "NOT", "И", "X"}

	n := 2 + r.Intn(10)
	g := &guideline.Graph{Doc: guideline.DocInfo{ID: "doc"}}
	g.Nodes = append(g.Nodes, guideline.Node{ID: "n0", Label: "root", Type: guideline.TypeRoot})
	for i := 1; i < n; i++ {
		typ := types[r.Intn(len(types))]
		label := fmt.Sprintf("label%d", r.Intn(4))
		if typ == guideline.TypeLogic {
			label = labels[r.Intn(len(labels))]
		}
		g.Nodes = append(g.Nodes, guideline.Node{ID: fmt.Sprintf("n%d", i), Label: label, Type: typ})
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r.Intn(3) == 0 {
				pred := ""
				if r.Intn(2) == 0 {
					pred = "критерий пациент"
				}
				g.Links = append(g.Links, guideline.Link{Source: fmt.Sprintf("n%d", i), Target: fmt.Sprintf("n%d", j), Predicate: pred})
			}
		}
	}
	return g
}

func TestGenerateProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("emission never repeats a triple", prop.ForAll(
		func(seed int64) bool {
			res, err := Generate(randomGraph(seed), vocabulary.Default())
			if err != nil {
				return false
			}
			return len(Dedupe(res.Triples)) == len(res.Triples)
		},
		gen.Int64(),
	))

	properties.Property("diagnosis triple comes first", prop.ForAll(
		func(seed int64) bool {
			res, err := Generate(randomGraph(seed), vocabulary.Default())
			if err != nil || len(res.Triples) == 0 {
				return false
			}
			return res.Triples[0] == tr("пациенты", "диагноз", "root")
		},
		gen.Int64(),
	))

	properties.Property("criteria expression is in negation normal form", prop.ForAll(
		func(seed int64) bool {
			res, err := Generate(randomGraph(seed), vocabulary.Default())
			return err == nil && logic.IsNNF(res.Expr)
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
