package guideline_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline/guidelinetest"
)

func TestNode_UnmarshalDefaultsType(t *testing.T) {
	var g guideline.Graph
	err := json.Unmarshal([]byte(`{"nodes":[{"id":"a","label":"A"},{"id":"b","type":"logic"}]}`), &g)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)

	assert.Equal(t, guideline.TypeCriteria, g.Nodes[0].Type)
	assert.Equal(t, guideline.TypeLogic, g.Nodes[1].Type)
	assert.Equal(t, "b", g.Nodes[1].DisplayLabel())
}

func TestIndex_DuplicateIDsKeepFirstPositionLastRecord(t *testing.T) {
	g := &guideline.Graph{Nodes: []guideline.Node{
		{ID: "a", Label: "first", Type: guideline.TypeCriteria},
		{ID: "b", Label: "B", Type: guideline.TypeMethod},
		{ID: "a", Label: "second", Type: guideline.TypeCriteria},
	}}

	idx := guideline.NewIndex(g)
	nodes := idx.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "a", nodes[0].ID)
	assert.Equal(t, "second", nodes[0].Label)
	assert.Equal(t, "b", nodes[1].ID)
}

func TestIndex_Adjacency(t *testing.T) {
	idx := guideline.NewIndex(guidelinetest.Pneumonia())

	assert.Equal(t, []string{"m1", "c1", "c2"}, idx.Successors("g1"))
	assert.Len(t, idx.Incoming("g1"), 1)
	assert.Empty(t, idx.Successors("c1"))
	assert.Equal(t, []string{"c1", "c2"}, idx.IDsOfType(guideline.TypeCriteria))
	assert.Equal(t, "Pneumonia", idx.Label("root"))
	assert.Equal(t, "ghost", idx.Label("ghost"))
	assert.Equal(t, "", idx.TypeOf("ghost"))
}

func TestIndex_DanglingLinksParticipate(t *testing.T) {
	g := &guideline.Graph{
		Nodes: []guideline.Node{{ID: "a", Type: guideline.TypeLogic}},
		Links: []guideline.Link{{Source: "a", Target: "ghost"}},
	}
	idx := guideline.NewIndex(g)

	_, ok := idx.Descendants("a")["ghost"]
	assert.True(t, ok)
	_, found := idx.Node("ghost")
	assert.False(t, found)
}
