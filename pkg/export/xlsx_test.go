package export

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
)

func TestFilename(t *testing.T) {
	assert.Equal(t, "triples.xlsx", Filename(""))
	assert.Equal(t, "КР_314_2.xlsx", Filename("КР 314 2"))
	assert.Equal(t, "doc-1.xlsx", Filename("doc-1"))
}

func TestWriteXLSX(t *testing.T) {
	g := &guideline.Graph{Doc: guideline.DocInfo{ID: "doc 1", Page: "7", Text: "Текст"}}
	rows := g.Rows([]guideline.Triple{
		{Subject: "пациенты", Predicate: "диагноз", Object: "Пневмония"},
		{Subject: "Пневмония", Predicate: "рекомендуется", Object: "Антибиотики"},
	})

	f, err := WriteXLSX(rows, g.Doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "doc_1.xlsx", f.Name)

	got, err := ReadXLSX(f.Path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, Header, got[0])
	assert.Equal(t, []string{"Пневмония", "пациенты", "диагноз", "doc 1", "Текст", "7"}, got[1])
	assert.Equal(t, []string{"Антибиотики", "Пневмония", "рекомендуется", "doc 1", "Текст", "7"}, got[2])

	require.NoError(t, f.Close())
	_, err = os.Stat(f.Path)
	assert.True(t, os.IsNotExist(err), "temp file should be removed")
	assert.NoError(t, f.Close(), "second close should be a no-op")
}

func TestWriteXLSX_Empty(t *testing.T) {
	f, err := WriteXLSX(nil, "")
	require.NoError(t, err)
	defer f.Close()

	got, err := ReadXLSX(f.Path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{Header}, got)
	assert.Equal(t, "triples.xlsx", f.Name)
}
