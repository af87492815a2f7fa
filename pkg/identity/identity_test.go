package identity

import (
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

var identifierPattern = regexp.MustCompile(`^(diag|method|crit|grp|ent)_[0-9a-zA-Zа-яА-Я_]+_[0-9a-f]{8}$`)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Ёлка  ", "елка"},
		{"Age\t> \n18", "age > 18"},
		{"ПНЕВМОНИЯ", "пневмония"},
		{"", ""},
		// decomposed "й" composes to the precomposed rune
		{"\u0438\u0306", "\u0439"},
		{"age\u00a0\u00a018", "age 18"},
		{"\u2003Возраст\u3000лет\u00a0", "возраст лет"},
		{"a\u2009\u202fb", "a b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "diag", Prefix("root"))
	assert.Equal(t, "method", Prefix("method"))
	assert.Equal(t, "crit", Prefix("criteria"))
	assert.Equal(t, "grp", Prefix("logic"))
	assert.Equal(t, "ent", Prefix("rec"))
	assert.Equal(t, "ent", Prefix(""))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "age_18", Slug("Age > 18"))
	assert.Equal(t, "пневмония", Slug("Пневмония"))
	assert.Equal(t, "x", Slug("!!!"))
	assert.Equal(t, "x", Slug(""))
	assert.Equal(t, "a", Slug("__a__"))

	long := Slug("абвгдежзийклмнопрстуфхцчшщъыьэюяабвгдежзийклмноп")
	assert.Equal(t, 40, len([]rune(long)))
}

func TestDerive(t *testing.T) {
	id := Derive("doc-1", "root", "Pneumonia", "", "")

	assert.Regexp(t, identifierPattern, id)
	assert.Equal(t, "diag_pneumonia_", id[:len("diag_pneumonia_")])
	assert.Equal(t, id, Derive(" doc-1 ", "root", "PNEUMONIA", "", ""))
	assert.NotEqual(t, id, Derive("doc-2", "root", "Pneumonia", "", ""))
	assert.NotEqual(t, id, Derive("doc-1", "method", "Pneumonia", "", ""))
}

func TestDerive_KnownIdentifiers(t *testing.T) {
	tests := []struct {
		doc, nodeType, label, value, note string
		want                              string
	}{
		{"doc-1", "root", "Pneumonia", "", "", "diag_pneumonia_31453817"},
		{"doc-1", "criteria", "age 18", "", "", "crit_age_18_73a54c4a"},
		{"doc-1", "criteria", "Возраст", "18", "лет", "crit_возраст_9c22d320"},
		{"doc-1", "logic", "ИЛИ", "", "", "grp_или_612f7fcc"},
		{"doc-1", "method", "Рентгенография органов грудной клетки", "", "", "method_рентгенография_органов_грудной_клетки_7935fe7d"},
		{"doc-1", "rec", "!!!", "", "", "ent_x_77067ae0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.doc, tt.nodeType, tt.label, tt.value, tt.note))
		})
	}
}

func TestDerive_UnicodeWhitespace(t *testing.T) {
	ascii := Derive("doc-1", "criteria", "age 18", "", "")

	assert.Equal(t, ascii, Derive("doc-1", "criteria", "age\u00a0\u00a018", "", ""))
	assert.Equal(t, ascii, Derive("doc-1", "criteria", "\u2003age\u2009 18\u00a0", "", ""))
	assert.Equal(t, "crit_age_18_73a54c4a", Derive("doc-1", "criteria", "age\u00a018", "", ""))
}

func TestDerive_ValueAndNoteParticipate(t *testing.T) {
	base := Derive("d", "criteria", "Возраст", "", "")

	assert.NotEqual(t, base, Derive("d", "criteria", "Возраст", "18", ""))
	assert.NotEqual(t, base, Derive("d", "criteria", "Возраст", "", "лет"))
	assert.Equal(t, Derive("d", "criteria", "Возраст", "Ёж", ""), Derive("d", "criteria", "возраст", "еж", ""))
}

func TestDeriveProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("derivation is deterministic", prop.ForAll(
		func(doc, label, value string) bool {
			return Derive(doc, "criteria", label, value, "") == Derive(doc, "criteria", label, value, "")
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("derivation depends only on normalized content", prop.ForAll(
		func(doc, label string) bool {
			return Derive(doc, "logic", label, "", "") == Derive("  "+doc+" ", "logic", Normalize(label), "", "")
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("identifiers are well formed", prop.ForAll(
		func(label string) bool {
			return identifierPattern.MatchString(Derive("doc", "method", label, "", ""))
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
