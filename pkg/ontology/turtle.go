// Package ontology renders interpreted graphs as Turtle-style ontology
// text. Output is byte-for-byte reproducible for a given input.
package ontology

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
	"github.com/dd0wney/cluso-guidelines/pkg/identity"
	"github.com/dd0wney/cluso-guidelines/pkg/logic"
	"github.com/dd0wney/cluso-guidelines/pkg/triples"
	"github.com/dd0wney/cluso-guidelines/pkg/vocabulary"
)

// Namespace is the IRI bound to the ex: prefix.
const Namespace = "http://example.org/ontology#"

var prefixes = []string{
	"@prefix ex: <" + Namespace + "> .",
	"@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .",
	"@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .",
}

// Convert interprets g and serializes the result.
func Convert(g *guideline.Graph, v *vocabulary.Vocabulary) (string, error) {
	res, err := triples.Generate(g, v)
	if err != nil {
		return "", err
	}
	return Serialize(g, res, v), nil
}

// Serialize renders the document entity, one declaration block per node
// and then every triple of res. Subjects and objects are resolved by label;
// labels that match no node are minted as generic entities.
func Serialize(g *guideline.Graph, res *triples.Result, v *vocabulary.Vocabulary) string {
	idx := res.Index()
	if idx == nil {
		idx = guideline.NewIndex(g)
	}
	docID := g.Doc.ID

	iris := res.IRIs
	if len(iris) == 0 {
		iris = triples.NodeIRIs(idx, docID)
	}
	byLabel := labelIRIs(idx, iris, v)

	w := &writer{}
	for _, p := range prefixes {
		w.writeLine(p)
	}
	w.writeLine("")

	rec := "ex:" + DocumentID(g.Doc)
	w.linef("%s rdf:type ex:%s .", rec, v.Classes.Document)
	w.literal(rec, "rdfs:label", g.Doc.ID)
	w.literal(rec, "ex:страница", g.Doc.Page)
	w.literal(rec, "ex:УУР", g.Doc.UUR)
	w.literal(rec, "ex:УДД", g.Doc.UDD)
	if g.Doc.Text != "" {
		w.linef(`%s ex:текст """%s""" .`, rec, Escape(g.Doc.Text))
	}
	w.writeLine("")

	w.linef("%s rdf:type ex:%s .", v.Patients.IRI, v.Patients.Class)
	w.linef(`%s rdfs:label "%s" .`, v.Patients.IRI, Escape(v.Patients.Label))
	w.writeLine("")

	for _, n := range idx.Nodes() {
		iri := iris[n.ID]
		w.linef("%s rdf:type ex:%s .", iri, v.Class(n.Type))
		w.linef(`%s rdfs:label "%s" .`, iri, Escape(n.DisplayLabel()))
		switch n.Type {
		case guideline.TypeCriteria:
			w.literal(iri, "ex:"+LocalName(v.Predicates.Value), n.ValueText())
			w.literal(iri, "ex:"+LocalName(v.Predicates.Note), n.NoteText())
		case guideline.TypeLogic:
			w.linef(`%s ex:operator "%s" .`, iri, logic.ParseOperator(n.Label))
		}
		w.linef("%s ex:имеетЭлемент %s .", rec, iri)
		w.writeLine("")
	}

	resolve := func(label string) string {
		if iri, ok := byLabel[label]; ok {
			return iri
		}
		return "ex:" + identity.Derive(docID, "ent", label, "", "")
	}
	for _, t := range res.Triples {
		pred := "ex:" + LocalName(t.Predicate)
		if v.IsLiteral(t.Predicate) {
			w.linef(`%s %s "%s" .`, resolve(t.Subject), pred, Escape(t.Object))
			continue
		}
		w.linef("%s %s %s .", resolve(t.Subject), pred, resolve(t.Object))
	}

	return w.String()
}

// DocumentID returns the identifier of the document entity.
func DocumentID(doc guideline.DocInfo) string {
	key := doc.ID
	if key == "" {
		key = "Recommendation"
	}
	return identity.Derive(doc.ID, "rec", key, "", "")
}

// labelIRIs maps display labels onto node identifiers. Several nodes
// sharing a label collapse onto the last one, logic groups taking
// precedence.
func labelIRIs(idx *guideline.Index, iris map[string]string, v *vocabulary.Vocabulary) map[string]string {
	out := map[string]string{v.Patients.Label: v.Patients.IRI}
	nodes := idx.Nodes()
	for _, n := range nodes {
		out[n.DisplayLabel()] = iris[n.ID]
	}
	for _, n := range nodes {
		if n.Type == guideline.TypeLogic {
			out[n.DisplayLabel()] = iris[n.ID]
		}
	}
	return out
}

// LocalName turns a predicate into an IRI local name.
func LocalName(predicate string) string {
	return strings.NewReplacer(" ", "_", "ё", "е", "Ё", "Е").Replace(strings.TrimSpace(predicate))
}

// Escape quotes a literal for use between double quotes.
func Escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

type writer struct {
	lines []string
}

func (w *writer) writeLine(s string) {
	w.lines = append(w.lines, s)
}

func (w *writer) linef(format string, args ...any) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

// literal writes a quoted literal statement when value is non-empty.
func (w *writer) literal(subject, predicate, value string) {
	if value == "" {
		return
	}
	w.linef(`%s %s "%s" .`, subject, predicate, Escape(value))
}

func (w *writer) String() string {
	return strings.Join(w.lines, "\n")
}
