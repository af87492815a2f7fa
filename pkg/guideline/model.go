// Package guideline holds the hand-authored decision graph model: documents,
// nodes, links and the triples produced from them. It also provides the
// adjacency index and the anchor resolution used to find the methods and
// criteria subtrees inside an otherwise free-form graph.
package guideline

import "encoding/json"

// NodeType values recognised by the interpretation pipeline. Any other
// string is carried through unchanged and treated as a generic entity.
const (
	TypeRoot     = "root"
	TypeMethod   = "method"
	TypeCriteria = "criteria"
	TypeLogic    = "logic"
)

// DocInfo is the document metadata attached to a graph.
type DocInfo struct {
	ID   string `json:"id" validate:"max=512"`
	Page string `json:"page"`
	UUR  string `json:"uur"`
	UDD  string `json:"udd"`
	Text string `json:"text" validate:"max=1048576"`
}

// Node is a single vertex of the decision graph. X, Y, W, H and Collapsed
// are editor layout attributes and carry no meaning for the pipeline.
type Node struct {
	ID        string  `json:"id" validate:"required,max=256"`
	Label     string  `json:"label" validate:"max=4096"`
	Value     *string `json:"value,omitempty" validate:"omitempty,max=4096"`
	Note      *string `json:"note,omitempty" validate:"omitempty,max=4096"`
	Type      string  `json:"type" validate:"max=64"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	W         float64 `json:"w"`
	H         float64 `json:"h"`
	Collapsed bool    `json:"collapsed"`
}

// UnmarshalJSON applies the editor default of "criteria" for nodes that
// omit their type.
func (n *Node) UnmarshalJSON(data []byte) error {
	type plain Node
	p := plain{Type: TypeCriteria}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = Node(p)
	return nil
}

// DisplayLabel returns the label, or the id when the label is empty.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// ValueText returns the literal value or "" when unset.
func (n *Node) ValueText() string {
	if n.Value == nil {
		return ""
	}
	return *n.Value
}

// NoteText returns the literal note or "" when unset.
func (n *Node) NoteText() string {
	if n.Note == nil {
		return ""
	}
	return *n.Note
}

// Link is a directed edge between two node ids.
type Link struct {
	Source    string `json:"source" validate:"required,max=256"`
	Target    string `json:"target" validate:"required,max=256"`
	Predicate string `json:"predicate" validate:"max=256"`
}

// Graph is the complete editor document.
type Graph struct {
	Doc   DocInfo `json:"doc"`
	Nodes []Node  `json:"nodes" validate:"max=10000,dive"`
	Links []Link  `json:"links" validate:"max=50000,dive"`
}

// Triple is a subject-predicate-object statement over display strings.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// Row is a triple annotated with its source document, as exported to
// spreadsheets.
type Row struct {
	Triple
	Document string `json:"doc"`
	Page     string `json:"page"`
	Text     string `json:"rec_text"`
}

// Rows annotates every triple with the graph's document metadata.
func (g *Graph) Rows(triples []Triple) []Row {
	rows := make([]Row, len(triples))
	for i, t := range triples {
		rows[i] = Row{Triple: t, Document: g.Doc.ID, Page: g.Doc.Page, Text: g.Doc.Text}
	}
	return rows
}

// StringPtr is a convenience for building nodes with literal attributes.
func StringPtr(s string) *string {
	return &s
}
