// Package logic turns the criteria subtree of a decision graph into a
// boolean expression tree and rewrites it into negation normal form.
package logic

import "strings"

// Operator is a logical connective.
type Operator uint8

const (
	And Operator = iota
	Or
	Not
)

// String returns the canonical operator code.
func (o Operator) String() string {
	switch o {
	case Or:
		return "OR"
	case Not:
		return "NOT"
	default:
		return "AND"
	}
}

// ParseOperator maps a logic node label onto a connective. Matching is
// case-insensitive and ignores surrounding whitespace. Unrecognised labels
// default to And, so the mapping is total.
func ParseOperator(label string) Operator {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "ИЛИ", "ANY", "OR":
		return Or
	case "НЕТ", "NOT":
		return Not
	default:
		return And
	}
}
