package graphql

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// DefaultMaxDepth bounds selection nesting. The schema itself is shallow;
// deeper queries are malformed or abusive.
const DefaultMaxDepth = 6

// calculateQueryDepth returns the deepest selection of any operation.
func calculateQueryDepth(document *ast.Document) int {
	fragments := make(map[string]*ast.FragmentDefinition)
	for _, definition := range document.Definitions {
		if frag, ok := definition.(*ast.FragmentDefinition); ok {
			fragments[frag.Name.Value] = frag
		}
	}

	maxDepth := 0
	for _, definition := range document.Definitions {
		if def, ok := definition.(*ast.OperationDefinition); ok {
			depth := selectionSetDepth(def.SelectionSet, 0, fragments, map[string]bool{})
			if depth > maxDepth {
				maxDepth = depth
			}
		}
	}
	return maxDepth
}

func selectionSetDepth(set *ast.SelectionSet, current int, fragments map[string]*ast.FragmentDefinition, visiting map[string]bool) int {
	if set == nil || len(set.Selections) == 0 {
		return current
	}

	maxDepth := current
	for _, selection := range set.Selections {
		depth := current
		switch sel := selection.(type) {
		case *ast.Field:
			if strings.HasPrefix(sel.Name.Value, "__") {
				continue
			}
			depth = selectionSetDepth(sel.SelectionSet, current+1, fragments, visiting)
		case *ast.InlineFragment:
			depth = selectionSetDepth(sel.SelectionSet, current, fragments, visiting)
		case *ast.FragmentSpread:
			name := sel.Name.Value
			frag, ok := fragments[name]
			if !ok || visiting[name] {
				continue
			}
			visiting[name] = true
			depth = selectionSetDepth(frag.SelectionSet, current, fragments, visiting)
			delete(visiting, name)
		}
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth
}

// ValidateQueryDepth parses query and checks it against maxDepth.
func ValidateQueryDepth(query string, maxDepth int) error {
	document, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return fmt.Errorf("failed to parse query: %w", err)
	}

	if depth := calculateQueryDepth(document); depth > maxDepth {
		return fmt.Errorf("query depth %d exceeds maximum allowed depth %d", depth, maxDepth)
	}
	return nil
}
