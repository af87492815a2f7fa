// Package graphql exposes the conversion service as a GraphQL schema. Every
// query takes the editor graph as a GraphInput argument.
package graphql

import (
	"encoding/json"
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-guidelines/pkg/convert"
	"github.com/dd0wney/cluso-guidelines/pkg/guideline"
)

var docInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "DocInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"id":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"page": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"uur":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"udd":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"text": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var nodeInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "NodeInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"id":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"label":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"type":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"value":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"note":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"x":         &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"y":         &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"w":         &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"h":         &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"collapsed": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
	},
})

var linkInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "LinkInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"source":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"target":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"predicate": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var graphInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "GraphInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"doc":   &graphql.InputObjectFieldConfig{Type: docInputType},
		"nodes": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(nodeInputType)))},
		"links": &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(linkInputType))},
	},
})

var tripleType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Triple",
	Fields: graphql.Fields{
		"subject":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"predicate": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"object":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var anchorsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Anchors",
	Fields: graphql.Fields{
		"root":     &graphql.Field{Type: graphql.String},
		"methods":  &graphql.Field{Type: graphql.String},
		"criteria": &graphql.Field{Type: graphql.String},
	},
})

var identifierType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Identifier",
	Fields: graphql.Fields{
		"nodeId": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"iri":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

// identifier is the resolved value of an Identifier.
type identifier struct {
	NodeID string `json:"nodeId"`
	IRI    string `json:"iri"`
}

var conversionType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Conversion",
	Fields: graphql.Fields{
		"triples":    &graphql.Field{Type: graphql.NewList(tripleType)},
		"count":      &graphql.Field{Type: graphql.Int},
		"degraded":   &graphql.Field{Type: graphql.Boolean},
		"anchors":    &graphql.Field{Type: anchorsType},
		"expression": &graphql.Field{Type: graphql.String, Description: "Criteria expression in negation normal form"},
	},
})

// conversion is the resolved value of a Conversion.
type conversion struct {
	Triples    []guideline.Triple `json:"triples"`
	Count      int                `json:"count"`
	Degraded   bool               `json:"degraded"`
	Anchors    guideline.Anchors  `json:"anchors"`
	Expression *string            `json:"expression"`
}

// NewSchema builds the schema over svc.
func NewSchema(svc *convert.Service) (graphql.Schema, error) {
	graphArg := graphql.FieldConfigArgument{
		"graph": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphInputType)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"roles": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "Role predicates recognised on criteria links",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return svc.Vocabulary().Roles, nil
				},
			},
			"triples": &graphql.Field{
				Type: conversionType,
				Args: graphArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, err := graphArgument(p.Args)
					if err != nil {
						return nil, err
					}
					res, err := svc.Triples(p.Context, g)
					if err != nil {
						return nil, err
					}
					out := conversion{
						Triples:  res.Triples,
						Count:    len(res.Triples),
						Degraded: res.Degraded,
						Anchors:  res.Anchors,
					}
					if res.Expr != nil {
						expr := res.Expr.String()
						out.Expression = &expr
					}
					return toMap(out)
				},
			},
			"ontology": &graphql.Field{
				Type: graphql.String,
				Args: graphArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, err := graphArgument(p.Args)
					if err != nil {
						return nil, err
					}
					return svc.Turtle(p.Context, g)
				},
			},
			"identifiers": &graphql.Field{
				Type: graphql.NewList(identifierType),
				Args: graphArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					g, err := graphArgument(p.Args)
					if err != nil {
						return nil, err
					}
					ids, err := svc.Identifiers(p.Context, g)
					if err != nil {
						return nil, err
					}
					// Node input order, each id once.
					out := make([]identifier, 0, len(ids))
					seen := make(map[string]bool, len(ids))
					for _, n := range g.Nodes {
						iri, ok := ids[n.ID]
						if !ok || seen[n.ID] {
							continue
						}
						seen[n.ID] = true
						out = append(out, identifier{NodeID: n.ID, IRI: iri})
					}
					return toMap(out)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

// graphArgument decodes the graph argument into the model, applying the
// same defaults as the JSON endpoints.
func graphArgument(args map[string]any) (*guideline.Graph, error) {
	data, err := json.Marshal(args["graph"])
	if err != nil {
		return nil, fmt.Errorf("invalid graph argument: %w", err)
	}
	var g guideline.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("invalid graph argument: %w", err)
	}
	return &g, nil
}

// toMap round-trips v through JSON so the default field resolvers, which
// look values up by field name, see the schema's names.
func toMap(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
