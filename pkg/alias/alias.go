// Package alias maps the short references the operator types (g1, r2,
// lowercase element ids) to the stable node identifiers in a layer graph.
//
// Alias maps are regenerated on every call and never persisted: the
// ordinal assigned to a node can change whenever the node set changes, so
// callers must resolve operator input to stable ids immediately, before
// mutating the graph.
package alias

import (
	"fmt"
	"strings"

	"github.com/diagramlab/diagram-annotator/pkg/graph"
	"github.com/diagramlab/diagram-annotator/pkg/model"
)

// InvalidTokensError reports the exact subset of tokens that could not be
// resolved against a graph. Any unresolvable token invalidates the whole
// command, so the caller never applies a partial edit.
type InvalidTokensError struct {
	Tokens []string
}

func (e *InvalidTokensError) Error() string {
	return fmt.Sprintf("invalid identifiers: %s", strings.Join(e.Tokens, " "))
}

// Prepare normalizes one line of operator input into candidate tokens:
// split on commas and whitespace, lowercase, and drop skip leading tokens
// (the command word, when present).
func Prepare(input string, skip int) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	var tokens []string
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	if skip >= len(tokens) {
		return nil
	}
	return tokens[skip:]
}

// Aliases enumerates the nodes of one kind in creation order and assigns
// each the alias prefix+ordinal, starting from 1. The mapping is keyed by
// alias.
func Aliases(g *graph.Graph, kind model.Kind, prefix string) map[string]string {
	out := make(map[string]string)
	for i, n := range g.NodesOfKind(kind) {
		out[fmt.Sprintf("%s%d", prefix, i+1)] = n.ID()
	}
	return out
}

// GroupAliases enumerates group nodes as g1, g2, ...
func GroupAliases(g *graph.Graph) map[string]string {
	return Aliases(g, model.KindGroup, "g")
}

// RelationAliases enumerates relation nodes as r1, r2, ...
func RelationAliases(g *graph.Graph) map[string]string {
	return Aliases(g, model.KindRelation, "r")
}

// Resolve maps lowercase candidate tokens to stable node ids: group
// aliases (and relation aliases, when allowed) resolve through the
// current enumeration, anything else is uppercased and must name an
// existing node. Relation nodes are only addressable when allowRelations
// is set. On failure the returned error carries every unresolvable
// token and no ids are returned.
func Resolve(tokens []string, g *graph.Graph, allowRelations bool) ([]string, error) {
	groups := GroupAliases(g)
	var relations map[string]string
	if allowRelations {
		relations = RelationAliases(g)
	}

	resolved := make([]string, 0, len(tokens))
	var invalid []string

	for _, tok := range tokens {
		if id, ok := groups[tok]; ok {
			resolved = append(resolved, id)
			continue
		}
		if id, ok := relations[tok]; ok {
			resolved = append(resolved, id)
			continue
		}
		id := strings.ToUpper(tok)
		if n, ok := g.Node(id); ok {
			if n.Kind() == model.KindRelation && !allowRelations {
				invalid = append(invalid, tok)
				continue
			}
			resolved = append(resolved, id)
			continue
		}
		invalid = append(invalid, tok)
	}

	if len(invalid) > 0 {
		return nil, &InvalidTokensError{Tokens: invalid}
	}
	return resolved, nil
}

// Validate reports whether every token resolves against the graph. It is
// Resolve without the resolution result.
func Validate(tokens []string, g *graph.Graph, allowRelations bool) error {
	_, err := Resolve(tokens, g, allowRelations)
	return err
}
