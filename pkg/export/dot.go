// Package export serializes layer graphs to the DOT exchange format for
// offline inspection. Export is one way: nothing in the annotator reads
// DOT back.
package export

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"

	dgraph "github.com/diagramlab/diagram-annotator/pkg/graph"
)

// attrNode adapts a layer-graph node for the DOT encoder.
type attrNode struct {
	id    int64
	dotID string
	attrs []encoding.Attribute
}

func (n attrNode) ID() int64     { return n.id }
func (n attrNode) DOTID() string { return n.dotID }

func (n attrNode) Attributes() []encoding.Attribute { return n.attrs }

// attrLine carries the edge kind into the DOT output.
type attrLine struct {
	multi.Line
	kind string
}

func (l attrLine) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "kind", Value: l.kind}}
}

// DOT renders a layer graph as a named DOT digraph.
func DOT(g *dgraph.Graph, name string) ([]byte, error) {
	out := multi.NewDirectedGraph()

	nodes := make(map[string]attrNode, g.NodeCount())
	for i, n := range g.Nodes() {
		attrs := []encoding.Attribute{{Key: "kind", Value: string(n.Kind())}}
		switch v := n.(type) {
		case *dgraph.Element:
			if v.MacroGroup != "" {
				attrs = append(attrs, encoding.Attribute{Key: "macro_group", Value: v.MacroGroup})
			}
		case *dgraph.Group:
			if v.MacroGroup != "" {
				attrs = append(attrs, encoding.Attribute{Key: "macro_group", Value: v.MacroGroup})
			}
		case *dgraph.Relation:
			attrs = append(attrs, encoding.Attribute{Key: "rel_name", Value: v.Name})
		}
		an := attrNode{id: int64(i), dotID: n.ID(), attrs: attrs}
		nodes[n.ID()] = an
		out.AddNode(an)
	}

	for _, e := range g.Edges() {
		line := out.NewLine(nodes[e.From], nodes[e.To]).(multi.Line)
		out.SetLine(attrLine{Line: line, kind: string(e.Kind)})
	}

	data, err := dot.MarshalMulti(out, name, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s as DOT: %w", name, err)
	}
	return data, nil
}

// WriteFile renders a layer graph and writes it to path.
func WriteFile(g *dgraph.Graph, name, path string) error {
	data, err := DOT(g, name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing DOT export %s: %w", path, err)
	}
	return nil
}
