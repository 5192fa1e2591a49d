package graph

import (
	"encoding/json"
	"fmt"

	"github.com/diagramlab/diagram-annotator/pkg/model"
	"github.com/diagramlab/diagram-annotator/pkg/vocab"
)

// nodeJSON is the flat persisted form of a node. The variant is recovered
// from the kind on load.
type nodeJSON struct {
	ID         string           `json:"id"`
	Kind       model.Kind       `json:"kind"`
	MacroGroup string           `json:"macro_group,omitempty"`
	RelName    string           `json:"rel_name,omitempty"`
	Nuclearity vocab.Nuclearity `json:"nuclearity,omitempty"`
	Nucleus    string           `json:"nucleus,omitempty"`
	Satellites []string         `json:"satellites,omitempty"`
	Nuclei     []string         `json:"nuclei,omitempty"`
}

type graphJSON struct {
	Nodes  []nodeJSON `json:"nodes"`
	Edges  []Edge     `json:"edges"`
	Frozen bool       `json:"frozen,omitempty"`
}

// MarshalJSON serializes nodes in creation order so that a load/save
// round trip preserves alias enumeration.
func (g *Graph) MarshalJSON() ([]byte, error) {
	out := graphJSON{
		Nodes:  make([]nodeJSON, 0, len(g.order)),
		Edges:  g.Edges(),
		Frozen: g.frozen,
	}
	for _, id := range g.order {
		switch n := g.nodes[id].(type) {
		case *Element:
			out.Nodes = append(out.Nodes, nodeJSON{
				ID:         n.ID(),
				Kind:       n.Kind(),
				MacroGroup: n.MacroGroup,
			})
		case *Group:
			out.Nodes = append(out.Nodes, nodeJSON{
				ID:         n.ID(),
				Kind:       model.KindGroup,
				MacroGroup: n.MacroGroup,
			})
		case *Relation:
			out.Nodes = append(out.Nodes, nodeJSON{
				ID:         n.ID(),
				Kind:       model.KindRelation,
				RelName:    n.Name,
				Nuclearity: n.Nuclearity,
				Nucleus:    n.Nucleus,
				Satellites: n.Satellites,
				Nuclei:     n.Nuclei,
			})
		default:
			return nil, fmt.Errorf("unknown node variant %T", n)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a graph persisted by MarshalJSON.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var in graphJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	restored := New()
	for _, n := range in.Nodes {
		var node Node
		switch n.Kind {
		case model.KindGroup:
			grp := NewGroup(n.ID)
			grp.MacroGroup = n.MacroGroup
			node = grp
		case model.KindRelation:
			node = &Relation{
				id:         n.ID,
				Name:       n.RelName,
				Nuclearity: n.Nuclearity,
				Nucleus:    n.Nucleus,
				Satellites: n.Satellites,
				Nuclei:     n.Nuclei,
			}
		default:
			if !n.Kind.IsElement() {
				return fmt.Errorf("node %s: unknown kind %q", n.ID, n.Kind)
			}
			el := NewElement(n.ID, n.Kind)
			el.MacroGroup = n.MacroGroup
			node = el
		}
		if err := restored.AddNode(node); err != nil {
			return fmt.Errorf("restoring node %s: %w", n.ID, err)
		}
	}
	for _, e := range in.Edges {
		if err := restored.AddEdge(e.From, e.To, e.Kind); err != nil {
			return fmt.Errorf("restoring edge %s->%s: %w", e.From, e.To, err)
		}
	}
	restored.frozen = in.Frozen

	*g = *restored
	return nil
}
