package parse

import (
	"fmt"

	"github.com/diagramlab/diagram-annotator/pkg/graph"
	"github.com/diagramlab/diagram-annotator/pkg/logging"
	"github.com/diagramlab/diagram-annotator/pkg/model"
)

// BuildOptions controls the initial graph derived from an annotation
// record.
type BuildOptions struct {
	// IncludeArrowheads keeps arrowhead elements as nodes. Arrowheads are
	// an annotation artifact, so most layers drop them.
	IncludeArrowheads bool

	// IncludeEdges seeds edges from the raw relationship records.
	IncludeEdges bool
}

// Build converts an annotation record into an initial layer graph: one
// node per extracted element and, when requested, one set of edges per
// raw relation.
//
// Relations are processed in input order. An arrowHeadTail relation
// records its arrow's arrowhead in a lookup table, and a later relation
// that routes through that arrow splices the arrowhead into its edge
// pair; a relation that arrives before its connector's arrowHeadTail
// record falls back to the plain connector edges. The dependency is
// positional, inherited from the source data format.
func Build(ann *model.Annotation, opts BuildOptions) (*graph.Graph, error) {
	elements, kinds := Extract(ann)

	g := graph.New()
	for _, id := range elements {
		kind := kinds[id]
		if kind == model.KindArrowHead && !opts.IncludeArrowheads {
			continue
		}
		if err := g.AddNode(graph.NewElement(id, kind)); err != nil {
			return nil, fmt.Errorf("adding element %s: %w", id, err)
		}
	}

	if !opts.IncludeEdges {
		return g, nil
	}

	// Maps an arrow id to its arrowhead id, filled in as arrowHeadTail
	// relations are seen.
	arrowmap := make(map[string]string)

	for _, rel := range ann.Relationships {
		var pairs [][2]string

		if rel.Category == model.CategoryArrowHeadTail {
			pairs = append(pairs, [2]string{rel.Origin, rel.Destination})
			arrowmap[rel.Origin] = rel.Destination
		}

		switch {
		case rel.HasConnector():
			connector := *rel.Connector
			if head, ok := arrowmap[connector]; ok {
				pairs = append(pairs,
					[2]string{rel.Origin, connector},
					[2]string{head, rel.Destination})
			} else {
				pairs = append(pairs,
					[2]string{rel.Origin, connector},
					[2]string{connector, rel.Destination})
			}
		case rel.Connector == nil:
			pairs = append(pairs, [2]string{rel.Origin, rel.Destination})
		default:
			// Connector present but null: the relation contributes no
			// further edges.
		}

		seen := make(map[[2]string]bool, len(pairs))
		for _, p := range pairs {
			if seen[p] {
				continue
			}
			seen[p] = true
			if !g.HasNode(p[0]) || !g.HasNode(p[1]) {
				logging.Debug("skipping relation edge with unknown endpoint",
					"relation", rel.ID, "source", p[0], "target", p[1])
				continue
			}
			if err := g.AddEdge(p[0], p[1], model.EdgeUndirected); err != nil {
				return nil, fmt.Errorf("relation %s: %w", rel.ID, err)
			}
		}
	}

	return g, nil
}
