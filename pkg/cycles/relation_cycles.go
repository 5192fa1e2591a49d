package cycles

import (
	"gonum.org/v1/gonum/graph/simple"

	dgraph "github.com/diagramlab/diagram-annotator/pkg/graph"
	"github.com/diagramlab/diagram-annotator/pkg/model"
)

// RelationCycle is a set of relation ids that participate in each other,
// directly or through intermediate relations. Nested rhetorical structure
// must form a tree-like hierarchy; any cycle is a validity violation.
type RelationCycle struct {
	Relations []string
}

// FindRelationCycles inspects the relation nodes of an RST layer graph
// and returns every reference cycle among them. Fresh relation ids make
// cycles impossible to create interactively, so a non-empty result means
// the graph was corrupted outside the annotator (for example by editing
// the persisted collection by hand).
func FindRelationCycles(g *dgraph.Graph) []RelationCycle {
	relations := g.NodesOfKind(model.KindRelation)
	if len(relations) == 0 {
		return nil
	}

	// Build the participant-reference graph: an edge from a relation to
	// every relation it names as nucleus or satellite.
	refs := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(relations))
	names := make(map[int64]string, len(relations))
	var next int64
	for _, n := range relations {
		ids[n.ID()] = next
		names[next] = n.ID()
		refs.AddNode(simple.Node(next))
		next++
	}

	var cycles []RelationCycle
	for _, n := range relations {
		rel := n.(*dgraph.Relation)
		for _, p := range rel.Participants() {
			if p == rel.ID() {
				// Direct self-reference is a one-node cycle the SCC
				// pass below would miss.
				cycles = append(cycles, RelationCycle{Relations: []string{rel.ID()}})
				continue
			}
			if to, ok := ids[p]; ok {
				refs.SetEdge(refs.NewEdge(simple.Node(ids[rel.ID()]), simple.Node(to)))
			}
		}
	}

	for _, scc := range NewTarjanSCC(refs).FindSCCs() {
		cycle := RelationCycle{Relations: make([]string, 0, len(scc))}
		for _, id := range scc {
			cycle.Relations = append(cycle.Relations, names[id])
		}
		cycles = append(cycles, cycle)
	}

	return cycles
}
