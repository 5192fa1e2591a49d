package diagram

import (
	"fmt"
	"strings"

	"github.com/diagramlab/diagram-annotator/pkg/cycles"
	"github.com/diagramlab/diagram-annotator/pkg/graph"
	"github.com/diagramlab/diagram-annotator/pkg/logging"
	"github.com/diagramlab/diagram-annotator/pkg/model"
)

// deriveConnectivity builds the connectivity graph from the completed
// layout hierarchy. Edges touching the image constant describe layout
// placement, not connections, so they are dropped; groups and image
// constants left without edges are dropped with them; everything that
// survives is retagged as a grouping edge so connectivity annotation
// starts from the hierarchy rather than from connections.
func (d *Diagram) deriveConnectivity() error {
	if !d.GroupComplete {
		return fmt.Errorf("connectivity: %w", ErrLayerNotDerived)
	}

	g := d.Layout.Copy()

	isImageConst := func(id string) bool {
		n, ok := g.Node(id)
		return ok && n.Kind() == model.KindImageConst
	}
	if err := g.RemoveEdgesWhere(func(e graph.Edge) bool {
		return isImageConst(e.From) || isImageConst(e.To)
	}); err != nil {
		return err
	}

	var prune []string
	for _, id := range g.Isolates() {
		n, _ := g.Node(id)
		if n.Kind() == model.KindGroup || n.Kind() == model.KindImageConst {
			prune = append(prune, id)
		}
	}
	if err := g.RemoveNodes(prune); err != nil {
		return err
	}

	if err := g.RetagEdges(model.EdgeGrouping); err != nil {
		return err
	}

	logging.Debug("derived connectivity graph",
		"image", d.ImageFilename,
		"nodes", g.NodeCount(), "edges", g.EdgeCount())

	d.Connectivity = g
	return nil
}

// deriveRST seeds the RST graph with the non-group nodes of the layout
// hierarchy. Rhetorical relations hold between content-bearing elements;
// grouping structure does not carry over.
func (d *Diagram) deriveRST() error {
	if !d.ConnectivityComplete {
		return fmt.Errorf("rst: %w", ErrLayerNotDerived)
	}

	g := graph.New()
	for _, n := range d.Layout.Nodes() {
		if n.Kind() == model.KindGroup {
			continue
		}
		if err := g.AddNode(graph.NewElement(n.ID(), n.Kind())); err != nil {
			return fmt.Errorf("seeding rst graph: %w", err)
		}
	}

	logging.Debug("derived rst graph",
		"image", d.ImageFilename, "nodes", g.NodeCount())

	d.RST = g
	return nil
}

// VerifyRelations checks the structural validity of the RST layer: every
// participant a relation names must exist, and relation nesting must be
// acyclic. Fresh relation ids make cycles impossible to create through
// the annotator, so a cycle here means the persisted collection was
// edited by hand.
func (d *Diagram) VerifyRelations() error {
	g, err := d.Graph(LayerRST)
	if err != nil {
		return err
	}

	for _, n := range g.NodesOfKind(model.KindRelation) {
		rel := n.(*graph.Relation)
		for _, p := range rel.Participants() {
			if !g.HasNode(p) {
				return fmt.Errorf("relation %s references missing node %s",
					rel.ID(), p)
			}
		}
	}

	if found := cycles.FindRelationCycles(g); len(found) > 0 {
		parts := make([]string, 0, len(found))
		for _, c := range found {
			parts = append(parts, strings.Join(c.Relations, ", "))
		}
		return fmt.Errorf("relation nesting contains cycles: %s",
			strings.Join(parts, "; "))
	}

	return nil
}
