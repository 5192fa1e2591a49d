package graph

import (
	"encoding/json"
	"testing"

	"github.com/diagramlab/diagram-annotator/pkg/model"
)

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	g := New()
	for _, n := range []struct {
		id   string
		kind model.Kind
	}{
		{"B0", model.KindBlob},
		{"B1", model.KindBlob},
		{"T0", model.KindText},
		{"I0", model.KindImageConst},
	} {
		if err := g.AddNode(NewElement(n.id, n.kind)); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestAddNodeRejectsDuplicates(t *testing.T) {
	g := newTestGraph(t)
	if err := g.AddNode(NewElement("B0", model.KindBlob)); err == nil {
		t.Error("expected duplicate node id to be rejected")
	}
}

func TestAddEdgeRejectsSelfLoop(t *testing.T) {
	g := newTestGraph(t)
	if err := g.AddEdge("B0", "B0", model.EdgeUndirected); err == nil {
		t.Error("expected self-loop to be rejected")
	}
}

func TestAddEdgeRequiresNodes(t *testing.T) {
	g := newTestGraph(t)
	if err := g.AddEdge("B0", "X9", model.EdgeUndirected); err == nil {
		t.Error("expected edge to unknown node to be rejected")
	}
}

func TestParallelEdgesOfDifferentKinds(t *testing.T) {
	g := newTestGraph(t)
	if err := g.AddEdge("B0", "B1", model.EdgeDirected); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge("B0", "B1", model.EdgeUndirected); err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 2 {
		t.Fatalf("expected two parallel edges, got %d", g.EdgeCount())
	}
	if !g.HasEdge("B0", "B1", model.EdgeDirected) || !g.HasEdge("B0", "B1", model.EdgeUndirected) {
		t.Error("both edge kinds should be present between the same pair")
	}
}

func TestEdgesBetweenDistinctPairsAllRetained(t *testing.T) {
	// gonum allocates line IDs per ordered node pair, so the first edge of
	// every pair shares the same line ID. Edges across distinct pairs must
	// not shadow each other in the typed edge table.
	g := newTestGraph(t)
	pairs := []struct{ from, to string }{
		{"B0", "B1"},
		{"B1", "T0"},
		{"T0", "I0"},
		{"B0", "I0"},
	}
	for _, p := range pairs {
		if err := g.AddEdge(p.from, p.to, model.EdgeGrouping); err != nil {
			t.Fatal(err)
		}
	}

	if g.EdgeCount() != len(pairs) {
		t.Fatalf("expected %d edges, got %d", len(pairs), g.EdgeCount())
	}
	for _, p := range pairs {
		if !g.HasEdge(p.from, p.to, model.EdgeGrouping) {
			t.Errorf("edge %s->%s lost", p.from, p.to)
		}
	}
	if len(g.Isolates()) != 0 {
		t.Errorf("no node is isolated, got %v", g.Isolates())
	}

	// Removing one pair's edge leaves the rest intact.
	if err := g.RemoveEdgesWhere(func(e Edge) bool {
		return e.From == "B0" && e.To == "B1"
	}); err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != len(pairs)-1 {
		t.Fatalf("expected %d edges after removal, got %d", len(pairs)-1, g.EdgeCount())
	}
	if g.HasEdge("B0", "B1", model.EdgeGrouping) {
		t.Error("removed edge still present")
	}
	if !g.HasEdge("B0", "I0", model.EdgeGrouping) {
		t.Error("unrelated edge of the same source was removed")
	}
}

func TestNodesCreationOrder(t *testing.T) {
	g := newTestGraph(t)
	want := []string{"B0", "B1", "T0", "I0"}
	nodes := g.Nodes()
	for i, id := range want {
		if nodes[i].ID() != id {
			t.Errorf("node %d: expected %s, got %s", i, id, nodes[i].ID())
		}
	}

	// Removal keeps the relative order of the survivors.
	if err := g.RemoveNode("B1"); err != nil {
		t.Fatal(err)
	}
	nodes = g.Nodes()
	want = []string{"B0", "T0", "I0"}
	for i, id := range want {
		if nodes[i].ID() != id {
			t.Errorf("after removal, node %d: expected %s, got %s", i, id, nodes[i].ID())
		}
	}
}

func TestRemoveNodeDropsIncidentEdges(t *testing.T) {
	g := newTestGraph(t)
	g.AddEdge("B0", "B1", model.EdgeUndirected)
	g.AddEdge("B1", "T0", model.EdgeUndirected)

	if err := g.RemoveNode("B1"); err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("expected incident edges to be removed, got %d", g.EdgeCount())
	}
}

func TestDetachNodesKeepsNodes(t *testing.T) {
	g := newTestGraph(t)
	g.AddEdge("B0", "B1", model.EdgeUndirected)
	g.AddEdge("T0", "B0", model.EdgeUndirected)

	if err := g.DetachNodes([]string{"B0"}); err != nil {
		t.Fatal(err)
	}
	if !g.HasNode("B0") {
		t.Error("detached node must remain in the graph")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("expected all edges touching B0 to be removed, got %d", g.EdgeCount())
	}
}

func TestIsolates(t *testing.T) {
	g := newTestGraph(t)
	g.AddEdge("B0", "B1", model.EdgeUndirected)

	isolates := g.Isolates()
	want := []string{"T0", "I0"}
	if len(isolates) != len(want) {
		t.Fatalf("expected %v, got %v", want, isolates)
	}
	for i, id := range want {
		if isolates[i] != id {
			t.Errorf("isolate %d: expected %s, got %s", i, id, isolates[i])
		}
	}
}

func TestRemoveEdgesWhereAndRetag(t *testing.T) {
	g := newTestGraph(t)
	g.AddEdge("B0", "I0", model.EdgeUndirected)
	g.AddEdge("B0", "B1", model.EdgeUndirected)

	err := g.RemoveEdgesWhere(func(e Edge) bool { return e.To == "I0" })
	if err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("expected one surviving edge, got %d", g.EdgeCount())
	}

	if err := g.RetagEdges(model.EdgeGrouping); err != nil {
		t.Fatal(err)
	}
	if !g.HasEdge("B0", "B1", model.EdgeGrouping) {
		t.Error("expected the surviving edge to be retagged as grouping")
	}
}

func TestFreezeBlocksMutation(t *testing.T) {
	g := newTestGraph(t)
	g.Freeze()

	if err := g.AddNode(NewElement("B9", model.KindBlob)); err != ErrFrozen {
		t.Errorf("AddNode on frozen graph: expected ErrFrozen, got %v", err)
	}
	if err := g.AddEdge("B0", "B1", model.EdgeUndirected); err != ErrFrozen {
		t.Errorf("AddEdge on frozen graph: expected ErrFrozen, got %v", err)
	}
	if err := g.RemoveNode("B0"); err != ErrFrozen {
		t.Errorf("RemoveNode on frozen graph: expected ErrFrozen, got %v", err)
	}
}

func TestCopyIsDeepAndUnfrozen(t *testing.T) {
	g := newTestGraph(t)
	g.AddEdge("B0", "B1", model.EdgeGrouping)
	g.Freeze()

	c := g.Copy()
	if c.Frozen() {
		t.Error("copy must start unfrozen")
	}
	if c.NodeCount() != g.NodeCount() || c.EdgeCount() != g.EdgeCount() {
		t.Fatal("copy must preserve nodes and edges")
	}

	if err := c.AddNode(NewElement("B9", model.KindBlob)); err != nil {
		t.Fatal(err)
	}
	if g.HasNode("B9") {
		t.Error("mutating the copy must not touch the original")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	g := newTestGraph(t)
	g.AddNode(NewGroup("GRP001"))
	g.AddEdge("B0", "GRP001", model.EdgeGrouping)
	g.AddEdge("B1", "GRP001", model.EdgeGrouping)
	rel, err := NewMononuclearRelation("REL001", "elaboration", "T0", []string{"B0"})
	if err != nil {
		t.Fatal(err)
	}
	g.AddNode(rel)
	g.AddEdge("REL001", "T0", model.EdgeNucleus)
	g.Freeze()

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}

	var restored Graph
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatal(err)
	}

	if restored.NodeCount() != g.NodeCount() {
		t.Errorf("expected %d nodes, got %d", g.NodeCount(), restored.NodeCount())
	}
	if restored.EdgeCount() != g.EdgeCount() {
		t.Errorf("expected %d edges, got %d", g.EdgeCount(), restored.EdgeCount())
	}
	if !restored.Frozen() {
		t.Error("frozen flag must survive the round trip")
	}

	n, ok := restored.Node("REL001")
	if !ok {
		t.Fatal("relation node missing after round trip")
	}
	r, ok := n.(*Relation)
	if !ok {
		t.Fatalf("expected *Relation, got %T", n)
	}
	if r.Name != "elaboration" || r.Nucleus != "T0" {
		t.Errorf("relation fields lost: name=%s nucleus=%s", r.Name, r.Nucleus)
	}

	// Creation order, and with it alias enumeration, must be identical.
	orig, rest := g.Nodes(), restored.Nodes()
	for i := range orig {
		if orig[i].ID() != rest[i].ID() {
			t.Errorf("node order diverged at %d: %s vs %s", i, orig[i].ID(), rest[i].ID())
		}
	}
}
