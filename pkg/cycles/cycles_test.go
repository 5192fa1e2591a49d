package cycles

import (
	"testing"

	dgraph "github.com/diagramlab/diagram-annotator/pkg/graph"
	"github.com/diagramlab/diagram-annotator/pkg/model"
)

func addRelation(t *testing.T, g *dgraph.Graph, id, nucleus string, satellites []string) {
	t.Helper()
	rel, err := dgraph.NewMononuclearRelation(id, "elaboration", nucleus, satellites)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(rel); err != nil {
		t.Fatal(err)
	}
}

func TestNoCyclesInHierarchy(t *testing.T) {
	g := dgraph.New()
	g.AddNode(dgraph.NewElement("B0", model.KindBlob))
	g.AddNode(dgraph.NewElement("T0", model.KindText))
	addRelation(t, g, "REL001", "T0", []string{"B0"})
	addRelation(t, g, "REL002", "REL001", []string{"T0"})

	if cycles := FindRelationCycles(g); len(cycles) != 0 {
		t.Errorf("a nested hierarchy has no cycles, got %v", cycles)
	}
}

func TestMutualReferenceCycle(t *testing.T) {
	g := dgraph.New()
	g.AddNode(dgraph.NewElement("B0", model.KindBlob))
	addRelation(t, g, "REL001", "REL002", []string{"B0"})
	addRelation(t, g, "REL002", "REL001", []string{"B0"})

	cycles := FindRelationCycles(g)
	if len(cycles) != 1 {
		t.Fatalf("expected one cycle, got %d", len(cycles))
	}
	if len(cycles[0].Relations) != 2 {
		t.Errorf("expected both relations in the cycle, got %v", cycles[0].Relations)
	}
}

func TestSelfReferenceCycle(t *testing.T) {
	g := dgraph.New()
	g.AddNode(dgraph.NewElement("B0", model.KindBlob))
	addRelation(t, g, "REL001", "REL001", []string{"B0"})

	cycles := FindRelationCycles(g)
	if len(cycles) != 1 {
		t.Fatalf("expected the self-reference to be reported, got %d cycles", len(cycles))
	}
	if len(cycles[0].Relations) != 1 || cycles[0].Relations[0] != "REL001" {
		t.Errorf("unexpected cycle: %v", cycles[0].Relations)
	}
}

func TestEmptyGraph(t *testing.T) {
	g := dgraph.New()
	if cycles := FindRelationCycles(g); cycles != nil {
		t.Errorf("expected nil for a graph without relations, got %v", cycles)
	}
}
