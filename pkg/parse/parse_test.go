package parse

import (
	"testing"

	"github.com/diagramlab/diagram-annotator/pkg/model"
)

func strPtr(s string) *string { return &s }

func testAnnotation() *model.Annotation {
	return &model.Annotation{
		Blobs: map[string]model.Shape{
			"B0": {ID: "B0", Polygon: [][2]int{{0, 0}, {10, 0}, {10, 10}}},
			"B1": {ID: "B1", Polygon: [][2]int{{20, 20}, {30, 20}, {30, 30}}},
		},
		Arrows: map[string]model.Shape{
			"A0": {ID: "A0", Polygon: [][2]int{{5, 5}, {25, 25}}},
		},
		ArrowHeads: map[string]model.Shape{
			"AH0": {ID: "AH0", Polygon: [][2]int{{24, 24}, {26, 26}}},
		},
		Text: map[string]model.Shape{
			"T0": {ID: "T0", Rectangle: [][2]int{{0, 40}, {20, 50}}},
		},
		ImageConsts: map[string]model.Shape{
			"I0": {ID: "I0"},
		},
	}
}

func TestExtractOrderAndKinds(t *testing.T) {
	ids, kinds := Extract(testAnnotation())

	want := []string{"B0", "B1", "A0", "T0", "AH0", "I0"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d elements, got %d: %v", len(want), len(ids), ids)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("element %d: expected %s, got %s", i, id, ids[i])
		}
	}
	if kinds["B0"] != model.KindBlob {
		t.Errorf("expected B0 to be a blob, got %s", kinds["B0"])
	}
	if kinds["I0"] != model.KindImageConst {
		t.Errorf("expected I0 to be an image constant, got %s", kinds["I0"])
	}
}

func TestExtractMissingBuckets(t *testing.T) {
	ann := &model.Annotation{
		Text: map[string]model.Shape{"T0": {ID: "T0"}},
	}
	ids, kinds := Extract(ann)
	if len(ids) != 1 || ids[0] != "T0" {
		t.Fatalf("expected only T0, got %v", ids)
	}
	if kinds["T0"] != model.KindText {
		t.Errorf("expected T0 to be text, got %s", kinds["T0"])
	}
}

func TestBuildExcludesArrowheadsByDefault(t *testing.T) {
	g, err := Build(testAnnotation(), BuildOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if g.HasNode("AH0") {
		t.Error("arrowhead AH0 should be excluded by default")
	}
	if !g.HasNode("B0") || !g.HasNode("A0") || !g.HasNode("I0") {
		t.Error("expected all non-arrowhead elements as nodes")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("expected no edges without IncludeEdges, got %d", g.EdgeCount())
	}
}

func TestBuildArrowHeadTailRelation(t *testing.T) {
	ann := testAnnotation()
	ann.Relationships = model.RelationshipList{
		{ID: "R0", Category: model.CategoryArrowHeadTail, Origin: "A0", Destination: "AH0"},
	}

	g, err := Build(ann, BuildOptions{IncludeArrowheads: true, IncludeEdges: true})
	if err != nil {
		t.Fatal(err)
	}
	if !g.HasEdge("A0", "AH0", model.EdgeUndirected) {
		t.Error("expected edge A0 -> AH0 from the arrowHeadTail relation")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("expected exactly one edge, got %d", g.EdgeCount())
	}
}

func TestBuildConnectorSplicesArrowhead(t *testing.T) {
	ann := testAnnotation()
	ann.Relationships = model.RelationshipList{
		{ID: "R0", Category: model.CategoryArrowHeadTail, Origin: "A0", Destination: "AH0"},
		{ID: "R1", Category: "interObjectLinkage", Origin: "B0", Destination: "B1", Connector: strPtr("A0")},
	}

	g, err := Build(ann, BuildOptions{IncludeArrowheads: true, IncludeEdges: true})
	if err != nil {
		t.Fatal(err)
	}
	if !g.HasEdge("B0", "A0", model.EdgeUndirected) {
		t.Error("expected edge B0 -> A0")
	}
	if !g.HasEdge("AH0", "B1", model.EdgeUndirected) {
		t.Error("expected edge AH0 -> B1 spliced through the arrowhead")
	}
	if g.HasEdge("A0", "B1", model.EdgeUndirected) {
		t.Error("connector edge should route through the arrowhead, not the arrow")
	}
}

func TestBuildConnectorBeforeArrowHeadTail(t *testing.T) {
	// The relation arrives before its connector's arrowHeadTail record, so
	// the splice table has no entry and the plain connector edges apply.
	ann := testAnnotation()
	ann.Relationships = model.RelationshipList{
		{ID: "R1", Category: "interObjectLinkage", Origin: "B0", Destination: "B1", Connector: strPtr("A0")},
		{ID: "R0", Category: model.CategoryArrowHeadTail, Origin: "A0", Destination: "AH0"},
	}

	g, err := Build(ann, BuildOptions{IncludeArrowheads: true, IncludeEdges: true})
	if err != nil {
		t.Fatal(err)
	}
	if !g.HasEdge("B0", "A0", model.EdgeUndirected) || !g.HasEdge("A0", "B1", model.EdgeUndirected) {
		t.Error("expected plain connector edges B0 -> A0 -> B1")
	}
}

func TestBuildAbsentConnectorDirectEdge(t *testing.T) {
	ann := testAnnotation()
	ann.Relationships = model.RelationshipList{
		{ID: "R0", Category: "intraObjectLabel", Origin: "T0", Destination: "B0"},
	}

	g, err := Build(ann, BuildOptions{IncludeEdges: true})
	if err != nil {
		t.Fatal(err)
	}
	if !g.HasEdge("T0", "B0", model.EdgeUndirected) {
		t.Error("expected direct edge T0 -> B0 when connector is absent")
	}
}

func TestBuildNullConnectorNoEdge(t *testing.T) {
	ann := testAnnotation()
	ann.Relationships = model.RelationshipList{
		{ID: "R0", Category: "intraObjectLabel", Origin: "T0", Destination: "B0", Connector: strPtr("")},
	}

	g, err := Build(ann, BuildOptions{IncludeEdges: true})
	if err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("a present-but-null connector must add no edges, got %d", g.EdgeCount())
	}
}

func TestBuildSkipsUnknownEndpoints(t *testing.T) {
	ann := testAnnotation()
	ann.Relationships = model.RelationshipList{
		{ID: "R0", Category: "intraObjectLabel", Origin: "T0", Destination: "B9"},
		{ID: "R1", Category: "intraObjectLabel", Origin: "T0", Destination: "B0"},
	}

	g, err := Build(ann, BuildOptions{IncludeEdges: true})
	if err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("expected the unknown endpoint edge to be skipped, got %d edges", g.EdgeCount())
	}
}
