package export

import (
	"strings"
	"testing"

	dgraph "github.com/diagramlab/diagram-annotator/pkg/graph"
	"github.com/diagramlab/diagram-annotator/pkg/model"
)

func TestDOTContainsNodesAndKinds(t *testing.T) {
	g := dgraph.New()
	g.AddNode(dgraph.NewElement("B0", model.KindBlob))
	g.AddNode(dgraph.NewGroup("GRP001"))
	g.AddEdge("B0", "GRP001", model.EdgeGrouping)

	data, err := DOT(g, "layout")
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	if !strings.Contains(out, "digraph layout") {
		t.Errorf("expected a named digraph, got:\n%s", out)
	}
	for _, want := range []string{"B0", "GRP001", "grouping"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in DOT output:\n%s", want, out)
		}
	}
}

func TestDOTCarriesMacroGroup(t *testing.T) {
	g := dgraph.New()
	el := dgraph.NewElement("B0", model.KindBlob)
	el.MacroGroup = "cycle"
	g.AddNode(el)

	data, err := DOT(g, "layout")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "macro_group") || !strings.Contains(string(data), "cycle") {
		t.Errorf("expected the macro-group attribute:\n%s", data)
	}
}
