package command

import (
	"testing"

	"github.com/diagramlab/diagram-annotator/pkg/diagram"
	"github.com/diagramlab/diagram-annotator/pkg/model"
)

func TestParseBlankInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t"} {
		cmd, err := Parse(input, diagram.LayerLayout)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", input, err)
		}
		if cmd != nil {
			t.Errorf("Parse(%q): blank input must parse to nil, got %T", input, cmd)
		}
	}
}

func TestParseGenericCommands(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"done", Done{}},
		{"exit", Exit{}},
		{"next", Next{}},
		{"reset", Reset{}},
		{"cap", Cap{}},
		{"comment", Comment{}},
		{"export", Export{}},
		{"info", Info{}},
		{"isolate", Isolate{}},
		{"macrogroups", MacroGroups{}},
	}
	for _, tt := range tests {
		cmd, err := Parse(tt.input, diagram.LayerLayout)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.input, err)
			continue
		}
		if cmd != tt.want {
			t.Errorf("Parse(%q) = %#v, want %#v", tt.input, cmd, tt.want)
		}
	}
}

func TestParseTokenCommands(t *testing.T) {
	cmd, err := Parse("rm B0, t0", diagram.LayerLayout)
	if err != nil {
		t.Fatal(err)
	}
	rm, ok := cmd.(Remove)
	if !ok {
		t.Fatalf("expected Remove, got %T", cmd)
	}
	if len(rm.Tokens) != 2 || rm.Tokens[0] != "b0" || rm.Tokens[1] != "t0" {
		t.Errorf("unexpected tokens: %v", rm.Tokens)
	}

	cmd, err = Parse("free b0", diagram.LayerRST)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cmd.(Free); !ok {
		t.Fatalf("expected Free, got %T", cmd)
	}
}

func TestParseLayoutGrouping(t *testing.T) {
	cmd, err := Parse("b0, b1", diagram.LayerLayout)
	if err != nil {
		t.Fatal(err)
	}
	grp, ok := cmd.(GroupNodes)
	if !ok {
		t.Fatalf("expected GroupNodes, got %T", cmd)
	}
	if len(grp.Tokens) != 2 {
		t.Errorf("unexpected tokens: %v", grp.Tokens)
	}
}

func TestParseMacroOnlyOnLayout(t *testing.T) {
	cmd, err := Parse("macro b0", diagram.LayerLayout)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cmd.(AssignMacro); !ok {
		t.Fatalf("expected AssignMacro, got %T", cmd)
	}

	// On the RST layer the same line is not a command at all.
	if _, err := Parse("macro b0", diagram.LayerRST); err == nil {
		t.Error("macro outside the layout layer must be rejected")
	}
}

func TestParseConnectivityExpressions(t *testing.T) {
	tests := []struct {
		input   string
		kind    model.EdgeKind
		sources []string
		targets []string
	}{
		{"t1 > b1", model.EdgeDirected, []string{"t1"}, []string{"b1"}},
		{"t1 - b1", model.EdgeUndirected, []string{"t1"}, []string{"b1"}},
		{"t1 <> b1, b2", model.EdgeBidirected, []string{"t1"}, []string{"b1", "b2"}},
		{"b1 b2 > t1", model.EdgeDirected, []string{"b1", "b2"}, []string{"t1"}},
	}
	for _, tt := range tests {
		cmd, err := Parse(tt.input, diagram.LayerConnectivity)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.input, err)
			continue
		}
		conn, ok := cmd.(Connect)
		if !ok {
			t.Errorf("Parse(%q): expected Connect, got %T", tt.input, cmd)
			continue
		}
		if conn.Kind != tt.kind {
			t.Errorf("Parse(%q): kind = %s, want %s", tt.input, conn.Kind, tt.kind)
		}
		if len(conn.Sources) != len(tt.sources) || len(conn.Targets) != len(tt.targets) {
			t.Errorf("Parse(%q): sources %v targets %v", tt.input, conn.Sources, conn.Targets)
		}
	}
}

func TestParseConnectivityRejectsOneSided(t *testing.T) {
	for _, input := range []string{"> b1", "t1 >", "-"} {
		if _, err := Parse(input, diagram.LayerConnectivity); err == nil {
			t.Errorf("Parse(%q): expected an error", input)
		}
	}
}

func TestParseConnectivityOperatorMustStandAlone(t *testing.T) {
	// An operator glued to an identifier is not a connection expression.
	for _, input := range []string{"t1>b1", "t1<>b1", "cross-section"} {
		if _, err := Parse(input, diagram.LayerConnectivity); err == nil {
			t.Errorf("Parse(%q): expected an error", input)
		}
	}
}

func TestParseRSTCommands(t *testing.T) {
	cmd, err := Parse("new", diagram.LayerRST)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cmd.(NewRelation); !ok {
		t.Fatalf("expected NewRelation, got %T", cmd)
	}

	cmd, err = Parse("rels", diagram.LayerRST)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cmd.(Relations); !ok {
		t.Fatalf("expected Relations, got %T", cmd)
	}

	// Arbitrary text is not a structural edit on the RST layer.
	if _, err := Parse("b0 b1", diagram.LayerRST); err == nil {
		t.Error("free-form input on the RST layer must be rejected")
	}
}

func TestParseUngroupOnlyOnConnectivity(t *testing.T) {
	cmd, err := Parse("ungroup g1", diagram.LayerConnectivity)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cmd.(Ungroup); !ok {
		t.Fatalf("expected Ungroup, got %T", cmd)
	}

	// On the layout layer "ungroup g1" falls through to grouping, where
	// the unknown token will fail validation later.
	cmd, err = Parse("ungroup g1", diagram.LayerLayout)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cmd.(GroupNodes); !ok {
		t.Fatalf("expected GroupNodes fallthrough, got %T", cmd)
	}
}
