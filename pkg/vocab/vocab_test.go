package vocab

import "testing"

func TestLookupRST(t *testing.T) {
	rel, ok := LookupRST("elab")
	if !ok {
		t.Fatal("elab must resolve")
	}
	if rel.Name != "elaboration" || rel.Nuclearity != Mononuclear {
		t.Errorf("unexpected relation: %+v", rel)
	}

	rel, ok = LookupRST("join")
	if !ok {
		t.Fatal("join must resolve")
	}
	if rel.Name != "joint" || rel.Nuclearity != Multinuclear {
		t.Errorf("unexpected relation: %+v", rel)
	}

	if _, ok := LookupRST("nope"); ok {
		t.Error("unknown abbreviation must not resolve")
	}
}

func TestRSTVocabularySize(t *testing.T) {
	if got := len(RSTAbbreviations()); got != 35 {
		t.Errorf("expected 35 rhetorical relations, got %d", got)
	}
}

func TestLookupMacroGroupAliasAndFullName(t *testing.T) {
	name, ok := LookupMacroGroup("cycl")
	if !ok || name != "cycle" {
		t.Errorf("cycl: got %q, %v", name, ok)
	}
	name, ok = LookupMacroGroup("cross-section")
	if !ok || name != "cross-section" {
		t.Errorf("full name must also resolve: got %q, %v", name, ok)
	}
	if _, ok := LookupMacroGroup("spiral"); ok {
		t.Error("unknown macro-group must not resolve")
	}
}

func TestMacroGroupVocabularySize(t *testing.T) {
	if got := len(MacroGroupAliases()); got != 12 {
		t.Errorf("expected 12 macro-groups, got %d", got)
	}
}
