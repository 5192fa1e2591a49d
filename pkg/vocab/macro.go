package vocab

import "sort"

// macroGroups maps typeable aliases to macro-group labels. A macro-group
// describes the diagrammatic organization of a node (or group of nodes) in
// the layout layer.
var macroGroups = map[string]string{
	"slic": "slice",
	"cros": "cross-section",
	"cuto": "cut-out",
	"expl": "exploded-view",
	"illu": "illustration",
	"cycl": "cycle",
	"netw": "network",
	"tabl": "table",
	"hori": "horizontal",
	"vert": "vertical",
	"line": "linear",
	"phot": "photograph",
}

// LookupMacroGroup resolves an alias or a full macro-group name to the
// full name. Validation accepts both forms; graphs store the full name.
func LookupMacroGroup(token string) (string, bool) {
	if name, ok := macroGroups[token]; ok {
		return name, true
	}
	for _, name := range macroGroups {
		if token == name {
			return name, true
		}
	}
	return "", false
}

// MacroGroupAliases returns all aliases in sorted order, for listing to
// the operator.
func MacroGroupAliases() []string {
	out := make([]string, 0, len(macroGroups))
	for k := range macroGroups {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MacroGroupName returns the full name for an alias. The alias must exist.
func MacroGroupName(alias string) string {
	return macroGroups[alias]
}
