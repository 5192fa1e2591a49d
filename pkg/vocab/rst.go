package vocab

import "sort"

// Nuclearity classifies a rhetorical relation as mononuclear (one nucleus,
// one or more satellites) or multinuclear (two or more co-equal nuclei).
type Nuclearity string

const (
	Mononuclear  Nuclearity = "mono"
	Multinuclear Nuclearity = "multi"
)

// RSTRelation describes one entry in the rhetorical relation vocabulary.
type RSTRelation struct {
	Name       string
	Nuclearity Nuclearity
}

// rstRelations maps typeable abbreviations to rhetorical relations.
var rstRelations = map[string]RSTRelation{
	"anti": {Name: "antithesis", Nuclearity: Mononuclear},
	"back": {Name: "background", Nuclearity: Mononuclear},
	"circ": {Name: "circumstance", Nuclearity: Mononuclear},
	"conc": {Name: "concession", Nuclearity: Mononuclear},
	"cond": {Name: "condition", Nuclearity: Mononuclear},
	"elab": {Name: "elaboration", Nuclearity: Mononuclear},
	"enab": {Name: "enablement", Nuclearity: Mononuclear},
	"eval": {Name: "evaluation", Nuclearity: Mononuclear},
	"evid": {Name: "evidence", Nuclearity: Mononuclear},
	"pret": {Name: "interpretation", Nuclearity: Mononuclear},
	"just": {Name: "justify", Nuclearity: Mononuclear},
	"mean": {Name: "means", Nuclearity: Mononuclear},
	"moti": {Name: "motivation", Nuclearity: Mononuclear},
	"nvoc": {Name: "nonvolitional-cause", Nuclearity: Mononuclear},
	"nvor": {Name: "nonvolitional-result", Nuclearity: Mononuclear},
	"otws": {Name: "otherwise", Nuclearity: Mononuclear},
	"prep": {Name: "preparation", Nuclearity: Mononuclear},
	"purp": {Name: "purpose", Nuclearity: Mononuclear},
	"rest": {Name: "restatement", Nuclearity: Multinuclear},
	"solu": {Name: "solutionhood", Nuclearity: Mononuclear},
	"summ": {Name: "summary", Nuclearity: Mononuclear},
	"unls": {Name: "unless", Nuclearity: Mononuclear},
	"volc": {Name: "volitional-cause", Nuclearity: Mononuclear},
	"volr": {Name: "volitional-result", Nuclearity: Mononuclear},
	"cont": {Name: "contrast", Nuclearity: Multinuclear},
	"join": {Name: "joint", Nuclearity: Multinuclear},
	"list": {Name: "list", Nuclearity: Multinuclear},
	"sequ": {Name: "sequence", Nuclearity: Multinuclear},
	"iden": {Name: "identification", Nuclearity: Mononuclear},
	"casc": {Name: "class-ascription", Nuclearity: Mononuclear},
	"pasc": {Name: "property-ascription", Nuclearity: Mononuclear},
	"poss": {Name: "possession", Nuclearity: Mononuclear},
	"proj": {Name: "projection", Nuclearity: Mononuclear},
	"effe": {Name: "effect", Nuclearity: Mononuclear},
	"titl": {Name: "title", Nuclearity: Mononuclear},
}

// LookupRST resolves a relation abbreviation. The lookup is exact; callers
// lowercase and trim operator input first.
func LookupRST(abbrev string) (RSTRelation, bool) {
	rel, ok := rstRelations[abbrev]
	return rel, ok
}

// RSTAbbreviations returns all relation abbreviations in sorted order, for
// listing to the operator.
func RSTAbbreviations() []string {
	out := make([]string, 0, len(rstRelations))
	for k := range rstRelations {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
