package command

import (
	"fmt"
	"strings"

	"github.com/diagramlab/diagram-annotator/pkg/alias"
	"github.com/diagramlab/diagram-annotator/pkg/diagram"
	"github.com/diagramlab/diagram-annotator/pkg/model"
)

// Parse classifies one line of operator input for a layer. The order is
// fixed: blank input parses to nil, then the first word is matched
// against the command vocabulary, and anything else is read as a
// structural edit in the current layer's notation. Parse errors are
// operator errors; the caller reports them and re-prompts.
func Parse(line string, layer diagram.Layer) (Command, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, nil
	}

	word := strings.ToLower(strings.Fields(trimmed)[0])
	switch word {
	case "cap":
		return Cap{}, nil
	case "comment":
		return Comment{}, nil
	case "done":
		return Done{}, nil
	case "exit":
		return Exit{}, nil
	case "export":
		return Export{}, nil
	case "free":
		return Free{Tokens: alias.Prepare(trimmed, 1)}, nil
	case "info":
		return Info{}, nil
	case "isolate":
		return Isolate{}, nil
	case "macrogroups":
		return MacroGroups{}, nil
	case "next":
		return Next{}, nil
	case "reset":
		return Reset{}, nil
	case "rm":
		return Remove{Tokens: alias.Prepare(trimmed, 1)}, nil
	case "macro":
		if layer == diagram.LayerLayout {
			return AssignMacro{Tokens: alias.Prepare(trimmed, 1)}, nil
		}
	case "ungroup":
		if layer == diagram.LayerConnectivity {
			return Ungroup{Tokens: alias.Prepare(trimmed, 1)}, nil
		}
	case "new":
		if layer == diagram.LayerRST {
			return NewRelation{}, nil
		}
	case "rels":
		if layer == diagram.LayerRST {
			return Relations{}, nil
		}
	}

	switch layer {
	case diagram.LayerLayout:
		return GroupNodes{Tokens: alias.Prepare(trimmed, 0)}, nil
	case diagram.LayerConnectivity:
		return parseConnection(trimmed)
	}
	return nil, fmt.Errorf("unknown command %q", word)
}

// parseConnection reads a connection expression: sources and targets
// separated by one of the three operators. The operator only counts as a
// standalone whitespace-separated token; "t1>b1" is not a connection.
func parseConnection(line string) (Command, error) {
	fields := strings.Fields(line)
	for i, f := range fields {
		var kind model.EdgeKind
		switch f {
		case "<>":
			kind = model.EdgeBidirected
		case ">":
			kind = model.EdgeDirected
		case "-":
			kind = model.EdgeUndirected
		default:
			continue
		}
		sources := alias.Prepare(strings.Join(fields[:i], " "), 0)
		targets := alias.Prepare(strings.Join(fields[i+1:], " "), 0)
		if len(sources) == 0 || len(targets) == 0 {
			return nil, fmt.Errorf("connection %q needs identifiers on both sides of %s",
				line, f)
		}
		return Connect{Sources: sources, Targets: targets, Kind: kind}, nil
	}
	return nil, fmt.Errorf("unknown command %q", line)
}
