package command

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/diagramlab/diagram-annotator/pkg/alias"
	"github.com/diagramlab/diagram-annotator/pkg/diagram"
	"github.com/diagramlab/diagram-annotator/pkg/export"
	"github.com/diagramlab/diagram-annotator/pkg/graph"
	"github.com/diagramlab/diagram-annotator/pkg/logging"
	"github.com/diagramlab/diagram-annotator/pkg/model"
	"github.com/diagramlab/diagram-annotator/pkg/output"
	"github.com/diagramlab/diagram-annotator/pkg/pubsub"
	"github.com/diagramlab/diagram-annotator/pkg/vocab"
)

// Prompter supplies follow-up input for interactive commands: the comment
// text, the macro-group label, the participants of a new relation. The
// annotation loop passes the same reader it uses for command lines; tests
// pass a scripted one.
type Prompter interface {
	ReadLine(prompt string) (string, error)
}

// Engine applies parsed commands to a diagram. All operator errors are
// reported through the console and answered with OutcomeContinue; the
// error return is reserved for I/O failures and prompter EOF.
type Engine struct {
	Console     *output.Console
	Prompter    Prompter
	Events      pubsub.Publisher // optional; nil disables progress events
	ExportDir   string
	RSTDisabled bool
}

// Execute runs one command against the given layer of a diagram.
func (e *Engine) Execute(d *diagram.Diagram, layer diagram.Layer, cmd Command) (Outcome, error) {
	g, err := d.Graph(layer)
	if err != nil {
		return OutcomeContinue, err
	}

	switch c := cmd.(type) {
	case Cap:
		e.publish(pubsub.TopicCapture, "capture_requested",
			pubsub.CaptureRequest{Image: d.ImageFilename, Layer: string(layer)})
		e.Console.Infof("Capture requested.")

	case Comment:
		text, err := e.Prompter.ReadLine("Comment: ")
		if err != nil {
			return OutcomeContinue, err
		}
		if text = strings.TrimSpace(text); text != "" {
			d.Comments = append(d.Comments, text)
		}

	case Done:
		if err := d.CompleteLayer(layer, e.RSTDisabled); err != nil {
			e.Console.Errorf("Cannot finish this layer: %v", err)
			return OutcomeContinue, nil
		}
		e.Console.Successf("The %s layer is complete.", layer)
		e.publishGraph(d, layer, g)
		return OutcomeLayerDone, nil

	case Exit:
		return OutcomeExit, nil

	case Export:
		e.exportGraph(d, layer, g)

	case Free:
		ids, ok := e.resolve(c.Tokens, g, layer)
		if !ok {
			return OutcomeContinue, nil
		}
		if len(ids) == 0 {
			e.Console.Errorf("free needs at least one identifier.")
			return OutcomeContinue, nil
		}
		if err := g.DetachNodes(ids); err != nil {
			e.Console.Errorf("%v", err)
			return OutcomeContinue, nil
		}
		e.mutated(d, layer, g)

	case Info:
		e.Console.Help(string(layer))

	case Isolate:
		e.Console.Isolates(g.Isolates())

	case MacroGroups:
		e.Console.MacroGroups()

	case Next:
		return OutcomeNextDiagram, nil

	case Reset:
		if _, err := d.ResetLayer(layer); err != nil {
			e.Console.Errorf("%v", err)
			return OutcomeContinue, nil
		}
		e.Console.Infof("Layer restored to its state at open.")
		g, _ = d.Graph(layer)
		e.publishGraph(d, layer, g)

	case Remove:
		ids, ok := e.resolve(c.Tokens, g, layer)
		if !ok {
			return OutcomeContinue, nil
		}
		if len(ids) == 0 {
			e.Console.Errorf("rm needs at least one identifier.")
			return OutcomeContinue, nil
		}
		if err := g.RemoveNodes(ids); err != nil {
			e.Console.Errorf("%v", err)
			return OutcomeContinue, nil
		}
		e.mutated(d, layer, g)

	case AssignMacro:
		e.assignMacro(d, layer, g, c)

	case GroupNodes:
		e.groupNodes(d, layer, g, c)

	case Ungroup:
		e.ungroup(d, layer, g, c)

	case Connect:
		e.connect(d, layer, g, c)

	case NewRelation:
		return e.newRelation(d, layer, g)

	case Relations:
		e.Console.RSTRelations()

	default:
		e.Console.Errorf("Unknown command.")
	}

	return OutcomeContinue, nil
}

// resolve maps operator tokens to node ids, reporting the exact invalid
// subset on failure. Relation aliases resolve only on the RST layer.
func (e *Engine) resolve(tokens []string, g *graph.Graph, layer diagram.Layer) ([]string, bool) {
	ids, err := alias.Resolve(tokens, g, layer == diagram.LayerRST)
	if err != nil {
		var invalid *alias.InvalidTokensError
		if errors.As(err, &invalid) {
			e.Console.InvalidTokens(invalid.Tokens)
		} else {
			e.Console.Errorf("%v", err)
		}
		return nil, false
	}
	return ids, true
}

func (e *Engine) assignMacro(d *diagram.Diagram, layer diagram.Layer, g *graph.Graph, c AssignMacro) {
	ids, ok := e.resolve(c.Tokens, g, layer)
	if !ok {
		return
	}
	if len(ids) == 0 {
		e.Console.Errorf("macro needs at least one identifier.")
		return
	}

	input, err := e.Prompter.ReadLine("Macro-group: ")
	if err != nil {
		return
	}
	name, ok := vocab.LookupMacroGroup(strings.ToLower(strings.TrimSpace(input)))
	if !ok {
		e.Console.Errorf("Unknown macro-group %q. See macrogroups for the vocabulary.", input)
		return
	}

	for _, id := range ids {
		n, _ := g.Node(id)
		switch v := n.(type) {
		case *graph.Element:
			v.MacroGroup = name
		case *graph.Group:
			v.MacroGroup = name
		}
	}
	e.mutated(d, layer, g)
}

// groupNodes merges the listed nodes under a new group. When the image
// constant is among them, members attach to it directly instead of a
// fresh group node.
func (e *Engine) groupNodes(d *diagram.Diagram, layer diagram.Layer, g *graph.Graph, c GroupNodes) {
	ids, ok := e.resolve(c.Tokens, g, layer)
	if !ok {
		return
	}
	if len(ids) < 2 {
		e.Console.Errorf("Grouping needs at least two identifiers.")
		return
	}

	parent := ""
	for _, id := range ids {
		n, _ := g.Node(id)
		if n.Kind() == model.KindImageConst {
			parent = id
			break
		}
	}

	if parent == "" {
		parent = g.NewSyntheticID()
		if err := g.AddNode(graph.NewGroup(parent)); err != nil {
			e.Console.Errorf("%v", err)
			return
		}
	}

	for _, id := range ids {
		if id == parent {
			continue
		}
		if err := g.AddEdge(id, parent, model.EdgeGrouping); err != nil {
			e.Console.Errorf("%v", err)
			return
		}
	}

	logging.Debug("grouped nodes", "parent", parent, "members", len(ids))
	e.mutated(d, layer, g)
}

func (e *Engine) ungroup(d *diagram.Diagram, layer diagram.Layer, g *graph.Graph, c Ungroup) {
	ids, ok := e.resolve(c.Tokens, g, layer)
	if !ok {
		return
	}
	if len(ids) == 0 {
		e.Console.Errorf("ungroup needs at least one identifier.")
		return
	}
	for _, id := range ids {
		n, _ := g.Node(id)
		if n.Kind() != model.KindGroup {
			e.Console.Errorf("%s is not a group.", id)
			return
		}
	}
	if err := g.RemoveNodes(ids); err != nil {
		e.Console.Errorf("%v", err)
		return
	}
	e.mutated(d, layer, g)
}

func (e *Engine) connect(d *diagram.Diagram, layer diagram.Layer, g *graph.Graph, c Connect) {
	// Both sides validate as one set so the report names every bad
	// token, not just the source-side ones.
	tokens := make([]string, 0, len(c.Sources)+len(c.Targets))
	tokens = append(tokens, c.Sources...)
	tokens = append(tokens, c.Targets...)
	ids, ok := e.resolve(tokens, g, layer)
	if !ok {
		return
	}
	sources, targets := ids[:len(c.Sources)], ids[len(c.Sources):]
	for _, s := range sources {
		for _, t := range targets {
			if s == t {
				e.Console.Errorf("%s cannot connect to itself.", s)
				return
			}
		}
	}

	for _, s := range sources {
		for _, t := range targets {
			if err := g.AddEdge(s, t, c.Kind); err != nil {
				e.Console.Errorf("%v", err)
				return
			}
			if c.Kind == model.EdgeBidirected {
				if err := g.AddEdge(t, s, c.Kind); err != nil {
					e.Console.Errorf("%v", err)
					return
				}
			}
		}
	}
	e.mutated(d, layer, g)
}

// newRelation runs the interactive dialogue: relation name, then the
// participants required by its nuclearity.
func (e *Engine) newRelation(d *diagram.Diagram, layer diagram.Layer, g *graph.Graph) (Outcome, error) {
	input, err := e.Prompter.ReadLine("Relation (see rels): ")
	if err != nil {
		return OutcomeContinue, err
	}
	abbrev := strings.ToLower(strings.TrimSpace(input))
	rel, ok := vocab.LookupRST(abbrev)
	if !ok {
		e.Console.Errorf("Unknown relation %q. See rels for the vocabulary.", input)
		return OutcomeContinue, nil
	}

	id := g.NewSyntheticID()
	var node *graph.Relation

	if rel.Nuclearity == vocab.Mononuclear {
		line, err := e.Prompter.ReadLine("Nucleus: ")
		if err != nil {
			return OutcomeContinue, err
		}
		nuclei, ok := e.resolve(alias.Prepare(line, 0), g, layer)
		if !ok {
			return OutcomeContinue, nil
		}
		if len(nuclei) != 1 {
			e.Console.Errorf("A %s relation takes exactly one nucleus.", rel.Name)
			return OutcomeContinue, nil
		}

		line, err = e.Prompter.ReadLine("Satellites: ")
		if err != nil {
			return OutcomeContinue, err
		}
		satellites, ok := e.resolve(alias.Prepare(line, 0), g, layer)
		if !ok {
			return OutcomeContinue, nil
		}

		node, err = graph.NewMononuclearRelation(id, rel.Name, nuclei[0], satellites)
		if err != nil {
			e.Console.Errorf("%v", err)
			return OutcomeContinue, nil
		}
	} else {
		line, err := e.Prompter.ReadLine("Nuclei: ")
		if err != nil {
			return OutcomeContinue, err
		}
		nuclei, ok := e.resolve(alias.Prepare(line, 0), g, layer)
		if !ok {
			return OutcomeContinue, nil
		}

		node, err = graph.NewMultinuclearRelation(id, rel.Name, nuclei)
		if err != nil {
			e.Console.Errorf("%v", err)
			return OutcomeContinue, nil
		}
	}

	if err := g.AddNode(node); err != nil {
		e.Console.Errorf("%v", err)
		return OutcomeContinue, nil
	}
	// Nucleus edges point from the relation to its nucleus; satellite
	// edges point from the satellite into the relation.
	if node.Nuclearity == vocab.Mononuclear {
		if err := g.AddEdge(id, node.Nucleus, model.EdgeNucleus); err != nil {
			e.Console.Errorf("%v", err)
			return OutcomeContinue, nil
		}
		for _, s := range node.Satellites {
			if err := g.AddEdge(s, id, model.EdgeSatellite); err != nil {
				e.Console.Errorf("%v", err)
				return OutcomeContinue, nil
			}
		}
	} else {
		for _, n := range node.Nuclei {
			if err := g.AddEdge(id, n, model.EdgeNucleus); err != nil {
				e.Console.Errorf("%v", err)
				return OutcomeContinue, nil
			}
		}
	}

	e.Console.Successf("Created %s relation %s.", rel.Name, id)
	e.mutated(d, layer, g)
	return OutcomeContinue, nil
}

// exportGraph writes the current layer to <image>-<layer>.dot. Export
// failure is reported but never ends the session.
func (e *Engine) exportGraph(d *diagram.Diagram, layer diagram.Layer, g *graph.Graph) {
	base := strings.TrimSuffix(d.ImageFilename, filepath.Ext(d.ImageFilename))
	path := filepath.Join(e.ExportDir, fmt.Sprintf("%s-%s.dot", base, layer))
	if err := export.WriteFile(g, string(layer), path); err != nil {
		e.Console.Errorf("Export failed: %v", err)
		return
	}
	e.Console.Successf("Wrote %s.", path)
}

// mutated records that the current graph changed: the redraw flag is set
// for the presentation layer and a summary event goes out on the bus.
func (e *Engine) mutated(d *diagram.Diagram, layer diagram.Layer, g *graph.Graph) {
	d.NeedsRedraw = true
	e.publishGraph(d, layer, g)
}

func (e *Engine) publishGraph(d *diagram.Diagram, layer diagram.Layer, g *graph.Graph) {
	e.publish(pubsub.TopicGraph, "graph_changed", pubsub.GraphSummary{
		Image:  d.ImageFilename,
		Layer:  string(layer),
		Nodes:  g.NodeCount(),
		Edges:  g.EdgeCount(),
		Frozen: g.Frozen(),
	})
}

func (e *Engine) publish(topic, eventType string, data interface{}) {
	if e.Events == nil {
		return
	}
	if err := e.Events.Publish(topic, eventType, data); err != nil {
		logging.Warn("publishing event", "topic", topic, "error", err)
	}
}
