// Package command turns operator input lines into typed commands and
// applies them to a diagram's layer graphs. The engine never terminates
// the process: every handler reports recoverable errors to the console
// and returns an Outcome telling the annotation loop what to do next.
package command

import "github.com/diagramlab/diagram-annotator/pkg/model"

// Outcome tells the annotation loop how to continue after a command.
type Outcome int

const (
	// OutcomeContinue re-prompts on the same layer.
	OutcomeContinue Outcome = iota

	// OutcomeLayerDone advances to the next layer of the same diagram.
	OutcomeLayerDone

	// OutcomeNextDiagram abandons the remaining layers and moves on.
	OutcomeNextDiagram

	// OutcomeExit ends the whole session without an implicit save.
	OutcomeExit
)

// Command is one parsed operator instruction. The variants are closed;
// the engine switches on the concrete type.
type Command interface {
	isCommand()
}

// Cap requests a capture of the current view from whatever rendering
// collaborator is listening.
type Cap struct{}

// Comment prompts for a free-text note and attaches it to the diagram.
type Comment struct{}

// Done finalizes the current layer.
type Done struct{}

// Exit ends the session immediately.
type Exit struct{}

// Export writes the current layer graph to a DOT file.
type Export struct{}

// Free removes every edge incident to the listed nodes.
type Free struct {
	Tokens []string
}

// Info prints the command reference for the current layer.
type Info struct{}

// Isolate lists nodes with no incident edges.
type Isolate struct{}

// MacroGroups lists the macro-group vocabulary.
type MacroGroups struct{}

// Next abandons the current diagram and moves to the following one.
type Next struct{}

// Reset restores the layer-open snapshot.
type Reset struct{}

// Remove deletes the listed nodes and their edges.
type Remove struct {
	Tokens []string
}

// AssignMacro labels the listed nodes with a macro-group, prompted for
// separately. Layout layer only.
type AssignMacro struct {
	Tokens []string
}

// GroupNodes merges the listed nodes under a new group node. Layout
// layer only.
type GroupNodes struct {
	Tokens []string
}

// Ungroup dissolves the listed group nodes. Connectivity layer only.
type Ungroup struct {
	Tokens []string
}

// Connect adds connection edges from every source to every target.
// Connectivity layer only.
type Connect struct {
	Sources []string
	Targets []string
	Kind    model.EdgeKind
}

// NewRelation starts the interactive rhetorical-relation dialogue. RST
// layer only.
type NewRelation struct{}

// Relations lists the rhetorical-relation vocabulary. RST layer only.
type Relations struct{}

func (Cap) isCommand()         {}
func (Comment) isCommand()     {}
func (Done) isCommand()        {}
func (Exit) isCommand()        {}
func (Export) isCommand()      {}
func (Free) isCommand()        {}
func (Info) isCommand()        {}
func (Isolate) isCommand()     {}
func (MacroGroups) isCommand() {}
func (Next) isCommand()        {}
func (Reset) isCommand()       {}
func (Remove) isCommand()      {}
func (AssignMacro) isCommand() {}
func (GroupNodes) isCommand()  {}
func (Ungroup) isCommand()     {}
func (Connect) isCommand()     {}
func (NewRelation) isCommand() {}
func (Relations) isCommand()   {}
