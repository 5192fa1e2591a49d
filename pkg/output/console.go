// Package output renders operator-facing console text: prompts, validation
// errors, vocabulary listings and the end-of-batch summary.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/diagramlab/diagram-annotator/pkg/vocab"
)

// Color definitions shared by all reports.
var (
	bold   = color.New(color.Bold)
	red    = color.New(color.FgRed)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

// Console writes operator-facing text to one destination. The annotation
// loop owns a Console over stdout; tests substitute a buffer.
type Console struct {
	Out io.Writer
}

// NewConsole returns a console writing to stdout.
func NewConsole() *Console {
	return &Console{Out: os.Stdout}
}

// Header prints the banner shown when a diagram is opened.
func (c *Console) Header(image string, position, total int) {
	bold.Fprintf(c.Out, "Annotating %s (%d of %d)\n", image, position, total)
}

// Errorf reports a recoverable operator error. Validation failures land
// here; they never terminate the session.
func (c *Console) Errorf(format string, args ...any) {
	red.Fprintf(c.Out, format+"\n", args...)
}

// Infof prints neutral informational text.
func (c *Console) Infof(format string, args ...any) {
	fmt.Fprintf(c.Out, format+"\n", args...)
}

// Successf prints a confirmation, such as a completed layer.
func (c *Console) Successf(format string, args ...any) {
	green.Fprintf(c.Out, format+"\n", args...)
}

// InvalidTokens reports the exact set of references that failed to
// resolve. The command carrying them was rejected whole.
func (c *Console) InvalidTokens(tokens []string) {
	red.Fprintf(c.Out, "Invalid references:")
	for _, t := range tokens {
		yellow.Fprintf(c.Out, " %s", t)
	}
	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, "The command was not applied.")
}

// RSTRelations lists the rhetorical relation vocabulary.
func (c *Console) RSTRelations() {
	bold.Fprintln(c.Out, "Rhetorical relations")
	bold.Fprintln(c.Out, "====================")
	for _, abbrev := range vocab.RSTAbbreviations() {
		rel, _ := vocab.LookupRST(abbrev)
		cyan.Fprintf(c.Out, "  %s", abbrev)
		fmt.Fprintf(c.Out, "  %-24s %s\n", rel.Name, rel.Nuclearity)
	}
}

// MacroGroups lists the macro-group vocabulary.
func (c *Console) MacroGroups() {
	bold.Fprintln(c.Out, "Macro-groups")
	bold.Fprintln(c.Out, "============")
	for _, alias := range vocab.MacroGroupAliases() {
		name, _ := vocab.LookupMacroGroup(alias)
		cyan.Fprintf(c.Out, "  %s", alias)
		fmt.Fprintf(c.Out, "  %s\n", name)
	}
}

// Isolates lists the nodes that currently have no incident edges.
func (c *Console) Isolates(ids []string) {
	if len(ids) == 0 {
		green.Fprintln(c.Out, "No isolated nodes.")
		return
	}
	yellow.Fprintf(c.Out, "Isolated nodes (%d):\n", len(ids))
	for _, id := range ids {
		fmt.Fprintf(c.Out, "  %s\n", id)
	}
}

// Help prints the command reference for the current layer.
func (c *Console) Help(layer string) {
	bold.Fprintf(c.Out, "Commands on the %s layer\n", layer)
	fmt.Fprintln(c.Out, "  comment       attach a free-text note to the diagram")
	fmt.Fprintln(c.Out, "  export        write the current graph to a DOT file")
	fmt.Fprintln(c.Out, "  free <ids>    remove all edges touching the listed nodes")
	fmt.Fprintln(c.Out, "  rm <ids>      delete the listed nodes and their edges")
	fmt.Fprintln(c.Out, "  isolate       list nodes with no edges")
	fmt.Fprintln(c.Out, "  reset         discard edits made since the layer was opened")
	fmt.Fprintln(c.Out, "  done          finish this layer and continue")
	fmt.Fprintln(c.Out, "  next          skip to the next diagram")
	fmt.Fprintln(c.Out, "  cap           request a capture of the current view")
	fmt.Fprintln(c.Out, "  exit          leave without saving edits since the last done/next")
	switch layer {
	case "layout":
		fmt.Fprintln(c.Out, "  macro <ids>   assign a macro-group label to the listed nodes")
		fmt.Fprintln(c.Out, "  macrogroups   list the macro-group vocabulary")
		fmt.Fprintln(c.Out, "  <ids>         group two or more nodes under a new group")
	case "connectivity":
		fmt.Fprintln(c.Out, "  a - b         undirected connection")
		fmt.Fprintln(c.Out, "  a > b         directed connection")
		fmt.Fprintln(c.Out, "  a <> b        bidirected connection")
		fmt.Fprintln(c.Out, "  ungroup <ids> dissolve the listed groups")
	case "rst":
		fmt.Fprintln(c.Out, "  new           create a rhetorical relation")
		fmt.Fprintln(c.Out, "  rels          list the relation vocabulary")
	}
}

// BatchSummary prints the end-of-run report.
func (c *Console) BatchSummary(total, complete int) {
	bold.Fprintln(c.Out, "Annotation session summary")
	bold.Fprintln(c.Out, "==========================")
	fmt.Fprintf(c.Out, "Diagrams: %d\n", total)

	percentage := 100.0
	if total > 0 {
		percentage = float64(complete) / float64(total) * 100.0
	}

	summaryColor := green
	if percentage < 100.0 {
		summaryColor = yellow
	}
	if percentage < 50.0 {
		summaryColor = red
	}
	summaryColor.Fprintf(c.Out, "Complete: %d/%d (%.0f%%)\n", complete, total, percentage)

	if total > 0 && complete == total {
		green.Fprintln(c.Out, "✓ Every diagram in the collection is complete!")
	}
}
