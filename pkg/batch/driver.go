// Package batch drives annotation over a whole collection: it feeds each
// diagram through the layer sequence, persists progress after every
// applied command, and owns resume, review and exit semantics.
package batch

import (
	"errors"
	"fmt"
	"io"

	"github.com/diagramlab/diagram-annotator/pkg/command"
	"github.com/diagramlab/diagram-annotator/pkg/diagram"
	"github.com/diagramlab/diagram-annotator/pkg/logging"
	"github.com/diagramlab/diagram-annotator/pkg/output"
	"github.com/diagramlab/diagram-annotator/pkg/pubsub"
	"github.com/diagramlab/diagram-annotator/pkg/store"
	"github.com/diagramlab/diagram-annotator/pkg/watcher"
	"github.com/diagramlab/diagram-annotator/pkg/web"
)

// errExit unwinds the annotation loops when the operator types exit. It
// never escapes Run.
var errExit = errors.New("session exit requested")

// errNextDiagram unwinds the layer loop when the operator skips ahead.
var errNextDiagram = errors.New("next diagram requested")

// Driver runs one annotation session over a collection.
type Driver struct {
	Collection *store.Collection
	Engine     *command.Engine
	Console    *output.Console
	Prompter   command.Prompter

	// Review reopens complete diagrams for revision instead of skipping
	// them.
	Review bool

	// RSTDisabled skips the rhetorical-structure layer entirely.
	RSTDisabled bool

	// AnnotationDir and Updates feed corpus growth into a running
	// session; both are optional.
	AnnotationDir string
	Updates       <-chan watcher.ChangeEvent

	// Server mirrors the current diagram for the progress surface;
	// optional.
	Server *web.Server
}

// layers returns the annotation sequence for this run.
func (dr *Driver) layers() []diagram.Layer {
	if dr.RSTDisabled {
		return []diagram.Layer{diagram.LayerLayout, diagram.LayerConnectivity}
	}
	return []diagram.Layer{diagram.LayerLayout, diagram.LayerConnectivity, diagram.LayerRST}
}

// Run annotates the collection row by row. The error return is reserved
// for unrecoverable I/O failures; operator exit and end-of-input finish
// the run cleanly.
func (dr *Driver) Run() error {
	for i := 0; i < len(dr.Collection.Rows); i++ {
		dr.mergeUpdates()

		row := dr.Collection.Rows[i]
		if err := dr.annotateRow(row, i); err != nil {
			if errors.Is(err, errExit) || errors.Is(err, io.EOF) {
				logging.Info("session ended by operator", "diagram", row.ImageName)
				break
			}
			return err
		}

		if err := dr.Collection.Save(); err != nil {
			return fmt.Errorf("saving collection after %s: %w", row.ImageName, err)
		}
	}

	dr.Console.BatchSummary(len(dr.Collection.Rows), dr.Collection.CompleteCount())
	return nil
}

// annotateRow runs one diagram through the remaining layers.
func (dr *Driver) annotateRow(row *store.Row, index int) error {
	if row.Diagram != nil && row.Diagram.Complete {
		if !dr.Review {
			logging.Debug("skipping complete diagram", "image", row.ImageName)
			return nil
		}
		row.Diagram.Reopen()
	}

	if row.Diagram == nil {
		d, err := diagram.New(row.Annotation, row.ImageName)
		if err != nil {
			dr.Console.Errorf("Cannot open %s: %v", row.ImageName, err)
			return nil
		}
		row.Diagram = d
	}

	dr.Console.Header(row.ImageName, index+1, len(dr.Collection.Rows))

	for _, layer := range dr.layers() {
		if row.Diagram.LayerComplete(layer) {
			continue
		}
		if err := dr.annotateLayer(row, index, layer); err != nil {
			if errors.Is(err, errNextDiagram) {
				return nil
			}
			return err
		}
	}

	row.Diagram.RecomputeComplete(dr.RSTDisabled)
	return nil
}

// annotateLayer runs the read-parse-apply loop for one layer. Every
// applied command is followed by a checkpoint, so exit can never lose
// more than the line being typed.
func (dr *Driver) annotateLayer(row *store.Row, index int, layer diagram.Layer) error {
	d := row.Diagram

	if _, err := d.OpenLayer(layer, dr.Review); err != nil {
		return fmt.Errorf("opening %s layer of %s: %w", layer, row.ImageName, err)
	}

	if dr.Server != nil {
		dr.Server.SetCurrent(d, layer)
		if err := dr.Server.PublishProgress("layer_opened", pubsub.Progress{
			Image:    row.ImageName,
			Layer:    string(layer),
			Position: index + 1,
			Total:    len(dr.Collection.Rows),
			Complete: dr.Collection.CompleteCount(),
		}); err != nil {
			logging.Warn("publishing progress", "error", err)
		}
	}

	for {
		line, err := dr.Prompter.ReadLine(fmt.Sprintf("[%s] > ", layer))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errExit
			}
			return fmt.Errorf("reading operator input: %w", err)
		}

		cmd, perr := command.Parse(line, layer)
		if perr != nil {
			dr.Console.Errorf("%v", perr)
			continue
		}
		if cmd == nil {
			continue
		}

		outcome, err := dr.Engine.Execute(d, layer, cmd)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errExit
			}
			return fmt.Errorf("applying command on %s: %w", row.ImageName, err)
		}

		// exit deliberately skips the checkpoint: edits since the last
		// done/next are discarded.
		if outcome == command.OutcomeExit {
			return errExit
		}

		if err := dr.Collection.Save(); err != nil {
			return fmt.Errorf("checkpointing %s: %w", row.ImageName, err)
		}

		switch outcome {
		case command.OutcomeLayerDone:
			return nil
		case command.OutcomeNextDiagram:
			return errNextDiagram
		}
	}
}

// mergeUpdates drains pending corpus-change events and appends any new
// annotation files to the collection.
func (dr *Driver) mergeUpdates() {
	if dr.Updates == nil {
		return
	}
	changed := false
	for {
		select {
		case _, ok := <-dr.Updates:
			if !ok {
				dr.Updates = nil
				return
			}
			changed = true
		default:
			if changed {
				if added, err := dr.Collection.Merge(dr.AnnotationDir); err != nil {
					logging.Warn("merging corpus updates", "error", err)
				} else if added > 0 {
					dr.Console.Infof("Picked up %d new diagram(s).", added)
				}
			}
			return
		}
	}
}
