// Package diagram owns the annotation state of one diagram: the three
// layer graphs, their derivation from one another, and the completion
// state machine that gates the annotation sequence.
package diagram

import (
	"errors"
	"fmt"

	"github.com/diagramlab/diagram-annotator/pkg/graph"
	"github.com/diagramlab/diagram-annotator/pkg/model"
	"github.com/diagramlab/diagram-annotator/pkg/parse"
)

// Layer names one of the three annotation passes, performed in strict
// sequence: layout grouping, connectivity, rhetorical structure.
type Layer string

const (
	LayerLayout       Layer = "layout"
	LayerConnectivity Layer = "connectivity"
	LayerRST          Layer = "rst"
)

// ErrLayerNotDerived is returned when a layer is addressed before the
// preceding layer has been completed. Layer commands arriving before the
// layer graph exists are sequencing bugs; they fail instead of silently
// constructing fresh state.
var ErrLayerNotDerived = errors.New("layer graph has not been derived")

// ErrLayerFrozen is returned when a completed layer is opened without
// review mode.
var ErrLayerFrozen = errors.New("layer is complete; reopen it in review mode")

// Diagram is the aggregate root for one diagram's annotation.
type Diagram struct {
	ImageFilename string            `json:"image_filename"`
	Annotation    *model.Annotation `json:"annotation"`

	Layout       *graph.Graph `json:"layout"`
	Connectivity *graph.Graph `json:"connectivity,omitempty"`
	RST          *graph.Graph `json:"rst,omitempty"`

	Comments []string `json:"comments,omitempty"`

	GroupComplete        bool `json:"group_complete"`
	ConnectivityComplete bool `json:"connectivity_complete"`
	RSTComplete          bool `json:"rst_complete"`
	Complete             bool `json:"complete"`

	// NeedsRedraw tells the presentation layer the current graph changed.
	// It is transient and consumed by whoever draws.
	NeedsRedraw bool `json:"-"`

	snapshots map[Layer]*graph.Graph
}

// New creates a diagram from an annotation record. The layout graph is
// built immediately: one node per element, no edges, arrowheads dropped.
func New(ann *model.Annotation, image string) (*Diagram, error) {
	layout, err := parse.Build(ann, parse.BuildOptions{})
	if err != nil {
		return nil, fmt.Errorf("building layout graph: %w", err)
	}
	return &Diagram{
		ImageFilename: image,
		Annotation:    ann,
		Layout:        layout,
	}, nil
}

// Graph returns the graph for a layer, or ErrLayerNotDerived when the
// layer has not been reached yet.
func (d *Diagram) Graph(layer Layer) (*graph.Graph, error) {
	var g *graph.Graph
	switch layer {
	case LayerLayout:
		g = d.Layout
	case LayerConnectivity:
		g = d.Connectivity
	case LayerRST:
		g = d.RST
	default:
		return nil, fmt.Errorf("unknown layer %q", layer)
	}
	if g == nil {
		return nil, fmt.Errorf("%s: %w", layer, ErrLayerNotDerived)
	}
	return g, nil
}

// LayerComplete reports the completion flag for a layer.
func (d *Diagram) LayerComplete(layer Layer) bool {
	switch layer {
	case LayerLayout:
		return d.GroupComplete
	case LayerConnectivity:
		return d.ConnectivityComplete
	case LayerRST:
		return d.RSTComplete
	}
	return false
}

// OpenLayer prepares a layer for annotation and returns its graph. The
// connectivity and RST graphs are derived on first open. Opening a
// completed layer requires review mode, which replaces the frozen graph
// with an editable copy and clears the layer's completion flag along
// with the aggregate flag. A snapshot is taken for the reset command.
func (d *Diagram) OpenLayer(layer Layer, review bool) (*graph.Graph, error) {
	switch layer {
	case LayerLayout:
		// Built at construction time.
	case LayerConnectivity:
		if d.Connectivity == nil {
			if err := d.deriveConnectivity(); err != nil {
				return nil, err
			}
		}
	case LayerRST:
		if d.RST == nil {
			if err := d.deriveRST(); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown layer %q", layer)
	}

	g, err := d.Graph(layer)
	if err != nil {
		return nil, err
	}

	if g.Frozen() {
		if !review {
			return nil, fmt.Errorf("%s: %w", layer, ErrLayerFrozen)
		}
		g = g.Copy()
		d.setGraph(layer, g)
		d.setLayerComplete(layer, false)
		d.Complete = false
	}

	if d.snapshots == nil {
		d.snapshots = make(map[Layer]*graph.Graph)
	}
	d.snapshots[layer] = g.Copy()

	return g, nil
}

// ResetLayer discards all edits on a layer and restores the snapshot
// taken when the layer was opened.
func (d *Diagram) ResetLayer(layer Layer) (*graph.Graph, error) {
	snap, ok := d.snapshots[layer]
	if !ok {
		return nil, fmt.Errorf("%s: no snapshot to reset to", layer)
	}
	restored := snap.Copy()
	d.setGraph(layer, restored)
	d.NeedsRedraw = true
	return restored, nil
}

func (d *Diagram) setGraph(layer Layer, g *graph.Graph) {
	switch layer {
	case LayerLayout:
		d.Layout = g
	case LayerConnectivity:
		d.Connectivity = g
	case LayerRST:
		d.RST = g
	}
}

func (d *Diagram) setLayerComplete(layer Layer, v bool) {
	switch layer {
	case LayerLayout:
		d.GroupComplete = v
	case LayerConnectivity:
		d.ConnectivityComplete = v
	case LayerRST:
		d.RSTComplete = v
	}
}

// CompleteLayer finalizes a layer: residual grouping edges are stripped
// from the connectivity and RST views, isolates are pruned, the graph is
// frozen and the completion flag set. Layers complete strictly in order.
func (d *Diagram) CompleteLayer(layer Layer, rstDisabled bool) error {
	switch layer {
	case LayerConnectivity:
		if !d.GroupComplete {
			return fmt.Errorf("connectivity cannot complete before grouping")
		}
	case LayerRST:
		if !d.ConnectivityComplete {
			return fmt.Errorf("rst cannot complete before connectivity")
		}
	}

	g, err := d.Graph(layer)
	if err != nil {
		return err
	}
	if g.Frozen() {
		return fmt.Errorf("%s: %w", layer, graph.ErrFrozen)
	}

	if layer == LayerRST {
		if err := d.VerifyRelations(); err != nil {
			return err
		}
	}

	if layer != LayerLayout {
		if err := g.RemoveEdgesOfKind(model.EdgeGrouping); err != nil {
			return err
		}
	}
	if err := g.RemoveNodes(g.Isolates()); err != nil {
		return err
	}

	g.Freeze()
	d.setLayerComplete(layer, true)
	d.RecomputeComplete(rstDisabled)
	d.NeedsRedraw = true

	return nil
}

// RecomputeComplete refreshes the aggregate flag from the layer flags.
// When RST annotation is disabled for the run, the RST flag is excluded.
func (d *Diagram) RecomputeComplete(rstDisabled bool) {
	d.Complete = d.GroupComplete && d.ConnectivityComplete &&
		(rstDisabled || d.RSTComplete)
}

// Reopen clears every completion flag so a complete diagram can be
// revised from the first layer. Layer graphs stay frozen until the
// corresponding OpenLayer call copies them.
func (d *Diagram) Reopen() {
	d.GroupComplete = false
	d.ConnectivityComplete = false
	d.RSTComplete = false
	d.Complete = false
}
