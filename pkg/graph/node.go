package graph

import (
	"fmt"

	"github.com/diagramlab/diagram-annotator/pkg/model"
	"github.com/diagramlab/diagram-annotator/pkg/vocab"
)

// Node is a vertex in a layer graph. The variant set (Element, Group,
// Relation) is closed; consumers switch on the concrete type rather
// than reading an open attribute bag, so a group cannot carry a nucleus
// and an element cannot carry satellites.
type Node interface {
	ID() string
	Kind() model.Kind

	clone() Node
}

// Element wraps one diagram primitive. Elements are created at diagram
// load time and never mutated, except for the macro-group label assigned
// during layout annotation.
type Element struct {
	id         string
	kind       model.Kind
	MacroGroup string
}

// NewElement creates an element node of the given primitive kind.
func NewElement(id string, kind model.Kind) *Element {
	return &Element{id: id, kind: kind}
}

func (e *Element) ID() string       { return e.id }
func (e *Element) Kind() model.Kind { return e.kind }

func (e *Element) clone() Node {
	c := *e
	return &c
}

// Group is an annotator-created aggregate joining two or more elements or
// groups in the layout hierarchy.
type Group struct {
	id         string
	MacroGroup string
}

// NewGroup creates a group node with a synthetic identifier.
func NewGroup(id string) *Group {
	return &Group{id: id}
}

func (g *Group) ID() string       { return g.id }
func (g *Group) Kind() model.Kind { return model.KindGroup }

func (g *Group) clone() Node {
	c := *g
	return &c
}

// Relation is a rhetorical-structure node. A mononuclear relation has
// exactly one nucleus and one or more satellites; a multinuclear relation
// has two or more nuclei and no satellites. Participants may be element,
// group or relation ids.
type Relation struct {
	id         string
	Name       string
	Nuclearity vocab.Nuclearity
	Nucleus    string
	Satellites []string
	Nuclei     []string
}

// NewMononuclearRelation creates a relation node joining one nucleus and
// one or more satellites.
func NewMononuclearRelation(id, name, nucleus string, satellites []string) (*Relation, error) {
	if nucleus == "" {
		return nil, fmt.Errorf("relation %s: nucleus required", id)
	}
	if len(satellites) < 1 {
		return nil, fmt.Errorf("relation %s: at least one satellite required", id)
	}
	return &Relation{
		id:         id,
		Name:       name,
		Nuclearity: vocab.Mononuclear,
		Nucleus:    nucleus,
		Satellites: append([]string(nil), satellites...),
	}, nil
}

// NewMultinuclearRelation creates a relation node joining two or more
// co-equal nuclei.
func NewMultinuclearRelation(id, name string, nuclei []string) (*Relation, error) {
	if len(nuclei) < 2 {
		return nil, fmt.Errorf("relation %s: at least two nuclei required", id)
	}
	return &Relation{
		id:         id,
		Name:       name,
		Nuclearity: vocab.Multinuclear,
		Nuclei:     append([]string(nil), nuclei...),
	}, nil
}

func (r *Relation) ID() string       { return r.id }
func (r *Relation) Kind() model.Kind { return model.KindRelation }

// Participants returns every node id the relation references, nuclei
// first.
func (r *Relation) Participants() []string {
	var out []string
	if r.Nuclearity == vocab.Mononuclear {
		out = append(out, r.Nucleus)
		out = append(out, r.Satellites...)
		return out
	}
	out = append(out, r.Nuclei...)
	return out
}

func (r *Relation) clone() Node {
	c := *r
	c.Satellites = append([]string(nil), r.Satellites...)
	c.Nuclei = append([]string(nil), r.Nuclei...)
	return &c
}
