package graph

import (
	"errors"
	"fmt"
	"sort"

	gg "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"

	"github.com/diagramlab/diagram-annotator/pkg/model"
)

// ErrFrozen is returned by mutating operations on a completed layer graph.
var ErrFrozen = errors.New("graph is frozen")

// Edge is a typed, directed connection between two nodes.
type Edge struct {
	From string         `json:"source"`
	To   string         `json:"target"`
	Kind model.EdgeKind `json:"kind"`
}

// Graph is one layer graph of a diagram: typed nodes keyed by string id
// over a gonum multigraph. Parallel edges of different kinds between the
// same ordered pair are permitted, which the connectivity layer needs.
type Graph struct {
	g       *multi.DirectedGraph
	nodes   map[string]Node
	ids     map[string]int64     // string id -> gonum node ID
	names   map[int64]string     // gonum node ID -> string id
	order   []string             // node ids in creation order
	lines   map[int64]lineRecord // keyed by a graph-level sequence, not the gonum line ID
	nextID  int64
	lineSeq int64
	frozen  bool
}

// lineRecord carries the typed view of one gonum line. The gonum line ID
// is only unique per ordered node pair, so it cannot key the map; it is
// kept here for removal.
type lineRecord struct {
	from, to string
	kind     model.EdgeKind
	line     int64
}

// New creates a new empty layer graph.
func New() *Graph {
	return &Graph{
		g:     multi.NewDirectedGraph(),
		nodes: make(map[string]Node),
		ids:   make(map[string]int64),
		names: make(map[int64]string),
		lines: make(map[int64]lineRecord),
	}
}

// AddNode adds a node to the graph. Adding a node with an id that already
// exists is an error: element ids are immutable and synthetic ids are
// never reused.
func (g *Graph) AddNode(n Node) error {
	if g.frozen {
		return ErrFrozen
	}
	if _, exists := g.nodes[n.ID()]; exists {
		return fmt.Errorf("node %s already exists", n.ID())
	}

	g.nodes[n.ID()] = n
	g.ids[n.ID()] = g.nextID
	g.names[g.nextID] = n.ID()
	g.order = append(g.order, n.ID())
	g.g.AddNode(multi.Node(g.nextID))
	g.nextID++

	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in creation order. Alias enumeration depends on
// this order being stable between calls.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodesOfKind returns the nodes of one kind, in creation order.
func (g *Graph) NodesOfKind(kind model.Kind) []Node {
	var out []Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind() == kind {
			out = append(out, n)
		}
	}
	return out
}

// ElementNodes returns the nodes that wrap diagram primitives, in
// creation order.
func (g *Graph) ElementNodes() []Node {
	var out []Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind().IsElement() {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// AddEdge adds a typed edge between two existing nodes. Grouping edges may
// only point at a group or the image constant; that invariant is enforced
// by the callers that know which special case applies.
func (g *Graph) AddEdge(from, to string, kind model.EdgeKind) error {
	if g.frozen {
		return ErrFrozen
	}
	fid, ok := g.ids[from]
	if !ok {
		return fmt.Errorf("edge source %s does not exist", from)
	}
	tid, ok := g.ids[to]
	if !ok {
		return fmt.Errorf("edge target %s does not exist", to)
	}
	if fid == tid {
		return fmt.Errorf("self-loop on %s rejected", from)
	}

	line := g.g.NewLine(multi.Node(fid), multi.Node(tid))
	g.g.SetLine(line)
	g.lines[g.lineSeq] = lineRecord{from: from, to: to, kind: kind, line: line.ID()}
	g.lineSeq++

	return nil
}

// HasEdge reports whether at least one edge of the given kind runs from
// one node to another.
func (g *Graph) HasEdge(from, to string, kind model.EdgeKind) bool {
	for _, rec := range g.lines {
		if rec.from == from && rec.to == to && rec.kind == kind {
			return true
		}
	}
	return false
}

// Edges returns all edges ordered by source creation order, then target
// creation order, then kind.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.lines))
	for _, rec := range g.lines {
		out = append(out, Edge{From: rec.from, To: rec.to, Kind: rec.kind})
	}
	g.sortEdges(out)
	return out
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.lines)
}

// EdgesOf returns the edges incident to a node, in the same order as
// Edges.
func (g *Graph) EdgesOf(id string) []Edge {
	var out []Edge
	for _, rec := range g.lines {
		if rec.from == id || rec.to == id {
			out = append(out, Edge{From: rec.from, To: rec.to, Kind: rec.kind})
		}
	}
	g.sortEdges(out)
	return out
}

func (g *Graph) sortEdges(edges []Edge) {
	pos := make(map[string]int, len(g.order))
	for i, id := range g.order {
		pos[id] = i
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return pos[edges[i].From] < pos[edges[j].From]
		}
		if edges[i].To != edges[j].To {
			return pos[edges[i].To] < pos[edges[j].To]
		}
		return edges[i].Kind < edges[j].Kind
	})
}

// RemoveNode removes a node and all of its incident edges.
func (g *Graph) RemoveNode(id string) error {
	if g.frozen {
		return ErrFrozen
	}
	nid, ok := g.ids[id]
	if !ok {
		return fmt.Errorf("node %s does not exist", id)
	}

	for lid, rec := range g.lines {
		if rec.from == id || rec.to == id {
			delete(g.lines, lid)
		}
	}
	g.g.RemoveNode(nid)
	delete(g.nodes, id)
	delete(g.ids, id)
	delete(g.names, nid)
	for i, o := range g.order {
		if o == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}

	return nil
}

// RemoveNodes removes several nodes. The first failure aborts; callers
// validate ids beforehand so partial application cannot occur.
func (g *Graph) RemoveNodes(ids []string) error {
	for _, id := range ids {
		if err := g.RemoveNode(id); err != nil {
			return err
		}
	}
	return nil
}

// DetachNodes removes every edge incident to the given nodes, leaving the
// nodes themselves in place.
func (g *Graph) DetachNodes(ids []string) error {
	if g.frozen {
		return ErrFrozen
	}
	member := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !g.HasNode(id) {
			return fmt.Errorf("node %s does not exist", id)
		}
		member[id] = true
	}
	for lid, rec := range g.lines {
		if member[rec.from] || member[rec.to] {
			g.removeLine(lid, rec)
		}
	}
	return nil
}

// RemoveEdgesOfKind removes every edge of one kind. Used to strip residual
// grouping edges from the connectivity and RST layers.
func (g *Graph) RemoveEdgesOfKind(kind model.EdgeKind) error {
	if g.frozen {
		return ErrFrozen
	}
	for lid, rec := range g.lines {
		if rec.kind == kind {
			g.removeLine(lid, rec)
		}
	}
	return nil
}

// RemoveEdgesWhere removes every edge the predicate matches.
func (g *Graph) RemoveEdgesWhere(match func(Edge) bool) error {
	if g.frozen {
		return ErrFrozen
	}
	for lid, rec := range g.lines {
		if match(Edge{From: rec.from, To: rec.to, Kind: rec.kind}) {
			g.removeLine(lid, rec)
		}
	}
	return nil
}

// RetagEdges rewrites the kind of every edge. Used when the connectivity
// layer inherits the layout hierarchy: carried-over edges become grouping
// edges regardless of origin.
func (g *Graph) RetagEdges(kind model.EdgeKind) error {
	if g.frozen {
		return ErrFrozen
	}
	for lid, rec := range g.lines {
		rec.kind = kind
		g.lines[lid] = rec
	}
	return nil
}

func (g *Graph) removeLine(key int64, rec lineRecord) {
	g.g.RemoveLine(g.ids[rec.from], g.ids[rec.to], rec.line)
	delete(g.lines, key)
}

// Isolates returns the ids of nodes with no incident edges, in creation
// order.
func (g *Graph) Isolates() []string {
	degree := make(map[string]int, len(g.nodes))
	for _, rec := range g.lines {
		degree[rec.from]++
		degree[rec.to]++
	}
	var out []string
	for _, id := range g.order {
		if degree[id] == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Copy returns a deep, unfrozen copy of the graph. Reopening a completed
// layer for review copies the frozen graph rather than unfreezing it in
// place.
func (g *Graph) Copy() *Graph {
	c := New()
	for _, id := range g.order {
		if err := c.AddNode(g.nodes[id].clone()); err != nil {
			// Ids are unique by construction, so this cannot happen.
			panic(err)
		}
	}
	for _, e := range g.Edges() {
		if err := c.AddEdge(e.From, e.To, e.Kind); err != nil {
			panic(err)
		}
	}
	return c
}

// Freeze marks the graph immutable. There is no Unfreeze: review mode
// replaces the frozen graph with a Copy.
func (g *Graph) Freeze() {
	g.frozen = true
}

// Frozen reports whether the graph is frozen.
func (g *Graph) Frozen() bool {
	return g.frozen
}

// Directed exposes the underlying topology for graph algorithms.
func (g *Graph) Directed() gg.Directed {
	return g.g
}

// NameOf translates a gonum node ID back to the string node id.
func (g *Graph) NameOf(id int64) string {
	return g.names[id]
}

// GonumID translates a string node id to its gonum node ID.
func (g *Graph) GonumID(id string) (int64, bool) {
	nid, ok := g.ids[id]
	return nid, ok
}
