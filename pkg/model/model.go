package model

// Kind identifies what a graph node stands for. Element kinds reuse the
// AI2D bucket names so that annotation records and graphs speak the same
// vocabulary; "group" and "relation" are annotator-created kinds.
type Kind string

const (
	KindBlob       Kind = "blobs"
	KindArrow      Kind = "arrows"
	KindArrowHead  Kind = "arrowHeads"
	KindText       Kind = "text"
	KindContainer  Kind = "containers"
	KindImageConst Kind = "imageConsts"
	KindGroup      Kind = "group"
	KindRelation   Kind = "relation"
)

// IsElement reports whether the kind names a diagram primitive, as opposed
// to a node created during annotation.
func (k Kind) IsElement() bool {
	switch k {
	case KindBlob, KindArrow, KindArrowHead, KindText, KindContainer, KindImageConst:
		return true
	}
	return false
}

// EdgeKind identifies the type of an edge in a layer graph.
type EdgeKind string

const (
	EdgeGrouping   EdgeKind = "grouping"
	EdgeUndirected EdgeKind = "undirectional"
	EdgeDirected   EdgeKind = "directional"
	EdgeBidirected EdgeKind = "bidirectional"
	EdgeNucleus    EdgeKind = "nucleus"
	EdgeSatellite  EdgeKind = "satellite"
)

// ElementBuckets lists the annotation buckets holding diagram primitives,
// in the order elements are enumerated from a record.
var ElementBuckets = []Kind{
	KindBlob,
	KindArrow,
	KindText,
	KindArrowHead,
	KindContainer,
	KindImageConst,
}

// Shape describes the visual extent of one diagram primitive: either a
// polygon point list (blobs, arrows) or a two-corner rectangle (text).
type Shape struct {
	ID        string   `json:"id"`
	Polygon   [][2]int `json:"polygon,omitempty"`
	Rectangle [][2]int `json:"rectangle,omitempty"`
}

// RelationCategory classifies a raw semantic relation from the input.
type RelationCategory string

const (
	CategoryArrowHeadTail RelationCategory = "arrowHeadTail"
)

// Relationship is a raw input-level semantic relation between two element
// ids. Connector distinguishes three cases the graph builder treats
// differently: nil means the field was absent from the input, an empty
// string means it was present but null, and a non-empty string names the
// mediating arrow element.
type Relationship struct {
	ID                string           `json:"id"`
	Category          RelationCategory `json:"category"`
	Origin            string           `json:"origin"`
	Destination       string           `json:"destination"`
	Connector         *string          `json:"connector,omitempty"`
	HasDirectionality bool             `json:"hasDirectionality,omitempty"`
}

// HasConnector reports whether the relation names a mediating element.
func (r Relationship) HasConnector() bool {
	return r.Connector != nil && *r.Connector != ""
}

// Annotation mirrors one AI2D per-diagram record. Buckets that are absent
// from the input decode to nil maps, which is not an error. Relationships
// preserve input order because the graph builder's arrow-to-arrowhead table
// is order dependent.
type Annotation struct {
	Blobs         map[string]Shape `json:"blobs,omitempty"`
	Arrows        map[string]Shape `json:"arrows,omitempty"`
	ArrowHeads    map[string]Shape `json:"arrowHeads,omitempty"`
	Text          map[string]Shape `json:"text,omitempty"`
	Containers    map[string]Shape `json:"containers,omitempty"`
	ImageConsts   map[string]Shape `json:"imageConsts,omitempty"`
	Relationships RelationshipList `json:"relationships,omitempty"`
}

// Bucket returns the shape map for a primitive kind.
func (a *Annotation) Bucket(kind Kind) map[string]Shape {
	switch kind {
	case KindBlob:
		return a.Blobs
	case KindArrow:
		return a.Arrows
	case KindArrowHead:
		return a.ArrowHeads
	case KindText:
		return a.Text
	case KindContainer:
		return a.Containers
	case KindImageConst:
		return a.ImageConsts
	}
	return nil
}
