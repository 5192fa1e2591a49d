package pubsub

import (
	"context"
	"encoding/json"
)

// Topics published by the annotation session.
const (
	TopicProgress = "progress" // batch position and completion flags
	TopicGraph    = "graph"    // current layer graph snapshots
	TopicCapture  = "capture"  // operator capture requests
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic (e.g., "progress", "graph")
	Type    string          `json:"type"`    // Event type (e.g., "diagram_opened", "layer_done")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// Progress describes where the batch stands. Published on every diagram
// open, layer transition and checkpoint.
type Progress struct {
	Image    string `json:"image"`    // image filename of the current diagram
	Layer    string `json:"layer"`    // layer currently open, empty between diagrams
	Position int    `json:"position"` // 1-based index in the collection
	Total    int    `json:"total"`    // collection size
	Complete int    `json:"complete"` // diagrams with the aggregate flag set
}

// GraphSummary describes the current layer graph without the full node
// set; subscribers fetch the graph itself over the web surface.
type GraphSummary struct {
	Image  string `json:"image"`
	Layer  string `json:"layer"`
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
	Frozen bool   `json:"frozen"`
}

// CaptureRequest asks a rendering collaborator to capture the current
// view. The core publishes the request and moves on; whether anything
// listens is not its concern.
type CaptureRequest struct {
	Image string `json:"image"`
	Layer string `json:"layer"`
}
