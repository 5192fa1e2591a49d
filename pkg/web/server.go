// Package web serves the read-only progress surface: batch progress,
// the current layer graph, and an SSE event stream. It is a rendering
// collaborator: the annotation core publishes into it and never reads
// anything back.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/diagramlab/diagram-annotator/pkg/diagram"
	"github.com/diagramlab/diagram-annotator/pkg/export"
	"github.com/diagramlab/diagram-annotator/pkg/logging"
	"github.com/diagramlab/diagram-annotator/pkg/pubsub"
)

// Server represents the web server
type Server struct {
	router    *mux.Router
	publisher pubsub.Publisher

	mu       sync.RWMutex
	current  *diagram.Diagram
	layer    diagram.Layer
	progress pubsub.Progress
}

// NewServer creates a new web server
func NewServer() *Server {
	ssePublisher := pubsub.NewSSEPublisher()

	// Configure topic buffering
	// progress: new subscribers only need the current state
	ssePublisher.ConfigureTopic(pubsub.TopicProgress, pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false,
	})

	// graph: replay only the latest summary
	ssePublisher.ConfigureTopic(pubsub.TopicGraph, pubsub.TopicConfig{
		BufferSize: 5,
		ReplayAll:  false,
	})

	s := &Server{
		router:    mux.NewRouter(),
		publisher: ssePublisher,
	}
	s.setupRoutes()
	return s
}

// Publisher exposes the event bus so the command engine and batch driver
// can publish without holding a Server reference.
func (s *Server) Publisher() pubsub.Publisher {
	return s.publisher
}

// SetCurrent stores the diagram and layer being annotated right now.
func (s *Server) SetCurrent(d *diagram.Diagram, layer diagram.Layer) {
	s.mu.Lock()
	s.current = d
	s.layer = layer
	s.mu.Unlock()
}

// PublishProgress stores and publishes a batch progress event
func (s *Server) PublishProgress(eventType string, p pubsub.Progress) error {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
	return s.publisher.Publish(pubsub.TopicProgress, eventType, p)
}

func (s *Server) setupRoutes() {
	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/progress", s.handleSubscribe(pubsub.TopicProgress)).Methods("GET")
	s.router.HandleFunc("/api/subscribe/graph", s.handleSubscribe(pubsub.TopicGraph)).Methods("GET")

	// API routes
	s.router.HandleFunc("/api/progress", s.handleProgress).Methods("GET")
	s.router.HandleFunc("/api/diagram", s.handleDiagram).Methods("GET")
	s.router.HandleFunc("/api/diagram/graph", s.handleGraph).Methods("GET")
	s.router.HandleFunc("/api/diagram/dot", s.handleDOT).Methods("GET")

	s.router.Use(logging.SessionIDMiddleware(""))
}

// handleSubscribe streams one topic over SSE
func (s *Server) handleSubscribe(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Set SSE headers
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*") // CORS support

		// Send initial comment to establish connection (Safari compatibility)
		fmt.Fprintf(w, ": connected\n\n")
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		// Create subscription
		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sub.Close()

		// Stream events
		for event := range sub.Events() {
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.WarnContext(r.Context(), "writing SSE event", "error", err)
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	p := s.progress
	s.mu.RUnlock()

	json.NewEncoder(w).Encode(p)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	d := s.current
	s.mu.RUnlock()

	if d == nil {
		http.Error(w, "No diagram open", http.StatusServiceUnavailable)
		return
	}

	json.NewEncoder(w).Encode(d)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	d, layer := s.current, s.layer
	s.mu.RUnlock()

	if d == nil {
		http.Error(w, "No diagram open", http.StatusServiceUnavailable)
		return
	}
	g, err := d.Graph(layer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	json.NewEncoder(w).Encode(g)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	d, layer := s.current, s.layer
	s.mu.RUnlock()

	if d == nil {
		http.Error(w, "No diagram open", http.StatusServiceUnavailable)
		return
	}
	g, err := d.Graph(layer)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	data, err := export.DOT(g, string(layer))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Write(data)
}

// Start starts the web server on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting progress server", "addr", fmt.Sprintf("http://localhost%s", addr))
	return http.ListenAndServe(addr, s.router)
}
