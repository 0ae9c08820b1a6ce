// Package websocket serves the operations feed: anomaly and job
// lifecycle events pushed to connected dashboards as they happen.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fortuna/oncourt/internal/anomaly"
	"github.com/fortuna/oncourt/internal/jobs"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// envelope wraps every feed message with its event type.
type envelope struct {
	Type     string      `json:"type"`
	Data     interface{} `json:"data"`
	Occurred time.Time   `json:"occurred"`
}

// Server represents the WebSocket server. It implements anomaly.Sink and
// jobs.EventSink, broadcasting everything it receives.
type Server struct {
	server *http.Server
	hub    *Hub
}

// NewServer creates a new WebSocket server
func NewServer() *Server {
	return &Server{hub: NewHub()}
}

// Start starts the WebSocket server
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/ops", s.handleOps)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	log.Printf("[ws] ops feed listening on %s", addr)
	return s.server.ListenAndServe()
}

// OnAnomaly implements anomaly.Sink.
func (s *Server) OnAnomaly(ev anomaly.Event) {
	s.broadcast("anomaly", ev, ev.Occurred)
}

// OnJobEvent implements jobs.EventSink.
func (s *Server) OnJobEvent(ev jobs.Event) {
	s.broadcast("job", ev, ev.Occurred)
}

func (s *Server) broadcast(eventType string, data interface{}, occurred time.Time) {
	payload, err := json.Marshal(envelope{Type: eventType, Data: data, Occurred: occurred})
	if err != nil {
		log.Printf("[ws] marshal %s event failed: %v", eventType, err)
		return
	}
	s.hub.Broadcast(payload)
}

// handleOps upgrades a connection onto the ops feed.
func (s *Server) handleOps(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.Register(client)

	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Stop()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
