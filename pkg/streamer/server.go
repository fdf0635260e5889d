package streamer

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/artifix/artifix/pkg/events"
	"github.com/artifix/artifix/pkg/pipeline"
	"github.com/artifix/artifix/pkg/types"
)

// Server exposes the validation pipeline over HTTP. POST /validate runs a
// batch and returns the outcomes; GET /ws streams progress events while runs
// are in flight.
type Server struct {
	orchestrator *pipeline.Orchestrator
	bus          *events.EventBus
	upgrader     websocket.Upgrader
}

// NewServer creates a server around the orchestrator. The orchestrator's
// sink must be a BusSink over the same bus for events to reach WebSocket
// clients.
func NewServer(orchestrator *pipeline.Orchestrator, bus *events.EventBus) *Server {
	return &Server{
		orchestrator: orchestrator,
		bus:          bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the server's route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/validate", s.handleValidate)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return mux
}

// ListenAndServe starts the server on addr and blocks.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

type validateRequest struct {
	Artifacts []types.Artifact `json:"artifacts"`
}

type validateResponse struct {
	Outcomes []pipeline.Outcome `json:"outcomes"`
	Summary  pipeline.Summary   `json:"summary"`
}

// handleValidate accepts either {"artifacts": [...]} or a single artifact
// object and runs the batch synchronously. Progress events stream to any
// connected WebSocket clients while the run is in flight.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req validateRequest
	body := json.NewDecoder(r.Body)
	if err := body.Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	artifacts := req.Artifacts
	if len(artifacts) == 0 {
		http.Error(w, "no artifacts in request", http.StatusBadRequest)
		return
	}

	outcomes, summary := s.orchestrator.ValidateAll(r.Context(), artifacts)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(validateResponse{Outcomes: outcomes, Summary: summary}); err != nil {
		log.Printf("validate response write error: %v", err)
	}
}

// handleWebSocket upgrades the connection and forwards bus events to the
// client until it disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	safeConn := NewSafeConn(conn)
	defer safeConn.Close()

	sessionID := fmt.Sprintf("ws_%d", time.Now().UnixNano())
	eventCh := s.bus.Subscribe(sessionID)
	defer s.bus.Unsubscribe(sessionID)

	safeConn.WriteJSON(map[string]interface{}{
		"type": "connection_status",
		"data": map[string]interface{}{"connected": true, "session_id": sessionID},
	})

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		conn.SetReadLimit(512 * 1024)
		for {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			var msg map[string]interface{}
			if err := conn.ReadJSON(&msg); err != nil {
				if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
					// Heartbeat timeout, send ping.
					if err := safeConn.WriteJSON(map[string]interface{}{
						"type": "ping",
						"data": map[string]interface{}{"timestamp": time.Now().Unix()},
					}); err != nil {
						return
					}
					continue
				}
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("WebSocket %s read error: %v", sessionID, err)
				}
				return
			}
			s.handleMessage(safeConn, msg)
		}
	}()

	for {
		select {
		case event := <-eventCh:
			if err := safeConn.WriteJSON(event); err != nil {
				log.Printf("WebSocket %s write error: %v", sessionID, err)
				return
			}
		case <-readDone:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleMessage(safeConn *SafeConn, msg map[string]interface{}) {
	msgType, ok := msg["type"].(string)
	if !ok {
		return
	}
	switch msgType {
	case "ping":
		safeConn.WriteJSON(map[string]interface{}{
			"type": "pong",
			"data": map[string]interface{}{"timestamp": time.Now().Unix()},
		})
	case "request_stats":
		stats := s.orchestrator.Validator().Stats().Snapshot()
		safeConn.WriteJSON(map[string]interface{}{
			"type": "stats_update",
			"data": stats,
		})
	}
}
