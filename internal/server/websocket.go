package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pagelab/reflow"
	"github.com/pagelab/reflow/fragment"
)

// upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamResponse is one progress or result event on the analysis stream.
type StreamResponse struct {
	Type      string      `json:"type"`   // "progress", "completed", "error"
	Status    string      `json:"status"` // "processing", "completed", "error"
	Stage     string      `json:"stage,omitempty"`
	Progress  float64     `json:"progress"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// analyzeStreamHandler handles websocket connections: each text message is
// one fragment dump, answered with progress events and the final result.
func (s *Server) analyzeStreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleStreamMessage(conn, data)
		}
	}
}

// handleStreamMessage runs one detection for one dump message.
func (s *Server) handleStreamMessage(conn *websocket.Conn, data []byte) {
	requestID := uuid.NewString()

	var dump fragment.Dump
	if err := json.Unmarshal(data, &dump); err != nil {
		analyzeRequestsTotal.WithLabelValues("websocket", "error").Inc()
		s.sendStreamResponse(conn, StreamResponse{
			Type:      "error",
			Status:    "error",
			Error:     "Invalid fragment dump: " + err.Error(),
			RequestID: requestID,
		})
		return
	}

	s.sendStreamResponse(conn, StreamResponse{
		Type:      "progress",
		Status:    "processing",
		Stage:     "snapshot",
		Progress:  0.1,
		RequestID: requestID,
	})

	start := time.Now()
	result := s.engine.Detect(reflow.Page{
		Rect:      dump.Page,
		Fragments: dump.Fragments,
		Scale:     dump.Scale,
	})
	duration := time.Since(start)

	s.sendStreamResponse(conn, StreamResponse{
		Type:      "progress",
		Status:    "processing",
		Stage:     "ordering",
		Progress:  0.9,
		RequestID: requestID,
	})

	analyzeRequestsTotal.WithLabelValues("websocket", "success").Inc()
	analyzeDuration.WithLabelValues("websocket").Observe(duration.Seconds())
	observeResult(result)

	s.sendStreamResponse(conn, StreamResponse{
		Type:      "completed",
		Status:    "completed",
		Progress:  1.0,
		Result:    analyzeResponse(result, requestID),
		RequestID: requestID,
	})
}

// sendStreamResponse sends one event over the websocket.
func (s *Server) sendStreamResponse(conn *websocket.Conn, response StreamResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
