package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pagelab/reflow"
	"github.com/pagelab/reflow/fragment"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// analyzeHandler runs layout detection on one posted fragment dump.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dump, err := fragment.ReadDump(r.Body)
	if err != nil {
		analyzeRequestsTotal.WithLabelValues("http", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Invalid fragment dump: %v", err), http.StatusBadRequest)
		return
	}

	start := time.Now()
	result := s.engine.Detect(reflow.Page{
		Rect:      dump.Page,
		Fragments: dump.Fragments,
		Scale:     dump.Scale,
	})
	duration := time.Since(start)

	analyzeRequestsTotal.WithLabelValues("http", "success").Inc()
	analyzeDuration.WithLabelValues("http").Observe(duration.Seconds())
	observeResult(result)

	w.Header().Set("Content-Type", "application/json")
	response := analyzeResponse(result, w.Header().Get("X-Request-ID"))
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding analyze response: %v\n", err)
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
