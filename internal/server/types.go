// Package server implements the HTTP analysis service: POST a fragment dump,
// receive the reconstructed paragraphs and column report as JSON. A websocket
// variant streams coarse progress while a page is analyzed. The service holds
// no cross-request state; every request is one independent detection run.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pagelab/reflow"
	"github.com/pagelab/reflow/layout"
	"github.com/pagelab/reflow/model"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	engine     *reflow.Engine
	corsOrigin string
}

// Config holds server configuration.
type Config struct {
	Host       string
	Port       int
	CORSOrigin string
	TimeoutSec int
	Engine     layout.Config
}

// HealthResponse is the health endpoint payload.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// ParagraphResult is the JSON form of one reconstructed paragraph.
type ParagraphResult struct {
	Rect        model.Rect  `json:"rect"`
	Text        string      `json:"text"`
	FragmentIDs []int       `json:"fragmentIds"`
	Runs        []RunResult `json:"runs,omitempty"`
}

// RunResult is the JSON form of one stitched inline run.
type RunResult struct {
	FragmentIDs []int  `json:"fragmentIds"`
	Text        string `json:"text"`
}

// AnalyzeResponse is the analysis endpoint payload.
type AnalyzeResponse struct {
	RequestID  string                `json:"requestId"`
	Page       model.Rect            `json:"page"`
	LineHeight float64               `json:"lineHeight"`
	Paragraphs []ParagraphResult     `json:"paragraphs"`
	Columns    *layout.ColumnReport  `json:"columns,omitempty"`
	Stats      layout.DetectionStats `json:"stats"`
}

// ErrorResponse is the JSON error payload.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewServer creates an analysis server with the given configuration.
func NewServer(config Config) *Server {
	return &Server{
		engine:     reflow.NewWithConfig(config.Engine),
		corsOrigin: config.CORSOrigin,
	}
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/analyze", s.corsMiddleware(s.requestIDMiddleware(s.analyzeHandler)))
	mux.HandleFunc("/analyze/stream", s.analyzeStreamHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

// analyzeResponse converts one detection result into the wire form.
func analyzeResponse(result *layout.Result, requestID string) AnalyzeResponse {
	paragraphs := make([]ParagraphResult, len(result.Paragraphs))
	for i, p := range result.Paragraphs {
		pr := ParagraphResult{
			Rect:        p.Rect(),
			Text:        p.Text(),
			FragmentIDs: p.FragmentIDs(),
		}
		for _, run := range p.Runs {
			pr.Runs = append(pr.Runs, RunResult{FragmentIDs: run.FragmentIDs, Text: run.Text})
		}
		paragraphs[i] = pr
	}

	return AnalyzeResponse{
		RequestID:  requestID,
		Page:       result.Page,
		LineHeight: result.LineHeight,
		Paragraphs: paragraphs,
		Columns:    result.Columns,
		Stats:      result.Stats,
	}
}
