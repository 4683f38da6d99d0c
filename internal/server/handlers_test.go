package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/layout"
	"github.com/pagelab/reflow/model"
)

func newTestServer() *Server {
	return NewServer(Config{
		Host:       "localhost",
		Port:       8080,
		CORSOrigin: "*",
		TimeoutSec: 30,
		Engine:     layout.DefaultConfig(),
	})
}

func sampleDump() *fragment.Dump {
	return &fragment.Dump{
		Page:  model.NewRect(0, 0, 612, 792),
		Scale: 1,
		Fragments: []fragment.RawFragment{
			{Rect: model.NewRect(72, 100, 540, 112), Text: "line one", FontFamily: "Times", FontSizePx: 12},
			{Rect: model.NewRect(72, 120, 540, 132), Text: "line two", FontFamily: "Times", FontSizePx: 12},
		},
	}
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
}

func TestAnalyzeHandler(t *testing.T) {
	s := newTestServer()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	var body bytes.Buffer
	require.NoError(t, fragment.WriteDump(&body, sampleDump()))

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var response AnalyzeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

	assert.Equal(t, rec.Header().Get("X-Request-ID"), response.RequestID)
	assert.Equal(t, 2, response.Stats.FragmentCount)
	require.NotEmpty(t, response.Paragraphs)
	assert.Contains(t, response.Paragraphs[0].Text, "line one")
}

func TestAnalyzeHandler_MalformedDump(t *testing.T) {
	s := newTestServer()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.False(t, response.Success)
	assert.NotEmpty(t, response.Error)
}

func TestAnalyzeHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAnalyzeStream(t *testing.T) {
	s := newTestServer()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/analyze/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
		_ = resp.Body.Close()
	}()

	var body bytes.Buffer
	require.NoError(t, fragment.WriteDump(&body, sampleDump()))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, body.Bytes()))

	// Progress events arrive first, then the completed event.
	var last StreamResponse
	for {
		var event StreamResponse
		require.NoError(t, conn.ReadJSON(&event))
		require.NotEqual(t, "error", event.Type)
		last = event
		if event.Type == "completed" {
			break
		}
	}

	assert.Equal(t, 1.0, last.Progress)
	assert.NotEmpty(t, last.RequestID)
	require.NotNil(t, last.Result)
}

func TestAnalyzeStream_MalformedMessage(t *testing.T) {
	s := newTestServer()
	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/analyze/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
		_ = resp.Body.Close()
	}()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	var event StreamResponse
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "error", event.Type)
	assert.NotEmpty(t, event.Error)
}
