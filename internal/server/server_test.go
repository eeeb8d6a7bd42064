package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"easyplot/canvas"
	"easyplot/canvas/gochart"
	"easyplot/internal/config"
	"easyplot/internal/logger"
	"easyplot/plot"
	"easyplot/style"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(&config.Config{Port: "0"}, canvas.NewRenderers(gochart.New()))
	s.log = logger.Discard()
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func displayLine(t *testing.T, s *Server, title string) {
	t.Helper()
	p := plot.New(plot.Config{Display: s, Logger: logger.Discard(), Stdout: &bytes.Buffer{}})
	if _, _, err := p.PlotLine(context.Background(), plot.Flat(1, 3, 2), plot.WithTitle(title), plot.WithSize(3, 2)); err != nil {
		t.Fatalf("PlotLine failed: %v", err)
	}
}

func TestDisplayKeepsLatestFigures(t *testing.T) {
	s := newTestServer(t)
	s.MaxFigures = 2

	displayLine(t, s, "first")
	displayLine(t, s, "second")
	displayLine(t, s, "third")

	figures := s.Figures()
	if len(figures) != 2 {
		t.Fatalf("Expected 2 figures, got %d", len(figures))
	}
	if figures[0].Title != "third" || figures[0].ID != 3 || figures[1].Title != "second" {
		t.Errorf("Expected newest first [third second], got %q %q", figures[0].Title, figures[1].Title)
	}
	if !bytes.HasPrefix(figures[0].PNG, []byte("\x89PNG")) {
		t.Error("Expected PNG data")
	}
}

func TestDisplayEmptyFigure(t *testing.T) {
	s := newTestServer(t)
	th, err := style.NewRegistry().Use("default")
	if err != nil {
		t.Fatalf("Failed to load theme: %v", err)
	}
	fig, _ := canvas.NewFigure(canvas.Size{Width: 2, Height: 2}, th)
	if err := s.Display(context.Background(), fig); err == nil {
		t.Error("Expected error for an empty figure")
	}
	if len(s.Figures()) != 0 {
		t.Error("Expected empty figure to be skipped")
	}
}

func TestHandleFigure(t *testing.T) {
	s := newTestServer(t)
	displayLine(t, s, "sales")
	mux := s.SetupRoutes()

	tests := []struct {
		path   string
		status int
	}{
		{"/figures/1.png", http.StatusOK},
		{"/figures/2.png", http.StatusNotFound},
		{"/figures/one.png", http.StatusBadRequest},
		{"/figures/1.svg", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.path, tt.status, rec.Code)
		}
		if tt.status == http.StatusOK && rec.Header().Get("Content-Type") != "image/png" {
			t.Errorf("Expected image/png, got %s", rec.Header().Get("Content-Type"))
		}
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/figures/1.png", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for POST, got %d", rec.Code)
	}
}

func TestHandleRoot(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.SetupRoutes())
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "No figures yet") {
		t.Errorf("Expected empty gallery message, got %s", body)
	}

	displayLine(t, s, "Rain_fall *2024*")
	resp, err = http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()

	page := string(body)
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("Expected HTML, got %s", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(page, `<img src="/figures/1.png"`) {
		t.Errorf("Expected image link in page, got %s", page)
	}
	if !strings.Contains(page, "Rain_fall *2024*") {
		t.Errorf("Expected literal title in page, got %s", page)
	}

	resp, err = http.Get(server.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var health map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("Failed to parse health response: %v", err)
	}
	if health["status"] != "healthy" || health["timestamp"] != "2024-05-01T12:00:00Z" {
		t.Errorf("Unexpected health response %v", health)
	}
	if health["figures"] != float64(0) {
		t.Errorf("Expected 0 figures, got %v", health["figures"])
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not shut down")
	}
}
