// Package server is the gallery display: an HTTP server that shows the most
// recently displayed figures as PNG images.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"easyplot/canvas"
	"easyplot/internal/config"
	"easyplot/internal/logger"
)

// Gallery defaults.
const (
	DefaultMaxFigures = 12
	GalleryDPI        = 100
)

// Figure is a rendered figure kept by the gallery.
type Figure struct {
	ID        int
	Title     string
	Displayed time.Time
	PNG       []byte
}

// Server represents the gallery server
type Server struct {
	Config     *config.Config
	Renderers  *canvas.Renderers
	MaxFigures int

	markdown goldmark.Markdown
	log      *logger.Logger
	now      func() time.Time

	mu      sync.RWMutex
	figures []Figure
	nextID  int
}

// NewServer creates a new gallery server
func NewServer(cfg *config.Config, renderers *canvas.Renderers) *Server {
	return &Server{
		Config:     cfg,
		Renderers:  renderers,
		MaxFigures: DefaultMaxFigures,
		markdown:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
		log:        logger.GetGlobalLogger().WithComponent("gallery"),
		now:        time.Now,
		nextID:     1,
	}
}

// Display renders fig as PNG and adds it to the gallery, evicting the oldest
// figure once MaxFigures are held.
func (s *Server) Display(ctx context.Context, fig *canvas.Figure) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := fig.Save(&buf, s.Renderers, canvas.PNG, GalleryDPI); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f := Figure{
		ID:        s.nextID,
		Title:     fig.Scene().Title,
		Displayed: s.now().UTC(),
		PNG:       buf.Bytes(),
	}
	s.nextID++
	s.figures = append(s.figures, f)
	if limit := s.MaxFigures; limit > 0 && len(s.figures) > limit {
		s.figures = append([]Figure(nil), s.figures[len(s.figures)-limit:]...)
	}
	s.log.Debug("Figure added to gallery", map[string]interface{}{
		"id":    f.ID,
		"title": f.Title,
		"bytes": len(f.PNG),
	})
	return nil
}

// Figures returns the held figures, newest first
func (s *Server) Figures() []Figure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Figure, len(s.figures))
	for i, f := range s.figures {
		out[len(out)-1-i] = f
	}
	return out
}

func (s *Server) figure(id int) (Figure, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.figures {
		if f.ID == id {
			return f, true
		}
	}
	return Figure{}, false
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/figures/", s.HandleFigure)
	mux.HandleFunc("/", s.HandleRoot)
	return mux
}

// ListenAndServe serves the gallery on the configured port until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Config.Port,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Gallery listening", map[string]interface{}{"addr": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("gallery server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("Shutting down gallery")
		return srv.Shutdown(shutdownCtx)
	}
}
