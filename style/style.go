// Package style holds the named style presets a figure can be rendered with.
package style

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"sync"
)

// Default is the preset used when no style is requested.
const Default = "default"

// ErrStyleNotFound is returned when a preset name is not registered.
var ErrStyleNotFound = errors.New("style not found")

// Theme describes the colors and sizes a preset applies to a figure
type Theme struct {
	Name           string
	Background     color.RGBA
	AxesBackground color.RGBA
	Foreground     color.RGBA
	GridColor      color.RGBA
	Palette        []color.RGBA
	LineWidth      float64
	FontSize       float64
	TitleSize      float64
}

// SeriesColor returns the palette color for the i-th series, cycling
func (t Theme) SeriesColor(i int) color.RGBA {
	if len(t.Palette) == 0 {
		return t.Foreground
	}
	if i < 0 {
		i = -i
	}
	return t.Palette[i%len(t.Palette)]
}

// Registry maps preset names to themes. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	themes map[string]Theme
}

// NewRegistry creates a registry loaded with the built-in presets
func NewRegistry() *Registry {
	r := &Registry{themes: make(map[string]Theme, len(presets))}
	for _, t := range presets {
		r.themes[t.Name] = t
	}
	return r
}

// Register adds or replaces a theme under its name
func (r *Registry) Register(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("style: theme name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes[t.Name] = t
	return nil
}

// Use looks up a preset by name.
func (r *Registry) Use(name string) (Theme, error) {
	if name == "" {
		name = Default
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	t.Palette = append([]color.RGBA(nil), t.Palette...)
	return t, nil
}

// Names returns the registered preset names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Names returns the built-in preset names in sorted order.
func Names() []string {
	return NewRegistry().Names()
}
