package style

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// aliases maps the short and extra color names drawing does not know to
// specs it does.
var aliases = map[string]string{
	"b":       "blue",
	"g":       "green",
	"r":       "red",
	"c":       "#00bfbf",
	"m":       "#bf00bf",
	"y":       "#bfbf00",
	"k":       "black",
	"w":       "white",
	"cyan":    "aqua",
	"magenta": "fuchsia",
	"orange":  "#ffa500",
	"gray":    "#808080",
	"grey":    "#808080",
	"brown":   "#a52a2a",
	"pink":    "#ffc0cb",
}

// ParseColor resolves a color spec against a theme.
// Accepted forms: "#rgb", "#rrggbb", "#rrggbbaa", "rgb(r,g,b)",
// "rgba(r,g,b,a)", "C0".."C9" (theme palette cycle) and basic color names.
func ParseColor(spec string, t Theme) (color.RGBA, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return color.RGBA{}, fmt.Errorf("style: empty color")
	}
	if len(s) == 2 && s[0] == 'c' && s[1] >= '0' && s[1] <= '9' {
		return t.SeriesColor(int(s[1] - '0')), nil
	}
	if alias, ok := aliases[s]; ok {
		s = alias
	}

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgba("):
		if !validFunc(s, "rgba(", 4) {
			return color.RGBA{}, fmt.Errorf("style: invalid color %q", spec)
		}
	case strings.HasPrefix(s, "rgb("):
		if !validFunc(s, "rgb(", 3) {
			return color.RGBA{}, fmt.Errorf("style: invalid color %q", spec)
		}
	default:
		if drawing.ColorFromKnown(s).IsZero() {
			return color.RGBA{}, fmt.Errorf("style: unknown color %q", spec)
		}
	}
	return toRGBA(drawing.ParseColor(s)), nil
}

// parseHex accepts "#rgb", "#rrggbb" and "#rrggbbaa".
func parseHex(s string) (color.RGBA, error) {
	code := s[1:]
	if len(code) != 3 && len(code) != 6 && len(code) != 8 {
		return color.RGBA{}, fmt.Errorf("style: invalid hex color %q", s)
	}
	if _, err := strconv.ParseUint(code, 16, 32); err != nil {
		return color.RGBA{}, fmt.Errorf("style: invalid hex color %q", s)
	}
	if len(code) != 8 {
		return toRGBA(drawing.ColorFromHex(code)), nil
	}
	a, _ := strconv.ParseUint(code[6:], 16, 8)
	return toRGBA(drawing.ColorFromHex(code[:6]).WithAlpha(uint8(a))), nil
}

// validFunc checks that s is prefix followed by n numbers and ")".
func validFunc(s, prefix string, n int) bool {
	if !strings.HasSuffix(s, ")") {
		return false
	}
	parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(s, prefix), ")"), ",")
	if len(parts) != n {
		return false
	}
	for _, p := range parts {
		if _, err := strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return false
		}
	}
	return true
}

func toRGBA(c drawing.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// WithAlpha returns c with its alpha channel scaled to alpha (0..1).
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	c.A = uint8(math.Round(float64(c.A) * alpha))
	return c
}

// Hex formats c as "#rrggbb"
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// CSS formats c for HTML output, using rgba() when c is translucent.
func CSS(c color.RGBA) string {
	if c.A == 0xff {
		return Hex(c)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.2f)", c.R, c.G, c.B, float64(c.A)/255)
}
