package canvas

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Recognized line styles.
const (
	LineSolid   = "-"
	LineDashed  = "--"
	LineDotted  = ":"
	LineDashDot = "-."
)

// Recognized markers. Renderers draw every marker as a filled dot.
const (
	MarkerNone   = ""
	MarkerCircle = "o"
	MarkerPoint  = "."
	MarkerSquare = "s"
)

// DrawOptions are the per-series options forwarded to a renderer.
//
// Zero values mean "use the theme default". Extra carries renderer specific
// settings keyed as "<renderer>.<option>", e.g. "echarts.smooth"; a renderer
// reads its own namespace, rejects unknown keys in it and ignores the rest.
type DrawOptions struct {
	Color      string
	Alpha      float64
	LineWidth  float64
	LineStyle  string
	Marker     string
	MarkerSize float64
	EdgeColor  string
	EdgeWidth  float64
	Extra      map[string]any
}

// Validate checks the enumerated options.
func (o DrawOptions) Validate() error {
	switch o.LineStyle {
	case "", LineSolid, LineDashed, LineDotted, LineDashDot:
	default:
		return fmt.Errorf("line style %q is not one of -, --, :, -.", o.LineStyle)
	}
	switch o.Marker {
	case MarkerNone, MarkerCircle, MarkerPoint, MarkerSquare:
	default:
		return fmt.Errorf("marker %q is not one of o, ., s", o.Marker)
	}
	if o.Alpha < 0 || o.Alpha > 1 {
		return fmt.Errorf("alpha %v outside [0, 1]", o.Alpha)
	}
	if o.LineWidth < 0 || o.MarkerSize < 0 || o.EdgeWidth < 0 {
		return fmt.Errorf("widths must not be negative")
	}
	return nil
}

// Opacity returns Alpha, treating the zero value as fully opaque
func (o DrawOptions) Opacity() float64 {
	if o.Alpha == 0 {
		return 1
	}
	return o.Alpha
}

// Dashes returns the dash pattern, in points, for the line style.
func (o DrawOptions) Dashes() []float64 {
	switch o.LineStyle {
	case LineDashed:
		return []float64{6, 3}
	case LineDotted:
		return []float64{1.5, 2.5}
	case LineDashDot:
		return []float64{6, 2.5, 1.5, 2.5}
	default:
		return nil
	}
}

// ExtraFor returns the Extra entries in the given renderer namespace with the
// prefix stripped.
func (o DrawOptions) ExtraFor(namespace string) map[string]any {
	prefix := namespace + "."
	out := map[string]any{}
	for k, v := range o.Extra {
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return out
}

// CheckExtra returns an error naming the first key in the namespace that is
// not in known.
func (o DrawOptions) CheckExtra(namespace string, known ...string) error {
	extra := o.ExtraFor(namespace)
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		found := false
		for _, kn := range known {
			if k == kn {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s.%s", ErrUnknownOption, namespace, k)
		}
	}
	return nil
}

// ExtraNumber returns the namespace.key Extra entry as a float64. Any Go
// integer or float kind is accepted. ok is false when the key is absent.
func (o DrawOptions) ExtraNumber(namespace, key string) (v float64, ok bool, err error) {
	raw, ok := o.Extra[namespace+"."+key]
	if !ok {
		return 0, false, nil
	}
	v, isNum := number(raw)
	if !isNum {
		return 0, true, fmt.Errorf("%w: %s.%s must be a number, got %T", ErrInvalidOption, namespace, key, raw)
	}
	return v, true, nil
}

// ExtraNumbers returns the namespace.key Extra entry as a list of numbers.
func (o DrawOptions) ExtraNumbers(namespace, key string) (v []float64, ok bool, err error) {
	raw, ok := o.Extra[namespace+"."+key]
	if !ok {
		return nil, false, nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, true, fmt.Errorf("%w: %s.%s must be a list of numbers, got %T", ErrInvalidOption, namespace, key, raw)
	}
	v = make([]float64, rv.Len())
	for i := range v {
		f, isNum := number(rv.Index(i).Interface())
		if !isNum {
			return nil, true, fmt.Errorf("%w: %s.%s[%d] must be a number", ErrInvalidOption, namespace, key, i)
		}
		v[i] = f
	}
	return v, true, nil
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
