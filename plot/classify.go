package plot

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// ErrUnknownShape is returned by FromAny for input that matches none of the
// five data shapes.
var ErrUnknownShape = errors.New("unrecognized data shape")

// KeyValue is one entry of a Mapping.
type KeyValue struct {
	Key   string
	Value any
}

// Mapping is a string-keyed mapping that keeps insertion order. Decoders that
// preserve key order (see internal/chartfile) produce it.
type Mapping []KeyValue

// FromAny classifies loosely typed input, e.g. decoded JSON or YAML, into a
// Data value. The first matching rule wins:
//
//  1. a mapping (Mapping or any string-keyed map) is NamedSeries
//  2. a two element sequence whose second element is a mapping is PairedXNamed
//  3. a two element sequence of two non-mapping sequences is PairedXY
//  4. a sequence whose elements are all sequences is SeriesList
//  5. a sequence of numbers is FlatSeries
//
// Rule 3 comes before rule 4, so [[1,2,3],[4,5,6]] is an (x, y) pair. Values
// that already implement Data are returned unchanged.
func FromAny(v any) (Data, error) {
	if d, ok := v.(Data); ok {
		return d, nil
	}

	if m, ok := asMapping(v); ok {
		series, err := mappingSeries(m)
		if err != nil {
			return nil, err
		}
		return NamedSeries{Series: series}, nil
	}

	items, ok := asSequence(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnknownShape, v)
	}

	if len(items) == 2 {
		if m, ok := asMapping(items[1]); ok {
			x, err := toXValues(items[0])
			if err != nil {
				return nil, fmt.Errorf("(x, mapping) pair: x: %w", err)
			}
			series, err := mappingSeries(m)
			if err != nil {
				return nil, err
			}
			return PairedXNamed{X: x, Series: series}, nil
		}
		if isSequence(items[0]) && isSequence(items[1]) {
			x, err := toXValues(items[0])
			if err != nil {
				return nil, fmt.Errorf("(x, y) pair: x: %w", err)
			}
			y, err := toFloats(items[1])
			if err != nil {
				return nil, fmt.Errorf("(x, y) pair: y: %w", err)
			}
			return PairedXY{X: x, Y: y}, nil
		}
	}

	if len(items) == 0 {
		return SeriesList{}, nil
	}

	if allSequences(items) {
		list := make([][]float64, len(items))
		for i, item := range items {
			y, err := toFloats(item)
			if err != nil {
				return nil, fmt.Errorf("series %d: %w", i+1, err)
			}
			list[i] = y
		}
		return SeriesList{Y: list}, nil
	}

	y, err := toFloats(v)
	if err != nil {
		return nil, err
	}
	return FlatSeries{Y: y}, nil
}

func asMapping(v any) (Mapping, bool) {
	switch m := v.(type) {
	case Mapping:
		return m, true
	case map[string]any:
		return sortedMapping(m), true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return sortedMapping(out), true
}

func sortedMapping(m map[string]any) Mapping {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Mapping, 0, len(keys))
	for _, k := range keys {
		out = append(out, KeyValue{Key: k, Value: m[k]})
	}
	return out
}

func mappingSeries(m Mapping) ([]Series, error) {
	series := make([]Series, 0, len(m))
	for _, kv := range m {
		y, err := toFloats(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", kv.Key, err)
		}
		series = append(series, Series{Name: kv.Key, Y: y})
	}
	return series, nil
}

// asSequence returns the elements of a slice or array. Strings are not
// sequences.
func asSequence(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func isSequence(v any) bool {
	if _, ok := asMapping(v); ok {
		return false
	}
	_, ok := asSequence(v)
	return ok
}

func allSequences(items []any) bool {
	for _, item := range items {
		if !isSequence(item) {
			return false
		}
	}
	return true
}

func toFloat(v any) (float64, bool) {
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

func toFloats(v any) ([]float64, error) {
	if f, ok := v.([]float64); ok {
		return f, nil
	}
	items, ok := asSequence(v)
	if !ok {
		return nil, fmt.Errorf("%w: expected a sequence of numbers, got %T", ErrUnknownShape, v)
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T, not a number", ErrUnknownShape, i, item)
		}
		out[i] = f
	}
	return out, nil
}

// toXValues accepts a sequence of numbers or a sequence of strings.
func toXValues(v any) (XValues, error) {
	items, ok := asSequence(v)
	if !ok {
		return XValues{}, fmt.Errorf("%w: expected a sequence, got %T", ErrUnknownShape, v)
	}
	if len(items) > 0 {
		if _, isString := items[0].(string); isString {
			labels := make([]string, len(items))
			for i, item := range items {
				s, ok := item.(string)
				if !ok {
					return XValues{}, fmt.Errorf("%w: element %d is %T, expected string", ErrUnknownShape, i, item)
				}
				labels[i] = s
			}
			return Labels(labels...), nil
		}
	}
	nums, err := toFloats(items)
	if err != nil {
		return XValues{}, err
	}
	return Numbers(nums...), nil
}

// XFromAny converts a decoded sequence of numbers or strings into an x axis.
func XFromAny(v any) (XValues, error) {
	return toXValues(v)
}
