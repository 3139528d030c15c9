// internal/property/fieldpath.go
package property

import (
	"reflect"

	"github.com/solatis/ambrosia/internal/types"
)

/*
 * Segment traversal over Go object graphs.
 *
 * Named segments look up a property on a Bindable, or a key in a map with
 * string keys. Index segments address slices and arrays, bounds-checked.
 * Any other combination, a nil intermediate, or a panic raised by a model
 * accessor is reported as types.ErrResolutionMiss and never escapes the
 * read operations.
 */

// traverse follows segs from root and returns the terminal object.
func traverse(root any, segs []types.PathSegment) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, types.ErrResolutionMiss
		}
	}()
	current := root
	for _, seg := range segs {
		current, err = step(current, seg)
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

// step resolves a single segment against current.
func step(current any, seg types.PathSegment) (any, error) {
	if current == nil {
		return nil, types.ErrResolutionMiss
	}

	if !seg.IsIndex {
		switch v := current.(type) {
		case Bindable:
			val, ok := v.Property(seg.Key)
			if !ok {
				return nil, types.ErrResolutionMiss
			}
			return val, nil
		case map[string]any:
			val, ok := v[seg.Key]
			if !ok {
				return nil, types.ErrResolutionMiss
			}
			return val, nil
		case map[string]string:
			val, ok := v[seg.Key]
			if !ok {
				return nil, types.ErrResolutionMiss
			}
			return val, nil
		}
	} else if v, ok := current.([]any); ok {
		// Fast path for decoded documents
		if seg.Index < 0 || seg.Index >= len(v) {
			return nil, types.ErrResolutionMiss
		}
		return v[seg.Index], nil
	}

	rv := reflect.ValueOf(current)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, types.ErrResolutionMiss
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if seg.IsIndex || rv.Type().Key().Kind() != reflect.String {
			return nil, types.ErrResolutionMiss
		}
		val := rv.MapIndex(reflect.ValueOf(seg.Key).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, types.ErrResolutionMiss
		}
		return val.Interface(), nil
	case reflect.Slice, reflect.Array:
		if !seg.IsIndex || seg.Index < 0 || seg.Index >= rv.Len() {
			return nil, types.ErrResolutionMiss
		}
		return rv.Index(seg.Index).Interface(), nil
	default:
		return nil, types.ErrResolutionMiss
	}
}
