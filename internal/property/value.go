// internal/property/value.go
package property

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

/*
 * Closed value variant for resolved properties.
 *
 * Every terminal object a path resolves to is classified once into a Kind.
 * Formatting, emptiness and time checks switch on the Kind instead of doing
 * ad-hoc type assertions at every call site.
 *
 * Pointers are dereferenced during classification; a nil pointer is Missing.
 * Named scalar types (type Status string) classify by their underlying kind.
 */

// Kind tags the variant held by a Value.
type Kind int

const (
	KindMissing Kind = iota
	KindText
	KindBool
	KindInt
	KindFloat
	KindTime
	KindList
	KindMap
	KindObject
	KindUpload
)

var kindNames = [...]string{"missing", "text", "bool", "int", "float", "time", "list", "map", "object", "upload"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a classified terminal object.
type Value struct {
	kind Kind
	raw  any
}

// Of classifies v.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case string:
		return Value{kind: KindText, raw: x}
	case bool:
		return Value{kind: KindBool, raw: x}
	case int:
		return Value{kind: KindInt, raw: int64(x)}
	case int32:
		return Value{kind: KindInt, raw: int64(x)}
	case int64:
		return Value{kind: KindInt, raw: x}
	case float64:
		return Value{kind: KindFloat, raw: x}
	case time.Time:
		return Value{kind: KindTime, raw: x}
	case Upload:
		return Value{kind: KindUpload, raw: x}
	}
	return classify(reflect.ValueOf(v))
}

func classify(rv reflect.Value) Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Value{}
		}
		if rv.Kind() == reflect.Pointer {
			if _, ok := rv.Interface().(Bindable); ok {
				return Value{kind: KindObject, raw: rv.Interface()}
			}
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return Value{}
	}
	if t, ok := rv.Interface().(time.Time); ok {
		return Value{kind: KindTime, raw: t}
	}
	switch rv.Kind() {
	case reflect.String:
		return Value{kind: KindText, raw: rv.String()}
	case reflect.Bool:
		return Value{kind: KindBool, raw: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Value{kind: KindInt, raw: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Value{kind: KindInt, raw: int64(rv.Uint())}
	case reflect.Float32, reflect.Float64:
		return Value{kind: KindFloat, raw: rv.Float()}
	case reflect.Slice:
		if rv.IsNil() {
			return Value{}
		}
		return Value{kind: KindList, raw: rv.Interface()}
	case reflect.Array:
		return Value{kind: KindList, raw: rv.Interface()}
	case reflect.Map:
		if rv.IsNil() {
			return Value{}
		}
		return Value{kind: KindMap, raw: rv.Interface()}
	default:
		return Value{kind: KindObject, raw: rv.Interface()}
	}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// Raw returns the classified object. Ints are widened to int64 and pointers
// are dereferenced.
func (v Value) Raw() any { return v.raw }

// IsMissing reports whether the value is absent.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Len returns the element count of a list or map, or the byte length of
// text. Reports false for other kinds.
func (v Value) Len() (int, bool) {
	switch v.kind {
	case KindText:
		return len(v.raw.(string)), true
	case KindList, KindMap:
		return reflect.ValueOf(v.raw).Len(), true
	default:
		return 0, false
	}
}

// Time returns the instant held by a time value.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.raw.(time.Time), true
}

// String returns the natural string form of the value. Missing values
// format as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindMissing:
		return ""
	case KindText:
		return v.raw.(string)
	case KindBool:
		return strconv.FormatBool(v.raw.(bool))
	case KindInt:
		return strconv.FormatInt(v.raw.(int64), 10)
	case KindFloat:
		return strconv.FormatFloat(v.raw.(float64), 'f', -1, 64)
	case KindTime:
		return v.raw.(time.Time).Format(time.RFC3339)
	case KindUpload:
		return v.raw.(Upload).Name()
	case KindList:
		rv := reflect.ValueOf(v.raw)
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = Of(rv.Index(i).Interface()).String()
		}
		return strings.Join(parts, ", ")
	default:
		if s, ok := v.raw.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprint(v.raw)
	}
}
