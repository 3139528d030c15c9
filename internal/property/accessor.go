// internal/property/accessor.go
package property

import (
	"io"
	"sort"
	"strconv"
	"time"
)

/*
 * Typed accessors for bindable model objects.
 *
 * Model types expose their properties through Bindable (read) and Writable
 * (write) instead of being introspected by naming convention. The Setter a
 * Writable returns carries the declared FieldType, which is what the write
 * path dispatches coercion on: a scalar type receives one pointer (nil when
 * absent), a list type receives one pointer per posted value.
 *
 * Schema[T] is the descriptor table most models use: one entry per property,
 * each with a typed getter and an optional typed setter. Read-only entries
 * have no setter and refuse writes.
 */

// Bindable is implemented by objects whose properties paths can traverse.
type Bindable interface {
	Property(name string) (any, bool)
}

// Writable is implemented by objects that accept posted values.
type Writable interface {
	Bindable
	Setter(name string) (Setter, bool)
}

// Setter stores one coerced value into a property. Set receives the Go type
// documented on the Setter's FieldType.
type Setter struct {
	Type FieldType
	Set  func(v any)
}

// Upload is an opaque handle for a posted file.
type Upload interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// FieldType is the declared parameter type of a property setter.
type FieldType int

// Coerced Go types per FieldType are noted on each constant.
const (
	FieldTypeUnspecified FieldType = iota // refused
	FieldTypeBool                         // *bool
	FieldTypeBoolList                     // []*bool
	FieldTypeInt                          // *int32
	FieldTypeIntList                      // []*int32
	FieldTypeLong                         // *int64
	FieldTypeLongList                     // []*int64
	FieldTypeTime                         // *time.Time
	FieldTypeTimeList                     // []*time.Time
	FieldTypeText                         // *string
	FieldTypeTextList                     // []*string
	FieldTypeUpload                       // Upload (nil when no file was posted)
	FieldTypeObject                       // refused
)

var fieldTypeNames = [...]string{
	"unspecified", "bool", "bool[]", "int", "int[]", "long", "long[]",
	"time", "time[]", "text", "text[]", "upload", "object",
}

func (t FieldType) String() string {
	if int(t) >= 0 && int(t) < len(fieldTypeNames) {
		return fieldTypeNames[t]
	}
	return "fieldtype(" + strconv.Itoa(int(t)) + ")"
}

// IsList reports whether the type receives one value per posted string.
func (t FieldType) IsList() bool {
	switch t {
	case FieldTypeBoolList, FieldTypeIntList, FieldTypeLongList, FieldTypeTimeList, FieldTypeTextList:
		return true
	default:
		return false
	}
}

type schemaField[T any] struct {
	typ FieldType
	get func(*T) any
	set func(*T, any)
}

// Schema maps property names of T to typed accessor closures.
// Build it once at package init; it is read-only afterwards.
type Schema[T any] struct {
	fields map[string]schemaField[T]
}

// NewSchema returns an empty descriptor table.
func NewSchema[T any]() *Schema[T] {
	return &Schema[T]{fields: make(map[string]schemaField[T])}
}

func (s *Schema[T]) define(name string, typ FieldType, get func(*T) any, set func(*T, any)) *Schema[T] {
	s.fields[name] = schemaField[T]{typ: typ, get: get, set: set}
	return s
}

// Get reads property name of t.
func (s *Schema[T]) Get(t *T, name string) (any, bool) {
	f, ok := s.fields[name]
	if !ok || t == nil || f.get == nil {
		return nil, false
	}
	return f.get(t), true
}

// Setter returns the setter for property name of t. Read-only properties
// report false.
func (s *Schema[T]) Setter(t *T, name string) (Setter, bool) {
	f, ok := s.fields[name]
	if !ok || t == nil || f.set == nil {
		return Setter{}, false
	}
	return Setter{Type: f.typ, Set: func(v any) { f.set(t, v) }}, true
}

// Names returns the declared property names in sorted order.
func (s *Schema[T]) Names() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value declares a read-only property of any shape (objects, collections).
func (s *Schema[T]) Value(name string, get func(*T) any) *Schema[T] {
	return s.define(name, FieldTypeObject, get, nil)
}

// Text declares a string property.
func (s *Schema[T]) Text(name string, get func(*T) string, set func(*T, *string)) *Schema[T] {
	return s.define(name, FieldTypeText, func(t *T) any { return get(t) }, typed(set))
}

// TextList declares a string list property.
func (s *Schema[T]) TextList(name string, get func(*T) []string, set func(*T, []*string)) *Schema[T] {
	return s.define(name, FieldTypeTextList, func(t *T) any { return get(t) }, typed(set))
}

// Bool declares a boolean property.
func (s *Schema[T]) Bool(name string, get func(*T) bool, set func(*T, *bool)) *Schema[T] {
	return s.define(name, FieldTypeBool, func(t *T) any { return get(t) }, typed(set))
}

// BoolList declares a boolean list property.
func (s *Schema[T]) BoolList(name string, get func(*T) []bool, set func(*T, []*bool)) *Schema[T] {
	return s.define(name, FieldTypeBoolList, func(t *T) any { return get(t) }, typed(set))
}

// Int declares a 32-bit integer property.
func (s *Schema[T]) Int(name string, get func(*T) int32, set func(*T, *int32)) *Schema[T] {
	return s.define(name, FieldTypeInt, func(t *T) any { return get(t) }, typed(set))
}

// IntList declares a 32-bit integer list property.
func (s *Schema[T]) IntList(name string, get func(*T) []int32, set func(*T, []*int32)) *Schema[T] {
	return s.define(name, FieldTypeIntList, func(t *T) any { return get(t) }, typed(set))
}

// Long declares a 64-bit integer property.
func (s *Schema[T]) Long(name string, get func(*T) int64, set func(*T, *int64)) *Schema[T] {
	return s.define(name, FieldTypeLong, func(t *T) any { return get(t) }, typed(set))
}

// LongList declares a 64-bit integer list property.
func (s *Schema[T]) LongList(name string, get func(*T) []int64, set func(*T, []*int64)) *Schema[T] {
	return s.define(name, FieldTypeLongList, func(t *T) any { return get(t) }, typed(set))
}

// Time declares a time property. A zero time reads as absent.
func (s *Schema[T]) Time(name string, get func(*T) time.Time, set func(*T, *time.Time)) *Schema[T] {
	return s.define(name, FieldTypeTime, func(t *T) any {
		v := get(t)
		if v.IsZero() {
			return nil
		}
		return v
	}, typed(set))
}

// TimeList declares a time list property.
func (s *Schema[T]) TimeList(name string, get func(*T) []time.Time, set func(*T, []*time.Time)) *Schema[T] {
	return s.define(name, FieldTypeTimeList, func(t *T) any { return get(t) }, typed(set))
}

// File declares an upload property.
func (s *Schema[T]) File(name string, get func(*T) Upload, set func(*T, Upload)) *Schema[T] {
	return s.define(name, FieldTypeUpload, func(t *T) any {
		if u := get(t); u != nil {
			return u
		}
		return nil
	}, func(t *T, v any) {
		u, _ := v.(Upload)
		set(t, u)
	})
}

// typed adapts a typed setter to the untyped form stored in the table.
// A nil setter yields a read-only entry; a mistyped value is dropped.
func typed[T, V any](set func(*T, V)) func(*T, any) {
	if set == nil {
		return nil
	}
	return func(t *T, v any) {
		if tv, ok := v.(V); ok {
			set(t, tv)
		}
	}
}
