// internal/property/coercion.go
package property

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/solatis/ambrosia/internal/types"
)

/*
 * Type-directed coercion of posted form values.
 *
 * Posted values always arrive as strings, one per slot. The target setter's
 * FieldType selects the parser. A scalar type consumes the first slot; a list
 * type consumes every slot and keeps their order.
 *
 * Absence and failure are the same thing per slot: an empty (after trim)
 * string or an unparsable one yields nil for that slot and never affects its
 * siblings. Only a type with no posted-value representation (object,
 * unspecified) refuses the write as a whole.
 */

// DefaultTimeLayout is the layout posted time values use.
const DefaultTimeLayout = "2006-01-02T15:04"

// Input is the raw posted payload for one property.
type Input struct {
	Values []string
	File   Upload
}

// Values builds an Input from raw strings.
func Values(vs ...string) Input {
	return Input{Values: vs}
}

// Coerce converts in to the Go type documented for ft. Unsupported types
// return ErrWriteRefused.
func Coerce(ft FieldType, in Input, layout string, loc *time.Location) (any, error) {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	if loc == nil {
		loc = time.UTC
	}
	parseTime := func(s string) (time.Time, error) {
		return time.ParseInLocation(layout, s, loc)
	}

	switch ft {
	case FieldTypeText:
		return scalar(in.Values, parseText), nil
	case FieldTypeTextList:
		return list(in.Values, parseText), nil
	case FieldTypeBool:
		return scalar(in.Values, parseBool), nil
	case FieldTypeBoolList:
		return list(in.Values, parseBool), nil
	case FieldTypeInt:
		return scalar(in.Values, parseInt32), nil
	case FieldTypeIntList:
		return list(in.Values, parseInt32), nil
	case FieldTypeLong:
		return scalar(in.Values, parseInt64), nil
	case FieldTypeLongList:
		return list(in.Values, parseInt64), nil
	case FieldTypeTime:
		return scalar(in.Values, parseTime), nil
	case FieldTypeTimeList:
		return list(in.Values, parseTime), nil
	case FieldTypeUpload:
		return in.File, nil
	default:
		return nil, fmt.Errorf("%w: type %s is not writable", types.ErrWriteRefused, ft)
	}
}

// slot parses one raw string. Blank or unparsable input yields nil.
func slot[T any](raw string, parse func(string) (T, error)) *T {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := parse(raw)
	if err != nil {
		return nil
	}
	return &v
}

func scalar[T any](raw []string, parse func(string) (T, error)) *T {
	if len(raw) == 0 {
		return nil
	}
	return slot(raw[0], parse)
}

func list[T any](raw []string, parse func(string) (T, error)) []*T {
	out := make([]*T, len(raw))
	for i, s := range raw {
		out[i] = slot(s, parse)
	}
	return out
}

func parseText(s string) (string, error) { return s, nil }

// parseBool accepts only the literals true and false, in any case.
func parseBool(s string) (bool, error) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	}
	return false, fmt.Errorf("%w: %q as bool", types.ErrCoercionFailed, s)
}

func parseInt32(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q as int", types.ErrCoercionFailed, s)
	}
	return int32(n), nil
}

func parseInt64(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q as long", types.ErrCoercionFailed, s)
	}
	return n, nil
}
