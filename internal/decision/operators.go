// internal/decision/operators.go
package decision

import (
	"slices"
	"strings"
	"time"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/property"
)

// compare matches the primary display against another path (case
// insensitive) or a constant set (exact). A MISSING side never matches.
func (e *Evaluator) compare(d *Decision, ctx *binding.Context, focus any) bool {
	primary, ok := e.resolver.Display(d.Path, ctx, focus)
	if !ok {
		return false
	}
	if d.Other != nil {
		other, ok := e.resolver.Display(d.Other, ctx, focus)
		return ok && strings.EqualFold(primary, other)
	}
	return slices.Contains(d.Constants, primary)
}

// hasValue treats nil, empty text and empty collections as no value.
func hasValue(raw any) bool {
	v := property.Of(raw)
	if v.IsMissing() {
		return false
	}
	if n, ok := v.Len(); ok {
		return n > 0
	}
	return true
}

// pastDate holds for instants strictly before now.
func pastDate(raw any, now time.Time) bool {
	t, ok := property.Of(raw).Time()
	return ok && t.Before(now)
}
