// internal/property/write.go
package property

import (
	"fmt"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/types"
)

// Write stores posted input into the property p names. Every segment but the
// last locates the owning object, starting from the path's binding or from
// target for unrooted paths; the last must name a setter on a Writable.
// A refused write stores nothing. Write never panics.
func (r *Resolver) Write(p *Path, ctx *binding.Context, target any, in Input) (err error) {
	if len(p.Segments) == 0 {
		return fmt.Errorf("%w: %s names no property", types.ErrWriteRefused, p)
	}

	start, ok := r.root(p, ctx, target)
	if !ok {
		return fmt.Errorf("%w: %s: binding %q", types.ErrTargetNotFound, p, p.Binding)
	}
	last := len(p.Segments) - 1
	owner, terr := traverse(start, p.Segments[:last])
	if terr != nil || owner == nil {
		return fmt.Errorf("%w: %s", types.ErrTargetNotFound, p)
	}

	seg := p.Segments[last]
	w, ok := owner.(Writable)
	if seg.IsIndex || !ok {
		return fmt.Errorf("%w: %s: owner is not writable", types.ErrWriteRefused, p)
	}
	setter, ok := w.Setter(seg.Key)
	if !ok || setter.Set == nil {
		return fmt.Errorf("%w: %s: no setter for %q", types.ErrWriteRefused, p, seg.Key)
	}

	v, err := Coerce(setter.Type, in, r.layout, r.location)
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: setter panicked: %v", types.ErrWriteRefused, p, rec)
		}
	}()
	setter.Set(v)
	return nil
}
