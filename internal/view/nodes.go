// internal/view/nodes.go
package view

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/decision"
	"github.com/solatis/ambrosia/internal/property"
	"github.com/solatis/ambrosia/internal/types"
)

// Text writes a trusted literal.
type Text struct {
	When *decision.Decision
	Text string
}

func (n *Text) Render(r *Renderer, ctx *binding.Context, focus any) error {
	if ok, err := r.gate(ctx, n.When, focus); err != nil || !ok {
		return err
	}
	return write(ctx, n.Text)
}

// Value writes the escaped display of a path, or Default when there is
// nothing to display.
type Value struct {
	When    *decision.Decision
	Path    *property.Path
	Default string
}

func (n *Value) Render(r *Renderer, ctx *binding.Context, focus any) error {
	if ok, err := r.gate(ctx, n.When, focus); err != nil || !ok {
		return err
	}
	s, ok := r.resolver.Display(n.Path, ctx, focus)
	if !ok {
		s = n.Default
	}
	return write(ctx, escape(s))
}

// RichValue writes user-authored markup, sanitised. Strict strips every
// element and keeps only text.
type RichValue struct {
	When   *decision.Decision
	Path   *property.Path
	Strict bool
}

func (n *RichValue) Render(r *Renderer, ctx *binding.Context, focus any) error {
	if ok, err := r.gate(ctx, n.When, focus); err != nil || !ok {
		return err
	}
	s, ok := r.resolver.Display(n.Path, ctx, focus)
	if !ok {
		return nil
	}
	policy := r.ugc
	if n.Strict {
		policy = r.strict
	}
	return write(ctx, policy.Sanitize(s))
}

// Element wraps children in a tag. Elements without an explicit id get a
// generated one unique within the render.
type Element struct {
	When     *decision.Decision
	Tag      string
	Attrs    map[string]string
	Children []Node
}

func (n *Element) Render(r *Renderer, ctx *binding.Context, focus any) error {
	if ok, err := r.gate(ctx, n.When, focus); err != nil || !ok {
		return err
	}
	a := make(map[string]string, len(n.Attrs)+1)
	for k, v := range n.Attrs {
		a[k] = v
	}
	if _, ok := a["id"]; !ok {
		a["id"] = ctx.UniqueID("")
	}
	if err := write(ctx, "<"+n.Tag+attrs(a)+">"); err != nil {
		return err
	}
	if err := r.renderAll(ctx, n.Children, focus); err != nil {
		return err
	}
	return write(ctx, "</"+n.Tag+">")
}

// Each renders its children once per element of a collection, with the
// element bound to As and encoded as its full path.
type Each struct {
	When     *decision.Decision
	Path     *property.Path
	As       string
	Children []Node
}

func (n *Each) Render(r *Renderer, ctx *binding.Context, focus any) error {
	if ok, err := r.gate(ctx, n.When, focus); err != nil || !ok {
		return err
	}
	return forEach(r, ctx, n.Path, n.As, focus, func() error {
		return r.renderAll(ctx, n.Children, focus)
	})
}

// forEach binds each element of the collection at p to name and calls fn.
// Non-collections and MISSING render nothing.
func forEach(r *Renderer, ctx *binding.Context, p *property.Path, name string, focus any, fn func() error) error {
	v := property.Of(r.resolver.ReadObject(p, ctx, focus))
	if v.Kind() != property.KindList {
		return nil
	}
	base := property.FullPath(p, ctx)
	rv := reflect.ValueOf(v.Raw())
	for i := 0; i < rv.Len(); i++ {
		enc := base + "." + types.Index(i).String()
		if err := ctx.With(name, rv.Index(i).Interface(), enc, fn); err != nil {
			return err
		}
	}
	return nil
}

// Input renders a labelled text field bound to a path. The field name is
// the renderer's field prefix followed by the path's full path, which the
// form decoder parses back.
type Input struct {
	When  *decision.Decision
	Path  *property.Path
	Label string
	Type  string
}

func (n *Input) Render(r *Renderer, ctx *binding.Context, focus any) error {
	if ok, err := r.gate(ctx, n.When, focus); err != nil || !ok {
		return err
	}
	typ := n.Type
	if typ == "" {
		typ = "text"
	}
	id := ctx.UniqueID("")
	value, _ := r.resolver.Display(n.Path, ctx, focus)
	name := r.fieldPrefix + property.FullPath(n.Path, ctx)

	var b strings.Builder
	if n.Label != "" {
		fmt.Fprintf(&b, `<label for="%s">%s</label>`, id, escape(n.Label))
	}
	fmt.Fprintf(&b, `<input type="%s" id="%s" name="%s" value="%s">`,
		escape(typ), id, escape(name), escape(value))
	return write(ctx, b.String())
}
