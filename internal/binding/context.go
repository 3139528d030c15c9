// internal/binding/context.go
package binding

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/solatis/ambrosia/internal/types"
	"golang.org/x/text/language"
)

/*
 * Request-scoped binding context.
 *
 * Holds the named bindings a render pushes while iterating collections, the
 * encoding recorded with each binding, the unique id counter and the output
 * sink. One Context belongs to one render on one goroutine; it is never
 * shared, so there is no locking.
 *
 * Bindings are kept as a stack per name: an Each node nested inside another
 * Each that reuses the same name shadows the outer binding and restores it on
 * Pop. The encoding lives on the same stack entry as the value, which makes
 * "a name with an encoding has a binding" true by construction.
 *
 * Output collection is a stack of buffers. A table cell that renders a
 * sub-tree while the table itself is being collected gets its own buffer, and
 * the outer buffer is untouched until the inner one is ended.
 */

type entry struct {
	value    any
	encoding string
}

// Context is the mutable state of one render.
type Context struct {
	// ID identifies the render in logs and generated DOM ids.
	ID types.RenderID
	// Locale selects the message bundle used for display fallbacks.
	Locale language.Tag

	stacks     map[string][]entry
	lastID     int
	out        io.Writer
	collecting []*bytes.Buffer
}

// Option configures a Context at construction.
type Option func(*Context)

// WithLocale sets the render locale.
func WithLocale(tag language.Tag) Option {
	return func(c *Context) {
		c.Locale = tag
	}
}

// WithRenderID overrides the generated render id.
func WithRenderID(id types.RenderID) Option {
	return func(c *Context) {
		if id != "" {
			c.ID = id
		}
	}
}

// New creates a Context writing to out. A nil out discards output.
func New(out io.Writer, opts ...Option) *Context {
	if out == nil {
		out = io.Discard
	}
	c := &Context{
		ID:     types.NewRenderID(),
		Locale: language.English,
		stacks: make(map[string][]entry),
		out:    out,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Push installs value under name, shadowing any active binding of the same
// name until the matching Pop. An empty encoding records no encoding.
func (c *Context) Push(name string, value any, encoding string) {
	c.stacks[name] = append(c.stacks[name], entry{value: value, encoding: encoding})
}

// Pop removes the innermost binding for name.
// Returns ErrUnbalancedPop if name has no active binding.
func (c *Context) Pop(name string) error {
	stack := c.stacks[name]
	if len(stack) == 0 {
		return fmt.Errorf("%w: %q", types.ErrUnbalancedPop, name)
	}
	stack[len(stack)-1] = entry{}
	if len(stack) == 1 {
		delete(c.stacks, name)
		return nil
	}
	c.stacks[name] = stack[:len(stack)-1]
	return nil
}

// With pushes a binding, runs fn and pops the binding again, even if fn fails.
func (c *Context) With(name string, value any, encoding string, fn func() error) error {
	c.Push(name, value, encoding)
	err := fn()
	if popErr := c.Pop(name); popErr != nil && err == nil {
		err = popErr
	}
	return err
}

// Lookup returns the innermost value bound to name.
func (c *Context) Lookup(name string) (any, bool) {
	stack := c.stacks[name]
	if len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1].value, true
}

// Encoding returns the encoding recorded with the innermost binding of name.
// Reports false when name is unbound or was pushed without an encoding.
func (c *Context) Encoding(name string) (string, bool) {
	stack := c.stacks[name]
	if len(stack) == 0 {
		return "", false
	}
	enc := stack[len(stack)-1].encoding
	return enc, enc != ""
}

// Names returns the currently bound names in sorted order.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.stacks))
	for name := range c.stacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NextID returns a fresh id. Ids start at 1 and strictly increase for the
// lifetime of the context.
func (c *Context) NextID() int {
	c.lastID++
	return c.lastID
}

// UniqueID returns a DOM-safe identifier built from prefix, the render id and
// a fresh counter value.
func (c *Context) UniqueID(prefix string) string {
	if prefix == "" {
		prefix = "amb"
	}
	return fmt.Sprintf("%s-%s-%d", prefix, c.ID.Short(), c.NextID())
}
