package binding

import (
	"bytes"
	"io"

	"github.com/solatis/ambrosia/internal/types"
)

// Writer returns the current output sink: the innermost collecting buffer,
// or the writer the context was created with.
func (c *Context) Writer() io.Writer {
	if n := len(c.collecting); n > 0 {
		return c.collecting[n-1]
	}
	return c.out
}

// BeginCollecting redirects output to a fresh buffer until the matching
// EndCollecting. Calls nest.
func (c *Context) BeginCollecting() {
	c.collecting = append(c.collecting, new(bytes.Buffer))
}

// EndCollecting returns everything written since the matching
// BeginCollecting and restores the previous sink.
// Returns ErrNotCollecting when there is no open collection.
func (c *Context) EndCollecting() (string, error) {
	n := len(c.collecting)
	if n == 0 {
		return "", types.ErrNotCollecting
	}
	buf := c.collecting[n-1]
	c.collecting[n-1] = nil
	c.collecting = c.collecting[:n-1]
	return buf.String(), nil
}

// Collecting reports how many collections are currently open.
func (c *Context) Collecting() int {
	return len(c.collecting)
}

// Collect runs fn with output redirected and returns what it wrote.
func (c *Context) Collect(fn func() error) (string, error) {
	c.BeginCollecting()
	err := fn()
	out, endErr := c.EndCollecting()
	if err != nil {
		return "", err
	}
	return out, endErr
}
