// internal/form/form.go
package form

import (
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/property"
	"github.com/solatis/ambrosia/internal/types"
)

/*
 * Posted form decoding.
 *
 * Fields rendered by view.Input are named <prefix><full path>. Apply parses
 * every prefixed field name back into a path and writes the posted values
 * through the resolver, in sorted name order. Fields without the prefix are
 * ignored.
 *
 * A refused field never stops the others. Refusals are logged and returned
 * together as a *multierror.Error.
 */

// DefaultPrefix matches view.DefaultFieldPrefix.
const DefaultPrefix = "amb:"

// Decoder applies posted forms to target objects.
type Decoder struct {
	resolver *property.Resolver
	prefix   string
	maxDepth int
	logger   *slog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithPrefix sets the field name prefix.
func WithPrefix(prefix string) Option {
	return func(d *Decoder) { d.prefix = prefix }
}

// WithMaxDepth lowers the segment limit for posted field paths.
func WithMaxDepth(n int) Option {
	return func(d *Decoder) { d.maxDepth = n }
}

// WithLogger sets the logger refusals are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) { d.logger = l }
}

// NewDecoder builds a decoder writing through r.
func NewDecoder(r *property.Resolver, opts ...Option) *Decoder {
	if r == nil {
		r = property.NewResolver()
	}
	d := &Decoder{resolver: r, prefix: DefaultPrefix, maxDepth: types.MaxPathDepth, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fields returns the prefixed field names of values and files, sorted.
func (d *Decoder) Fields(values url.Values, files map[string]property.Upload) []string {
	seen := make(map[string]struct{}, len(values)+len(files))
	var names []string
	add := func(name string) {
		if !strings.HasPrefix(name, d.prefix) {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for name := range values {
		add(name)
	}
	for name := range files {
		add(name)
	}
	sort.Strings(names)
	return names
}

// Apply writes every prefixed field into target. Paths rooted at a binding
// resolve against ctx; unrooted paths resolve against target.
func (d *Decoder) Apply(ctx *binding.Context, target any, values url.Values, files map[string]property.Upload) error {
	var result *multierror.Error
	for _, name := range d.Fields(values, files) {
		p, err := property.Parse(strings.TrimPrefix(name, d.prefix))
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("field %q: %w", name, err))
			continue
		}
		if len(p.Segments) > d.maxDepth {
			result = multierror.Append(result, fmt.Errorf("field %q: %w", name, types.ErrPathTooDeep))
			continue
		}
		in := property.Input{Values: values[name], File: files[name]}
		if err := d.resolver.Write(p, ctx, target, in); err != nil {
			d.logger.Warn("form field refused", "render_id", renderID(ctx), "field", name, "error", err)
			result = multierror.Append(result, fmt.Errorf("field %q: %w", name, err))
		}
	}
	return result.ErrorOrNil()
}

func renderID(ctx *binding.Context) string {
	if ctx == nil {
		return ""
	}
	return string(ctx.ID)
}
