// internal/property/resolver.go
package property

import (
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/solatis/ambrosia/internal/binding"
)

/*
 * Path resolution against a binding context.
 *
 * The root of a read is the active value of the path's binding, or the
 * focus object for unrooted paths. Traversal failures of any kind collapse
 * to MISSING; reads never return errors.
 *
 * Display layering, in order:
 *   1. MISSING (traversal failed, nil terminal, or a configured missing
 *      string) shows the fallback message, or nothing at all.
 *   2. The formatter (path, then resolver, then natural form) renders the
 *      primary value.
 *   3. A combine key formats [primary, aux...] through the message service.
 *
 * A Resolver is immutable and shared across requests.
 */

// Messages looks up localized templates with positional arguments.
type Messages interface {
	Message(tag language.Tag, key string, args ...any) (string, bool)
}

// Resolver reads and writes property paths.
type Resolver struct {
	messages Messages
	logger   *slog.Logger
	layout   string
	location *time.Location
	format   Formatter
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMessages sets the message service used for fallback and combine keys.
func WithMessages(m Messages) ResolverOption {
	return func(r *Resolver) { r.messages = m }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// WithTimeLayout sets the layout used to parse posted times.
func WithTimeLayout(layout string) ResolverOption {
	return func(r *Resolver) { r.layout = layout }
}

// WithLocation sets the location posted times are interpreted in.
func WithLocation(loc *time.Location) ResolverOption {
	return func(r *Resolver) { r.location = loc }
}

// WithFormatter sets the default display formatter.
func WithFormatter(f Formatter) ResolverOption {
	return func(r *Resolver) { r.format = f }
}

// NewResolver builds a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		logger:   slog.Default(),
		layout:   DefaultTimeLayout,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// root returns the object a path is resolved from.
func (r *Resolver) root(p *Path, ctx *binding.Context, focus any) (any, bool) {
	if p.Binding == "" {
		return focus, true
	}
	if ctx == nil {
		return nil, false
	}
	v, ok := ctx.Lookup(p.Binding)
	if !ok {
		r.logger.Debug("no active binding for path",
			"render_id", ctx.ID, "binding", p.Binding, "path", p.String())
		return nil, false
	}
	return v, true
}

// ReadObject returns the raw terminal object, or nil when traversal fails.
// Missing-value strings are not applied.
func (r *Resolver) ReadObject(p *Path, ctx *binding.Context, focus any) any {
	start, ok := r.root(p, ctx, focus)
	if !ok {
		return nil
	}
	v, err := traverse(start, p.Segments)
	if err != nil {
		return nil
	}
	return v
}

// Read resolves p to a classified value. The boolean is false for MISSING.
func (r *Resolver) Read(p *Path, ctx *binding.Context, focus any) (Value, bool) {
	v := Of(r.ReadObject(p, ctx, focus))
	if v.IsMissing() {
		return Value{}, false
	}
	if len(p.MissingValues) > 0 && p.isMissingText(v.String()) {
		return Value{}, false
	}
	return v, true
}

// Display resolves p for display. The boolean is false when nothing is to
// be shown.
func (r *Resolver) Display(p *Path, ctx *binding.Context, focus any) (string, bool) {
	v, ok := r.Read(p, ctx, focus)
	if !ok {
		if p.FallbackKey == "" {
			return "", false
		}
		if s, found := r.message(ctx, p.FallbackKey); found {
			return s, true
		}
		return p.FallbackKey, true
	}

	primary := r.formatValue(p, v)
	if p.CombineKey == "" {
		return primary, true
	}

	args := make([]any, 0, len(p.Aux)+1)
	args = append(args, primary)
	for _, aux := range p.Aux {
		s, _ := r.Display(aux, ctx, focus)
		args = append(args, s)
	}
	if s, found := r.message(ctx, p.CombineKey, args...); found {
		return s, true
	}
	return primary, true
}

func (r *Resolver) formatValue(p *Path, v Value) string {
	switch {
	case p.Format != nil:
		return p.Format(v)
	case r.format != nil:
		return r.format(v)
	default:
		return v.String()
	}
}

func (r *Resolver) message(ctx *binding.Context, key string, args ...any) (string, bool) {
	if r.messages == nil {
		return "", false
	}
	tag := language.English
	if ctx != nil {
		tag = ctx.Locale
	}
	return r.messages.Message(tag, key, args...)
}

// FullPath is the package-level FullPath, for callers holding a Resolver.
func (r *Resolver) FullPath(p *Path, ctx *binding.Context) string {
	return FullPath(p, ctx)
}
