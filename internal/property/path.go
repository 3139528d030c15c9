// internal/property/path.go
package property

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/types"
)

/*
 * Property paths.
 *
 * A Path is an optional root binding name followed by named and index
 * segments. Textual form:
 *
 *   ${row}.items.[2].label    rooted at binding "row"
 *   items.[2].label           rooted at the focus object
 *   ${row}                    the binding itself
 *
 * "items[2]" is accepted on input and printed back as "items.[2]". Paths are
 * immutable once built; Options only apply during construction.
 *
 * Depth is limited to types.MaxPathDepth segments, checked in Parse the way
 * compiled rules check their field paths up front.
 */

// Formatter renders a resolved value for display.
type Formatter func(v Value) string

// Path locates a property relative to a binding or the focus object.
type Path struct {
	Binding       string
	Segments      []types.PathSegment
	MissingValues map[string]struct{}
	FallbackKey   string
	CombineKey    string
	Aux           []*Path
	Format        Formatter
}

// Option configures a Path at construction.
type Option func(*Path)

// WithMissing treats the given display strings as MISSING.
func WithMissing(values ...string) Option {
	return func(p *Path) {
		if p.MissingValues == nil {
			p.MissingValues = make(map[string]struct{}, len(values))
		}
		for _, v := range values {
			p.MissingValues[v] = struct{}{}
		}
	}
}

// WithFallback displays the message for key when the path is MISSING.
func WithFallback(key string) Option {
	return func(p *Path) { p.FallbackKey = key }
}

// WithCombine formats [primary, aux...] through the message for key.
func WithCombine(key string, aux ...*Path) Option {
	return func(p *Path) {
		p.CombineKey = key
		p.Aux = append(p.Aux, aux...)
	}
}

// WithFormat overrides the natural string form of the resolved value.
func WithFormat(f Formatter) Option {
	return func(p *Path) { p.Format = f }
}

// New builds a path from its parts.
func New(bindingName string, segments []types.PathSegment, opts ...Option) *Path {
	p := &Path{Binding: bindingName, Segments: append([]types.PathSegment(nil), segments...)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads the textual form of a path.
func Parse(s string, opts ...Option) (*Path, error) {
	s = strings.TrimSpace(s)
	p := &Path{}

	rest := s
	if strings.HasPrefix(rest, "${") {
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated binding in %q", types.ErrInvalidPath, s)
		}
		p.Binding = rest[2:end]
		if p.Binding == "" {
			return nil, fmt.Errorf("%w: empty binding name in %q", types.ErrInvalidPath, s)
		}
		rest = rest[end+1:]
		if rest != "" {
			if rest[0] != '.' {
				return nil, fmt.Errorf("%w: expected '.' after binding in %q", types.ErrInvalidPath, s)
			}
			rest = rest[1:]
			if rest == "" {
				return nil, fmt.Errorf("%w: trailing '.' in %q", types.ErrInvalidPath, s)
			}
		}
	} else if rest == "" {
		return nil, fmt.Errorf("%w: empty path", types.ErrInvalidPath)
	}

	if rest != "" {
		for _, part := range strings.Split(rest, ".") {
			segs, err := parsePart(part)
			if err != nil {
				return nil, fmt.Errorf("%w: %v in %q", types.ErrInvalidPath, err, s)
			}
			p.Segments = append(p.Segments, segs...)
		}
	}

	if len(p.Segments) > types.MaxPathDepth {
		return nil, fmt.Errorf("%w: %d segments in %q", types.ErrPathTooDeep, len(p.Segments), s)
	}

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// MustParse is like Parse but panics on error. For static paths only.
func MustParse(s string, opts ...Option) *Path {
	p, err := Parse(s, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// parsePart splits one dot-separated part: "name", "[2]" or "name[2][3]".
func parsePart(part string) ([]types.PathSegment, error) {
	if part == "" {
		return nil, fmt.Errorf("empty segment")
	}
	var segs []types.PathSegment
	name := part
	if i := strings.IndexByte(part, '['); i >= 0 {
		name = part[:i]
		part = part[i:]
	} else {
		part = ""
	}
	if name != "" {
		if strings.ContainsAny(name, "]${} ") {
			return nil, fmt.Errorf("bad segment name %q", name)
		}
		segs = append(segs, types.Key(name))
	}
	for part != "" {
		if part[0] != '[' {
			return nil, fmt.Errorf("unexpected %q", part)
		}
		end := strings.IndexByte(part, ']')
		if end < 0 {
			return nil, fmt.Errorf("unterminated index")
		}
		n, err := strconv.Atoi(part[1:end])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad index %q", part[1:end])
		}
		segs = append(segs, types.Index(n))
		part = part[end+1:]
	}
	return segs, nil
}

// String returns the canonical textual form.
func (p *Path) String() string {
	var b strings.Builder
	if p.Binding != "" {
		b.WriteString("${")
		b.WriteString(p.Binding)
		b.WriteString("}")
	}
	for i, seg := range p.Segments {
		if i > 0 || p.Binding != "" {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// Child returns a copy of p extended by segs. Display options are not copied.
func (p *Path) Child(segs ...types.PathSegment) *Path {
	out := &Path{Binding: p.Binding}
	out.Segments = make([]types.PathSegment, 0, len(p.Segments)+len(segs))
	out.Segments = append(out.Segments, p.Segments...)
	out.Segments = append(out.Segments, segs...)
	return out
}

func (p *Path) isMissingText(s string) bool {
	_, ok := p.MissingValues[s]
	return ok
}

// FullPath returns the path with its root binding replaced by the binding's
// active encoding. Parsing the result and resolving it against the
// encoding's root locates the same element. Paths without a binding, or
// whose binding has no encoding, print unchanged.
func FullPath(p *Path, ctx *binding.Context) string {
	if p.Binding == "" || ctx == nil {
		return p.String()
	}
	enc, ok := ctx.Encoding(p.Binding)
	if !ok {
		return p.String()
	}
	if len(p.Segments) == 0 {
		return enc
	}
	rel := &Path{Segments: p.Segments}
	return enc + "." + rel.String()
}
