// internal/decision/compile.go
package decision

import (
	"fmt"

	"github.com/solatis/ambrosia/internal/definition"
	"github.com/solatis/ambrosia/internal/property"
	"github.com/solatis/ambrosia/internal/types"
)

/*
 * Decision compilation and validation.
 *
 * Compiles definition.Decision into an immutable *Decision tree.
 *
 * Compilation workflow:
 *   1. Check the node sets exactly one kind
 *   2. Parse paths (depth limit enforced by property.Parse)
 *   3. Check constant count and nesting depth
 *   4. Resolve delegate names and refs
 *   5. Check total cost against types.MaxDecisionCost
 *
 * Refs name other decisions of the same document. Each named decision is
 * compiled once per Compiler and the resulting tree is shared by every ref.
 * Cost is summed while the tree is built and checked at every group, so a
 * wide fan-out of refs fails as soon as it passes the limit.
 * A ref cycle surfaces as ErrDecisionTooDeep.
 *
 * A Compiler caches compiled refs and is not safe for concurrent use.
 */

// Compiler compiles decision definitions.
type Compiler struct {
	registry *Registry
	named    map[string]definition.Decision
	pathOpts []property.Option
	refs     map[string]compiled
}

// compiled is a built subtree with its static cost and height.
type compiled struct {
	d      *Decision
	cost   int
	height int
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithPathOptions applies opts to every path the compiler parses, before
// the options of the definition itself.
func WithPathOptions(opts ...property.Option) CompilerOption {
	return func(c *Compiler) {
		c.pathOpts = append(c.pathOpts, opts...)
	}
}

// NewCompiler builds a compiler resolving delegates through reg and refs
// through named. Either may be nil.
func NewCompiler(reg *Registry, named map[string]definition.Decision, opts ...CompilerOption) *Compiler {
	if reg == nil {
		reg = NewRegistry()
	}
	c := &Compiler{registry: reg, named: named, refs: make(map[string]compiled)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile validates def and builds its decision tree.
func Compile(def *definition.Decision, reg *Registry) (*Decision, error) {
	return NewCompiler(reg, nil).Compile(def)
}

// Compile validates def and builds its decision tree.
func (c *Compiler) Compile(def *definition.Decision) (*Decision, error) {
	r, err := c.compile(def, 0)
	if err != nil {
		return nil, err
	}
	if r.cost > types.MaxDecisionCost {
		return nil, fmt.Errorf("%w: %d", types.ErrDecisionTooCostly, r.cost)
	}
	return r.d, nil
}

// CompileNamed compiles the named decision of the compiler's document.
func (c *Compiler) CompileNamed(name string) (*Decision, error) {
	def, ok := c.named[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown decision %q", types.ErrInvalidDecision, name)
	}
	return c.Compile(&def)
}

// ParsePath parses s with the compiler's path options followed by opts.
func (c *Compiler) ParsePath(s string, opts ...property.Option) (*property.Path, error) {
	all := make([]property.Option, 0, len(c.pathOpts)+len(opts))
	all = append(all, c.pathOpts...)
	all = append(all, opts...)
	return property.Parse(s, all...)
}

func (c *Compiler) compile(def *definition.Decision, depth int) (compiled, error) {
	if depth > types.MaxDecisionDepth {
		return compiled{}, types.ErrDecisionTooDeep
	}
	if n := kindCount(def); n != 1 {
		return compiled{}, fmt.Errorf("%w: %d kinds set, want exactly one", types.ErrInvalidDecision, n)
	}

	var r compiled
	switch {
	case def.All != nil || def.Any != nil:
		group := def.All
		build := And
		if def.Any != nil {
			group, build = def.Any, Or
		}
		r.cost = CostGroup
		children := make([]*Decision, 0, len(group))
		for i := range group {
			child, err := c.compile(&group[i], depth+1)
			if err != nil {
				return compiled{}, err
			}
			r.cost += child.cost
			if r.cost > types.MaxDecisionCost {
				return compiled{}, fmt.Errorf("%w: over %d", types.ErrDecisionTooCostly, types.MaxDecisionCost)
			}
			r.height = max(r.height, child.height+1)
			children = append(children, child.d)
		}
		r.d = build(children...)

	case def.Truthy != "":
		p, err := c.path(def.Truthy, def.Missing)
		if err != nil {
			return compiled{}, err
		}
		r.d = Truthy(p)

	case def.Compare != "":
		p, err := c.path(def.Compare, def.Missing)
		if err != nil {
			return compiled{}, err
		}
		switch {
		case def.With != "" && len(def.In) > 0:
			return compiled{}, fmt.Errorf("%w: compare takes either with or in", types.ErrInvalidDecision)
		case def.With != "":
			other, err := c.path(def.With, def.Missing)
			if err != nil {
				return compiled{}, err
			}
			r.d = Compare(p, other)
		case len(def.In) > types.MaxCompareConstants:
			return compiled{}, fmt.Errorf("%w: %d", types.ErrTooManyConstants, len(def.In))
		case len(def.In) > 0:
			r.d = CompareConstants(p, append([]string(nil), def.In...)...)
		default:
			return compiled{}, fmt.Errorf("%w: compare needs with or in", types.ErrInvalidDecision)
		}

	case def.HasValue != "":
		p, err := c.path(def.HasValue, nil)
		if err != nil {
			return compiled{}, err
		}
		r.d = HasValue(p)

	case def.PastDate != "":
		p, err := c.path(def.PastDate, nil)
		if err != nil {
			return compiled{}, err
		}
		r.d = PastDate(p)

	case def.Delegate != "":
		fn, err := c.registry.Lookup(def.Delegate)
		if err != nil {
			return compiled{}, err
		}
		r.d = Delegate(def.Delegate, fn)

	case def.Ref != "":
		target, err := c.ref(def.Ref, depth+1)
		if err != nil {
			return compiled{}, err
		}
		if depth+1+target.height > types.MaxDecisionDepth {
			return compiled{}, types.ErrDecisionTooDeep
		}
		r = compiled{d: target.d, cost: target.cost, height: target.height + 1}
	}

	if r.cost == 0 {
		r.cost = Cost(r.d)
	}
	if def.Not {
		r.d = Not(r.d)
	}
	return r, nil
}

// ref compiles the named decision once and returns the cached tree after.
func (c *Compiler) ref(name string, depth int) (compiled, error) {
	if r, ok := c.refs[name]; ok {
		return r, nil
	}
	def, ok := c.named[name]
	if !ok {
		return compiled{}, fmt.Errorf("%w: unknown decision %q", types.ErrInvalidDecision, name)
	}
	r, err := c.compile(&def, depth)
	if err != nil {
		return compiled{}, err
	}
	c.refs[name] = r
	return r, nil
}

func (c *Compiler) path(s string, missing []string) (*property.Path, error) {
	var opts []property.Option
	if len(missing) > 0 {
		opts = append(opts, property.WithMissing(missing...))
	}
	p, err := c.ParsePath(s, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidDecision, err)
	}
	return p, nil
}

func kindCount(def *definition.Decision) int {
	n := 0
	for _, set := range []bool{
		def.All != nil,
		def.Any != nil,
		def.Truthy != "",
		def.Compare != "",
		def.HasValue != "",
		def.PastDate != "",
		def.Delegate != "",
		def.Ref != "",
	} {
		if set {
			n++
		}
	}
	return n
}
