// internal/script/script.go
package script

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dop251/goja"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/decision"
	"github.com/solatis/ambrosia/internal/property"
	"github.com/solatis/ambrosia/internal/types"
)

/*
 * JavaScript-backed delegate predicates.
 *
 * Sources are compiled once into a goja.Program, wrapped in a function body
 * so they can "return". Each evaluation runs on a fresh goja.Runtime, which
 * keeps predicates free of shared state. The result is converted with
 * ToBoolean.
 *
 * The runtime exposes one object, _, with:
 *
 *   prop(path)   display string of the path, or null when MISSING
 *   raw(path)    exported raw object of the path, or null
 *   has(path)    true when the path resolves to a non-MISSING value
 *   bindings     names of the active bindings
 *   focus        the focus object
 *   log(x)       debug log through slog
 *
 * A script running past the engine timeout is interrupted and reports
 * types.ErrScriptInterrupted.
 */

// Prefix is the registry prefix handled by Register.
const Prefix = "script"

// DefaultTimeout bounds a single predicate run.
const DefaultTimeout = 100 * time.Millisecond

// Engine compiles and runs script predicates.
type Engine struct {
	resolver *property.Resolver
	timeout  time.Duration
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-run timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithLogger sets the logger backing _.log.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine builds an Engine reading paths through r.
func NewEngine(r *property.Resolver, opts ...Option) *Engine {
	if r == nil {
		r = property.NewResolver()
	}
	e := &Engine{resolver: r, timeout: DefaultTimeout, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register installs the engine as the "script:" factory of reg.
func Register(reg *decision.Registry, e *Engine) {
	reg.RegisterFactory(Prefix, e.Predicate)
}

// Program is a compiled predicate source.
type Program struct {
	engine *Engine
	prog   *goja.Program
	source string
}

// Compile compiles src.
func (e *Engine) Compile(src string) (*Program, error) {
	prog, err := goja.Compile("predicate", fmt.Sprintf("(function() {\n%s\n}());\n", src), true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidDecision, err)
	}
	return &Program{engine: e, prog: prog, source: src}, nil
}

// Predicate compiles src into a decision predicate.
func (e *Engine) Predicate(src string) (decision.Predicate, error) {
	p, err := e.Compile(src)
	if err != nil {
		return nil, err
	}
	return p.Eval, nil
}

// Eval runs the program for one decision evaluation.
func (p *Program) Eval(d *decision.Decision, ctx *binding.Context, focus any) (bool, error) {
	e := p.engine
	o := goja.New()
	name := "anonymous"
	if d != nil && d.Name != "" {
		name = d.Name
	}

	parse := func(s string) *property.Path {
		path, err := property.Parse(s)
		if err != nil {
			panic(o.NewGoError(err))
		}
		return path
	}

	var names []string
	if ctx != nil {
		names = ctx.Names()
	}
	env := map[string]any{
		"bindings": names,
		"focus":    focus,
		"prop": func(s string) any {
			v, ok := e.resolver.Display(parse(s), ctx, focus)
			if !ok {
				return nil
			}
			return v
		},
		"raw": func(s string) any {
			return e.resolver.ReadObject(parse(s), ctx, focus)
		},
		"has": func(s string) bool {
			_, ok := e.resolver.Read(parse(s), ctx, focus)
			return ok
		},
		"log": func(x goja.Value) {
			attrs := []any{"predicate", name}
			if ctx != nil {
				attrs = append(attrs, "render_id", ctx.ID)
			}
			e.logger.Debug(x.String(), attrs...)
		},
	}
	if err := o.Set("_", env); err != nil {
		return false, err
	}

	if e.timeout > 0 {
		timer := time.AfterFunc(e.timeout, func() { o.Interrupt(types.ErrScriptInterrupted) })
		defer timer.Stop()
	}

	v, err := o.RunProgram(p.prog)
	if err != nil {
		if _, is := err.(*goja.InterruptedError); is {
			return false, types.ErrScriptInterrupted
		}
		return false, fmt.Errorf("predicate %s: %w", name, err)
	}
	return v.ToBoolean(), nil
}

// Source returns the uncompiled source.
func (p *Program) Source() string { return p.source }
