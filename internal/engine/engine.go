// Package engine wires configuration into the rendering components.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/core/config"
	"github.com/solatis/ambrosia/internal/decision"
	"github.com/solatis/ambrosia/internal/definition"
	"github.com/solatis/ambrosia/internal/form"
	"github.com/solatis/ambrosia/internal/messages"
	"github.com/solatis/ambrosia/internal/property"
	"github.com/solatis/ambrosia/internal/script"
	"github.com/solatis/ambrosia/internal/types"
	"github.com/solatis/ambrosia/internal/view"
)

// Engine holds the shared, immutable components of one process. Every
// request gets its own binding.Context from NewContext.
type Engine struct {
	Config    *config.Config
	Logger    *slog.Logger
	Messages  *messages.Catalog
	Resolver  *property.Resolver
	Evaluator *decision.Evaluator
	Registry  *decision.Registry
	Scripts   *script.Engine
	Renderer  *view.Renderer
	Decoder   *form.Decoder
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	clock func() time.Time
}

// WithClock sets the clock PastDate decisions compare against.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// New builds an Engine from cfg.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	catalog := messages.New(cfg.Messages.Fallback)
	if cfg.Messages.Dir != "" {
		if err := catalog.LoadDir(cfg.Messages.Dir); err != nil {
			return nil, fmt.Errorf("load messages: %w", err)
		}
	}

	var format property.Formatter
	if cfg.Render.Location != nil {
		loc, layout := cfg.Render.Location, cfg.Render.TimeLayout
		format = func(v property.Value) string {
			if t, ok := v.Time(); ok {
				return t.In(loc).Format(layout)
			}
			return v.String()
		}
	}

	resolver := property.NewResolver(
		property.WithMessages(catalog),
		property.WithLogger(logger),
		property.WithTimeLayout(cfg.Render.TimeLayout),
		property.WithLocation(cfg.Render.Location),
		property.WithFormatter(format),
	)
	evaluator := decision.NewEvaluator(resolver, decision.WithClock(o.clock))
	registry := decision.NewRegistry()
	scripts := script.NewEngine(resolver, script.WithTimeout(cfg.Script.Timeout), script.WithLogger(logger))
	script.Register(registry, scripts)

	return &Engine{
		Config:    cfg,
		Logger:    logger,
		Messages:  catalog,
		Resolver:  resolver,
		Evaluator: evaluator,
		Registry:  registry,
		Scripts:   scripts,
		Renderer:  view.NewRenderer(evaluator, view.WithFieldPrefix(cfg.Render.FieldPrefix), view.WithLogger(logger)),
		Decoder: form.NewDecoder(resolver,
			form.WithPrefix(cfg.Render.FieldPrefix),
			form.WithMaxDepth(cfg.Render.MaxPathDepth),
			form.WithLogger(logger)),
	}, nil
}

// NewContext returns a request context writing to out in the configured
// locale. opts apply after the defaults.
func (e *Engine) NewContext(out io.Writer, opts ...binding.Option) *binding.Context {
	return binding.New(out, append([]binding.Option{binding.WithLocale(e.Config.Render.Locale)}, opts...)...)
}

// Path parses s with the configured missing values.
func (e *Engine) Path(s string) (*property.Path, error) {
	p, err := property.Parse(s, e.pathOptions()...)
	if err != nil {
		return nil, err
	}
	if len(p.Segments) > e.Config.Render.MaxPathDepth {
		return nil, fmt.Errorf("%w: %s", types.ErrPathTooDeep, s)
	}
	return p, nil
}

// pathOptions are applied to every path the engine parses or compiles.
func (e *Engine) pathOptions() []property.Option {
	if len(e.Config.Render.MissingValues) == 0 {
		return nil
	}
	return []property.Option{property.WithMissing(e.Config.Render.MissingValues...)}
}

// Decision compiles the named decision of doc.
func (e *Engine) Decision(doc *definition.Document, name string) (*decision.Decision, error) {
	return decision.NewCompiler(e.Registry, doc.Decisions,
		decision.WithPathOptions(e.pathOptions()...)).CompileNamed(name)
}

// View compiles the named view of doc.
func (e *Engine) View(doc *definition.Document, name string) (view.Node, error) {
	return view.CompileDocument(doc, name, e.Registry,
		decision.WithPathOptions(e.pathOptions()...))
}

// Render renders the named view of doc for focus into out.
func (e *Engine) Render(out io.Writer, doc *definition.Document, name string, focus any, opts ...binding.Option) error {
	node, err := e.View(doc, name)
	if err != nil {
		return err
	}
	ctx := e.NewContext(out, opts...)
	e.Logger.Debug("rendering view", "render_id", ctx.ID, "view", name)
	return e.Renderer.Render(ctx, node, focus)
}
