// internal/view/view.go
package view

import (
	"html"
	"io"
	"log/slog"
	"sort"

	"github.com/microcosm-cc/bluemonday"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/decision"
	"github.com/solatis/ambrosia/internal/property"
)

/*
 * Rendering driver.
 *
 * A view is a tree of Nodes. Rendering walks the tree depth first; each node
 * first evaluates its When decision (nil always renders) and skips itself
 * and its subtree when the decision is false.
 *
 * Output goes to ctx.Writer(), which is the innermost collecting buffer when
 * a parent node is collecting (tables collect each cell). Resolved values
 * are always escaped; rich values go through the UGC sanitising policy.
 */

// DefaultFieldPrefix prefixes the name of every generated form field.
const DefaultFieldPrefix = "amb:"

// Node is one element of a view tree.
type Node interface {
	Render(r *Renderer, ctx *binding.Context, focus any) error
}

// Renderer renders view trees. Safe for concurrent use.
type Renderer struct {
	eval        *decision.Evaluator
	resolver    *property.Resolver
	ugc         *bluemonday.Policy
	strict      *bluemonday.Policy
	fieldPrefix string
	logger      *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFieldPrefix sets the prefix of generated form field names.
func WithFieldPrefix(prefix string) Option {
	return func(r *Renderer) { r.fieldPrefix = prefix }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// NewRenderer builds a renderer evaluating gates with ev.
func NewRenderer(ev *decision.Evaluator, opts ...Option) *Renderer {
	if ev == nil {
		ev = decision.NewEvaluator(nil)
	}
	r := &Renderer{
		eval:        ev,
		resolver:    ev.Resolver(),
		ugc:         bluemonday.UGCPolicy(),
		strict:      bluemonday.StrictPolicy(),
		fieldPrefix: DefaultFieldPrefix,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolver returns the resolver nodes read through.
func (r *Renderer) Resolver() *property.Resolver { return r.resolver }

// FieldPrefix returns the prefix of generated form field names.
func (r *Renderer) FieldPrefix() string { return r.fieldPrefix }

// Render renders root for focus into ctx.Writer().
func (r *Renderer) Render(ctx *binding.Context, root Node, focus any) error {
	if root == nil {
		return nil
	}
	if err := root.Render(r, ctx, focus); err != nil {
		r.logger.Warn("render failed", "render_id", ctx.ID, "error", err)
		return err
	}
	return nil
}

// renderAll renders nodes in order and stops at the first error.
func (r *Renderer) renderAll(ctx *binding.Context, nodes []Node, focus any) error {
	for _, n := range nodes {
		if err := n.Render(r, ctx, focus); err != nil {
			return err
		}
	}
	return nil
}

// gate evaluates an optional When decision.
func (r *Renderer) gate(ctx *binding.Context, when *decision.Decision, focus any) (bool, error) {
	if when == nil {
		return true, nil
	}
	return r.eval.Evaluate(when, ctx, focus)
}

func write(ctx *binding.Context, s string) error {
	_, err := io.WriteString(ctx.Writer(), s)
	return err
}

func escape(s string) string { return html.EscapeString(s) }

// attrs renders attributes sorted by name.
func attrs(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += " " + escape(k) + `="` + escape(m[k]) + `"`
	}
	return out
}
