// internal/decision/evaluate.go
package decision

import (
	"strings"
	"time"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/property"
)

/*
 * Decision evaluation.
 *
 * Evaluation flow per node:
 *   1. Compute the base result for the node's kind
 *   2. And/Or walk children left to right and stop at the first child that
 *      settles the group
 *   3. Apply Reversed
 *
 * Only Delegate can fail. Its error is returned unchanged and aborts the
 * enclosing groups; every other kind maps resolution problems to false.
 * Evaluation reads the context but never mutates it or the decision.
 */

// Evaluator evaluates decisions. Safe for concurrent use.
type Evaluator struct {
	resolver *property.Resolver
	now      func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock sets the clock PastDate compares against.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// NewEvaluator builds an Evaluator reading paths through r.
func NewEvaluator(r *property.Resolver, opts ...Option) *Evaluator {
	if r == nil {
		r = property.NewResolver()
	}
	e := &Evaluator{resolver: r, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolver returns the resolver paths are read through.
func (e *Evaluator) Resolver() *property.Resolver { return e.resolver }

// Evaluate reports whether d holds for focus under ctx. A nil decision
// holds.
func (e *Evaluator) Evaluate(d *Decision, ctx *binding.Context, focus any) (bool, error) {
	if d == nil {
		return true, nil
	}
	base, err := e.base(d, ctx, focus)
	if err != nil {
		return false, err
	}
	return base != d.Reversed, nil
}

func (e *Evaluator) base(d *Decision, ctx *binding.Context, focus any) (bool, error) {
	switch d.Kind {
	case KindTruthy:
		s, ok := e.resolver.Display(d.Path, ctx, focus)
		return ok && strings.EqualFold(s, "true"), nil
	case KindAnd:
		for _, c := range d.Children {
			ok, err := e.Evaluate(c, ctx, focus)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case KindOr:
		for _, c := range d.Children {
			ok, err := e.Evaluate(c, ctx, focus)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	case KindCompare:
		return e.compare(d, ctx, focus), nil
	case KindHasValue:
		return hasValue(e.resolver.ReadObject(d.Path, ctx, focus)), nil
	case KindPastDate:
		return pastDate(e.resolver.ReadObject(d.Path, ctx, focus), e.now()), nil
	case KindDelegate:
		if d.Predicate == nil {
			return false, nil
		}
		return d.Predicate(d, ctx, focus)
	default:
		return false, nil
	}
}
