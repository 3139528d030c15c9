// internal/decision/decision.go
package decision

import (
	"strconv"
	"strings"

	"github.com/solatis/ambrosia/internal/binding"
	"github.com/solatis/ambrosia/internal/property"
)

/*
 * Boolean decisions gating rendering.
 *
 * A Decision is one node of a predicate tree. Leaf kinds read a property
 * path through the resolver; And/Or combine children; Delegate hands the
 * question to an external Predicate. Every kind honours Reversed, applied
 * after the base result.
 *
 * Decisions are immutable once constructed. Not returns a negated copy and
 * never touches its argument, so one tree can be shared by every render.
 */

// Kind identifies the variant of a Decision.
type Kind int

const (
	KindTruthy Kind = iota
	KindAnd
	KindOr
	KindCompare
	KindHasValue
	KindPastDate
	KindDelegate
)

var kindNames = [...]string{"truthy", "and", "or", "compare", "has_value", "past_date", "delegate"}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Predicate is externally supplied logic behind a Delegate decision.
type Predicate func(d *Decision, ctx *binding.Context, focus any) (bool, error)

// Decision is a node of a boolean predicate tree.
type Decision struct {
	Kind      Kind
	Path      *property.Path
	Other     *property.Path
	Constants []string
	Children  []*Decision
	Predicate Predicate
	Name      string // delegate name, for diagnostics
	Reversed  bool
}

// Truthy holds when the display of p is "true", ignoring case.
func Truthy(p *property.Path) *Decision {
	return &Decision{Kind: KindTruthy, Path: p}
}

// And holds when every child holds. And() is true.
func And(children ...*Decision) *Decision {
	return &Decision{Kind: KindAnd, Children: children}
}

// Or holds when any child holds. Or() is false.
func Or(children ...*Decision) *Decision {
	return &Decision{Kind: KindOr, Children: children}
}

// Compare holds when the displays of p and other are equal, ignoring case.
func Compare(p, other *property.Path) *Decision {
	return &Decision{Kind: KindCompare, Path: p, Other: other}
}

// CompareConstants holds when the display of p is exactly one of constants.
func CompareConstants(p *property.Path, constants ...string) *Decision {
	return &Decision{Kind: KindCompare, Path: p, Constants: constants}
}

// HasValue holds when p resolves to a non-empty value.
func HasValue(p *property.Path) *Decision {
	return &Decision{Kind: KindHasValue, Path: p}
}

// PastDate holds when p resolves to an instant strictly before now.
func PastDate(p *property.Path) *Decision {
	return &Decision{Kind: KindPastDate, Path: p}
}

// Delegate defers to fn. Its errors reach the caller of Evaluate.
func Delegate(name string, fn Predicate) *Decision {
	return &Decision{Kind: KindDelegate, Name: name, Predicate: fn}
}

// Not returns a copy of d with Reversed flipped.
func Not(d *Decision) *Decision {
	c := *d
	c.Reversed = !d.Reversed
	return &c
}

// String renders the tree in a compact prefix form, for logs and the CLI.
func (d *Decision) String() string {
	var b strings.Builder
	d.write(&b)
	return b.String()
}

func (d *Decision) write(b *strings.Builder) {
	if d.Reversed {
		b.WriteString("not ")
	}
	b.WriteString(d.Kind.String())
	b.WriteByte('(')
	switch d.Kind {
	case KindAnd, KindOr:
		for i, c := range d.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			c.write(b)
		}
	case KindDelegate:
		b.WriteString(d.Name)
	default:
		if d.Path != nil {
			b.WriteString(d.Path.String())
		}
		if d.Other != nil {
			b.WriteString(", ")
			b.WriteString(d.Other.String())
		}
		if len(d.Constants) > 0 {
			b.WriteString(", [")
			b.WriteString(strings.Join(d.Constants, " "))
			b.WriteByte(']')
		}
	}
	b.WriteByte(')')
}
