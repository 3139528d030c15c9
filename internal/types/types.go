// Package types provides domain models shared across Ambrosia components.
//
// Zero-dependency design: types.go, path.go and errors.go use only the standard
// library so the property and decision packages stay cheap to import. ID
// utilities in ids.go import uuid but are isolated for selective inclusion.
package types

// RenderID identifies one render (one request-scoped binding context).
// UUIDv7 time-ordering keeps log lines from the same period adjacent.
type RenderID string

// Limits enforced when paths and decisions are parsed or compiled.
const (
	// MaxPathDepth bounds the number of segments in a property path.
	// 16 levels covers assessment.questions.[n].choices.[m].label style
	// references with room to spare.
	MaxPathDepth = 16

	// MaxDecisionDepth bounds And/Or nesting in compiled decisions.
	MaxDecisionDepth = 32

	// MaxCompareConstants bounds the constant set of a comparison decision.
	MaxCompareConstants = 64

	// MaxDecisionCost bounds the static evaluation cost of a compiled
	// decision tree (see decision.Cost).
	MaxDecisionCost = 1 << 16
)
