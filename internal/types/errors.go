package types

import "errors"

// Sentinel errors for Ambrosia operations.
var (
	// ErrResolutionMiss indicates a path could not be traversed to a value.
	// Reads never return it; it only flows between internal helpers.
	ErrResolutionMiss = errors.New("property path did not resolve")

	// ErrTargetNotFound indicates the object owning a written property
	// could not be located.
	ErrTargetNotFound = errors.New("write target not found")

	// ErrWriteRefused indicates the target property has no setter or its
	// declared type is not writable from posted values.
	ErrWriteRefused = errors.New("write refused")

	// ErrCoercionFailed indicates a raw posted string did not parse as the
	// declared type. The slot is treated as absent.
	ErrCoercionFailed = errors.New("type coercion failed")

	// ErrInvalidPath indicates a property path string could not be parsed.
	ErrInvalidPath = errors.New("invalid property path")

	// ErrPathTooDeep indicates a property path exceeds MaxPathDepth.
	ErrPathTooDeep = errors.New("property path exceeds maximum depth")

	// ErrUnknownBinding indicates a lookup of a name with no active binding.
	ErrUnknownBinding = errors.New("no active binding")

	// ErrUnbalancedPop indicates Pop was called for a name with no binding.
	ErrUnbalancedPop = errors.New("pop without matching push")

	// ErrNotCollecting indicates EndCollecting without BeginCollecting.
	ErrNotCollecting = errors.New("output is not being collected")

	// ErrInvalidDecision indicates a decision definition is malformed.
	ErrInvalidDecision = errors.New("invalid decision")

	// ErrDecisionTooDeep indicates And/Or nesting exceeds MaxDecisionDepth.
	ErrDecisionTooDeep = errors.New("decision exceeds maximum depth")

	// ErrTooManyConstants indicates a comparison exceeds MaxCompareConstants.
	ErrTooManyConstants = errors.New("comparison has too many constants")

	// ErrDecisionTooCostly indicates a decision exceeds MaxDecisionCost.
	ErrDecisionTooCostly = errors.New("decision exceeds maximum cost")

	// ErrUnknownPredicate indicates a delegate names an unregistered predicate.
	ErrUnknownPredicate = errors.New("unknown predicate")

	// ErrScriptInterrupted indicates a script predicate exceeded its timeout.
	ErrScriptInterrupted = errors.New("script interrupted: timeout")

	// ErrInvalidView indicates a view definition is malformed.
	ErrInvalidView = errors.New("invalid view")
)
