// internal/decision/cost.go
package decision

/*
 * Static cost model for decision trees.
 *
 * cost = sum over nodes of (node_cost + lookup_cost * path_segments)
 *
 * Compile rejects trees above types.MaxDecisionCost so a definition file
 * cannot produce a gate that dominates render time. Delegates are charged
 * the most since they run arbitrary code.
 */

const (
	CostTruthy   = 2
	CostGroup    = 1
	CostCompare  = 4
	CostConstant = 1 // per constant in the set
	CostHasValue = 1
	CostPastDate = 2
	CostDelegate = 256

	// Lookup cost per path segment, plus one for the root.
	CostLookupPerSegment = 8
)

// Cost computes the static evaluation cost of d.
func Cost(d *Decision) int {
	if d == nil {
		return 0
	}
	switch d.Kind {
	case KindAnd, KindOr:
		total := CostGroup
		for _, c := range d.Children {
			total += Cost(c)
		}
		return total
	case KindTruthy:
		return CostTruthy + lookupCost(d)
	case KindCompare:
		return CostCompare + CostConstant*len(d.Constants) + lookupCost(d)
	case KindHasValue:
		return CostHasValue + lookupCost(d)
	case KindPastDate:
		return CostPastDate + lookupCost(d)
	case KindDelegate:
		return CostDelegate
	default:
		return 0
	}
}

func lookupCost(d *Decision) int {
	cost := 0
	if d.Path != nil {
		cost += CostLookupPerSegment * (len(d.Path.Segments) + 1)
	}
	if d.Other != nil {
		cost += CostLookupPerSegment * (len(d.Other.Segments) + 1)
	}
	return cost
}
