package order

import "fmt"

// PlanningError means a preview could not be computed from the given
// inputs, e.g. a missing price for a requested symbol.
type PlanningError struct {
	Symbol string
	Reason string
}

func (e *PlanningError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("planning error: %s: %s", e.Symbol, e.Reason)
	}
	return fmt.Sprintf("planning error: %s", e.Reason)
}
