package portfolio

import "fmt"

// InfeasibleWeightsError means the requested bounds cannot be satisfied
// simultaneously. Constraint names the offending condition.
type InfeasibleWeightsError struct {
	Constraint string
}

func (e *InfeasibleWeightsError) Error() string {
	return fmt.Sprintf("infeasible weights: %s", e.Constraint)
}

// ValidationError covers malformed weight requests (empty set, duplicate
// symbols, inverted bounds).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid weight request: %s: %s", e.Field, e.Reason)
}
