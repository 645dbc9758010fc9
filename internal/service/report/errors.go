package report

import "fmt"

// NotFoundError means the requested symbol is not in the holdings book.
type NotFoundError struct {
	Symbol string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("symbol not held: %s", e.Symbol)
}
