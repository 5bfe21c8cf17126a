package order

import "fmt"

// The checkout error taxonomy. Callers classify with errors.As; anything that
// is none of these is an infrastructure fault wrapped in InfrastructureError.

// ValidationError reports malformed or missing input, or a declared total
// that does not match the cart lines. The client's fault; not retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError reports a referenced resource that does not exist.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Resource, e.ID)
}

// InsufficientStockError reports a demand exceeding the available stock at
// the instant of reservation.
type InsufficientStockError struct {
	ProductID int
	Available int
	Requested int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product ID %d. Available: %d, Requested: %d",
		e.ProductID, e.Available, e.Requested)
}

// InfrastructureError wraps storage or connection failures. A failed attempt
// leaves no partial state, so retrying the whole operation is safe.
type InfrastructureError struct {
	Err error
}

func (e InfrastructureError) Error() string {
	return fmt.Sprintf("infrastructure failure: %v", e.Err)
}

func (e InfrastructureError) Unwrap() error {
	return e.Err
}
