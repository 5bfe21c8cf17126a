package order

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// emailPattern is deliberately loose: something before and after an @, and a
// dot somewhere in the domain part.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// priceTolerance absorbs float rounding when comparing the declared total
// against the line sum (half a cent).
const priceTolerance = 0.005

// CartLine is one product/quantity pair of the incoming checkout payload,
// carrying the unit price as seen by the client at submission.
type CartLine struct {
	ProductID       int     `json:"product_id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
}

// CreateOrderRequest is the untrusted POST /api/orders body.
type CreateOrderRequest struct {
	CustomerName    string          `json:"customer_name"`
	Email           string          `json:"email"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Items           []CartLine      `json:"items"`
	TotalAmount     *float64        `json:"total_amount"`
}

// Demand is the stock requirement for one product, with duplicate cart lines
// for the same product already summed.
type Demand struct {
	ProductID int
	Quantity  int
}

// OrderDraft is the validated, not-yet-persisted representation of one
// checkout attempt.
type OrderDraft struct {
	CustomerName    string
	Email           string
	ShippingAddress ShippingAddress
	Lines           []CartLine
	TotalAmount     float64
	UserID          *int
}

// AssembleDraft normalizes an untrusted payload into an OrderDraft. It is a
// pure shape/range check: no I/O, deterministic, and it fails fast with a
// field-tagged ValidationError on the first defect.
func AssembleDraft(req CreateOrderRequest) (OrderDraft, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return OrderDraft{}, ValidationError{Field: "customer_name", Reason: "is required and must be a non-empty string"}
	}

	email := strings.TrimSpace(req.Email)
	if !emailPattern.MatchString(email) {
		return OrderDraft{}, ValidationError{Field: "email", Reason: "a valid customer email is required"}
	}

	addr := req.ShippingAddress
	for _, sub := range []struct{ field, value string }{
		{"shipping_address.address", addr.Address},
		{"shipping_address.city", addr.City},
		{"shipping_address.postal_code", addr.PostalCode},
		{"shipping_address.country", addr.Country},
	} {
		if strings.TrimSpace(sub.value) == "" {
			return OrderDraft{}, ValidationError{Field: sub.field, Reason: "is required"}
		}
	}

	if len(req.Items) == 0 {
		return OrderDraft{}, ValidationError{Field: "items", Reason: "order must contain at least one item"}
	}
	for i, line := range req.Items {
		if line.ProductID <= 0 {
			return OrderDraft{}, ValidationError{Field: fmt.Sprintf("items[%d].product_id", i), Reason: "must be a positive integer"}
		}
		if line.Quantity <= 0 {
			return OrderDraft{}, ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "must be a positive integer"}
		}
		if line.PriceAtPurchase < 0 {
			return OrderDraft{}, ValidationError{Field: fmt.Sprintf("items[%d].price_at_purchase", i), Reason: "must be non-negative"}
		}
	}

	if req.TotalAmount == nil {
		return OrderDraft{}, ValidationError{Field: "total_amount", Reason: "is required"}
	}
	if *req.TotalAmount < 0 {
		return OrderDraft{}, ValidationError{Field: "total_amount", Reason: "must be non-negative"}
	}

	lines := make([]CartLine, len(req.Items))
	copy(lines, req.Items)

	return OrderDraft{
		CustomerName:    name,
		Email:           email,
		ShippingAddress: addr,
		Lines:           lines,
		TotalAmount:     *req.TotalAmount,
	}, nil
}

// Demands merges the draft's lines per product, summing quantities, so two
// lines of one unit each cannot slip past a single remaining unit of stock.
// First-seen order is preserved.
func (d OrderDraft) Demands() []Demand {
	index := make(map[int]int, len(d.Lines))
	out := make([]Demand, 0, len(d.Lines))
	for _, line := range d.Lines {
		if i, ok := index[line.ProductID]; ok {
			out[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(out)
		out = append(out, Demand{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return out
}

// CheckTotal verifies the declared total against the line sum.
func (d OrderDraft) CheckTotal() error {
	var sum float64
	for _, line := range d.Lines {
		sum += float64(line.Quantity) * line.PriceAtPurchase
	}
	if math.Abs(sum-d.TotalAmount) > priceTolerance {
		return ValidationError{
			Field:  "total_amount",
			Reason: fmt.Sprintf("declared total %.2f does not match line sum %.2f", d.TotalAmount, sum),
		}
	}
	return nil
}
