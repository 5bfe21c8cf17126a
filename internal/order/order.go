package order

import "time"

// Status tracks an order through fulfilment. Placement only ever creates
// orders as StatusPending; later transitions are driven elsewhere.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// ShippingAddress is persisted denormalized as a JSONB value on the order row.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Order is the persisted order header. Created exactly once, atomically, by
// the checkout service.
type Order struct {
	ID              int             `json:"id"`
	CustomerName    string          `json:"customer_name"`
	Email           string          `json:"email"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	TotalAmount     float64         `json:"total_amount"`
	Status          Status          `json:"status"`
	UserID          *int            `json:"user_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderLine is one product entry within an order. PriceAtPurchase snapshots
// the product price at order time and is never recomputed from the live row.
type OrderLine struct {
	ID              int     `json:"id"`
	OrderID         int     `json:"order_id"`
	ProductID       int     `json:"product_id"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
}

// ViewLine is an OrderLine annotated with the product's current display
// name and image for the read side.
type ViewLine struct {
	OrderLine
	ProductName     string  `json:"product_name"`
	ProductImageURL *string `json:"product_image_url,omitempty"`
}

// OrderView is the denormalized read view: header plus joined lines.
type OrderView struct {
	Order
	Items []ViewLine `json:"items"`
}
