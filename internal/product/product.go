package product

// Product maps to the `products` table: one refurbished item in the catalog.
// Stock is mutated only by order placement (atomic decrement) or seller edits;
// rows referenced by order_items are delete-restricted.
type Product struct {
	ID             int               `json:"id"`
	Name           string            `json:"name"`
	Description    *string           `json:"description,omitempty"`
	Price          float64           `json:"price"`
	Condition      string            `json:"condition"`
	StockQuantity  int               `json:"stock_quantity"`
	CategoryID     *int              `json:"category_id,omitempty"`
	SellerID       *int              `json:"seller_id,omitempty"`
	ImageURL       *string           `json:"image_url,omitempty"`
	Images         []string          `json:"images,omitempty"`
	WarrantyInfo   *string           `json:"warranty_info,omitempty"`
	KeyFeatures    []string          `json:"key_features,omitempty"`
	Brand          *string           `json:"brand,omitempty"`
	Model          *string           `json:"model,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	CreatedAt      *string           `json:"created_at,omitempty"`
	UpdatedAt      *string           `json:"updated_at,omitempty"`
}

// AllowedConditions contains the grading labels accepted for refurbished goods.
var AllowedConditions = []string{
	"Excellent",
	"Good",
	"Fair",
}
