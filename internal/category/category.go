package category

// Category mirrors a row of the `categories` table. Products reference
// categories with ON DELETE SET NULL, so a category can disappear without
// touching the catalog.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
