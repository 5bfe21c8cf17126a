package order

import (
	"context"
	"database/sql"
)

// Repository defines persistence operations for orders. Insert runs inside
// the checkout service's transaction and must not commit or roll back;
// GetByID is the read side and runs on the pool.
type Repository interface {
	Insert(ctx context.Context, tx *sql.Tx, ord Order, lines []OrderLine) (int, error)
	GetByID(ctx context.Context, id int) (OrderView, error)
}
