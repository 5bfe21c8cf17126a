package order

import (
	"context"
	"database/sql"
)

// reserveStockQuery is the heart of the checkout: check and decrement in one
// conditional write, so two reservations racing for the last unit can never
// both pass. Rows-affected tells us whether the reservation took.
const reserveStockQuery = `UPDATE products
	SET stock_quantity = stock_quantity - $2, updated_at = now()
	WHERE id = $1 AND stock_quantity >= $2`

const stockByIDQuery = `SELECT stock_quantity FROM products WHERE id = $1`

// InventoryGuard validates and atomically reserves stock for a list of
// demands inside the caller's transaction. It never commits or rolls back;
// on any error the enclosing transaction is expected to be rolled back,
// which undoes every decrement applied so far.
type InventoryGuard struct{}

func NewInventoryGuard() *InventoryGuard {
	return &InventoryGuard{}
}

// Reserve decrements stock for every demand, or fails with a typed error and
// no surviving decrement (once the caller rolls back). Demands must already
// be merged per product (OrderDraft.Demands does this).
func (g *InventoryGuard) Reserve(ctx context.Context, tx *sql.Tx, demands []Demand) error {
	for _, d := range demands {
		res, err := tx.ExecContext(ctx, reserveStockQuery, d.ProductID, d.Quantity)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 1 {
			continue
		}

		// the conditional update matched nothing: either the product is gone
		// or the stock is short. Look once more, under the same transaction,
		// to tell the two apart.
		var available int
		err = tx.QueryRowContext(ctx, stockByIDQuery, d.ProductID).Scan(&available)
		if err == sql.ErrNoRows {
			return NotFoundError{Resource: "product", ID: d.ProductID}
		}
		if err != nil {
			return err
		}
		return InsufficientStockError{ProductID: d.ProductID, Available: available, Requested: d.Quantity}
	}
	return nil
}
