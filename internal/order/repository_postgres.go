package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
)

type PostgresRepository struct {
	db  *sql.DB
	log *slog.Logger
}

const (
	insertOrderQuery = `INSERT INTO orders (customer_name, email, shipping_address, total_amount, status, user_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id`

	insertOrderLineQuery = `INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
		VALUES ($1,$2,$3,$4)`

	getOrderByIDQuery = `SELECT id, customer_name, email, shipping_address, total_amount, status, user_id, created_at
		FROM orders
		WHERE id = $1`

	getOrderLinesQuery = `SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase,
			p.name, p.image_url
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.id`
)

func NewPostgresRepository(db *sql.DB, log *slog.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, log: log}
}

// Insert writes the order header and its lines within the given transaction
// and returns the new order id. Committing is the caller's job.
func (r *PostgresRepository) Insert(ctx context.Context, tx *sql.Tx, ord Order, lines []OrderLine) (int, error) {
	addrJSON, err := json.Marshal(ord.ShippingAddress)
	if err != nil {
		return 0, err
	}

	var id int
	err = tx.QueryRowContext(ctx, insertOrderQuery,
		ord.CustomerName, ord.Email, addrJSON, ord.TotalAmount, ord.Status, ord.UserID).
		Scan(&id)
	if err != nil {
		return 0, err
	}

	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, insertOrderLineQuery,
			id, line.ProductID, line.Quantity, line.PriceAtPurchase); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// GetByID materializes the denormalized order view: header plus lines joined
// with the product's current display name and image. A stored shipping
// address that fails to parse degrades to the empty structure with a log
// line; it never fails the read.
func (r *PostgresRepository) GetByID(ctx context.Context, id int) (OrderView, error) {
	var (
		view     OrderView
		addrJSON []byte
		userID   sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, getOrderByIDQuery, id).Scan(
		&view.ID, &view.CustomerName, &view.Email, &addrJSON,
		&view.TotalAmount, &view.Status, &userID, &view.CreatedAt)
	if err == sql.ErrNoRows {
		return OrderView{}, NotFoundError{Resource: "order", ID: id}
	}
	if err != nil {
		return OrderView{}, err
	}

	if userID.Valid {
		v := int(userID.Int64)
		view.UserID = &v
	}
	if err := json.Unmarshal(addrJSON, &view.ShippingAddress); err != nil {
		r.log.Warn("failed to parse stored shipping address, returning empty",
			slog.Int("order_id", id), slog.String("error", err.Error()))
		view.ShippingAddress = ShippingAddress{}
	}

	rows, err := r.db.QueryContext(ctx, getOrderLinesQuery, id)
	if err != nil {
		return OrderView{}, err
	}
	defer rows.Close()

	view.Items = make([]ViewLine, 0)
	for rows.Next() {
		var (
			line ViewLine
			img  sql.NullString
		)
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity,
			&line.PriceAtPurchase, &line.ProductName, &img); err != nil {
			return OrderView{}, err
		}
		if img.Valid {
			line.ProductImageURL = &img.String
		}
		view.Items = append(view.Items, line)
	}
	if err := rows.Err(); err != nil {
		return OrderView{}, err
	}
	return view, nil
}
