package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `id, name, description, price, condition, stock_quantity, category_id, seller_id,
		image_url, images, warranty_info, key_features, brand, model, specifications, created_at, updated_at`

	getProductByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	listProductsByIDsQuery = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::int[]) ORDER BY id`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	row := r.db.QueryRowContext(ctx, getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.QueryContext(ctx, listProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (Product, error) {
	var (
		p            Product
		description  sql.NullString
		categoryID   sql.NullInt64
		sellerID     sql.NullInt64
		imageURL     sql.NullString
		imagesJSON   []byte
		warrantyInfo sql.NullString
		featuresJSON []byte
		brand        sql.NullString
		model        sql.NullString
		specsJSON    []byte
		createdAt    sql.NullTime
		updatedAt    sql.NullTime
	)

	err := s.Scan(&p.ID, &p.Name, &description, &p.Price, &p.Condition, &p.StockQuantity,
		&categoryID, &sellerID, &imageURL, &imagesJSON, &warrantyInfo, &featuresJSON,
		&brand, &model, &specsJSON, &createdAt, &updatedAt)
	if err != nil {
		return Product{}, err
	}

	if description.Valid {
		p.Description = &description.String
	}
	if categoryID.Valid {
		v := int(categoryID.Int64)
		p.CategoryID = &v
	}
	if sellerID.Valid {
		v := int(sellerID.Int64)
		p.SellerID = &v
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	if warrantyInfo.Valid {
		p.WarrantyInfo = &warrantyInfo.String
	}
	if brand.Valid {
		p.Brand = &brand.String
	}
	if model.Valid {
		p.Model = &model.String
	}
	// gallery/features/specs live in JSONB columns; ignore malformed blobs
	// rather than failing the whole read
	if len(imagesJSON) > 0 {
		_ = json.Unmarshal(imagesJSON, &p.Images)
	}
	if len(featuresJSON) > 0 {
		_ = json.Unmarshal(featuresJSON, &p.KeyFeatures)
	}
	if len(specsJSON) > 0 {
		_ = json.Unmarshal(specsJSON, &p.Specifications)
	}
	if createdAt.Valid {
		v := createdAt.Time.UTC().Format(time.RFC3339)
		p.CreatedAt = &v
	}
	if updatedAt.Valid {
		v := updatedAt.Time.UTC().Format(time.RFC3339)
		p.UpdatedAt = &v
	}
	return p, nil
}
