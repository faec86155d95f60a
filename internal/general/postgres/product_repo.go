package postgres

import (
	"context"
	"errors"
	"fmt"

	"store-nav/internal/domain/geo"
	"store-nav/internal/domain/product"
	"store-nav/internal/ports"

	"github.com/jackc/pgx/v5"
)

// ProductRepo reads the catalog using pgx and plain SQL.
type ProductRepo struct{}

// NewProductRepo constructs a new ProductRepo.
func NewProductRepo() ports.ProductRepository {
	return &ProductRepo{}
}

// GetByID fetches a product by primary key.
func (repo *ProductRepo) GetByID(ctx context.Context, id string) (*product.Product, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out product.Product
	var x, y *float64

	err = tx.QueryRow(ctx, `
		SELECT id, name, category, price, location_x, location_y, zone_id, shelf_id, active
		FROM products
		WHERE id = $1
	`, id).Scan(
		&out.ID, &out.Name, &out.Category, &out.Price,
		&x, &y, &out.ZoneID, &out.ShelfID, &out.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrProductNotFound
		}
		return nil, err
	}

	if x != nil && y != nil {
		out.Location = &geo.Coordinate{X: *x, Y: *y}
	}

	return &out, nil
}

// ListLocated returns active products that have a surveyed shelf coordinate.
func (repo *ProductRepo) ListLocated(ctx context.Context) ([]product.Product, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, name, category, price, location_x, location_y, zone_id, shelf_id, active
		FROM products
		WHERE active
		  AND location_x IS NOT NULL
		  AND location_y IS NOT NULL
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query located products: %w", err)
	}
	defer rows.Close()

	var products []product.Product
	for rows.Next() {
		var p product.Product
		var x, y float64
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &x, &y, &p.ZoneID, &p.ShelfID, &p.Active); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.Location = &geo.Coordinate{X: x, Y: y}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}
