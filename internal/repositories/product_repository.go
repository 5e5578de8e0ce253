package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/utils"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	// ListProducts returns one page ordered by creation, newest first.
	ListProducts(ctx context.Context, activeOnly bool, page, size int) ([]*models.Product, int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `id, name, description, price, images, category, inventory, active, stripe_product_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}

	var (
		images    pq.StringArray
		inventory []byte
	)

	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &images, &product.Category, &inventory, &product.Active, &product.StripeProductID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	product.Images = []string(images)

	if len(inventory) > 0 {
		if err := json.Unmarshal(inventory, &product.Inventory); err != nil {
			return nil, fmt.Errorf("decoding inventory: %w", err)
		}
	}

	return product, nil
}

// textArray binds a TEXT[] parameter; nil becomes an empty array.
func textArray(values []string) any {
	if values == nil {
		values = []string{}
	}

	return pq.Array(values)
}

func encodeInventory(inventory map[string]int) ([]byte, error) {
	if inventory == nil {
		inventory = map[string]int{}
	}

	return json.Marshal(inventory)
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	inventory, err := encodeInventory(product.Inventory)
	if err != nil {
		return err
	}

	query := `INSERT INTO products (name, description, price, images, category, inventory, active, stripe_product_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id, created_at, updated_at`

	err = r.DB.QueryRowContext(dbCtx, query, product.Name, product.Description, product.Price, textArray(product.Images), product.Category, inventory, product.Active, product.StripeProductID).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)

	return mapError(err)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", mapError(err))
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	inventory, err := encodeInventory(product.Inventory)
	if err != nil {
		return err
	}

	query := `
		UPDATE products SET name = $1, description = $2, price = $3, images = $4, category = $5, inventory = $6, active = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	err = r.DB.QueryRowContext(dbCtx, query, product.Name, product.Description, product.Price, textArray(product.Images), product.Category, inventory, product.Active, product.ID).
		Scan(&product.UpdatedAt)

	return mapError(err)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	return execAffectingOne(dbCtx, r.DB, `DELETE FROM products WHERE id = $1`, id)
}

func (r *productRepository) ListProducts(ctx context.Context, activeOnly bool, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM products WHERE ($1 = FALSE OR active)`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, activeOnly).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = FALSE OR active)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, activeOnly, size, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// execAffectingOne runs a write that must touch exactly one row.
func execAffectingOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
