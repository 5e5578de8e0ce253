package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/munera-collective/munera-platform/internal/models"
	repository "github.com/munera-collective/munera-platform/internal/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{"id", "name", "description", "price", "images", "category", "inventory", "active", "stripe_product_id", "created_at", "updated_at"}

func TestNewProductRepo(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductRepo(db)
	assert.NotNil(t, repo, "NewProductRepo should return a non-nil repository")
}

func TestProductRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductRepo(db)
	ctx := t.Context()

	t.Run("CreateProduct", func(t *testing.T) {
		insertSQL := regexp.QuoteMeta(`INSERT INTO products (name, description, price, images, category, inventory, active, stripe_product_id)`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			product := &models.Product{
				Name:      "T-Shirt Munera",
				Price:     decimal.RequireFromString("25.00"),
				Images:    []string{"https://cdn.munera.fr/product-images/tshirt.png"},
				Category:  "apparel",
				Inventory: map[string]int{"M": 3, "L": 0},
				Active:    true,
			}
			newID := uuid.New()
			now := time.Now()

			mock.ExpectQuery(insertSQL).
				WithArgs(product.Name, product.Description, product.Price, pq.Array(product.Images), product.Category, []byte(`{"L":0,"M":3}`), true, "").
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(newID, now, now))

			// Act
			err := repo.CreateProduct(ctx, product)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, newID, product.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Error", func(t *testing.T) {
			dbError := errors.New("database insertion error")
			mock.ExpectQuery(insertSQL).WillReturnError(dbError)

			err := repo.CreateProduct(ctx, &models.Product{Name: "Poster", Price: decimal.NewFromInt(10)})

			require.Error(t, err)
			assert.ErrorIs(t, err, dbError)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetProductByID", func(t *testing.T) {
		id := uuid.New()
		getSQL := regexp.QuoteMeta(`FROM products WHERE id = $1`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			now := time.Now()
			mock.ExpectQuery(getSQL).WithArgs(id).
				WillReturnRows(sqlmock.NewRows(productCols).AddRow(
					id, "Hoodie", "<p>Heavy cotton</p>", "49.90", "{https://cdn.munera.fr/a.png,https://cdn.munera.fr/b.png}",
					"apparel", []byte(`{"S":1,"M":4}`), true, "prod_123", now, now,
				))

			// Act
			product, err := repo.GetProductByID(ctx, id)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, "Hoodie", product.Name)
			assert.True(t, decimal.RequireFromString("49.90").Equal(product.Price))
			assert.Equal(t, []string{"https://cdn.munera.fr/a.png", "https://cdn.munera.fr/b.png"}, product.Images)
			assert.Equal(t, map[string]int{"S": 1, "M": 4}, product.Inventory)
			assert.Equal(t, "https://cdn.munera.fr/a.png", product.MainImage())
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("NotFound", func(t *testing.T) {
			mock.ExpectQuery(getSQL).WithArgs(id).WillReturnError(sql.ErrNoRows)

			product, err := repo.GetProductByID(ctx, id)

			require.Error(t, err)
			assert.ErrorIs(t, err, repository.ErrNotFound)
			assert.Nil(t, product)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("CorruptInventory", func(t *testing.T) {
			mock.ExpectQuery(getSQL).WithArgs(id).
				WillReturnRows(sqlmock.NewRows(productCols).AddRow(
					id, "Hoodie", "", "49.90", "{}", "", []byte(`{not json`), true, "", time.Now(), time.Now(),
				))

			_, err := repo.GetProductByID(ctx, id)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "decoding inventory")
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("UpdateProduct", func(t *testing.T) {
		updateSQL := regexp.QuoteMeta(`UPDATE products SET name = $1`)

		t.Run("Success", func(t *testing.T) {
			product := &models.Product{ID: uuid.New(), Name: "Cap", Price: decimal.NewFromInt(15), Active: false}
			now := time.Now()

			mock.ExpectQuery(updateSQL).
				WithArgs(product.Name, product.Description, product.Price, pq.Array([]string{}), product.Category, []byte(`{}`), false, product.ID).
				WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

			err := repo.UpdateProduct(ctx, product)

			require.NoError(t, err)
			assert.WithinDuration(t, now, product.UpdatedAt, time.Second)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("NotFound", func(t *testing.T) {
			mock.ExpectQuery(updateSQL).WillReturnError(sql.ErrNoRows)

			err := repo.UpdateProduct(ctx, &models.Product{ID: uuid.New()})

			assert.ErrorIs(t, err, repository.ErrNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("DeleteProduct", func(t *testing.T) {
		deleteSQL := regexp.QuoteMeta(`DELETE FROM products WHERE id = $1`)

		t.Run("Success", func(t *testing.T) {
			id := uuid.New()
			mock.ExpectExec(deleteSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, repo.DeleteProduct(ctx, id))
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("NotFound", func(t *testing.T) {
			id := uuid.New()
			mock.ExpectExec(deleteSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

			assert.ErrorIs(t, repo.DeleteProduct(ctx, id), repository.ErrNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("ListProducts", func(t *testing.T) {
		countSQL := regexp.QuoteMeta(`SELECT COUNT(*) FROM products WHERE ($1 = FALSE OR active)`)
		listSQL := regexp.QuoteMeta(`ORDER BY created_at DESC LIMIT $2 OFFSET $3`)

		t.Run("Success - active only, second page", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(countSQL).WithArgs(true).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
			mock.ExpectQuery(listSQL).WithArgs(true, 2, 2).
				WillReturnRows(sqlmock.NewRows(productCols).AddRow(
					uuid.New(), "Poster", "", "9.99", "{}", "print", []byte(`{}`), true, "", time.Now(), time.Now(),
				))

			// Act
			products, total, err := repo.ListProducts(ctx, true, 2, 2)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, 3, total)
			require.Len(t, products, 1)
			assert.Equal(t, "Poster", products[0].Name)
			assert.Empty(t, products[0].Images)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("CountError", func(t *testing.T) {
			mock.ExpectQuery(countSQL).WithArgs(false).WillReturnError(errors.New("timeout"))

			_, _, err := repo.ListProducts(ctx, false, 1, 10)

			require.Error(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
