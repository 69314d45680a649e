package models

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// --- Helpers ---

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return db, mock
}

var productColumns = []string{
	"id", "title", "description", "code", "price", "status", "stock", "category", "thumbnails", "created_at", "updated_at",
}

// --- Tests ---

func TestProductsRepositoryGetByID(t *testing.T) {
	id := uuid.New()

	t.Run("Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows(productColumns).
				AddRow(id.String(), "Laptop", "14 inch", "LAP-1", "999.90", true, 3, "Laptops", "{a.png,b.png}", now, now))

		p, err := NewProductsRepository(db).GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.Equal(t, "LAP-1", p.Code)
		assert.True(t, decimal.RequireFromString("999.9").Equal(p.Price))
		assert.Equal(t, []string{"a.png", "b.png"}, []string(p.Thumbnails))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows(productColumns))

		p, err := NewProductsRepository(db).GetByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Nil(t, p)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductsRepositoryGetFilteredProducts(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()
	category := "Laptops"

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE category = \$1`).
		WithArgs(category).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE category = \$1 ORDER BY price DESC LIMIT \$2`).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(uuid.NewString(), "Pro", "d", "L-7", "2000", true, 1, category, "{}", now, now).
			AddRow(uuid.NewString(), "Air", "d", "L-6", "1500", true, 1, category, "{}", now, now))

	page, err := NewProductsRepository(db).GetFilteredProducts(
		context.Background(), ProductFilters{Category: &category}, SortPriceDesc, 1, 5)

	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(7), page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNextPage)
	assert.False(t, page.HasPrevPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductsRepositoryGetFilteredProductsPageBeyondRange(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	page, err := NewProductsRepository(db).GetFilteredProducts(
		context.Background(), ProductFilters{}, SortNone, math.MaxInt, 10)

	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, math.MaxInt, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNextPage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductsRepositoryCreateDuplicateCode(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO "products"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := NewProductsRepository(db).CreateProduct(context.Background(), &Product{
		Title: "Laptop", Description: "d", Code: "LAP-1", Category: "Laptops",
	})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartsRepositorySaveCartItemsMissingCart(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "carts" SET "updated_at"=\$1 WHERE id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	cart := &Cart{ID: uuid.New(), Items: []CartItem{{ProductID: uuid.New(), Quantity: 1}}}
	err := NewCartsRepository(db).SaveCartItems(context.Background(), cart)
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
