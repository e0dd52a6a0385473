package repository

import (
	"context"
	"ecommerce_api/internal/domain/catalog/model"
	"ecommerce_api/pkg/database"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return gdb, mock
}

var productColumns = []string{"id", "name", "description", "price", "stock", "images", "category_id", "created_at", "updated_at"}

func TestProductRepositoryGetByID(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormProductRepository(gdb)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow("p-1", "Mug", "", "10.00", 3, "{https://cdn/a.png,https://cdn/b.png}", "c-1", now, now))

	p, err := repo.GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)
	assert.True(t, decimal.RequireFromString("10").Equal(p.Price))
	assert.Equal(t, []string{"https://cdn/a.png", "https://cdn/b.png"}, []string(p.Images))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryGetByIDNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormProductRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(productColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryCreate(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormProductRepository(gdb)

	mock.ExpectExec(`INSERT INTO "products"`).WillReturnResult(sqlmock.NewResult(0, 1))

	p := &model.Product{Name: "Mug", Price: decimal.RequireFromString("10.00"), Stock: 2, CategoryID: "c-1"}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.NotEmpty(t, p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryUpdateMissing(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormProductRepository(gdb)

	mock.ExpectExec(`UPDATE "products" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	p := &model.Product{Name: "Mug"}
	p.ID = "p-x"
	assert.ErrorIs(t, repo.Update(context.Background(), p), database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryDelete(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormProductRepository(gdb)

	mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
		WithArgs("p-x").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "p-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "p-x"), database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryDeleteCascades(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormCategoryRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "products" WHERE category_id = \$1`).
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "categories" WHERE id = \$1`).
		WithArgs("c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), "c-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryDeleteMissingRollsBack(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormCategoryRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "products" WHERE category_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "categories" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.Background(), "c-x"), database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMalformedIDIsNotFound(t *testing.T) {
	malformed := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

	t.Run("product lookup", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).WillReturnError(malformed)

		_, err := NewGormProductRepository(gdb).GetByID(context.Background(), "abc")
		assert.ErrorIs(t, err, database.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("product delete", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).WillReturnError(malformed)

		err := NewGormProductRepository(gdb).Delete(context.Background(), "abc")
		assert.ErrorIs(t, err, database.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("category lookup", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1`).WillReturnError(malformed)

		_, err := NewGormCategoryRepository(gdb).GetByID(context.Background(), "abc")
		assert.ErrorIs(t, err, database.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("category delete rolls back", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "products" WHERE category_id = \$1`).WillReturnError(malformed)
		mock.ExpectRollback()

		err := NewGormCategoryRepository(gdb).Delete(context.Background(), "abc")
		assert.ErrorIs(t, err, database.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
