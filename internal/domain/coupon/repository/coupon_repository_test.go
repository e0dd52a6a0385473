package repository

import (
	"context"
	"ecommerce_api/internal/domain/coupon/model"
	"ecommerce_api/pkg/database"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

var couponColumns = []string{"id", "code", "discount_percentage", "expiry_date", "usage_limit", "created_at", "updated_at"}

func TestCouponRepositoryGetByCode(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormCouponRepository(gdb)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "coupons" WHERE code = \$1`).
		WillReturnRows(sqlmock.NewRows(couponColumns).
			AddRow("c-1", "SAVE20", 20, now.Add(time.Hour), 1, now, now))

	coupon, err := repo.GetByCode(context.Background(), "SAVE20")
	require.NoError(t, err)
	assert.Equal(t, 20, coupon.DiscountPercentage)
	assert.False(t, coupon.Expired(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponRepositoryGetByCodeMissing(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormCouponRepository(gdb)

	mock.ExpectQuery(`SELECT \* FROM "coupons" WHERE code = \$1`).
		WillReturnRows(sqlmock.NewRows(couponColumns))

	_, err := repo.GetByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponRepositoryCreate(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormCouponRepository(gdb)

	mock.ExpectExec(`INSERT INTO "coupons"`).WillReturnResult(sqlmock.NewResult(0, 1))

	c := &model.Coupon{Code: "SAVE20", DiscountPercentage: 20, ExpiryDate: time.Now().Add(time.Hour), UsageLimit: 1}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.NotEmpty(t, c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCouponRepositoryList(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewGormCouponRepository(gdb)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "coupons" ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows(couponColumns).
			AddRow("c-1", "A", 10, now, 1, now, now).
			AddRow("c-2", "B", 50, now, 3, now, now))

	coupons, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, coupons, 2)
	assert.Equal(t, "B", coupons[1].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
