package service

import (
	"context"
	"ecommerce_api/internal/domain/catalog/model"
	"ecommerce_api/pkg/database"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testCategory() *model.Category {
	c := &model.Category{Name: "Kitchen"}
	c.ID = "c-1"
	return c
}

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success rounds price", func(t *testing.T) {
		repo, cats := new(MockProductRepository), new(MockCategoryRepository)
		s := NewProductService(repo, cats)
		cats.On("GetByID", "c-1").Return(testCategory(), nil)
		repo.On("Create", mock.AnythingOfType("*model.Product")).Return(nil)

		p, err := s.Create(ctx, ProductInput{
			Name:       "Mug",
			Price:      decimal.RequireFromString("10.005"),
			Stock:      3,
			Images:     []string{"https://cdn/mug.png"},
			CategoryID: "c-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "10.01", p.Price.StringFixed(2))
		assert.Equal(t, []string{"https://cdn/mug.png"}, []string(p.Images))
	})

	t.Run("unknown category", func(t *testing.T) {
		repo, cats := new(MockProductRepository), new(MockCategoryRepository)
		s := NewProductService(repo, cats)
		cats.On("GetByID", "c-x").Return(nil, database.ErrNotFound)

		_, err := s.Create(ctx, ProductInput{Name: "Mug", CategoryID: "c-x"})
		assert.ErrorIs(t, err, ErrInvalidCategory)
		repo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo, cats := new(MockProductRepository), new(MockCategoryRepository)
		s := NewProductService(repo, cats)
		cats.On("GetByID", "c-1").Return(testCategory(), nil)
		repo.On("Create", mock.Anything).Return(database.ErrDuplicate)

		_, err := s.Create(ctx, ProductInput{Name: "Mug", CategoryID: "c-1"})
		assert.ErrorIs(t, err, ErrProductExists)
	})

	t.Run("negative values", func(t *testing.T) {
		s := NewProductService(new(MockProductRepository), new(MockCategoryRepository))

		_, err := s.Create(ctx, ProductInput{Name: "Mug", Price: decimal.NewFromInt(-1), CategoryID: "c-1"})
		assert.ErrorIs(t, err, ErrNegativePrice)

		_, err = s.Create(ctx, ProductInput{Name: "Mug", Stock: -1, CategoryID: "c-1"})
		assert.ErrorIs(t, err, ErrNegativeStock)
	})
}

func TestProductServiceUpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo, cats := new(MockProductRepository), new(MockCategoryRepository)
	s := NewProductService(repo, cats)

	existing := &model.Product{Name: "Mug", Price: decimal.NewFromInt(5), CategoryID: "c-1"}
	existing.ID = "p-1"
	repo.On("GetByID", "p-1").Return(existing, nil)
	repo.On("GetByID", "p-x").Return(nil, database.ErrNotFound)
	cats.On("GetByID", "c-1").Return(testCategory(), nil)
	repo.On("Update", existing).Return(nil)
	repo.On("Delete", "p-1").Return(nil)
	repo.On("Delete", "p-x").Return(database.ErrNotFound)

	p, err := s.Update(ctx, "p-1", ProductInput{Name: "Big Mug", Price: decimal.RequireFromString("7.50"), Stock: 2, CategoryID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, "Big Mug", p.Name)
	assert.True(t, decimal.RequireFromString("7.5").Equal(p.Price))

	_, err = s.Update(ctx, "p-x", ProductInput{Name: "x", CategoryID: "c-1"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.NoError(t, s.Delete(ctx, "p-1"))
	assert.ErrorIs(t, s.Delete(ctx, "p-x"), ErrProductNotFound)
}
