package service

import (
	"context"
	"ecommerce_api/internal/domain/catalog/model"

	"github.com/stretchr/testify/mock"
)

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	return m.Called(category).Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called()
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	return m.Called(category).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	return m.Called(product).Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called()
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) error {
	return m.Called(product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	return m.Called(id).Error(0)
}

type mockInvalidator struct {
	calls int
}

func (m *mockInvalidator) InvalidateProducts(ctx context.Context) error {
	m.calls++
	return nil
}
