package service

import (
	"context"
	"ecommerce_api/internal/domain/catalog/model"
	"ecommerce_api/internal/domain/catalog/repository"
	"ecommerce_api/pkg/apperr"
	"ecommerce_api/pkg/database"
	"ecommerce_api/pkg/response"
	"strings"

	"github.com/go-faster/errors"
)

var (
	ErrCategoryNotFound = apperr.NotFound(response.ErrCategoryNotFound, "Category not found")
	ErrCategoryExists   = apperr.Validation(response.ErrCategoryExists, "Category with this name already exists")
	ErrCategoryName     = apperr.Validation(response.ErrInvalidParam, "Category name is required")
)

// CategoryInput 创建/更新分类
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryService 分类服务
type CategoryService interface {
	Create(ctx context.Context, in CategoryInput) (*model.Category, error)
	Get(ctx context.Context, id string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, id string, in CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, id string) error
}

// ProductCacheInvalidator 分类删除会级联删除商品，需要清空商品缓存
type ProductCacheInvalidator interface {
	InvalidateProducts(ctx context.Context) error
}

type categoryService struct {
	repo        repository.CategoryRepository
	invalidator ProductCacheInvalidator
}

// NewCategoryService invalidator 可为空
func NewCategoryService(repo repository.CategoryRepository, invalidator ProductCacheInvalidator) CategoryService {
	return &categoryService{repo: repo, invalidator: invalidator}
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrCategoryName
	}

	category := &model.Category{Name: name, Description: in.Description}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, errors.Wrap(err, "create category")
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, errors.Wrap(err, "get category")
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

func (s *categoryService) Update(ctx context.Context, id string, in CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrCategoryName
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	category.Description = in.Description

	if err := s.repo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicate):
			return nil, ErrCategoryExists
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrCategoryNotFound
		}
		return nil, errors.Wrap(err, "update category")
	}
	return category, nil
}

// Delete 级联删除商品后清空商品缓存
func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return errors.Wrap(err, "delete category")
	}
	if s.invalidator != nil {
		return s.invalidator.InvalidateProducts(ctx)
	}
	return nil
}
