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
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = apperr.NotFound(response.ErrProductNotFound, "Product not found")
	ErrProductExists   = apperr.Validation(response.ErrProductExists, "Product with this name already exists")
	ErrInvalidCategory = apperr.Validation(response.ErrInvalidCategory, "Invalid category ID")
	ErrProductName     = apperr.Validation(response.ErrInvalidParam, "Product name is required")
	ErrNegativePrice   = apperr.Validation(response.ErrInvalidParam, "Price must not be negative")
	ErrNegativeStock   = apperr.Validation(response.ErrInvalidParam, "Stock must not be negative")
)

// ProductInput 创建/更新商品
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Images      []string
	CategoryID  string
}

// ProductService 商品服务
type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, id string, in ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository) ProductService {
	return &productService{repo: repo, categories: categories}
}

// validate 校验输入并确认分类存在
func (s *productService) validate(ctx context.Context, in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return ErrProductName
	}
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	if in.Stock < 0 {
		return ErrNegativeStock
	}
	if in.CategoryID == "" {
		return ErrInvalidCategory
	}
	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrInvalidCategory
		}
		return errors.Wrap(err, "lookup category")
	}
	return nil
}

func apply(p *model.Product, in ProductInput) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price.Round(2)
	p.Stock = in.Stock
	p.Images = append(make([]string, 0, len(in.Images)), in.Images...)
	p.CategoryID = in.CategoryID
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	product := &model.Product{}
	apply(product, in)
	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrProductExists
		}
		return nil, errors.Wrap(err, "create product")
	}
	return product, nil
}

func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "get product")
	}
	return product, nil
}

func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (s *productService) Update(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	apply(product, in)
	if err := s.repo.Update(ctx, product); err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicate):
			return nil, ErrProductExists
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "update product")
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrProductNotFound
		}
		return errors.Wrap(err, "delete product")
	}
	return nil
}
