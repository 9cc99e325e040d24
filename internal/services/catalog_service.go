package services

import (
	"context"
	"strings"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/models"
	"qr_ordering/internal/repository"

	"github.com/shopspring/decimal"
)

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

type ProductOptionInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ProductInput struct {
	CategoryID      uint                 `json:"category_id"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Price           decimal.Decimal      `json:"price"`
	IsAvailable     *bool                `json:"is_available"`
	PreparationTime int                  `json:"preparation_time"`
	Options         []ProductOptionInput `json:"options"`
}

type CatalogService interface {
	CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context, categoryID *uint) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	category := &models.Category{IsActive: true}
	if err := applyCategory(category, in); err != nil {
		return nil, err
	}
	if err := s.catalogRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.catalogRepo.GetCategories(ctx)
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.catalogRepo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyCategory(category, in); err != nil {
		return nil, err
	}
	if err := s.catalogRepo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func applyCategory(category *models.Category, in CategoryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperror.Validation("category name is required")
	}
	category.Name = name
	category.Description = in.Description
	category.SortOrder = in.SortOrder
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	return nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uint) error {
	return s.catalogRepo.DeleteCategory(ctx, id)
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{IsAvailable: true}
	if err := s.applyProduct(ctx, product, in); err != nil {
		return nil, err
	}
	if err := s.catalogRepo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.catalogRepo.GetProduct(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context, categoryID *uint) ([]models.Product, error) {
	return s.catalogRepo.GetProducts(ctx, categoryID)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	product, err := s.catalogRepo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProduct(ctx, product, in); err != nil {
		return nil, err
	}
	if err := s.catalogRepo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) applyProduct(ctx context.Context, product *models.Product, in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperror.Validation("product name is required")
	}
	if in.Price.IsNegative() {
		return apperror.Validation("price must not be negative")
	}
	if in.PreparationTime < 0 {
		return apperror.Validation("preparation_time must not be negative")
	}
	if in.CategoryID == 0 {
		return apperror.Validation("category_id is required")
	}
	if _, err := s.catalogRepo.GetCategory(ctx, in.CategoryID); err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return apperror.Validation("category %d does not exist", in.CategoryID)
		}
		return err
	}

	product.CategoryID = in.CategoryID
	product.Name = name
	product.Description = in.Description
	product.Price = in.Price
	product.PreparationTime = in.PreparationTime
	if in.IsAvailable != nil {
		product.IsAvailable = *in.IsAvailable
	}

	product.Options = product.Options[:0]
	for _, opt := range in.Options {
		optName := strings.TrimSpace(opt.Name)
		if optName == "" {
			return apperror.Validation("option name is required")
		}
		product.Options = append(product.Options, models.ProductOption{Name: optName, Price: opt.Price})
	}
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	return s.catalogRepo.DeleteProduct(ctx, id)
}
