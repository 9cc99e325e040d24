package repository

import (
	"context"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/models"

	"gorm.io/gorm"
)

type CatalogRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error

	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	GetProducts(ctx context.Context, categoryID *uint) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(category).Error; err != nil {
		return translate(err, "category")
	}
	// a false bool is a zero value, so Create falls back to the column default
	if !category.IsActive {
		return translate(db.Model(category).Update("is_active", false).Error, "category")
	}
	return nil
}

func (r *catalogRepository) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

func (r *catalogRepository) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("sort_order").Order("id").Find(&categories).Error
	return categories, translate(err, "categories")
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Save(category).Error, "category")
}

func (r *catalogRepository) DeleteCategory(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var products int64
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
			return err
		}
		if products > 0 {
			return apperror.Conflict("category %d still has %d products", id, products)
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "category")
}

func (r *catalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(product).Error; err != nil {
		return translate(err, "product")
	}
	if !product.IsAvailable {
		return translate(db.Model(product).Update("is_available", false).Error, "product")
	}
	return nil
}

func (r *catalogRepository) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Options").First(&product, id).Error; err != nil {
		return nil, translate(err, "product")
	}
	return &product, nil
}

func (r *catalogRepository) GetProducts(ctx context.Context, categoryID *uint) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Preload("Options")
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var products []models.Product
	err := query.Order("id").Find(&products).Error
	return products, translate(err, "products")
}

// UpdateProduct saves the product and replaces its option list.
func (r *catalogRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options").Save(product).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductOption{}).Error; err != nil {
			return err
		}
		for i := range product.Options {
			product.Options[i].ID = 0
			product.Options[i].ProductID = product.ID
		}
		if len(product.Options) > 0 {
			return tx.Create(&product.Options).Error
		}
		return nil
	})
	return translate(err, "product")
}

func (r *catalogRepository) DeleteProduct(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductOption{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "product")
}
