package repository

import (
	"context"

	"qr_ordering/internal/models"

	"gorm.io/gorm"
)

type TableRepository interface {
	Create(ctx context.Context, table *models.RestaurantTable) error
	GetByID(ctx context.Context, id uint) (*models.RestaurantTable, error)
	GetByNumber(ctx context.Context, number string) (*models.RestaurantTable, error)
	GetAll(ctx context.Context) ([]models.RestaurantTable, error)
	Update(ctx context.Context, table *models.RestaurantTable) error
	UpdateStatus(ctx context.Context, id uint, status models.TableStatus) error
	Delete(ctx context.Context, id uint) error
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) Create(ctx context.Context, table *models.RestaurantTable) error {
	return translate(r.db.WithContext(ctx).Create(table).Error, "table number "+table.TableNumber)
}

func (r *tableRepository) GetByID(ctx context.Context, id uint) (*models.RestaurantTable, error) {
	var table models.RestaurantTable
	if err := r.db.WithContext(ctx).First(&table, id).Error; err != nil {
		return nil, translate(err, "table")
	}
	return &table, nil
}

func (r *tableRepository) GetByNumber(ctx context.Context, number string) (*models.RestaurantTable, error) {
	var table models.RestaurantTable
	if err := r.db.WithContext(ctx).Where("table_number = ?", number).First(&table).Error; err != nil {
		return nil, translate(err, "table")
	}
	return &table, nil
}

func (r *tableRepository) GetAll(ctx context.Context) ([]models.RestaurantTable, error) {
	var tables []models.RestaurantTable
	err := r.db.WithContext(ctx).Order("id").Find(&tables).Error
	return tables, translate(err, "tables")
}

func (r *tableRepository) Update(ctx context.Context, table *models.RestaurantTable) error {
	return translate(r.db.WithContext(ctx).Save(table).Error, "table number "+table.TableNumber)
}

func (r *tableRepository) UpdateStatus(ctx context.Context, id uint, status models.TableStatus) error {
	res := r.db.WithContext(ctx).Model(&models.RestaurantTable{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error, "table")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "table")
	}
	return nil
}

func (r *tableRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.RestaurantTable{}, id)
	if res.Error != nil {
		return translate(res.Error, "table")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "table")
	}
	return nil
}
