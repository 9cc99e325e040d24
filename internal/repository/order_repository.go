package repository

import (
	"context"
	"errors"
	"time"

	"qr_ordering/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	Status  models.OrderStatus
	TableID *uint
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order, tableNumber string) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	ListActive(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uint, next models.OrderStatus, check func(current models.OrderStatus) error) (*models.Order, error)
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	HasOpenOrders(ctx context.Context, tableID uint) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order, its items and their options in one transaction. Table orders
// given only a table number get a table row created for that number when none exists.
func (r *orderRepository) Create(ctx context.Context, order *models.Order, tableNumber string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.OrderType == models.OrderTypeTable {
			table, err := resolveTable(tx, order.TableID, tableNumber)
			if err != nil {
				return err
			}
			order.TableID = &table.ID
		}
		return tx.Create(order).Error
	})
	return translate(err, "order")
}

func resolveTable(tx *gorm.DB, tableID *uint, tableNumber string) (*models.RestaurantTable, error) {
	var table models.RestaurantTable
	if tableID != nil {
		if err := tx.First(&table, *tableID).Error; err != nil {
			return nil, translate(err, "table")
		}
		return &table, nil
	}

	err := tx.Where("table_number = ?", tableNumber).First(&table).Error
	if err == nil {
		return &table, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate(err, "table")
	}
	table = models.RestaurantTable{
		TableNumber: tableNumber,
		IsActive:    true,
		Status:      models.TableAvailable,
	}
	if err := tx.Create(&table).Error; err != nil {
		return nil, translate(err, "table")
	}
	return &table, nil
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Items.Options").
		Preload("Table")
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	return getOrder(withDetails(r.db.WithContext(ctx)), id)
}

func getOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := withDetails(r.db.WithContext(ctx))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TableID != nil {
		query = query.Where("table_id = ?", *filter.TableID)
	}

	var orders []models.Order
	err := query.Order("created_at DESC").Order("id DESC").Find(&orders).Error
	return orders, translate(err, "orders")
}

func (r *orderRepository) ListActive(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := withDetails(r.db.WithContext(ctx)).
		Where("status NOT IN ?", []models.OrderStatus{models.OrderCompleted, models.OrderCancelled}).
		Order("created_at").
		Find(&orders).Error
	return orders, translate(err, "orders")
}

// UpdateStatus locks the order, lets check veto the move, then writes next.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, next models.OrderStatus, check func(current models.OrderStatus) error) (*models.Order, error) {
	var updated *models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
			return translate(err, "order")
		}
		if check != nil {
			if err := check(order.Status); err != nil {
				return err
			}
		}
		if order.Status != next {
			if err := tx.Model(&order).Update("status", next).Error; err != nil {
				return err
			}
		}
		var err error
		updated, err = getOrder(withDetails(tx), id)
		return err
	})
	if err != nil {
		return nil, translate(err, "order")
	}
	return updated, nil
}

func (r *orderRepository) CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "orders")
	}

	counts := make(map[models.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *orderRepository) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ? AND created_at >= ?", models.OrderCompleted, since).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, translate(err, "orders")
	}
	return total, nil
}

func (r *orderRepository) HasOpenOrders(ctx context.Context, tableID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("table_id = ? AND status NOT IN ?", tableID, []models.OrderStatus{models.OrderCompleted, models.OrderCancelled}).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "orders")
	}
	return count > 0, nil
}
