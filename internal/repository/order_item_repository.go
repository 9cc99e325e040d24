package repository

import (
	"context"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemUpdate is the outcome of an item status write.
type ItemUpdate struct {
	Order     *models.Order
	Item      *models.OrderItem
	Completed bool // the write made every item ready and closed the order
}

type OrderItemRepository interface {
	GetByOrderID(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	UpdateStatus(ctx context.Context, orderID, itemID uint, status models.ItemStatus) (*ItemUpdate, error)
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return nil, translate(err, "order")
	}
	if count == 0 {
		return nil, apperror.NotFound("order %d not found", orderID)
	}

	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Preload("Options").
		Where("order_id = ?", orderID).
		Order("id").
		Find(&items).Error
	return items, translate(err, "order items")
}

// UpdateStatus writes one item's status and, when that leaves every item of a
// non-terminal order ready, completes the order in the same transaction.
func (r *orderItemRepository) UpdateStatus(ctx context.Context, orderID, itemID uint, status models.ItemStatus) (*ItemUpdate, error) {
	result := &ItemUpdate{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error; err != nil {
			return translate(err, "order")
		}
		if order.Status.Terminal() {
			return apperror.Validation("order %d is %s and can no longer change", order.ID, order.Status)
		}

		var item models.OrderItem
		if err := tx.Where("id = ? AND order_id = ?", itemID, orderID).First(&item).Error; err != nil {
			return translate(err, "order item")
		}
		if item.Status != status {
			if err := tx.Model(&item).Update("status", status).Error; err != nil {
				return err
			}
		}

		var pending int64
		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND status <> ?", orderID, models.ItemReady).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending == 0 {
			if err := tx.Model(&order).Update("status", models.OrderCompleted).Error; err != nil {
				return err
			}
			result.Completed = true
		}

		updated, err := getOrder(withDetails(tx), orderID)
		if err != nil {
			return err
		}
		result.Order = updated
		for i := range updated.Items {
			if updated.Items[i].ID == itemID {
				result.Item = &updated.Items[i]
			}
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "order item")
	}
	return result, nil
}
