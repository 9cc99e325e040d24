package repository

import (
	"context"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WaiterCallFilter struct {
	Status  models.CallStatus
	TableID *uint
}

type WaiterCallRepository interface {
	CreateIfNoneActive(ctx context.Context, call *models.WaiterCall) error
	GetByID(ctx context.Context, id uint) (*models.WaiterCall, error)
	List(ctx context.Context, filter WaiterCallFilter) ([]models.WaiterCall, error)
	UpdateStatus(ctx context.Context, id uint, status models.CallStatus, check func(current models.CallStatus) error) (*models.WaiterCall, error)
	CountActive(ctx context.Context) (int64, error)
}

type waiterCallRepository struct {
	db *gorm.DB
}

func NewWaiterCallRepository(db *gorm.DB) WaiterCallRepository {
	return &waiterCallRepository{db: db}
}

// CreateIfNoneActive inserts a pending call unless the table already has an active one.
// The pre-check gives a friendly answer; the partial unique index catches the race.
func (r *waiterCallRepository) CreateIfNoneActive(ctx context.Context, call *models.WaiterCall) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var table models.RestaurantTable
		if err := tx.First(&table, call.TableID).Error; err != nil {
			return translate(err, "table")
		}

		var active int64
		if err := tx.Model(&models.WaiterCall{}).
			Where("table_id = ? AND status IN ?", call.TableID, models.ActiveCallStatuses).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperror.Conflict("table %s already has an active waiter call", table.TableNumber)
		}

		call.Status = models.CallPending
		if err := tx.Create(call).Error; err != nil {
			if isDuplicateKey(err) {
				return apperror.Conflict("table %s already has an active waiter call", table.TableNumber)
			}
			return err
		}
		call.Table = &table
		return nil
	})
	return translate(err, "waiter call")
}

func (r *waiterCallRepository) GetByID(ctx context.Context, id uint) (*models.WaiterCall, error) {
	var call models.WaiterCall
	if err := r.db.WithContext(ctx).Preload("Table").First(&call, id).Error; err != nil {
		return nil, translate(err, "waiter call")
	}
	return &call, nil
}

func (r *waiterCallRepository) List(ctx context.Context, filter WaiterCallFilter) ([]models.WaiterCall, error) {
	query := r.db.WithContext(ctx).Preload("Table")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TableID != nil {
		query = query.Where("table_id = ?", *filter.TableID)
	}

	var calls []models.WaiterCall
	err := query.Order("created_at DESC").Order("id DESC").Find(&calls).Error
	return calls, translate(err, "waiter calls")
}

func (r *waiterCallRepository) UpdateStatus(ctx context.Context, id uint, status models.CallStatus, check func(current models.CallStatus) error) (*models.WaiterCall, error) {
	var updated models.WaiterCall
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var call models.WaiterCall
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&call, id).Error; err != nil {
			return translate(err, "waiter call")
		}
		if check != nil {
			if err := check(call.Status); err != nil {
				return err
			}
		}
		if call.Status != status {
			if err := tx.Model(&call).Update("status", status).Error; err != nil {
				if isDuplicateKey(err) {
					return apperror.Conflict("table already has an active waiter call")
				}
				return err
			}
		}
		return tx.Preload("Table").First(&updated, id).Error
	})
	if err != nil {
		return nil, translate(err, "waiter call")
	}
	return &updated, nil
}

func (r *waiterCallRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WaiterCall{}).
		Where("status IN ?", models.ActiveCallStatuses).
		Count(&count).Error
	return count, translate(err, "waiter calls")
}
