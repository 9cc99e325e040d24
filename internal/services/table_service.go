package services

import (
	"context"
	"strings"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/models"
	"qr_ordering/internal/repository"
	"qr_ordering/pkg/qrcode"

	"github.com/sirupsen/logrus"
)

type TableUpdate struct {
	TableNumber *string `json:"table_number"`
	IsActive    *bool   `json:"is_active"`
}

type TableService interface {
	CreateTable(ctx context.Context, tableNumber string) (*models.RestaurantTable, error)
	GetTable(ctx context.Context, id uint) (*models.RestaurantTable, error)
	ListTables(ctx context.Context) ([]models.RestaurantTable, error)
	UpdateTable(ctx context.Context, id uint, update TableUpdate) (*models.RestaurantTable, error)
	UpdateTableStatus(ctx context.Context, id uint, status models.TableStatus) (*models.RestaurantTable, error)
	RegenerateQRCode(ctx context.Context, id uint) (*models.RestaurantTable, error)
	DeleteTable(ctx context.Context, id uint) error
}

type tableService struct {
	tableRepo repository.TableRepository
	orderRepo repository.OrderRepository
	qr        *qrcode.Generator
	log       logrus.FieldLogger
}

func NewTableService(tableRepo repository.TableRepository, orderRepo repository.OrderRepository, qr *qrcode.Generator, log logrus.FieldLogger) TableService {
	return &tableService{tableRepo: tableRepo, orderRepo: orderRepo, qr: qr, log: log}
}

// CreateTable stores the table and then points its QR code at the table's menu URL,
// which needs the generated id.
func (s *tableService) CreateTable(ctx context.Context, tableNumber string) (*models.RestaurantTable, error) {
	number := strings.TrimSpace(tableNumber)
	if number == "" {
		return nil, apperror.Validation("table_number is required")
	}

	table := &models.RestaurantTable{
		TableNumber: number,
		IsActive:    true,
		Status:      models.TableAvailable,
	}
	if err := s.tableRepo.Create(ctx, table); err != nil {
		return nil, err
	}

	if err := s.attachQRCode(ctx, table); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"table_id": table.ID, "table_number": number}).Info("table created")
	return table, nil
}

func (s *tableService) attachQRCode(ctx context.Context, table *models.RestaurantTable) error {
	dataURL, err := s.qr.DataURL(table.ID)
	if err != nil {
		return apperror.Store("failed to generate QR code", err)
	}
	table.QRCodeURL = dataURL
	return s.tableRepo.Update(ctx, table)
}

func (s *tableService) GetTable(ctx context.Context, id uint) (*models.RestaurantTable, error) {
	return s.tableRepo.GetByID(ctx, id)
}

func (s *tableService) ListTables(ctx context.Context) ([]models.RestaurantTable, error) {
	return s.tableRepo.GetAll(ctx)
}

func (s *tableService) UpdateTable(ctx context.Context, id uint, update TableUpdate) (*models.RestaurantTable, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.TableNumber != nil {
		number := strings.TrimSpace(*update.TableNumber)
		if number == "" {
			return nil, apperror.Validation("table_number must not be empty")
		}
		table.TableNumber = number
	}
	if update.IsActive != nil {
		table.IsActive = *update.IsActive
	}
	if err := s.tableRepo.Update(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *tableService) UpdateTableStatus(ctx context.Context, id uint, status models.TableStatus) (*models.RestaurantTable, error) {
	if !status.Valid() {
		return nil, apperror.Validation("invalid table status %q", status)
	}
	if err := s.tableRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.tableRepo.GetByID(ctx, id)
}

func (s *tableService) RegenerateQRCode(ctx context.Context, id uint) (*models.RestaurantTable, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachQRCode(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *tableService) DeleteTable(ctx context.Context, id uint) error {
	if _, err := s.tableRepo.GetByID(ctx, id); err != nil {
		return err
	}
	open, err := s.orderRepo.HasOpenOrders(ctx, id)
	if err != nil {
		return err
	}
	if open {
		return apperror.Conflict("table %d has open orders", id)
	}
	return s.tableRepo.Delete(ctx, id)
}
