package services

import (
	"context"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/models"
	"qr_ordering/internal/notify"
	"qr_ordering/internal/repository"

	"github.com/sirupsen/logrus"
)

type WaiterCallService interface {
	CreateCall(ctx context.Context, tableID uint) (*models.WaiterCall, error)
	ListCalls(ctx context.Context, filter repository.WaiterCallFilter) ([]models.WaiterCall, error)
	UpdateCallStatus(ctx context.Context, id uint, status models.CallStatus) (*models.WaiterCall, error)
	CountActive(ctx context.Context) (int64, error)
}

type waiterCallService struct {
	callRepo  repository.WaiterCallRepository
	publisher notify.Publisher
	cache     StatsCache
	log       logrus.FieldLogger
}

func NewWaiterCallService(callRepo repository.WaiterCallRepository, publisher notify.Publisher, cache StatsCache, log logrus.FieldLogger) WaiterCallService {
	return &waiterCallService{callRepo: callRepo, publisher: publisher, cache: cache, log: log}
}

func (s *waiterCallService) CreateCall(ctx context.Context, tableID uint) (*models.WaiterCall, error) {
	if tableID == 0 {
		return nil, apperror.Validation("table_id is required")
	}

	call := &models.WaiterCall{TableID: tableID}
	if err := s.callRepo.CreateIfNoneActive(ctx, call); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"call_id": call.ID, "table_id": tableID}).Info("waiter called")
	invalidate(ctx, s.cache, s.log)
	notify.Notify(ctx, s.publisher, s.log, notify.EventNewWaiterCall, call)
	return call, nil
}

func (s *waiterCallService) ListCalls(ctx context.Context, filter repository.WaiterCallFilter) ([]models.WaiterCall, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.Validation("invalid waiter call status %q", filter.Status)
	}
	return s.callRepo.List(ctx, filter)
}

func (s *waiterCallService) UpdateCallStatus(ctx context.Context, id uint, status models.CallStatus) (*models.WaiterCall, error) {
	if !status.Valid() {
		return nil, apperror.Validation("invalid waiter call status %q", status)
	}

	var previous models.CallStatus
	call, err := s.callRepo.UpdateStatus(ctx, id, status, func(current models.CallStatus) error {
		previous = current
		if !current.CanTransitionTo(status) {
			return apperror.Validation("waiter call %d is already completed", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if previous == status {
		return call, nil
	}

	s.log.WithFields(logrus.Fields{"call_id": id, "from": previous, "to": status}).Info("waiter call status changed")
	invalidate(ctx, s.cache, s.log)
	notify.Notify(ctx, s.publisher, s.log, notify.EventWaiterCallUpdated, call)
	return call, nil
}

func (s *waiterCallService) CountActive(ctx context.Context) (int64, error) {
	return s.callRepo.CountActive(ctx)
}
