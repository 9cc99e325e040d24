package services

import (
	"context"
	"time"

	"qr_ordering/internal/models"
	"qr_ordering/internal/reconcile"

	"github.com/sirupsen/logrus"
)

// ReadinessScheduler moves items to ready once their preparation time has
// elapsed, without waiting for a staff client to be open.
type ReadinessScheduler struct {
	reconciler *reconcile.Reconciler
	interval   time.Duration
}

func NewReadinessScheduler(orders OrderService, interval time.Duration, log logrus.FieldLogger) *ReadinessScheduler {
	return &ReadinessScheduler{
		reconciler: reconcile.New(orderAPI{orders}, log.WithField("component", "readiness")),
		interval:   interval,
	}
}

// Run reloads the active orders on every tick, so orders created since the
// last tick are picked up without an event feed.
func (s *ReadinessScheduler) Run(ctx context.Context) error {
	return s.reconciler.Run(ctx, s.interval, s.interval, nil)
}

// orderAPI adapts OrderService to the reconciliation loop.
type orderAPI struct {
	orders OrderService
}

func (a orderAPI) ListActiveOrders(ctx context.Context) ([]models.Order, error) {
	return a.orders.ListActiveOrders(ctx)
}

func (a orderAPI) GetOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	return a.orders.GetOrderItems(ctx, orderID)
}

func (a orderAPI) UpdateOrderItemStatus(ctx context.Context, orderID, itemID uint, status models.ItemStatus) error {
	_, err := a.orders.UpdateOrderItemStatus(ctx, orderID, itemID, status)
	return err
}

func (a orderAPI) UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	_, err := a.orders.UpdateOrderStatus(ctx, orderID, status)
	return err
}

// RunOnce performs a single reload and reconciliation pass.
func (s *ReadinessScheduler) RunOnce(ctx context.Context) error {
	if err := s.reconciler.Refresh(ctx); err != nil {
		return err
	}
	return s.reconciler.Tick(ctx)
}
