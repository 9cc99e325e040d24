// Package reconcile derives item readiness from elapsed time and pushes the
// resulting status writes through an API. The same loop backs the server-side
// readiness scheduler and the headless staff client.
package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"qr_ordering/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// API is the set of order operations the loop needs.
type API interface {
	ListActiveOrders(ctx context.Context) ([]models.Order, error)
	GetOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	UpdateOrderItemStatus(ctx context.Context, orderID, itemID uint, status models.ItemStatus) error
	UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) error
}

type Reconciler struct {
	api         API
	log         logrus.FieldLogger
	now         func() time.Time
	concurrency int

	mu     sync.Mutex
	orders map[uint]*models.Order
}

func New(api API, log logrus.FieldLogger) *Reconciler {
	return &Reconciler{
		api:         api,
		log:         log,
		now:         time.Now,
		concurrency: defaultConcurrency,
		orders:      make(map[uint]*models.Order),
	}
}

// WithClock replaces the time source.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Refresh replaces the held orders with the current non-terminal set.
func (r *Reconciler) Refresh(ctx context.Context) error {
	orders, err := r.api.ListActiveOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active orders: %w", err)
	}

	held := make(map[uint]*models.Order, len(orders))
	for i := range orders {
		if orders[i].Status.Terminal() {
			continue
		}
		held[orders[i].ID] = &orders[i]
	}

	r.mu.Lock()
	r.orders = held
	r.mu.Unlock()
	return nil
}

// Hold adds or replaces a single order, e.g. one announced by a new_order event.
func (r *Reconciler) Hold(order models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.Status.Terminal() {
		delete(r.orders, order.ID)
		return
	}
	r.orders[order.ID] = &order
}

func (r *Reconciler) Held() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// Tick runs one pass over every held order. Orders are reconciled concurrently;
// writes within one order are sequential. A failed write is left for the next tick.
func (r *Reconciler) Tick(ctx context.Context) error {
	r.mu.Lock()
	snapshot := make([]*models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		snapshot = append(snapshot, order)
	}
	r.mu.Unlock()

	now := r.now()
	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)
	for _, order := range snapshot {
		order := order
		g.Go(func() error {
			done, err := r.reconcileOrder(ctx, order, now)
			if done {
				r.drop(order)
			}
			if err != nil {
				r.log.WithError(err).WithField("order_id", order.ID).Warn("reconciliation write failed, retrying next tick")
			}
			return err
		})
	}
	return g.Wait()
}

// drop forgets order unless it was replaced while the tick ran.
func (r *Reconciler) drop(order *models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.orders[order.ID] == order {
		delete(r.orders, order.ID)
	}
}

// reconcileOrder reports true once the order is terminal and no longer needs tracking.
func (r *Reconciler) reconcileOrder(ctx context.Context, order *models.Order, now time.Time) (bool, error) {
	if order.Status.Terminal() {
		return true, nil
	}

	if len(order.Items) == 0 {
		items, err := r.api.GetOrderItems(ctx, order.ID)
		if err != nil {
			return false, fmt.Errorf("failed to load items: %w", err)
		}
		order.Items = items
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.Status == models.ItemReady || now.Before(item.ReadyAt()) {
			continue
		}
		if err := r.api.UpdateOrderItemStatus(ctx, order.ID, item.ID, models.ItemReady); err != nil {
			return false, fmt.Errorf("failed to mark item %d ready: %w", item.ID, err)
		}
		item.Status = models.ItemReady
		r.log.WithFields(logrus.Fields{"order_id": order.ID, "item_id": item.ID}).Info("item ready")
	}

	if !order.AllItemsReady() {
		return false, nil
	}
	if err := r.api.UpdateOrderStatus(ctx, order.ID, models.OrderCompleted); err != nil {
		return false, fmt.Errorf("failed to complete order: %w", err)
	}
	order.Status = models.OrderCompleted
	r.log.WithField("order_id", order.ID).Info("order completed")
	return true, nil
}

// Run ticks every tick and refetches every refetch until ctx is done. A receive
// on trigger forces an immediate refetch; pass nil when there is none.
func (r *Reconciler) Run(ctx context.Context, tick, refetch time.Duration, trigger <-chan struct{}) error {
	if err := r.Refresh(ctx); err != nil {
		r.log.WithError(err).Warn("initial refresh failed")
	}

	tickTicker := time.NewTicker(tick)
	defer tickTicker.Stop()
	refetchTicker := time.NewTicker(refetch)
	defer refetchTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tickTicker.C:
			// failures are already logged per order
			_ = r.Tick(ctx)
		case <-refetchTicker.C:
			if err := r.Refresh(ctx); err != nil {
				r.log.WithError(err).Warn("refresh failed")
			}
		case <-trigger:
			if err := r.Refresh(ctx); err != nil {
				r.log.WithError(err).Warn("refresh failed")
			}
		}
	}
}
