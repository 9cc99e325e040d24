package services

import (
	"context"
	"strings"
	"time"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/models"
	"qr_ordering/internal/notify"
	"qr_ordering/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// StatsCache holds the last computed dashboard aggregate.
type StatsCache interface {
	Get(ctx context.Context) (*models.OrderStats, error)
	Set(ctx context.Context, stats *models.OrderStats) error
	Invalidate(ctx context.Context) error
}

type CreateOrderItemOption struct {
	ProductOptionID uint            `json:"product_option_id"`
	OptionName      string          `json:"option_name"`
	Price           decimal.Decimal `json:"price"`
}

type CreateOrderItem struct {
	ProductID           uint                    `json:"product_id"`
	ProductName         string                  `json:"product_name"`
	Quantity            int                     `json:"quantity"`
	Price               decimal.Decimal         `json:"price"`
	SpecialInstructions string                  `json:"special_instructions"`
	Duration            *int                    `json:"duration"` // minutes; product preparation time when nil
	Options             []CreateOrderItemOption `json:"options"`
}

type CreateOrderRequest struct {
	TableID             *uint             `json:"table_id"`
	TableNumber         string            `json:"table_number"`
	OrderType           models.OrderType  `json:"order_type"`
	TotalAmount         decimal.Decimal   `json:"total_amount"`
	SpecialInstructions string            `json:"special_instructions"`
	CustomerName        string            `json:"customer_name"`
	CustomerEmail       string            `json:"customer_email"`
	CustomerPhone       string            `json:"customer_phone"`
	CustomerAddress     string            `json:"customer_address"`
	Items               []CreateOrderItem `json:"items"`
}

type OrderService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error)
	ListActiveOrders(ctx context.Context) ([]models.Order, error)
	GetOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error)
	UpdateOrderItemStatus(ctx context.Context, orderID, itemID uint, status models.ItemStatus) (*repository.ItemUpdate, error)
	Stats(ctx context.Context) (*models.OrderStats, error)
}

type OrderOptions struct {
	// StrictTransitions rejects status moves outside the order transition table.
	StrictTransitions bool
	Now               func() time.Time
}

type orderService struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	tableRepo     repository.TableRepository
	catalogRepo   repository.CatalogRepository
	callRepo      repository.WaiterCallRepository
	publisher     notify.Publisher
	cache         StatsCache
	log           logrus.FieldLogger
	strict        bool
	now           func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	tableRepo repository.TableRepository,
	catalogRepo repository.CatalogRepository,
	callRepo repository.WaiterCallRepository,
	publisher notify.Publisher,
	cache StatsCache,
	log logrus.FieldLogger,
	opts OrderOptions,
) OrderService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &orderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		tableRepo:     tableRepo,
		catalogRepo:   catalogRepo,
		callRepo:      callRepo,
		publisher:     publisher,
		cache:         cache,
		log:           log,
		strict:        opts.StrictTransitions,
		now:           now,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	order, err := s.buildOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order, strings.TrimSpace(req.TableNumber)); err != nil {
		return nil, err
	}

	log := s.log.WithField("order_id", order.ID)
	if computed := order.ComputedTotal(); !computed.Equal(order.TotalAmount) {
		log.WithFields(logrus.Fields{
			"total_amount": order.TotalAmount.String(),
			"computed":     computed.String(),
		}).Warn("order total does not match item prices")
	}

	// Occupancy is not part of the order transaction; a failure here leaves the order in place.
	if order.TableID != nil {
		if err := s.tableRepo.UpdateStatus(ctx, *order.TableID, models.TableOccupied); err != nil {
			log.WithError(err).Warn("failed to mark table occupied")
		}
	}

	created, err := s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		log.WithError(err).Warn("failed to reload created order")
		created = order
	}

	log.WithField("items", len(created.Items)).Info("order created")
	s.invalidateStats(ctx)
	notify.Notify(ctx, s.publisher, s.log, notify.EventNewOrder, created)
	return created, nil
}

func (s *orderService) buildOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperror.Validation("order must contain at least one item")
	}
	if req.OrderType == "" {
		req.OrderType = models.OrderTypeTable
	}
	if !req.OrderType.Valid() {
		return nil, apperror.Validation("invalid order type %q", req.OrderType)
	}
	if req.TotalAmount.IsNegative() {
		return nil, apperror.Validation("total_amount must not be negative")
	}

	order := &models.Order{
		OrderType:           req.OrderType,
		Status:              models.OrderNew,
		TotalAmount:         req.TotalAmount,
		SpecialInstructions: req.SpecialInstructions,
		CustomerName:        strings.TrimSpace(req.CustomerName),
		CustomerEmail:       strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:       strings.TrimSpace(req.CustomerPhone),
		CustomerAddress:     req.CustomerAddress,
	}

	switch order.OrderType {
	case models.OrderTypeTable:
		if req.TableID == nil && strings.TrimSpace(req.TableNumber) == "" {
			return nil, apperror.Validation("table orders require table_id or table_number")
		}
		order.TableID = req.TableID
	case models.OrderTypeTakeaway:
		if order.CustomerName == "" {
			return nil, apperror.Validation("takeaway orders require customer_name")
		}
	}

	for i, in := range req.Items {
		item, err := s.buildItem(ctx, in)
		if err != nil {
			if apperror.Is(err, apperror.KindValidation) {
				return nil, apperror.Validation("item %d: %v", i+1, err)
			}
			return nil, err
		}
		order.Items = append(order.Items, *item)
	}
	return order, nil
}

func (s *orderService) buildItem(ctx context.Context, in CreateOrderItem) (*models.OrderItem, error) {
	if in.ProductID == 0 {
		return nil, apperror.Validation("product_id is required")
	}
	if in.Quantity <= 0 {
		return nil, apperror.Validation("quantity must be greater than zero")
	}
	if in.Price.IsNegative() {
		return nil, apperror.Validation("price must not be negative")
	}
	if in.Duration != nil && *in.Duration < 0 {
		return nil, apperror.Validation("duration must not be negative")
	}

	item := &models.OrderItem{
		ProductID:           in.ProductID,
		ProductName:         strings.TrimSpace(in.ProductName),
		Quantity:            in.Quantity,
		Price:               in.Price,
		SpecialInstructions: in.SpecialInstructions,
		Status:              models.ItemPreparing,
	}
	if in.Duration != nil {
		item.Duration = *in.Duration
	}

	if item.ProductName == "" || in.Duration == nil {
		product, err := s.catalogRepo.GetProduct(ctx, in.ProductID)
		if err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				return nil, apperror.Validation("product %d does not exist", in.ProductID)
			}
			return nil, err
		}
		if item.ProductName == "" {
			item.ProductName = product.Name
		}
		if in.Duration == nil {
			item.Duration = product.PreparationTime
		}
	}

	for _, opt := range in.Options {
		name := strings.TrimSpace(opt.OptionName)
		if name == "" {
			return nil, apperror.Validation("option_name is required")
		}
		item.Options = append(item.Options, models.OrderItemOption{
			ProductOptionID: opt.ProductOptionID,
			OptionName:      name,
			Price:           opt.Price,
		})
	}
	return item, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.Validation("invalid order status %q", filter.Status)
	}
	return s.orderRepo.List(ctx, filter)
}

func (s *orderService) ListActiveOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.ListActive(ctx)
}

func (s *orderService) GetOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	return s.orderItemRepo.GetByOrderID(ctx, orderID)
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperror.Validation("invalid order status %q", status)
	}

	var previous models.OrderStatus
	order, err := s.orderRepo.UpdateStatus(ctx, id, status, func(current models.OrderStatus) error {
		previous = current
		if s.strict && !current.CanTransitionTo(status) {
			return apperror.Validation("order %d cannot move from %s to %s", id, current, status)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if previous == status {
		return order, nil
	}

	s.log.WithFields(logrus.Fields{"order_id": id, "from": previous, "to": status}).Info("order status changed")
	s.invalidateStats(ctx)
	notify.Notify(ctx, s.publisher, s.log, orderEvent(status), order)
	return order, nil
}

func orderEvent(status models.OrderStatus) string {
	switch status {
	case models.OrderReady:
		return notify.EventOrderReady
	case models.OrderCompleted:
		return notify.EventOrderCompleted
	default:
		return notify.EventOrderUpdated
	}
}

func (s *orderService) UpdateOrderItemStatus(ctx context.Context, orderID, itemID uint, status models.ItemStatus) (*repository.ItemUpdate, error) {
	if !status.Valid() {
		return nil, apperror.Validation("invalid item status %q", status)
	}

	result, err := s.orderItemRepo.UpdateStatus(ctx, orderID, itemID, status)
	if err != nil {
		return nil, err
	}

	log := s.log.WithFields(logrus.Fields{"order_id": orderID, "item_id": itemID, "status": status})
	if result.Completed {
		log.Info("last item ready, order completed")
		s.invalidateStats(ctx)
		notify.Notify(ctx, s.publisher, s.log, notify.EventOrderCompleted, result.Order)
		return result, nil
	}

	log.Debug("item status changed")
	notify.Notify(ctx, s.publisher, s.log, notify.EventOrderUpdated, result.Order)
	return result, nil
}

func (s *orderService) Stats(ctx context.Context) (*models.OrderStats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.log.WithError(err).Warn("stats cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	calls, err := s.callRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	revenue, err := s.orderRepo.RevenueSince(ctx, startOfDay(now))
	if err != nil {
		return nil, err
	}

	stats := &models.OrderStats{
		OrdersByStatus:    counts,
		ActiveWaiterCalls: calls,
		RevenueToday:      revenue,
		GeneratedAt:       now,
	}
	for status, n := range counts {
		if !status.Terminal() {
			stats.ActiveOrders += n
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			s.log.WithError(err).Warn("stats cache write failed")
		}
	}
	return stats, nil
}

func (s *orderService) invalidateStats(ctx context.Context) {
	invalidate(ctx, s.cache, s.log)
}

func invalidate(ctx context.Context, cache StatsCache, log logrus.FieldLogger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		log.WithError(err).Warn("stats cache invalidation failed")
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
