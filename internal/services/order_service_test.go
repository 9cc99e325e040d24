package services

import (
	"context"
	"testing"
	"time"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/models"
	"qr_ordering/internal/notify"
	"qr_ordering/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderRoundTrip(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	table := f.createTable(t, "5")
	assert.Equal(t, models.TableAvailable, table.Status)

	order, err := f.orders.CreateOrder(ctx, f.tableOrder("5", intPtr(3)))
	require.NoError(t, err)

	assert.Equal(t, models.OrderNew, order.Status)
	require.NotNil(t, order.TableID)
	assert.Equal(t, table.ID, *order.TableID)
	// the caller's total is kept even though the items add up to 25.50 either way
	assert.True(t, decimal.RequireFromString("25.50").Equal(order.TotalAmount))

	got, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	require.Len(t, got.Items[0].Options, 1)
	assert.Equal(t, "Extra cheese", got.Items[0].Options[0].OptionName)
	assert.Empty(t, got.Items[1].Options)

	assert.Equal(t, "Burger", got.Items[0].ProductName, "name filled from product")
	assert.Equal(t, 3, got.Items[0].Duration)
	assert.Equal(t, "Burger (no bun)", got.Items[1].ProductName)
	assert.Equal(t, 7, got.Items[1].Duration, "duration defaults to preparation time")
	for _, item := range got.Items {
		assert.Equal(t, models.ItemPreparing, item.Status)
	}

	table, err = f.tables.GetTable(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, table.Status)

	assert.Equal(t, []string{notify.EventNewOrder}, f.events.types())
}

func TestCreateOrderKeepsMismatchedTotal(t *testing.T) {
	f := newFixture(t, true)

	req := f.tableOrder("9")
	req.TotalAmount = decimal.RequireFromString("1.00")
	order, err := f.orders.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("1.00").Equal(order.TotalAmount))
	assert.True(t, decimal.RequireFromString("25.50").Equal(order.ComputedTotal()))
}

func TestCreateTakeawayOrder(t *testing.T) {
	f := newFixture(t, true)

	req := f.tableOrder("")
	req.OrderType = models.OrderTypeTakeaway
	req.CustomerName = "Dana"
	req.CustomerPhone = "555-0100"
	order, err := f.orders.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Nil(t, order.TableID)
	assert.Equal(t, "Dana", order.CustomerName)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateOrderRequest)
	}{
		{"no items", func(r *CreateOrderRequest) { r.Items = nil }},
		{"unknown order type", func(r *CreateOrderRequest) { r.OrderType = "delivery" }},
		{"table order without table", func(r *CreateOrderRequest) { r.TableNumber = "" }},
		{"takeaway without name", func(r *CreateOrderRequest) { r.OrderType = models.OrderTypeTakeaway }},
		{"zero quantity", func(r *CreateOrderRequest) { r.Items[0].Quantity = 0 }},
		{"missing product", func(r *CreateOrderRequest) { r.Items[0].ProductID = 0 }},
		{"unknown product", func(r *CreateOrderRequest) { r.Items[0].ProductID = 999 }},
		{"negative total", func(r *CreateOrderRequest) { r.TotalAmount = decimal.NewFromInt(-1) }},
		{"blank option", func(r *CreateOrderRequest) { r.Items[0].Options[0].OptionName = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.tableOrder("3")
			tt.mutate(&req)
			_, err := f.orders.CreateOrder(ctx, req)
			assert.True(t, apperror.Is(err, apperror.KindValidation), "got %v", err)
		})
	}

	orders, err := f.orders.ListOrders(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.events.types())
}

func TestUpdateOrderStatusStrict(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	order, err := f.orders.CreateOrder(ctx, f.tableOrder("1"))
	require.NoError(t, err)
	f.events.reset()

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, models.OrderReady)
	assert.True(t, apperror.Is(err, apperror.KindValidation), "new cannot jump to ready")

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, "burnt")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	steps := []struct {
		status models.OrderStatus
		event  string
	}{
		{models.OrderProcessing, notify.EventOrderUpdated},
		{models.OrderReady, notify.EventOrderReady},
		{models.OrderCompleted, notify.EventOrderCompleted},
	}
	for _, step := range steps {
		f.events.reset()
		updated, err := f.orders.UpdateOrderStatus(ctx, order.ID, step.status)
		require.NoError(t, err)
		assert.Equal(t, step.status, updated.Status)
		assert.Equal(t, []string{step.event}, f.events.types())
	}

	f.events.reset()
	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, models.OrderCompleted)
	require.NoError(t, err, "rewriting the current status is accepted")
	assert.Empty(t, f.events.types())

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, models.OrderCancelled)
	assert.True(t, apperror.Is(err, apperror.KindValidation), "completed is terminal")

	_, err = f.orders.UpdateOrderStatus(ctx, 4242, models.OrderProcessing)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdateOrderStatusLenient(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	order, err := f.orders.CreateOrder(ctx, f.tableOrder("1"))
	require.NoError(t, err)

	for _, status := range []models.OrderStatus{models.OrderCompleted, models.OrderNew, models.OrderCancelled, models.OrderReady} {
		updated, err := f.orders.UpdateOrderStatus(ctx, order.ID, status)
		require.NoError(t, err, status)
		assert.Equal(t, status, updated.Status)
	}

	_, err = f.orders.UpdateOrderStatus(ctx, order.ID, "burnt")
	assert.True(t, apperror.Is(err, apperror.KindValidation), "unknown values are rejected in either mode")
}

func TestItemStatusDerivesCompletion(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	order, err := f.orders.CreateOrder(ctx, f.tableOrder("2"))
	require.NoError(t, err)
	first, second := order.Items[0].ID, order.Items[1].ID
	f.events.reset()

	result, err := f.orders.UpdateOrderItemStatus(ctx, order.ID, first, models.ItemReady)
	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.Equal(t, models.OrderNew, result.Order.Status)
	assert.Equal(t, models.ItemReady, result.Item.Status)
	assert.Equal(t, []string{notify.EventOrderUpdated}, f.events.types())

	f.events.reset()
	result, err = f.orders.UpdateOrderItemStatus(ctx, order.ID, second, models.ItemReady)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, models.OrderCompleted, result.Order.Status)
	assert.Equal(t, []string{notify.EventOrderCompleted}, f.events.types())

	_, err = f.orders.UpdateOrderItemStatus(ctx, order.ID, first, models.ItemPreparing)
	assert.True(t, apperror.Is(err, apperror.KindValidation), "completed orders reject item writes")

	_, err = f.orders.UpdateOrderItemStatus(ctx, order.ID, first, "cold")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestItemStatusWrongOrder(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	a, err := f.orders.CreateOrder(ctx, f.tableOrder("2"))
	require.NoError(t, err)
	b, err := f.orders.CreateOrder(ctx, f.tableOrder("3"))
	require.NoError(t, err)

	_, err = f.orders.UpdateOrderItemStatus(ctx, a.ID, b.Items[0].ID, models.ItemReady)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.orders.GetOrderItems(ctx, 999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestListOrdersFilters(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	a, err := f.orders.CreateOrder(ctx, f.tableOrder("A"))
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, f.tableOrder("B"))
	require.NoError(t, err)
	_, err = f.orders.UpdateOrderStatus(ctx, a.ID, models.OrderProcessing)
	require.NoError(t, err)

	processing, err := f.orders.ListOrders(ctx, repository.OrderFilter{Status: models.OrderProcessing})
	require.NoError(t, err)
	require.Len(t, processing, 1)
	assert.Equal(t, a.ID, processing[0].ID)

	byTable, err := f.orders.ListOrders(ctx, repository.OrderFilter{TableID: a.TableID})
	require.NoError(t, err)
	require.Len(t, byTable, 1)

	all, err := f.orders.ListOrders(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.orders.ListOrders(ctx, repository.OrderFilter{Status: "lost"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestStatsAreCached(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	order, err := f.orders.CreateOrder(ctx, f.tableOrder("1"))
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, f.tableOrder("2"))
	require.NoError(t, err)
	_, err = f.calls.CreateCall(ctx, *order.TableID)
	require.NoError(t, err)

	stats, err := f.orders.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.OrdersByStatus[models.OrderNew])
	assert.Equal(t, int64(2), stats.ActiveOrders)
	assert.Equal(t, int64(1), stats.ActiveWaiterCalls)
	assert.True(t, stats.RevenueToday.IsZero())

	cached, err := f.orders.Stats(ctx)
	require.NoError(t, err)
	assert.Same(t, stats, cached)

	for _, status := range []models.OrderStatus{models.OrderProcessing, models.OrderReady, models.OrderCompleted} {
		_, err = f.orders.UpdateOrderStatus(ctx, order.ID, status)
		require.NoError(t, err)
	}

	fresh, err := f.orders.Stats(ctx)
	require.NoError(t, err)
	assert.NotSame(t, stats, fresh)
	assert.Equal(t, int64(1), fresh.ActiveOrders)
	assert.True(t, decimal.RequireFromString("25.50").Equal(fresh.RevenueToday))
}

func TestReadinessScheduler(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	quick, err := f.orders.CreateOrder(ctx, f.tableOrder("1", intPtr(0), intPtr(0)))
	require.NoError(t, err)
	slow, err := f.orders.CreateOrder(ctx, f.tableOrder("2", intPtr(0), intPtr(30)))
	require.NoError(t, err)
	f.events.reset()

	scheduler := NewReadinessScheduler(f.orders, time.Second, quietLogger())
	require.NoError(t, scheduler.RunOnce(ctx))

	got, err := f.orders.GetOrder(ctx, quick.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, got.Status)

	got, err = f.orders.GetOrder(ctx, slow.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderNew, got.Status)
	assert.Equal(t, models.ItemReady, got.Items[0].Status)
	assert.Equal(t, models.ItemPreparing, got.Items[1].Status)

	assert.Equal(t, 1, countOf(f.events.types(), notify.EventOrderCompleted))

	// a second pass has nothing left to write
	f.events.reset()
	require.NoError(t, scheduler.RunOnce(ctx))
	assert.Empty(t, f.events.types())
}

func countOf(list []string, want string) int {
	n := 0
	for _, s := range list {
		if s == want {
			n++
		}
	}
	return n
}
