package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderNew, OrderProcessing, true},
		{OrderNew, OrderCancelled, true},
		{OrderNew, OrderReady, false},
		{OrderNew, OrderCompleted, false},
		{OrderProcessing, OrderReady, true},
		{OrderProcessing, OrderCancelled, true},
		{OrderProcessing, OrderNew, false},
		{OrderReady, OrderCompleted, true},
		{OrderReady, OrderCancelled, true},
		{OrderCompleted, OrderCancelled, false},
		{OrderCompleted, OrderNew, false},
		{OrderCancelled, OrderProcessing, false},
		{OrderCancelled, OrderCancelled, true},
		{OrderReady, OrderReady, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderNew, OrderProcessing, OrderReady, OrderCompleted, OrderCancelled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("shipped").Valid())
	assert.True(t, OrderCompleted.Terminal())
	assert.False(t, OrderReady.Terminal())
}

func TestCallStatusTransitions(t *testing.T) {
	assert.True(t, CallPending.CanTransitionTo(CallInProgress))
	assert.True(t, CallInProgress.CanTransitionTo(CallPending))
	assert.True(t, CallPending.CanTransitionTo(CallCompleted))
	assert.False(t, CallCompleted.CanTransitionTo(CallPending))
	assert.False(t, CallCompleted.CanTransitionTo(CallInProgress))
	assert.False(t, CallPending.CanTransitionTo(CallStatus("closed")))
}

func TestItemReadyAt(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	item := OrderItem{CreatedAt: created, Duration: 5}

	assert.Equal(t, created.Add(5*time.Minute), item.ReadyAt())
	assert.Equal(t, time.Minute, item.Remaining(created.Add(4*time.Minute)))
	assert.LessOrEqual(t, item.Remaining(created.Add(5*time.Minute)), time.Duration(0))
}

func TestComputedTotal(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Quantity: 2, Price: decimal.RequireFromString("4.50")},
			{Quantity: 1, Price: decimal.RequireFromString("10.00"), Options: []OrderItemOption{
				{Price: decimal.RequireFromString("1.25")},
			}},
		},
	}
	assert.True(t, decimal.RequireFromString("20.25").Equal(order.ComputedTotal()))
}

func TestAllItemsReady(t *testing.T) {
	assert.False(t, (&Order{}).AllItemsReady())
	assert.False(t, (&Order{Items: []OrderItem{{Status: ItemReady}, {Status: ItemPreparing}}}).AllItemsReady())
	assert.True(t, (&Order{Items: []OrderItem{{Status: ItemReady}, {Status: ItemReady}}}).AllItemsReady())
}
