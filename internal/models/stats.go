package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStats struct {
	OrdersByStatus    map[OrderStatus]int64 `json:"orders_by_status"`
	ActiveOrders      int64                 `json:"active_orders"`
	ActiveWaiterCalls int64                 `json:"active_waiter_calls"`
	RevenueToday      decimal.Decimal       `json:"revenue_today"`
	GeneratedAt       time.Time             `json:"generated_at"`
}
