package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money is served as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Order struct {
	ID                  uint             `json:"id" gorm:"primaryKey"`
	TableID             *uint            `json:"table_id" gorm:"index"`
	Table               *RestaurantTable `json:"table,omitempty" gorm:"foreignKey:TableID;constraint:OnDelete:SET NULL"`
	OrderType           OrderType        `json:"order_type" gorm:"type:varchar(20);not null;default:'table'"`
	Status              OrderStatus      `json:"status" gorm:"type:varchar(20);not null;default:'new';index"`
	TotalAmount         decimal.Decimal  `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	SpecialInstructions string           `json:"special_instructions" gorm:"type:text"`
	CustomerName        string           `json:"customer_name"`
	CustomerEmail       string           `json:"customer_email"`
	CustomerPhone       string           `json:"customer_phone"`
	CustomerAddress     string           `json:"customer_address" gorm:"type:text"`
	Items               []OrderItem      `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

type OrderType string

const (
	OrderTypeTable    OrderType = "table"
	OrderTypeTakeaway OrderType = "takeaway"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeTable || t == OrderTypeTakeaway
}

type OrderStatus string

const (
	OrderNew        OrderStatus = "new"
	OrderProcessing OrderStatus = "processing"
	OrderReady      OrderStatus = "ready"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// orderTransitions lists the moves staff may make from each status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderNew:        {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderReady, OrderCancelled},
	OrderReady:      {OrderCompleted, OrderCancelled},
	OrderCompleted:  {},
	OrderCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// CanTransitionTo reports whether next is a legal successor of s.
// Writing the current status again is always accepted.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ComputedTotal sums item prices and option deltas. Orders keep the caller supplied
// total; this is only used to flag mismatches.
func (o *Order) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		unit := item.Price
		for _, opt := range item.Options {
			unit = unit.Add(opt.Price)
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// AllItemsReady is false for an order without items.
func (o *Order) AllItemsReady() bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if item.Status != ItemReady {
			return false
		}
	}
	return true
}
