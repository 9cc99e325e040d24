package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID                  uint              `json:"id" gorm:"primaryKey"`
	OrderID             uint              `json:"order_id" gorm:"not null;index"`
	ProductID           uint              `json:"product_id" gorm:"not null"`
	ProductName         string            `json:"product_name" gorm:"not null"`
	Quantity            int               `json:"quantity" gorm:"not null"`
	Price               decimal.Decimal   `json:"price" gorm:"type:decimal(10,2);not null"`
	SpecialInstructions string            `json:"special_instructions" gorm:"type:text"`
	Status              ItemStatus        `json:"status" gorm:"type:varchar(20);not null;default:'preparing'"`
	Duration            int               `json:"duration" gorm:"not null;default:0"` // minutes
	Options             []OrderItemOption `json:"options" gorm:"foreignKey:OrderItemID"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// ItemStatus represents the status of an order item
type ItemStatus string

const (
	ItemPreparing ItemStatus = "preparing"
	ItemReady     ItemStatus = "ready"
)

func (s ItemStatus) Valid() bool {
	return s == ItemPreparing || s == ItemReady
}

// ReadyAt is when the item's countdown reaches zero.
func (i *OrderItem) ReadyAt() time.Time {
	return i.CreatedAt.Add(time.Duration(i.Duration) * time.Minute)
}

// Remaining is the countdown left at now. It is zero or negative once the item is due.
func (i *OrderItem) Remaining(now time.Time) time.Duration {
	return i.ReadyAt().Sub(now)
}

type OrderItemOption struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderItemID     uint            `json:"order_item_id" gorm:"not null;index"`
	ProductOptionID uint            `json:"product_option_id"`
	OptionName      string          `json:"option_name" gorm:"not null"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
}
