package models

import "time"

type RestaurantTable struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	TableNumber string      `json:"table_number" gorm:"uniqueIndex;not null"`
	IsActive    bool        `json:"is_active" gorm:"default:true"`
	Status      TableStatus `json:"status" gorm:"type:varchar(20);not null;default:'available'"`
	QRCodeURL   string      `json:"qr_code_url" gorm:"type:text"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (RestaurantTable) TableName() string {
	return "restaurant_tables"
}

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved:
		return true
	}
	return false
}
