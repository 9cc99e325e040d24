package models

import "time"

type WaiterCall struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	TableID   uint             `json:"table_id" gorm:"not null;index"`
	Table     *RestaurantTable `json:"table,omitempty" gorm:"foreignKey:TableID;constraint:OnDelete:CASCADE"`
	Status    CallStatus       `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type CallStatus string

const (
	CallPending    CallStatus = "pending"
	CallInProgress CallStatus = "in_progress"
	CallCompleted  CallStatus = "completed"
)

// ActiveCallStatuses are the statuses that block a new call for the same table.
var ActiveCallStatuses = []CallStatus{CallPending, CallInProgress}

func (s CallStatus) Valid() bool {
	switch s {
	case CallPending, CallInProgress, CallCompleted:
		return true
	}
	return false
}

func (s CallStatus) Active() bool {
	return s == CallPending || s == CallInProgress
}

// CanTransitionTo allows any move between active statuses. Completed is permanent.
func (s CallStatus) CanTransitionTo(next CallStatus) bool {
	if s == CallCompleted {
		return next == CallCompleted
	}
	return next.Valid()
}
