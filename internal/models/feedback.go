package models

import "time"

type Feedback struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	TableID           *uint     `json:"table_id" gorm:"index"`
	FoodRating        int       `json:"food_rating" gorm:"not null"`
	ServiceRating     int       `json:"service_rating" gorm:"not null"`
	AmbianceRating    int       `json:"ambiance_rating" gorm:"not null"`
	CleanlinessRating int       `json:"cleanliness_rating" gorm:"not null"`
	ValueRating       int       `json:"value_rating" gorm:"not null"`
	Comment           string    `json:"comment" gorm:"type:text"`
	CustomerName      string    `json:"customer_name"`
	CreatedAt         time.Time `json:"created_at"`
}

// Ratings returns the five axes keyed by field name.
func (f *Feedback) Ratings() map[string]int {
	return map[string]int{
		"food_rating":        f.FoodRating,
		"service_rating":     f.ServiceRating,
		"ambiance_rating":    f.AmbianceRating,
		"cleanliness_rating": f.CleanlinessRating,
		"value_rating":       f.ValueRating,
	}
}
