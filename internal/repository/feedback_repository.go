package repository

import (
	"context"

	"qr_ordering/internal/models"

	"gorm.io/gorm"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetAll(ctx context.Context) ([]models.Feedback, error)
	Delete(ctx context.Context, id uint) error
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	return translate(r.db.WithContext(ctx).Create(feedback).Error, "feedback")
}

func (r *feedbackRepository) GetAll(ctx context.Context) ([]models.Feedback, error) {
	var feedback []models.Feedback
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&feedback).Error
	return feedback, translate(err, "feedback")
}

func (r *feedbackRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Feedback{}, id)
	if res.Error != nil {
		return translate(res.Error, "feedback")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "feedback")
	}
	return nil
}
