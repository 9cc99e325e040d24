package services

import (
	"context"
	"strings"

	"qr_ordering/internal/apperror"
	"qr_ordering/internal/models"
	"qr_ordering/internal/repository"
)

const (
	minRating = 1
	maxRating = 5
)

type FeedbackService interface {
	SubmitFeedback(ctx context.Context, feedback *models.Feedback) error
	ListFeedback(ctx context.Context) ([]models.Feedback, error)
	DeleteFeedback(ctx context.Context, id uint) error
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	tableRepo    repository.TableRepository
}

func NewFeedbackService(feedbackRepo repository.FeedbackRepository, tableRepo repository.TableRepository) FeedbackService {
	return &feedbackService{feedbackRepo: feedbackRepo, tableRepo: tableRepo}
}

func (s *feedbackService) SubmitFeedback(ctx context.Context, feedback *models.Feedback) error {
	for field, rating := range feedback.Ratings() {
		if rating < minRating || rating > maxRating {
			return apperror.Validation("%s must be between %d and %d", field, minRating, maxRating)
		}
	}
	if feedback.TableID != nil {
		if _, err := s.tableRepo.GetByID(ctx, *feedback.TableID); err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				return apperror.Validation("table %d does not exist", *feedback.TableID)
			}
			return err
		}
	}
	feedback.ID = 0
	feedback.Comment = strings.TrimSpace(feedback.Comment)
	feedback.CustomerName = strings.TrimSpace(feedback.CustomerName)
	return s.feedbackRepo.Create(ctx, feedback)
}

func (s *feedbackService) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	return s.feedbackRepo.GetAll(ctx)
}

func (s *feedbackService) DeleteFeedback(ctx context.Context, id uint) error {
	return s.feedbackRepo.Delete(ctx, id)
}
