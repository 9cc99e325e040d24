package handlers

import (
	"net/http"

	"qr_ordering/internal/models"
	"qr_ordering/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type FeedbackHandler struct {
	feedbackService services.FeedbackService
	log             logrus.FieldLogger
}

func NewFeedbackHandler(feedbackService services.FeedbackService, log logrus.FieldLogger) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, log: log}
}

func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var feedback models.Feedback
	if !bindJSON(c, h.log, &feedback) {
		return
	}
	if err := h.feedbackService.SubmitFeedback(c.Request.Context(), &feedback); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, feedback)
}

func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	feedback, err := h.feedbackService.ListFeedback(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, feedback)
}

func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	id, ok := paramID(c, h.log, "id")
	if !ok {
		return
	}
	if err := h.feedbackService.DeleteFeedback(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "feedback deleted")
}
