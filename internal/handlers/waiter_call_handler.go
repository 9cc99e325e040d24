package handlers

import (
	"net/http"

	"qr_ordering/internal/models"
	"qr_ordering/internal/repository"
	"qr_ordering/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type WaiterCallHandler struct {
	callService services.WaiterCallService
	log         logrus.FieldLogger
}

func NewWaiterCallHandler(callService services.WaiterCallService, log logrus.FieldLogger) *WaiterCallHandler {
	return &WaiterCallHandler{callService: callService, log: log}
}

func (h *WaiterCallHandler) CreateCall(c *gin.Context) {
	var req struct {
		TableID uint `json:"table_id"`
	}
	if !bindJSON(c, h.log, &req) {
		return
	}
	call, err := h.callService.CreateCall(c.Request.Context(), req.TableID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, call)
}

func (h *WaiterCallHandler) ListCalls(c *gin.Context) {
	tableID, ok := queryID(c, h.log, "table_id")
	if !ok {
		return
	}
	filter := repository.WaiterCallFilter{Status: models.CallStatus(c.Query("status")), TableID: tableID}
	calls, err := h.callService.ListCalls(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, calls)
}

func (h *WaiterCallHandler) UpdateCallStatus(c *gin.Context) {
	id, ok := paramID(c, h.log, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	call, err := h.callService.UpdateCallStatus(c.Request.Context(), id, models.CallStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, call)
}

func (h *WaiterCallHandler) ActiveCount(c *gin.Context) {
	count, err := h.callService.CountActive(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"count": count})
}
