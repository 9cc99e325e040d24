package handlers

import (
	"net/http"

	"qr_ordering/internal/models"
	"qr_ordering/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TableHandler struct {
	tableService services.TableService
	log          logrus.FieldLogger
}

func NewTableHandler(tableService services.TableService, log logrus.FieldLogger) *TableHandler {
	return &TableHandler{tableService: tableService, log: log}
}

func (h *TableHandler) ListTables(c *gin.Context) {
	tables, err := h.tableService.ListTables(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, tables)
}

func (h *TableHandler) GetTable(c *gin.Context) {
	id, ok := paramID(c, h.log, "id")
	if !ok {
		return
	}
	table, err := h.tableService.GetTable(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, table)
}

func (h *TableHandler) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number"`
	}
	if !bindJSON(c, h.log, &req) {
		return
	}
	table, err := h.tableService.CreateTable(c.Request.Context(), req.TableNumber)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, table)
}

func (h *TableHandler) UpdateTable(c *gin.Context) {
	id, ok := paramID(c, h.log, "id")
	if !ok {
		return
	}
	var req services.TableUpdate
	if !bindJSON(c, h.log, &req) {
		return
	}
	table, err := h.tableService.UpdateTable(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, table)
}

func (h *TableHandler) UpdateTableStatus(c *gin.Context) {
	id, ok := paramID(c, h.log, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	table, err := h.tableService.UpdateTableStatus(c.Request.Context(), id, models.TableStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, table)
}

func (h *TableHandler) RegenerateQRCode(c *gin.Context) {
	id, ok := paramID(c, h.log, "id")
	if !ok {
		return
	}
	table, err := h.tableService.RegenerateQRCode(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, table)
}

func (h *TableHandler) DeleteTable(c *gin.Context) {
	id, ok := paramID(c, h.log, "id")
	if !ok {
		return
	}
	if err := h.tableService.DeleteTable(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "table deleted")
}
