package handlers

import (
	"net/http"

	"qr_ordering/internal/models"
	"qr_ordering/internal/repository"
	"qr_ordering/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	orderService services.OrderService
	log          logrus.FieldLogger
}

func NewOrderHandler(orderService services.OrderService, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{orderService: orderService, log: log}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	order, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	tableID, ok := queryID(c, h.log, "table_id")
	if !ok {
		return
	}
	filter := repository.OrderFilter{Status: models.OrderStatus(c.Query("status")), TableID: tableID}
	orders, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := paramID(c, h.log, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *OrderHandler) GetOrderItems(c *gin.Context) {
	id, ok := paramID(c, h.log, "id")
	if !ok {
		return
	}
	items, err := h.orderService.GetOrderItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, items)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, h.log, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrderItemStatus(c *gin.Context) {
	orderID, ok := paramID(c, h.log, "id")
	if !ok {
		return
	}
	itemID, ok := paramID(c, h.log, "itemId")
	if !ok {
		return
	}
	var req statusRequest
	if !bindJSON(c, h.log, &req) {
		return
	}
	result, err := h.orderService.UpdateOrderItemStatus(c.Request.Context(), orderID, itemID, models.ItemStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"item":            result.Item,
		"order":           result.Order,
		"order_completed": result.Completed,
	})
}

func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.orderService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, stats)
}
