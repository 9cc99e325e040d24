package handlers

import (
	"net/http"

	"qr_ordering/internal/logger"
	"qr_ordering/internal/middleware"
	"qr_ordering/internal/notify"
	"qr_ordering/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Services groups everything the HTTP surface calls into.
type Services struct {
	Orders      services.OrderService
	WaiterCalls services.WaiterCallService
	Tables      services.TableService
	Catalog     services.CatalogService
	Feedback    services.FeedbackService
	Settings    services.SettingsService
	Users       services.UserService
}

func NewRouter(svc Services, hub *notify.Hub, log logrus.FieldLogger) *gin.Engine {
	orderHandler := NewOrderHandler(svc.Orders, log)
	callHandler := NewWaiterCallHandler(svc.WaiterCalls, log)
	tableHandler := NewTableHandler(svc.Tables, log)
	catalogHandler := NewCatalogHandler(svc.Catalog, log)
	feedbackHandler := NewFeedbackHandler(svc.Feedback, log)
	settingsHandler := NewSettingsHandler(svc.Settings, log)
	authHandler := NewAuthHandler(svc.Users, log)
	staff := middleware.RequireStaff(svc.Users)

	router := gin.New()
	router.Use(gin.Recovery(), logger.Middleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws", notify.Handler(hub, log))

	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", staff, authHandler.Me)

		api.POST("/orders", orderHandler.CreateOrder)
		api.GET("/orders", staff, orderHandler.ListOrders)
		api.GET("/orders/stats", staff, orderHandler.Stats)
		api.GET("/orders/:id", staff, orderHandler.GetOrder)
		api.GET("/orders/:id/items", staff, orderHandler.GetOrderItems)
		api.PUT("/orders/:id/status", staff, orderHandler.UpdateOrderStatus)
		api.PUT("/orders/:id/items/:itemId/status", staff, orderHandler.UpdateOrderItemStatus)

		api.POST("/waiter-calls", callHandler.CreateCall)
		api.GET("/waiter-calls", staff, callHandler.ListCalls)
		api.GET("/waiter-calls/active/count", staff, callHandler.ActiveCount)
		api.PUT("/waiter-calls/:id/status", staff, callHandler.UpdateCallStatus)

		api.GET("/tables", tableHandler.ListTables)
		api.GET("/tables/:id", tableHandler.GetTable)
		api.POST("/tables", staff, tableHandler.CreateTable)
		api.PUT("/tables/:id", staff, tableHandler.UpdateTable)
		api.PUT("/tables/:id/status", staff, tableHandler.UpdateTableStatus)
		api.POST("/tables/:id/qrcode", staff, tableHandler.RegenerateQRCode)
		api.DELETE("/tables/:id", staff, tableHandler.DeleteTable)

		api.GET("/categories", catalogHandler.ListCategories)
		api.POST("/categories", staff, catalogHandler.CreateCategory)
		api.PUT("/categories/:id", staff, catalogHandler.UpdateCategory)
		api.DELETE("/categories/:id", staff, catalogHandler.DeleteCategory)

		api.GET("/products", catalogHandler.ListProducts)
		api.GET("/products/:id", catalogHandler.GetProduct)
		api.POST("/products", staff, catalogHandler.CreateProduct)
		api.PUT("/products/:id", staff, catalogHandler.UpdateProduct)
		api.DELETE("/products/:id", staff, catalogHandler.DeleteProduct)

		api.POST("/feedback", feedbackHandler.SubmitFeedback)
		api.GET("/feedback", staff, feedbackHandler.ListFeedback)
		api.DELETE("/feedback/:id", staff, feedbackHandler.DeleteFeedback)

		api.GET("/settings", settingsHandler.GetSettings)
		api.PUT("/settings/:key", staff, settingsHandler.UpdateSetting)
	}

	return router
}
