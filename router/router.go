package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/hospitality-suite/cache"
	"github.com/yeremiapane/hospitality-suite/config"
	"github.com/yeremiapane/hospitality-suite/controllers"
	"github.com/yeremiapane/hospitality-suite/middlewares"
	"github.com/yeremiapane/hospitality-suite/services"
)

func SetupRouter(db *gorm.DB, cfg config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	numbering := services.NewNumberingService(db)
	stats := cache.New(cfg.RedisAddr)
	orderService := services.NewOrderService(db)
	bookingService := services.NewBookingService(db, numbering, cfg)
	billingService := services.NewBillingService(db, numbering, stats, cfg)
	gateway := services.NewGatewayService(cfg)

	userCtrl := controllers.NewUserController(db)
	orderCtrl := controllers.NewOrderController(db, orderService)
	bookingCtrl := controllers.NewBookingController(bookingService)
	billingCtrl := controllers.NewBillingController(billingService, gateway)
	roomCtrl := controllers.NewRoomController(db, bookingService)
	tableCtrl := controllers.NewTableController(db)

	// Auth
	auth := r.Group("/auth")
	{
		auth.POST("/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)
	}

	// Websocket event stream
	r.GET("/events", middlewares.WebSocketAuthMiddleware(), controllers.EventsHandler)

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		// Users (admin only)
		api.POST("/users", middlewares.RequireRole("admin"), userCtrl.Register)

		// Orders
		api.GET("/orders", orderCtrl.GetAllOrders)
		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		api.PATCH("/orders/:order_id/status", orderCtrl.TransitionOrder)
		api.PATCH("/order-items/:item_id/status", middlewares.RequireRole("kitchen", "staff"), orderCtrl.TransitionItem)

		// Tables
		api.GET("/tables", tableCtrl.GetAllTables)
		api.POST("/tables", middlewares.RequireRole("admin"), tableCtrl.CreateTable)
		api.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)
		api.DELETE("/tables/:table_id", middlewares.RequireRole("admin"), tableCtrl.DeleteTable)

		// Rooms
		api.GET("/rooms", roomCtrl.GetAllRooms)
		api.GET("/rooms/available", roomCtrl.GetAvailableRooms)
		api.POST("/rooms", middlewares.RequireRole("admin"), roomCtrl.CreateRoom)
		api.PATCH("/rooms/:room_id/status", roomCtrl.UpdateRoomStatus)

		// Bookings
		api.GET("/bookings", bookingCtrl.ListBookings)
		api.POST("/bookings", bookingCtrl.CreateBooking)
		api.GET("/bookings/:booking_id", bookingCtrl.GetBooking)
		api.POST("/bookings/:booking_id/payments", bookingCtrl.AddPayment)
		api.POST("/bookings/:booking_id/check-in", bookingCtrl.CheckIn)
		api.POST("/bookings/:booking_id/check-out", bookingCtrl.CheckOut)
		api.POST("/bookings/:booking_id/cancel", bookingCtrl.Cancel)

		// Billing
		api.GET("/bills", billingCtrl.ListBills)
		api.POST("/bills", billingCtrl.CreateBill)
		api.GET("/bills/:bill_id", billingCtrl.GetBill)
		api.POST("/bills/:bill_id/qris", billingCtrl.ChargeQRIS)
		api.DELETE("/transactions/:transaction_id", billingCtrl.DeleteTransaction)
		api.GET("/revenue", billingCtrl.GetRevenueSummary)
	}

	return r
}
