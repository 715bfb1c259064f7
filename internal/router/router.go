package router

import (
	"time"

	"venuely/config"
	"venuely/internal/handler"
	"venuely/internal/middleware"
	"venuely/internal/repository"
	"venuely/internal/service"
	"venuely/internal/ws"
	"venuely/pkg/attachment"
	"venuely/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services, listeners and routes. It returns the
// engine plus the booking service so main can run the completion sweeper.
func Setup(cfg *config.Config, db *gorm.DB, store attachment.Store, gateway payment.Provider) (*gin.Engine, *service.BookingService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	buildingRepo := repository.NewBuildingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	hub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	bookingSvc := service.NewBookingService(bookingRepo, paymentRepo, buildingRepo, gateway, cfg)
	refundSvc := service.NewRefundService(bookingRepo, paymentRepo, refundRepo, gateway, cfg)
	availSvc := service.NewAvailabilityService(bookingRepo, buildingRepo)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, hub)

	// Transition events fan out to notifications (and through them the
	// websocket channel) after each commit.
	bookingSvc.Subscribe(notifSvc)
	refundSvc.Subscribe(notifSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc, refundSvc)
	adminHandler := handler.NewAdminHandler(bookingSvc, bookingRepo, paymentRepo)
	availHandler := handler.NewAvailabilityHandler(availSvc)
	buildingHandler := handler.NewBuildingHandler(buildingRepo)
	notificationHandler := handler.NewNotificationHandler(notifSvc)
	uploadHandler := handler.NewUploadHandler(store)
	webhookHandler := handler.NewWebhookHandler(bookingSvc, refundSvc, &cfg.Gateway)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		buildings := api.Group("/buildings")
		{
			buildings.GET("", buildingHandler.List)
			buildings.GET("/available", availHandler.Search)
			buildings.GET("/:id", buildingHandler.Get)
			buildings.GET("/:id/calendar", availHandler.Calendar)
		}

		bookings := api.Group("/bookings", authMw)
		{
			bookings.POST("", bookingHandler.Submit)
			bookings.GET("", bookingHandler.List)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.POST("/:id/cancel", bookingHandler.Cancel)
			bookings.POST("/:id/payment", bookingHandler.InitiatePayment)
			bookings.POST("/:id/refund", bookingHandler.RequestRefund)
			bookings.GET("/:id/refund", bookingHandler.GetRefund)
		}

		api.POST("/uploads/document", authMw, uploadHandler.Upload)

		notifications := api.Group("/notifications", authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
		}

		admin := api.Group("/admin", authMw, middleware.AdminRequired())
		{
			admin.GET("/bookings", adminHandler.ListBookings)
			admin.POST("/bookings/:id/approve", adminHandler.Approve)
			admin.POST("/bookings/:id/reject", adminHandler.Reject)
			admin.POST("/bookings/:id/cancel", bookingHandler.Cancel)
			admin.GET("/stats", adminHandler.Stats)
			admin.POST("/buildings", buildingHandler.Create)
			admin.PUT("/buildings/:id", buildingHandler.Update)
			admin.DELETE("/buildings/:id", buildingHandler.Delete)
			admin.POST("/buildings/:id/managers", buildingHandler.AddManager)
		}

		webhooks := api.Group("/webhooks")
		{
			webhooks.POST("/payment", webhookHandler.Payment)
			webhooks.POST("/refund", webhookHandler.Refund)
		}

		api.GET("/ws/events", ws.UpgradeEventsWS(&cfg.JWT, hub))
	}

	return r, bookingSvc
}
