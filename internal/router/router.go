package router

import (
	"time"

	"poolside/config"
	"poolside/internal/handler"
	"poolside/internal/middleware"
	"poolside/internal/repository"
	"poolside/internal/service"
	"poolside/pkg/cloudinary"
	"poolside/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, mailer service.Mailer, ozow *payment.OzowClient, payfast *payment.PayFastClient) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(100, time.Minute))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	contactRepo := repository.NewContactRepository(db)
	shippingRepo := repository.NewShippingRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, auditRepo, mailer)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	productHandler := handler.NewProductHandler(productRepo)
	announcementHandler := handler.NewAnnouncementHandler(announcementRepo)
	contactHandler := handler.NewContactHandler(contactRepo, mailer)
	shippingHandler := handler.NewShippingHandler(shippingRepo)
	checkoutHandler := handler.NewCheckoutHandler(productRepo, orderRepo, shippingRepo, ozow, payfast)
	ozowWebhookHandler := handler.NewOzowWebhookHandler(ozow, orderSvc, auditRepo)
	payfastWebhookHandler := handler.NewPayFastWebhookHandler(payfast, orderRepo, orderSvc, auditRepo)
	orderHandler := handler.NewOrderHandler(orderRepo, cfg)
	uploadHandler := handler.NewUploadHandler(cloud)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
		}

		// Public storefront
		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)
		api.GET("/announcements", announcementHandler.List)
		api.GET("/shipping/rates", shippingHandler.Rates)
		api.POST("/contact", contactHandler.Submit)
		api.POST("/checkout", checkoutHandler.Checkout)

		// Gateway callbacks - no auth, authenticated by signature
		payments := api.Group("/payments")
		{
			payments.POST("/ozow/notify", ozowWebhookHandler.Notify)
			payments.POST("/ozow/redirect", ozowWebhookHandler.Redirect)
			payments.POST("/payfast/itn", payfastWebhookHandler.ITN)
			payments.GET("/payfast/return", payfastWebhookHandler.Return)
			payments.GET("/payfast/cancel", payfastWebhookHandler.Cancel)
		}

		// Admin
		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/products", productHandler.ListAll)
			admin.POST("/products", productHandler.Create)
			admin.PUT("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)
			admin.POST("/products/image", uploadHandler.UploadProductImage)
			admin.GET("/announcements", announcementHandler.ListAll)
			admin.POST("/announcements", announcementHandler.Create)
			admin.PUT("/announcements/:id", announcementHandler.Update)
			admin.DELETE("/announcements/:id", announcementHandler.Delete)
			admin.GET("/contacts", contactHandler.List)
			admin.PUT("/shipping/rates", shippingHandler.UpdateRate)
			admin.GET("/orders", orderHandler.List)
			admin.GET("/orders/:reference", orderHandler.Get)
			admin.GET("/orders/:reference/invoice", orderHandler.Invoice)
		}
	}

	return r
}
