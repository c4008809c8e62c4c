// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/shackcart/backoffice/internal/config"
	"github.com/shackcart/backoffice/internal/handlers"
	"github.com/shackcart/backoffice/internal/middleware"
	"github.com/shackcart/backoffice/internal/services"
)

// New wires services, handlers and middleware into the HTTP surface. The
// back-office group sits behind the operator JWT; everything else is the
// public storefront API.
func New(db *gorm.DB, rdb *redis.Client, cfg *config.Config) (*gin.Engine, error) {
	catalogService := services.NewCatalogService(db)
	contentCache := services.NewRedisContentCache(rdb)
	contentService := services.NewContentService(contentCache)
	mailer := services.NewSMTPMailer(&cfg.Email)
	notificationService := services.NewNotificationService(mailer, contentCache, cfg, db)
	enricher := services.NewEnrichmentResolver(services.NewIPWhoisClient(&cfg.Geo))
	orderService := services.NewOrderService(db, enricher, notificationService)
	customerService := services.NewCustomerService(db)
	authService := services.NewAuthService(db, &cfg.JWT)
	paymentService := services.NewPaymentService(&cfg.Payment)

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, storageService)
	orderHandler := handlers.NewOrderHandler(orderService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	storeHandler := handlers.NewStoreHandler(notificationService, contentService, paymentService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))

	generalLimiter := middleware.NewRateLimiter(rate.Limit(20), 40)
	contactLimiter := middleware.NewRateLimiter(rate.Limit(0.2), 3)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(generalLimiter.Middleware())

	api.POST("/auth/login", authHandler.Login)

	// Public storefront surface.
	api.GET("/products", catalogHandler.ListProducts)
	api.GET("/products/:id", catalogHandler.GetProduct)
	api.GET("/products/slug/:slug", catalogHandler.GetProductBySlug)
	api.GET("/categories", catalogHandler.ListCategories)
	api.GET("/content/landing", storeHandler.LandingContent)
	api.POST("/store/contact", contactLimiter.Middleware(), storeHandler.Contact)
	api.POST("/payments/intent", storeHandler.CreatePaymentIntent)
	api.POST("/customers", customerHandler.RegisterCustomer)
	api.POST("/orders", orderHandler.CreateOrder)
	api.GET("/orders/:id", orderHandler.GetOrder)

	// Operator back office.
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired())
	{
		admin.GET("/me", authHandler.Me)
		admin.POST("/products", catalogHandler.UpsertProduct)
		admin.POST("/products/images", catalogHandler.UploadProductImage)
		admin.POST("/categories", catalogHandler.UpsertCategory)
		admin.GET("/orders", orderHandler.ListOrders)
		admin.PUT("/orders/:id", orderHandler.UpdateOrder)
		admin.POST("/orders/:id/recovery-email", storeHandler.SendRecoveryEmail)
		admin.GET("/customers", customerHandler.ListCustomers)
		admin.GET("/customers/:id", customerHandler.GetCustomer)
		admin.PUT("/customers/:id", customerHandler.ModifyCustomer)
		admin.PUT("/content/landing", storeHandler.SaveLandingContent)
	}

	logrus.Info("Router initialized")
	return r, nil
}
