package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/pkg/metrics"
	"github.com/polkiloo/marketplace/internal/server/http/handlers"
	"github.com/polkiloo/marketplace/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MarketplaceFacade, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics(m))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	api := engine.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(facade))

	orders := protected.Group("/orders")
	orders.POST("", middleware.RequireRoles(model.RoleBuyer), orderHandler.Create)
	orders.GET("/mine", middleware.RequireRoles(model.RoleBuyer), orderHandler.Mine)
	orders.GET("/selling", middleware.RequireRoles(model.RoleSeller), orderHandler.Selling)
	orders.GET("/:id", orderHandler.Get)
	orders.PUT("/:id/status", orderHandler.UpdateStatus)
	orders.GET("/:id/transitions", orderHandler.Transitions)

	products := protected.Group("/products")
	products.POST("", middleware.RequireRoles(model.RoleSeller), productHandler.Create)
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.PUT("/:id", middleware.RequireRoles(model.RoleSeller), productHandler.Update)
	products.DELETE("/:id", middleware.RequireRoles(model.RoleSeller), productHandler.Delete)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRoles(model.RoleAdmin))
	admin.GET("/orders", orderHandler.All)
	admin.GET("/users", adminHandler.Users)
	admin.GET("/users/:id", adminHandler.User)
	admin.PUT("/users/:id/active", adminHandler.SetActive)

	return engine
}
