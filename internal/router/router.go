package router

import (
	"time"

	"github.com/ThatoMphasane/thato/internal/config"
	"github.com/ThatoMphasane/thato/internal/handler"
	"github.com/ThatoMphasane/thato/internal/middleware"
	"github.com/ThatoMphasane/thato/internal/repository"
	"github.com/ThatoMphasane/thato/internal/service"
	"github.com/ThatoMphasane/thato/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, movementRepo, rdb, dispatcher, cfg.LowStockThreshold)
	inventorySvc := service.NewInventoryService(productRepo, movementRepo, rdb, dispatcher, cfg.LowStockThreshold)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	usersH := handler.NewUsersHandler(authSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc, productSvc, cfg.LowStockThreshold)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/", handler.Banner())
	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api")
	{
		api.POST("/auth/login", middleware.LoginRateLimiter(), authH.Login)

		api.GET("/products", productsH.List)
		api.GET("/products/:id", productsH.GetByID)
		api.POST("/products", productsH.Create)
		// One handler serves both legacy PUT bodies: full record or {quantity}
		api.PUT("/products/:id", productsH.Update)
		api.DELETE("/products/:id", productsH.Delete)

		api.PATCH("/products/:id/stock", inventoryH.AdjustStock)
		api.GET("/products/:id/movements", inventoryH.ListMovements)
		api.GET("/reports/inventory", inventoryH.InventoryReport)

		api.GET("/users", usersH.List)
		api.POST("/users", usersH.Create) // signup

		// User administration requires a valid session (no role model)
		jwtMW := middleware.JWTAuth(cfg.JWTSecret)
		api.PUT("/users/:id", jwtMW, usersH.Update)
		api.DELETE("/users/:id", jwtMW, usersH.Delete)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
