package router

import (
	"time"

	"github.com/GestharPDV/gesthar-pdv/internal/config"
	"github.com/GestharPDV/gesthar-pdv/internal/handler"
	"github.com/GestharPDV/gesthar-pdv/internal/middleware"
	"github.com/GestharPDV/gesthar-pdv/internal/repository"
	"github.com/GestharPDV/gesthar-pdv/internal/service"
	"github.com/GestharPDV/gesthar-pdv/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	customerRepo := repository.NewCustomerRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	productRepo := repository.NewProductRepository(db)
	variationRepo := repository.NewVariationRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	registerRepo := repository.NewRegisterRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	customerSvc := service.NewCustomerService(customerRepo)
	catalogSvc := service.NewCatalogService(catalogRepo, productRepo, variationRepo)
	stockSvc := service.NewStockService(variationRepo, movementRepo)
	registerSvc := service.NewRegisterService(registerRepo)
	saleSvc := service.NewSaleService(saleRepo, variationRepo, registerSvc, stockSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	stockH := handler.NewStockHandler(stockSvc)
	registerH := handler.NewRegisterHandler(registerSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	priceH := handler.NewPriceCheckHandler(catalogSvc, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required
	r.GET("/v1/price/:sku", priceH.GetPriceBySKU)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, supervisor, admin — declared per-endpoint
		staff := middleware.RequireRole("cashier", "supervisor", "admin")
		senior := middleware.RequireRole("supervisor", "admin")
		admin := middleware.RequireRole("admin")

		customers := v1.Group("/customers", staff)
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.GET("/tax-id/:tax_id", customersH.GetByTaxID)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", middleware.RequireRole("supervisor", "admin"), customersH.Deactivate)
			customers.PATCH("/:id/reactivate", middleware.RequireRole("supervisor", "admin"), customersH.Reactivate)
		}

		// Catalog lookups — everyone reads, supervisors write
		v1.GET("/categories", staff, productsH.ListCategories)
		v1.POST("/categories", senior, productsH.CreateCategory)
		v1.GET("/colors", staff, productsH.ListColors)
		v1.POST("/colors", senior, productsH.CreateColor)
		v1.GET("/sizes", staff, productsH.ListSizes)
		v1.POST("/sizes", senior, productsH.CreateSize)
		v1.GET("/suppliers", staff, productsH.ListSuppliers)
		v1.POST("/suppliers", senior, productsH.CreateSupplier)

		v1.GET("/products", staff, productsH.List)
		v1.GET("/products/:id", staff, productsH.Get)
		prods := v1.Group("/products", senior)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}
		v1.POST("/variations", senior, productsH.CreateVariation)

		stock := v1.Group("/stock", senior)
		{
			stock.POST("/add", stockH.Add)
			stock.POST("/remove", stockH.Remove)
			stock.GET("/movements", stockH.Movements)
			stock.GET("/low", stockH.LowStock)
		}

		register := v1.Group("/register")
		{
			register.POST("/open", staff, registerH.Open)
			register.POST("/:id/close", staff, registerH.Close)
			register.GET("/current", staff, registerH.Current)
			register.GET("/:id/report", staff, registerH.Report)
			register.GET("/history", senior, registerH.History)
		}

		sales := v1.Group("/sales", staff)
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
			sales.POST("/:id/items", salesH.AddItem)
			sales.DELETE("/:id/items/:item_id", salesH.RemoveItem)
			sales.POST("/:id/payments", salesH.AddPayment)
			sales.DELETE("/:id/payments/:payment_id", salesH.RemovePayment)
			sales.POST("/:id/discount", salesH.ApplyDiscount)
			sales.POST("/:id/complete", salesH.Complete)
			sales.POST("/:id/cancel", middleware.RequireRole("supervisor", "admin"), salesH.Cancel)
		}

		users := v1.Group("/users", admin)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.PATCH("/:id/reactivate", authH.ReactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
