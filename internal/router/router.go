// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/budayachain/budaya-backend/internal/config"
	"github.com/budayachain/budaya-backend/internal/handlers"
	"github.com/budayachain/budaya-backend/internal/i18n"
	"github.com/budayachain/budaya-backend/internal/metrics"
	"github.com/budayachain/budaya-backend/internal/middleware"
	"github.com/budayachain/budaya-backend/internal/models"
	"github.com/budayachain/budaya-backend/internal/repository"
	"github.com/budayachain/budaya-backend/internal/services"
	"github.com/budayachain/budaya-backend/internal/solana"
	"github.com/budayachain/budaya-backend/internal/utils"
)

const version = "1.0.0"

// Dependencies are the process-level resources the routes run against.
// A nil Storage is built from the AWS config and a nil Audit writes to
// Store.Audit.
type Dependencies struct {
	Store   *repository.Store
	Chain   *solana.Client
	Storage *services.StorageService
	Metrics *metrics.Metrics
	Audit   *middleware.AuditLogger
}

func Initialize(cfg *config.Config, deps Dependencies) *gin.Engine {
	storageService := deps.Storage
	if storageService == nil {
		var err error
		storageService, err = services.NewStorageService(cfg.AWS)
		if err != nil {
			logrus.WithError(err).Warn("Object storage disabled")
			storageService, _ = services.NewStorageService(config.AWSConfig{})
		}
	}

	// Initialize services
	artisanService := services.NewArtisanService(deps.Store)
	productService := services.NewProductService(deps.Store, cfg.Royalty, deps.Metrics)
	transactionService := services.NewTransactionService(deps.Store, deps.Chain, cfg, deps.Metrics)
	daoService := services.NewDAOService(deps.Store, deps.Metrics)
	blockchainService := services.NewBlockchainService(deps.Store, deps.Chain, storageService, productService, cfg)
	qrService := services.NewQRService(deps.Store)
	analyticsService := services.NewAnalyticsService(deps.Store, cfg.Royalty)
	authService := services.NewAuthService(cfg, deps.Metrics)
	adminService := services.NewAdminService(deps.Store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	artisanHandler := handlers.NewArtisanHandler(artisanService)
	productHandler := handlers.NewProductHandler(productService, qrService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	daoHandler := handlers.NewDAOHandler(daoService, blockchainService)
	blockchainHandler := handlers.NewBlockchainHandler(blockchainService)
	verificationHandler := handlers.NewVerificationHandler(qrService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	uploadHandler := handlers.NewUploadHandler(storageService)
	adminHandler := handlers.NewAdminHandler(adminService, daoService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   version,
			"network":   deps.Chain.Network(),
			"languages": i18n.GetSupportedLanguages(),
			"time":      time.Now().UTC(),
		})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	generalLimit := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, time.Minute, cfg.RateLimit.Burst)
	authLimit := middleware.NewRateLimiter(10, time.Minute, 10)
	uploadLimit := middleware.NewRateLimiter(20, time.Minute, 5)

	api := r.Group("/api")
	api.Use(generalLimit.Middleware())
	audit := deps.Audit
	if audit == nil {
		audit = middleware.NewAuditLogger(deps.Store.Audit)
	}
	api.Use(audit.Middleware())
	{
		// Authentication routes
		auth := api.Group("/auth")
		auth.Use(authLimit.Middleware())
		{
			auth.POST("/challenge", authHandler.Challenge)
			auth.POST("/verify", authHandler.Verify)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetSession)
		}

		// Artisan routes
		artisans := api.Group("/artisans")
		{
			artisans.GET("", artisanHandler.GetArtisans)
			artisans.GET("/wallet/:wallet", artisanHandler.GetArtisanByWallet)
			artisans.GET("/:id", artisanHandler.GetArtisan)
			artisans.GET("/:id/royalties", artisanHandler.GetRoyalties)

			// Authenticated routes
			protected := artisans.Group("")
			protected.Use(middleware.RequireAuth())
			{
				protected.POST("", artisanHandler.RegisterArtisan)
				protected.POST("/register", artisanHandler.RegisterArtisan)
				protected.PATCH("/:id", artisanHandler.UpdateArtisan)
			}
		}

		// Product routes
		products := api.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/list", productHandler.GetListedProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/transactions", productHandler.GetProductTransactions)
			products.GET("/:id/qr", productHandler.GetProductQR)

			// Authenticated routes
			protected := products.Group("")
			protected.Use(middleware.RequireAuth())
			{
				protected.POST("", productHandler.CreateProduct)
				protected.POST("/create", productHandler.CreateProduct)
				protected.PATCH("/:id", productHandler.UpdateProduct)
			}
		}

		// Transaction routes
		transactions := api.Group("/transactions")
		{
			transactions.GET("", transactionHandler.GetTransactions)
			transactions.POST("", middleware.RequireAuth(), transactionHandler.RecordTransaction)
			transactions.POST("/create", middleware.RequireAuth(), transactionHandler.RecordTransaction)
		}

		// DAO routes
		dao := api.Group("/dao")
		{
			dao.GET("/proposals", daoHandler.GetProposals)
			dao.GET("/proposals/:id", middleware.OptionalAuth(), daoHandler.GetProposal)
			dao.GET("/treasury", daoHandler.GetTreasury)
			dao.POST("/proposals", middleware.RequireAuth(), daoHandler.CreateProposal)
			dao.POST("/vote", middleware.RequireAuth(), daoHandler.CastVote)
		}

		// Blockchain routes
		blockchain := api.Group("/blockchain")
		{
			blockchain.GET("/mint", blockchainHandler.GetMintInfo)
			blockchain.GET("/verify", blockchainHandler.VerifyNFT)
			blockchain.GET("/balance/:wallet", blockchainHandler.GetBalance)
			blockchain.POST("/mint", middleware.RequireAuth(), blockchainHandler.PrepareMint)
			blockchain.POST("/purchase", middleware.RequireAuth(), blockchainHandler.PreparePurchase)
		}

		// Verification routes (public)
		api.POST("/verify/qr", verificationHandler.VerifyQR)

		// Reference data and search
		api.GET("/search/products", productHandler.SearchProducts)
		api.GET("/categories", productHandler.GetCategories)
		api.GET("/regions", productHandler.GetRegions)

		// Upload routes
		api.POST("/uploads/images", middleware.RequireAuth(), uploadLimit.Middleware(), uploadHandler.UploadImages)

		// Analytics routes
		analytics := api.Group("/analytics")
		{
			analytics.GET("/dashboard", analyticsHandler.GetDashboard)

			oversight := analytics.Group("")
			oversight.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleGovernment, models.RoleAdmin))
			{
				oversight.GET("/regions", analyticsHandler.GetRegions)
				oversight.GET("/categories", analyticsHandler.GetCategories)
				oversight.GET("/timeseries", analyticsHandler.GetTimeSeries)
				oversight.GET("/top-artisans", analyticsHandler.GetTopArtisans)
				oversight.GET("/report", analyticsHandler.GetReport)
			}
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/stats", adminHandler.GetDashboardStats)
			admin.GET("/artisans/pending", adminHandler.GetPendingArtisans)
			admin.PUT("/artisans/:id/verify", adminHandler.VerifyArtisan)
			admin.POST("/dao/proposals/:id/finalize", adminHandler.FinalizeProposal)
			admin.POST("/dao/proposals/:id/execute", adminHandler.ExecuteProposal)
		}
	}

	return r
}
