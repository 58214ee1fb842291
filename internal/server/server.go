// Package server implements the sandbox store API used for local development
// and end-to-end tests. It speaks the same wire contract as the hosted
// platform: enveloped responses, short-lived bearer tokens with refresh, and
// CSRF protection on mutating routes.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopd-dev/shopd/internal/auth"
	"github.com/shopd-dev/shopd/internal/config"
	"github.com/shopd-dev/shopd/internal/models"
)

// Server represents the HTTP server
type Server struct {
	router    *gin.Engine
	db        *gorm.DB
	config    *config.Config
	logger    zerolog.Logger
	validator *validator.Validate
	cron      *cron.Cron
	uploadDir string
	version   string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	// Initialize database with production settings
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	// Run database migrations
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	// Initialize JWT authentication. An explicit secret keeps tokens valid
	// across restarts; otherwise one is generated for this process.
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		secretBytes := make([]byte, 32)
		if _, err := rand.Read(secretBytes); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		secret = hex.EncodeToString(secretBytes)
		zlog.Warn().Msg("SHOPD_JWT_SECRET not set - generated an ephemeral secret, tokens will not survive a restart")
	}
	auth.InitializeJWT(secret)

	// Register custom validators on gin's binding engine
	validate, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		validate = validator.New()
	}
	validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		// Allow lowercase alphanumerics and hyphens only (safe for URLs)
		value := fl.Field().String()
		if value == "" {
			return false
		}
		for _, char := range value {
			if !((char >= 'a' && char <= 'z') ||
				(char >= '0' && char <= '9') ||
				char == '-') {
				return false
			}
		}
		return true
	})

	uploadDir := os.Getenv("SHOPD_UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Create server
	server := &Server{
		db:        db,
		config:    cfg,
		logger:    zlog,
		validator: validate,
		cron:      cron.New(),
		uploadDir: uploadDir,
		version:   version,
	}

	// Setup router
	server.setupRouter()

	// Register background sweeps
	if err := server.registerSweeps(); err != nil {
		return nil, err
	}

	return server, nil
}

// initDatabase initializes the database connection with production settings
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 8    // Reduced for SQLite efficiency
		maxIdleConns    = 4    // Reduced proportionally
		connMaxLifetime = 300  // 5 minutes
		busyTimeout     = 5000 // 5 seconds
		cacheSize       = 10000
	)

	// Open database connection
	db, err := gorm.Open(sqlite.Open(cfg.Database.URL), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Get underlying sql.DB to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool settings
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Apply SQLite pragmas directly (connection string pragmas may not work
	// with all drivers). WAL mode must be set first for optimal concurrency.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		fmt.Sprintf("PRAGMA cache_size=-%d", cacheSize),
		"PRAGMA foreign_keys=1",
		"PRAGMA temp_store=2",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// Uploaded files are served statically
	s.router.Static("/uploads", s.uploadDir)

	// Public endpoints (no auth required)
	s.router.GET("/api/csrf-token", s.csrfToken)
	s.router.POST("/api/auth/login", s.login)
	s.router.POST("/api/auth/admin/login", s.adminLogin)
	s.router.POST("/api/auth/refresh", s.refresh)

	// Authenticated API routes (JWT required, CSRF checked on mutations)
	api := s.router.Group("/api")
	api.Use(JWTAuthMiddleware(s.db, s.logger))
	api.Use(CSRFMiddleware(s.logger))
	{
		// Auth endpoints
		api.GET("/auth/me", s.getCurrentUser)
		api.POST("/auth/logout", s.logout)

		// Catalog
		api.GET("/brands", s.listBrands)
		api.GET("/brands/:id", s.getBrand)
		api.POST("/brands", s.createBrand)
		api.PATCH("/brands/:id", s.updateBrand)
		api.DELETE("/brands/:id", s.deleteBrand)

		api.GET("/categories", s.listCategories)
		api.POST("/categories", s.createCategory)
		api.PATCH("/categories/:id", s.updateCategory)
		api.DELETE("/categories/:id", s.deleteCategory)

		api.GET("/specifications", s.listSpecifications)
		api.POST("/specifications", s.createSpecification)
		api.DELETE("/specifications/:id", s.deleteSpecification)

		api.GET("/products", s.listProducts)
		api.GET("/products/:id", s.getProduct)
		api.POST("/products", s.createProduct)
		api.PATCH("/products/:id", s.updateProduct)
		api.DELETE("/products/:id", s.deleteProduct)

		// Inventory
		api.GET("/inventory/:productId", s.getInventory)
		api.GET("/inventory/:productId/movements", s.listInventoryMovements)
		api.PATCH("/inventory/:productId/restock", s.restockInventory)
		api.PATCH("/inventory/:productId/adjust", s.adjustInventory)

		// Orders
		api.GET("/orders", s.listOrders)
		api.GET("/orders/:id", s.getOrder)
		api.PATCH("/orders/:id/status", s.updateOrderStatus)

		// Promotions
		api.GET("/deals", s.listDeals)
		api.POST("/deals", s.createDeal)
		api.PATCH("/deals/:id", s.updateDeal)
		api.DELETE("/deals/:id", s.deleteDeal)

		api.GET("/coupons", s.listCoupons)
		api.POST("/coupons", s.createCoupon)
		api.PATCH("/coupons/:id", s.updateCoupon)
		api.DELETE("/coupons/:id", s.deleteCoupon)

		api.GET("/banners", s.listBanners)
		api.POST("/banners", s.createBanner)
		api.PATCH("/banners/:id", s.updateBanner)
		api.DELETE("/banners/:id", s.deleteBanner)

		// Uploads
		api.POST("/uploads", s.createUpload)
		api.DELETE("/uploads/:id", s.deleteUpload)

		// User management (admin only)
		userRoutes := api.Group("/users")
		userRoutes.Use(AdminOnlyMiddleware(s.logger))
		{
			userRoutes.GET("", s.listUsers)
			userRoutes.GET("/:id", s.getUser)
			userRoutes.POST("", s.createUser)
			userRoutes.PATCH("/:id/deactivate", s.deactivateUser)
		}
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "shopd-api",
	})
}

// GetDB returns the database connection, used by the seeder and tests
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Handler returns the HTTP handler, used by httptest in end-to-end tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until a shutdown signal
func (s *Server) Start() error {
	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Create HTTP server with production timeouts
	srv := &http.Server{
		Addr:              s.config.HTTP.Addr,
		Handler:           s.router,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	s.cron.Start()

	// Start server in goroutine
	go func() {
		s.logger.Info().Str("addr", s.config.HTTP.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	// Stop background sweeps
	cronCtx := s.cron.Stop()
	<-cronCtx.Done()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	s.logger.Info().Msg("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}

	return nil
}
