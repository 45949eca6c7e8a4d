package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/profilehub/user-service/docs"
	"github.com/profilehub/user-service/internal/config"
	"github.com/profilehub/user-service/internal/handlers"
	"github.com/profilehub/user-service/internal/logger"
	"github.com/profilehub/user-service/internal/middleware"
	"github.com/profilehub/user-service/internal/models"
	"github.com/profilehub/user-service/internal/repositories"
	"github.com/profilehub/user-service/internal/services"
	"github.com/profilehub/user-service/internal/storage"
	"github.com/profilehub/user-service/internal/token"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title ProfileHub User API
// @version 1.0
// @description API for user accounts: registration, login, profile editing, uploads and admin management

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting ProfileHub User Service")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize token codec with the immutable signing secret
	tokenCodec := token.NewCodec(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize upload storage
	store := storage.NewLocalStorage(cfg.Media.BasePath)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenCodec, logger.Logger)
	userService := services.NewUserService(userRepo, store, logger.Logger)
	adminService := services.NewAdminService(userRepo, logger.Logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	userHandler := handlers.NewUserHandler(userService, logger.Logger)
	adminHandler := handlers.NewAdminHandler(adminService, logger.Logger)

	// Initialize the authentication and authorization gates
	authMiddleware := middleware.Authenticate(tokenCodec, userRepo, logger.Logger)
	adminMiddleware := middleware.RequireRoles(models.RoleAdmin)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger.Logger))
	r.Use(middleware.Recovery(logger.Logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimit(25 * 1024 * 1024)) // 25MB, above the multipart limit

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Register public and authenticated routes
	authHandler.RegisterRoutes(r)
	userHandler.RegisterRoutes(r, authMiddleware)

	// Register admin routes behind both gates: authentication first,
	// role check second
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		adminHandler.RegisterRoutes(r)
	})

	// Static file serving of uploaded assets
	serveStatic(r, "/uploads", filepath.Join(cfg.Media.BasePath, "uploads"))
	serveStatic(r, "/files", filepath.Join(cfg.Media.BasePath, "files"))

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// serveStatic mounts a file server for uploaded assets under the given prefix
func serveStatic(r chi.Router, prefix, dir string) {
	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	r.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		fs.ServeHTTP(w, req)
	})
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
