package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"studlance_backend/internal/auth"
	"studlance_backend/internal/config"
	"studlance_backend/internal/database"
	"studlance_backend/internal/email"
	"studlance_backend/internal/handlers"
	"studlance_backend/internal/logger"
	"studlance_backend/internal/middleware"
	"studlance_backend/internal/models"
	"studlance_backend/internal/routes"
	"studlance_backend/internal/services"
	"studlance_backend/internal/storage"
	"studlance_backend/internal/validator"
	"studlance_backend/internal/workers"
	"studlance_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Run boots the whole service and blocks on the HTTP server.
func Run() error {
	config.LoadConfig()
	cfg := config.GetConfig()
	logger.Init(cfg.Server.Env)
	log := logger.GetLogger()

	db, err := database.Connect(cfg.Database.DSN, cfg.Server.Env)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	seedFirstAdmin(db)

	store, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Endpoint:   cfg.Storage.Endpoint,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wsManager := ws.NewManager(newRedisClient(cfg))
	emailProvider := email.NewProvider(cfg)
	container := services.NewServiceContainer(store, emailProvider, wsManager)

	wsManager.SetSnapshotFunc(func(ctx context.Context, userID, channel string) (interface{}, error) {
		return container.Chat.Snapshot(ctx, db, userID, channel)
	})
	go wsManager.Run(ctx)

	go workers.NewNotificationWorker(db).Run(ctx)

	router := SetupRouter(db, container, store, wsManager)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("server listening",
		slog.String("addr", addr),
		slog.String("env", cfg.Server.Env),
		slog.String("storage", cfg.Storage.Type))

	return http.ListenAndServe(addr, router)
}

// SetupRouter builds the gin engine with all middleware and routes. The
// test suite calls this directly against its own database handle.
func SetupRouter(db *gorm.DB, container *services.ServiceContainer, store storage.Storage, wsManager *ws.Manager) *gin.Engine {
	cfg := config.GetConfig()
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))

	v := validator.New()
	appHandlers := handlers.NewAppHandlers(container, v, store, wsManager)
	routes.Register(router, appHandlers)

	return router
}

// seedFirstAdmin creates the admin account from ADMIN_EMAIL/ADMIN_PASSWORD.
// Admins are never registered through the API.
func seedFirstAdmin(db *gorm.DB) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count).Error; err != nil || count > 0 {
		return
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		logger.GetLogger().Warn("admin seed failed", slog.String("error", err.Error()))
		return
	}

	admin := &models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}
	if err := db.Create(admin).Error; err != nil {
		logger.GetLogger().Warn("admin seed failed", slog.String("error", err.Error()))
		return
	}
	logger.GetLogger().Info("seeded admin account", slog.String("email", adminEmail))
}

func newRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.URL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.GetLogger().Warn("invalid redis url, pub/sub bridge disabled",
			slog.String("error", err.Error()))
		return nil
	}
	return redis.NewClient(opts)
}
