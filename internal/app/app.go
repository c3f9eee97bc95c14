package app

import (
	"context"
	"errors"
	"fmt"

	"climatework_backend/database"
	"climatework_backend/internal/auth"
	"climatework_backend/internal/config"
	"climatework_backend/internal/handlers"
	"climatework_backend/internal/logger"
	"climatework_backend/internal/middleware"
	"climatework_backend/internal/models"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/routes"
	"climatework_backend/internal/services"
	"climatework_backend/internal/validator"
	"climatework_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	workers.NewHousekeepingWorker(gormDB).Start(workerCtx)

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer, err := services.BuildServices(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}

	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg, gormDB)

	api := ginRouter.Group("/api/v1")
	routes.RegisterRoutes(api, appHandlers)

	return ginRouter
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	v := validator.New()
	guard := middleware.NewRouteGuard(repositories.NewProfileRepository())

	return &handlers.AppHandlers{
		AuthHandler:           handlers.NewAuthHandler(v, sc.AuthService, sc.CallbackService),
		OnboardingHandler:     handlers.NewOnboardingHandler(v, sc.OnboardingService, guard),
		ProfileHandler:        handlers.NewProfileHandler(v, sc.ProfileService, guard),
		RecommendationHandler: handlers.NewRecommendationHandler(v, sc.RecommendationService, guard),
		UploadHandler:         handlers.NewUploadHandler(v, sc.UploadService, guard),
		UserHandler:           handlers.NewUserHandler(v, sc.UserService, sc.AuditService, guard),
	}
}

func initializeGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.CORSMiddleware(),
		middleware.DBMiddleware(gormDB),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Local storage serves uploaded files directly.
	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		basePath := cfg.Storage.BasePath
		if basePath == "" {
			basePath = "./uploads"
		}
		router.Static("/files", basePath)
	}

	return router
}

// seedFirstAdmin creates the initial admin identity and its completed profile
// in one transaction. Idempotent: an existing user with the configured email
// is left alone.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", adminEmail).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := auth.HashPassword(adminPassword)
		if err != nil {
			return err
		}

		admin := &models.User{
			Email:        adminEmail,
			PasswordHash: hash,
			Status:       models.UserStatusActive,
			IsVerified:   true,
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}

		profile := &models.UserProfile{
			UserID:           admin.ID,
			UserType:         models.UserTypeAdmin,
			FirstName:        "Platform",
			LastName:         "Admin",
			ProfileCompleted: true,
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		logger.Info("Seeded first admin user", "email", adminEmail)
		return nil
	})
}
