package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "taskflow/docs"
	"taskflow/internal/config"
	"taskflow/internal/handlers"
	"taskflow/internal/pdf"
	"taskflow/internal/repositories"
	"taskflow/internal/routes"
	"taskflow/internal/services"
)

func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === DB ===
	db, err := repositories.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()
	if err := repositories.Migrate(ctx, db, cfg.Database.Driver); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	router, err := NewRouter(ctx, cfg, db)
	if err != nil {
		return err
	}

	// === Run ===
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Сервер запущен на %s (db=%s)", srv.Addr, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[shutdown] stopping http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// NewRouter wires repositories, services and handlers on top of an already
// migrated db. Seed users are inserted when enabled.
func NewRouter(ctx context.Context, cfg *config.Config, db *sql.DB) (*gin.Engine, error) {
	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	errorRepo := repositories.NewErrorRepository(db)

	// === Services ===
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)

	var emailService services.EmailService
	if cfg.Email.SMTPHost != "" {
		emailService = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}

	var notifier services.Notifier
	if cfg.Telegram.BotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			// без телеграма работаем дальше
			log.Printf("[tg][init][err] %v", err)
		} else {
			log.Printf("[tg][init] authorized as @%s", bot.Self.UserName)
			notifier = services.NewTelegramService(bot, userRepo)
		}
	}

	userService := services.NewUserService(userRepo, emailService, authService)
	taskService := services.NewTaskService(taskRepo, errorRepo, notifier)
	statsService := services.NewStatsService(taskRepo, errorRepo)

	if cfg.Seed.Enabled {
		seeds := services.DefaultSeedUsers(cfg.Seed.AdminPassword, cfg.Seed.WorkerPassword)
		if err := userService.EnsureSeedUsers(ctx, seeds); err != nil {
			return nil, err
		}
	}

	pdfGen := pdf.NewReportGenerator(cfg.Reports.FontPath)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)
	reportHandler := handlers.NewReportHandler(statsService, taskService, pdfGen)

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Роуты (JWT/RBAC внутри SetupRoutes)
	routes.SetupRoutes(
		router,
		authService,
		authHandler,
		userHandler,
		taskHandler,
		reportHandler,
	)
	return router, nil
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
