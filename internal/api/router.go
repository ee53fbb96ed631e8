package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/changecomm/admin-system/internal/api/handler"
	"github.com/changecomm/admin-system/internal/api/middleware"
	"github.com/changecomm/admin-system/internal/core/ports"
	"github.com/changecomm/admin-system/internal/core/service"
	mongodb "github.com/changecomm/admin-system/internal/infrastructure/db/mongo"
	redisdb "github.com/changecomm/admin-system/internal/infrastructure/db/redis"
)

// Options carries the router's external dependencies.
type Options struct {
	DB        *mongo.Database
	Redis     *redis.Client
	Mail      ports.MailDispatcher
	JWTSecret string
	TokenTTL  time.Duration
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("changecomm"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(opts.DB)
	settingsRepo := mongodb.NewSettingsRepository(opts.DB)
	otpStore := redisdb.NewOTPStore(opts.Redis)

	authService := service.NewAuthService(userRepo, otpStore, opts.Mail, opts.JWTSecret, opts.TokenTTL, opts.Logger)
	trainerService := service.NewTrainerService(userRepo, opts.Logger)
	settingsService := service.NewSettingsService(settingsRepo, opts.Logger)

	authHandler := handler.NewAuthHandler(authService)
	trainerHandler := handler.NewTrainerHandler(trainerService)
	settingsHandler := handler.NewSettingsHandler(settingsService)

	authMiddleware := middleware.Auth(opts.JWTSecret)
	adminOnly := middleware.AdminOnly()

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/forget-password", authHandler.ForgotPassword)
	e.POST("/auth/verify-code", authHandler.VerifyCode)
	e.POST("/auth/reset-password", authHandler.ResetPassword)
	e.POST("/auth/change-password", authHandler.ChangePassword, authMiddleware)

	// --- Trainer management (admin role required) ---
	admin := e.Group("/admin", authMiddleware, adminOnly)
	admin.GET("/users", trainerHandler.List)
	admin.POST("/trainer", trainerHandler.Create)
	admin.PATCH("/users/:id", trainerHandler.Update)
	admin.DELETE("/users/:id", trainerHandler.Delete)

	// --- System settings (admin role required) ---
	settings := e.Group("/system-setting", authMiddleware, adminOnly)
	settings.GET("", settingsHandler.Get)
	settings.POST("", settingsHandler.Initialize)
	settings.PUT("/:id", settingsHandler.Update)

	// --- Operational endpoints ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.DB, opts.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
