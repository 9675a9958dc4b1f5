package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/castroh/pdi-agent/internal/api/handler"
	customMiddleware "github.com/castroh/pdi-agent/internal/api/middleware"
	"github.com/castroh/pdi-agent/internal/config"
	"github.com/castroh/pdi-agent/internal/genai"
	"github.com/castroh/pdi-agent/internal/mailer"
	"github.com/castroh/pdi-agent/internal/pdf"
	"github.com/castroh/pdi-agent/internal/repository/mongodb"
	"github.com/castroh/pdi-agent/internal/repository/redis"
	"github.com/castroh/pdi-agent/internal/scraper"
	"github.com/castroh/pdi-agent/internal/security"
	"github.com/castroh/pdi-agent/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	mongoClient *mongodb.Client,
	redisClient *redis.Client,
	genaiClient *genai.Client,
	resetMailer *mailer.Mailer,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Initialize repositories
	userRepo := mongodb.NewUserRepository(mongoClient)

	// Initialize rate limiter
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)

	// Initialize services
	authService := service.NewAuthService(userRepo, resetMailer, jwtManager, cfg.Auth.ResetTokenTTL)
	profileService := service.NewProfileService(userRepo)
	analysisService := service.NewAnalysisService(
		userRepo,
		scraper.NewScraper(cfg.Scraper),
		genaiClient,
		cfg.Analysis,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, profileService)
	profileHandler := handler.NewProfileHandler(profileService)
	analysisHandler := handler.NewAnalysisHandler(analysisService, profileService)
	reportHandler := handler.NewReportHandler(profileService, pdf.NewRenderer(cfg.Report.FontPath))

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(mongoClient))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/forgot", authHandler.Forgot)
			r.Post("/reset", authHandler.Reset)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/me", authHandler.Me)

			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpdateProfile)

			r.Get("/plan", profileHandler.GetPlan)
			r.Put("/plan", profileHandler.UpdatePlan)

			r.Post("/analysis", analysisHandler.Start)
			r.Get("/analysis/status", analysisHandler.Status)
			r.Get("/analysis", analysisHandler.Get)

			r.Get("/report.pdf", reportHandler.Download)
		})
	})

	return r
}
