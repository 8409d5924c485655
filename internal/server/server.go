// Package server contains the HTTP handlers for the application's
// endpoints and the wiring that assembles the Fiber app.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/mailer"
	"inkwell/internal/middleware"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/session"
	"inkwell/internal/upload"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config   *config.Config
	db       *gorm.DB
	redis    *redis.Client
	sessions session.Store
	tokens   *auth.ResetTokenSigner

	authService    *service.AuthService
	postService    *service.PostService
	commentService *service.CommentService
	userService    *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			middleware.Logger.Warn("invalid redis URL, sessions fall back to memory", "error", err)
		} else {
			redisClient = redis.NewClient(opts)
		}
	}

	var sessions session.Store
	if redisClient != nil {
		sessions = session.NewRedisStore(redisClient, session.DefaultTTL)
	} else {
		sessions = session.NewMemoryStore(session.DefaultTTL)
	}

	s := NewServerWithDeps(cfg, db, sessions)
	s.redis = redisClient
	return s, nil
}

// NewServerWithDeps wires the server on top of an existing database
// and session store. The test suite uses this with SQLite and an
// in-memory store.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, sessions session.Store) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	hasher := auth.NewBcryptHasher()
	tokens := auth.NewResetTokenSigner(cfg.SecretKey)
	notifier := mailer.New(cfg, middleware.Logger)
	uploads := upload.NewStore(cfg.UploadDir, cfg.MaxUploadSizeBytes())

	return &Server{
		config:   cfg,
		db:       db,
		sessions: sessions,
		tokens:   tokens,

		authService:    service.NewAuthService(userRepo, hasher, sessions, tokens, notifier, cfg.BaseURL, middleware.Logger),
		postService:    service.NewPostService(postRepo, commentRepo),
		commentService: service.NewCommentService(commentRepo, postRepo),
		userService:    service.NewUserService(userRepo, postRepo, uploads),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware
	app.Use(middleware.StructuredLogger())

	// OpenTelemetry span per request
	app.Use(middleware.TracingMiddleware())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	// CORS
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Resolve the session when one is presented. Handlers that must
	// order their checks (missing resource before missing login) run
	// behind this rather than SessionRequired.
	app.Use(middleware.OptionalSession(s.sessions))
}

// Prometheus collectors register globally, so the middleware is built
// once even when several apps are assembled in one process.
var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	promOnce.Do(func() {
		prom = fiberprometheus.New("inkwell")
	})
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Get("/healthz", s.HealthCheck)

	// Uploaded profile pictures
	app.Static("/uploads", s.config.UploadDir)

	// Feed
	app.Get("/", s.HomeFeed)
	app.Get("/home", s.HomeFeed)

	// Auth
	app.Get("/register", s.RegisterPage)
	app.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	app.Get("/login", s.LoginPage)
	app.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/logout", s.Logout)

	// Password reset
	app.Get("/reset_password", s.ResetRequestPage)
	app.Post("/reset_password", middleware.RateLimit(s.redis, 5, 15*time.Minute, "reset_request"), s.RequestPasswordReset)
	app.Get("/reset_password/:token", s.VerifyResetToken)
	app.Post("/reset_password/:token", s.ResetPassword)

	// Posts. Owner-only routes stay outside SessionRequired so a
	// missing post yields 404 before any login check.
	app.Get("/create", middleware.SessionRequired(s.sessions), s.NewPostPage)
	app.Post("/create", middleware.SessionRequired(s.sessions), s.CreatePost)
	app.Get("/post/:id", s.GetPost)
	app.Post("/post/:id", s.AddComment)
	app.Get("/post/:id/edit", s.EditPostPage)
	app.Post("/post/:id/edit", s.UpdatePost)
	app.Post("/post/:id/delete", s.DeletePost)

	// Comments
	app.Get("/comment/:id/delete", s.DeleteComment)

	// Profiles
	app.Get("/user/:username", s.UserProfile)
	app.Get("/account", middleware.SessionRequired(s.sessions), s.AccountPage)
	app.Post("/account", middleware.SessionRequired(s.sessions), s.UpdateAccount)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Inkwell",
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// BuildApp assembles the Fiber app with middleware and routes.
func (s *Server) BuildApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Inkwell",
		BodyLimit: int(s.config.MaxUploadSizeBytes()) + 64*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			middleware.Logger.Error("unhandled error", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	app := s.BuildApp()
	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
