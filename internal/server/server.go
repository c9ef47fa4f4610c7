// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"profilebook/internal/cache"
	"profilebook/internal/config"
	"profilebook/internal/database"
	"profilebook/internal/middleware"
	"profilebook/internal/models"
	"profilebook/internal/repository"
	"profilebook/internal/service"
	"profilebook/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	uploads        *storage.Local

	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	postRepo    repository.PostRepository
	messageRepo repository.MessageRepository
	reportRepo  repository.ReportRepository

	accountService *service.AccountService
	postService    *service.PostService
	groupService   *service.GroupService
}

// NewServer creates a server instance, establishing database and Redis
// connections from the config.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Used by tests and by bootstrap layers that establish DB/Redis themselves.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	uploads, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload storage init failed: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reportRepo := repository.NewReportRepository(db)

	prom := middleware.InitMetrics("profilebook-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		uploads:        uploads,
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		postRepo:       postRepo,
		messageRepo:    messageRepo,
		reportRepo:     reportRepo,
	}
	server.accountService = service.NewAccountService(db, userRepo)
	server.postService = service.NewPostService(db, postRepo)
	server.groupService = service.NewGroupService(db)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry spans (no-op until tracing is enabled in config)
	app.Use(middleware.TracingMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "ProfileBook Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public post routes (browse/search)
	api.Get("/posts/approved", s.GetApprovedPosts)
	api.Get("/posts/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "post_search"), s.SearchPosts)

	// Public profile search
	api.Get("/profiles/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "profile_search"), s.SearchProfiles)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Post routes
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/mine", s.GetMyPosts)
	posts.Get("/all", s.AdminRequired(), s.GetAllPosts)
	posts.Put("/approve/:id", s.AdminRequired(), s.ApprovePost)
	posts.Put("/reject/:id", s.AdminRequired(), s.RejectPost)
	posts.Delete("/:id", s.AdminRequired(), s.DeletePost)
	posts.Post("/:id/like", s.LikePost)
	posts.Post("/:id/comment", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CommentPost)
	posts.Get("/:id/comments", s.GetComments)

	// Profile routes
	profiles := protected.Group("/profiles")
	profiles.Post("/", s.UpsertMyProfile)
	profiles.Get("/me", s.GetMyProfile)
	profiles.Put("/me", s.UpdateMyProfile)
	profiles.Post("/me/upload-image", s.UploadProfileImage)
	profiles.Get("/", s.AdminRequired(), s.ListProfiles)
	profiles.Delete("/:id", s.AdminRequired(), s.DeleteProfile)

	// Message routes. Username-addressed routes before the numeric ones.
	messages := protected.Group("/messages")
	messages.Get("/", s.GetMyMessages)
	messages.Post("/to/:username", s.SendMessageByUsername)
	messages.Get("/with/:username", s.GetConversationByUsername)
	messages.Post("/:receiverId", s.SendMessage)
	messages.Get("/:otherUserId", s.GetConversation)

	// Report routes
	reports := protected.Group("/reports")
	reports.Post("/:reportedUserId", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "report_user"), s.ReportUser)
	reports.Get("/", s.AdminRequired(), s.GetReports)

	// Group routes (admin only)
	groups := protected.Group("/groups", s.AdminRequired())
	groups.Get("/", s.ListGroups)
	groups.Post("/", s.CreateGroup)
	groups.Post("/:id/add/:userId", s.AddGroupMember)
	groups.Delete("/:id/remove/:userId", s.RemoveGroupMember)
	groups.Delete("/:id", s.DeleteGroup)

	// User management routes (admin only)
	users := protected.Group("/users", s.AdminRequired())
	users.Get("/", s.ListUsers)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)
}

// HealthCheck reports database and Redis connectivity.
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
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "ProfileBook API",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
// The role is re-read from the database rather than trusted from the token,
// so a demotion takes effect before the token expires.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		admin, err := s.isAdminByUserID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin privileges required"))
		}
		return c.Next()
	}
}

func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("role").First(&user, userID).Error; err != nil {
		return false, err
	}
	return user.Role == models.RoleAdmin, nil
}
