// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "stackit/docs" // swagger docs
	"stackit/internal/cache"
	"stackit/internal/config"
	"stackit/internal/database"
	"stackit/internal/middleware"
	"stackit/internal/models"
	"stackit/internal/notifications"
	"stackit/internal/repository"
	"stackit/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// JWT issuer/audience values stamped into and required on every token.
const (
	tokenIssuer   = "stackit-api"
	tokenAudience = "stackit-client"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo         repository.UserRepository
	questionRepo     repository.QuestionRepository
	answerRepo       repository.AnswerRepository
	voteRepo         repository.VoteRepository
	tagRepo          repository.TagRepository
	commentRepo      repository.CommentRepository
	notificationRepo repository.NotificationRepository

	notifier *notifications.Notifier
	hub      *notifications.Hub

	// consumedTickets caches tickets already claimed from Redis via GETDEL so
	// the multi-pass websocket handshake can re-validate the same ticket.
	// Entries are dropped once the connection registers, or when they expire.
	consumedTickets   map[string]consumedTicketEntry
	consumedTicketsMu sync.Mutex

	questionService     *service.QuestionService
	answerService       *service.AnswerService
	commentService      *service.CommentService
	tagService          *service.TagService
	userService         *service.UserService
	notificationService *service.NotificationService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	prom := middleware.InitMetrics("stackit-api")

	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   prom,
		consumedTickets:  make(map[string]consumedTicketEntry),
		userRepo:         repository.NewUserRepository(db),
		questionRepo:     repository.NewQuestionRepository(db),
		answerRepo:       repository.NewAnswerRepository(db),
		voteRepo:         repository.NewVoteRepository(db),
		tagRepo:          repository.NewTagRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
	}

	// Live delivery only runs with Redis; the coordinator still persists
	// notifications without it.
	var sink service.Sink
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub(redisClient)
		sink = server.notifier

		// Presence transitions keep the profile's last-seen stamp fresh.
		touch := func(userID uint) {
			_ = server.userRepo.TouchLastSeen(context.Background(), userID)
		}
		server.hub.SetPresenceCallbacks(touch, touch)
	}

	server.notificationService = service.NewNotificationService(server.notificationRepo, sink)
	server.questionService = service.NewQuestionService(
		server.questionRepo, server.answerRepo, server.tagRepo, server.voteRepo,
		server.userRepo, server.notificationService, server.isAdminByUserID)
	server.answerService = service.NewAnswerService(
		server.answerRepo, server.questionRepo, server.voteRepo,
		server.userRepo, server.notificationService, server.isAdminByUserID)
	server.commentService = service.NewCommentService(
		server.commentRepo, server.questionRepo, server.answerRepo,
		server.userRepo, server.notificationService, server.isAdminByUserID)
	server.tagService = service.NewTagService(server.tagRepo, server.questionRepo)
	server.userService = service.NewUserService(server.userRepo, server.notificationService)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Request spans; must precede ContextMiddleware so traceID is in locals
	// when the context is assembled.
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID, User ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
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

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "StackIt Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.Refresh)
	auth.Post("/logout", s.Logout)
	auth.Get("/me", s.AuthRequired(), s.Me)

	// Public question routes (browse)
	publicQuestions := api.Group("/questions")
	publicQuestions.Get("/", s.GetQuestions)
	publicQuestions.Get("/unanswered", s.GetUnansweredQuestions)
	publicQuestions.Get("/:id/comments", s.GetQuestionComments)
	publicQuestions.Get("/:id", s.GetQuestion)

	// Public answer routes
	publicAnswers := api.Group("/answers")
	publicAnswers.Get("/question/:questionId", s.GetQuestionAnswers)
	publicAnswers.Get("/user/:userId", s.GetUserAnswers)
	publicAnswers.Get("/:id/comments", s.GetAnswerComments)

	// Public tag routes
	publicTags := api.Group("/tags")
	publicTags.Get("/", s.GetTags)
	publicTags.Get("/popular", s.GetPopularTags)
	publicTags.Get("/:name", s.GetTag)

	// Search routes
	search := api.Group("/search")
	search.Get("/questions", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchQuestions)
	search.Get("/tags", s.SearchTags)
	search.Get("/users", s.SearchUsers)

	// Public user routes (leaderboard and profiles)
	publicUsers := api.Group("/users")
	publicUsers.Get("/", s.GetAllUsers)
	publicUsers.Get("/:id/questions", s.GetUserQuestions)
	publicUsers.Get("/:id/answers", s.GetUserAnswers)

	// WebSocket ticket issuance
	api.Post("/ws/ticket", s.AuthRequired(), s.IssueWSTicket)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Put("/:id/reputation", s.AdminRequired(), s.UpdateUserReputation)
	users.Put("/:id/role", s.AdminRequired(), s.UpdateUserRole)

	// Generic profile route must come after the specific ones above.
	publicUsers.Get("/:id", s.GetUserProfile)

	// Protected question routes
	questions := protected.Group("/questions")
	questions.Post("/", middleware.RateLimit(
		s.redis, 3, 5*time.Minute, "create_question"), s.CreateQuestion)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	questions.Post("/:id/vote", s.VoteQuestion)
	questions.Post("/:id/accept-answer/:answerId", s.AcceptAnswerForQuestion)
	questions.Post("/:id/comments", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_comment"), s.CreateQuestionComment)
	questions.Put("/:id", s.UpdateQuestion)
	questions.Delete("/:id", s.DeleteQuestion)

	// Protected answer routes
	answers := protected.Group("/answers")
	answers.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_answer"), s.CreateAnswer)
	answers.Post("/:id/vote", s.VoteAnswer)
	answers.Post("/:id/accept", s.AcceptAnswer)
	answers.Post("/:id/unaccept", s.UnacceptAnswer)
	answers.Post("/:id/approve", s.ApproveAnswer)
	answers.Post("/:id/comments", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_comment"), s.CreateAnswerComment)
	answers.Put("/:id", s.UpdateAnswer)
	answers.Delete("/:id", s.DeleteAnswer)

	// Comment routes
	comments := protected.Group("/comments")
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	// Admin tag curation
	tags := protected.Group("/tags", s.AdminRequired())
	tags.Post("/", s.CreateTag)
	tags.Put("/:id", s.UpdateTag)
	tags.Delete("/:id", s.DeleteTag)

	// Notification routes
	notifs := protected.Group("/notifications")
	notifs.Get("/", s.GetNotifications)
	notifs.Get("/unread", s.GetUnreadNotifications)
	notifs.Get("/count", s.GetNotificationCount)
	notifs.Put("/read-all", s.MarkAllNotificationsRead)
	notifs.Put("/:id/read", s.MarkNotificationRead)
	notifs.Delete("/:id", s.DeleteNotification)
	notifs.Delete("/", s.DeleteAllNotifications)

	// Websocket endpoint - protected by AuthRequired (ticket or JWT)
	ws := api.Group("/ws", s.AuthRequired())
	ws.Get("/", s.WebsocketHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
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
		// Redis is considered required for full readiness in this app
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "StackIt",
		"version": "1.0.0",
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
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.isAdmin(c, userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Admin access required"))
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		isWSPath := strings.HasPrefix(path, "/api/ws")

		// 1. Try WebSocket ticket first (short-lived, single-use)
		ticket := c.Query("ticket")
		if ticket != "" && s.redis != nil {
			if userID, ok := s.redeemWSTicket(c.Context(), ticket, isWSPath); ok {
				c.Locals("userID", userID)
				c.Locals("wsTicket", ticket)
				ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
				c.SetUserContext(ctx)
				return c.Next()
			}
			// If ticket was provided but invalid/expired, we fail if it's a WS path
			if isWSPath {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
			}
		}

		// 2. Fall back to JWT (Bearer token or query param)
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Reject token in query param for WS routes (must use ticket)
		if tokenString == "" && !isWSPath {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		// Parse and validate token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		// Extract claims
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		// Validate issuer and audience
		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		// Extract user ID from subject claim
		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}

		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		// Check JTI for revocation
		if jti, exists := claims["jti"].(string); exists && jti != "" {
			if s.redis != nil {
				isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
				if err == nil && isBlacklisted > 0 {
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewUnauthorizedError("Token has been revoked"))
				}
			}
		}

		// Store user ID in context
		c.Locals("userID", uint(userID))
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// optionalUserID attempts to extract userID from Authorization header but does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	tokenString := parts[1]
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(userID), true
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "StackIt API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithDomainError(c, err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire the hub to the Redis subscriber if available
	if s.notifier != nil && s.hub != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start %s wiring: %v", s.hub.Name(), err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the wiring goroutine
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	// Shutdown the HTTP/WS server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close WebSocket connections gracefully
	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			log.Printf("error shutting down %s: %v", s.hub.Name(), err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
