package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/classboard/gateway/internal/config"
	"github.com/classboard/gateway/internal/handler"
	"github.com/classboard/gateway/internal/middleware"
	"github.com/classboard/gateway/internal/ratelimit"
	"github.com/classboard/gateway/internal/repository"
	"github.com/classboard/gateway/internal/service"
	"github.com/classboard/gateway/internal/storage"
	"github.com/gin-gonic/gin"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	redis    *storage.RedisClient
	postgres *storage.Postgres

	limiter     *ratelimit.Limiter
	policyCache *ratelimit.ConfigCache

	tokens *service.TokenService
	access *service.AccessService

	authHandler      *handler.AuthHandler
	configHandler    *handler.ConfigHandler
	studentHandler   *handler.StudentHandler
	countdownHandler *handler.CountdownHandler

	httpServer  *http.Server
	cancelWatch context.CancelFunc
}

func New(cfg *config.Config, redis *storage.RedisClient, postgres *storage.Postgres) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	configRepo := repository.NewConfigRepository(postgres)
	assignmentRepo := repository.NewAssignmentRepository(postgres)
	adminRepo := repository.NewAdminRepository(postgres)
	studentRepo := repository.NewStudentRepository(postgres)
	countdownRepo := repository.NewCountdownRepository(postgres)

	policyCache := ratelimit.NewConfigCache(configRepo)
	limiter := ratelimit.NewLimiter(policyCache)

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.ExpiryHours)
	access := service.NewAccessService(assignmentRepo)
	authService := service.NewAuthService(adminRepo, tokens)

	// A typed-nil *storage.RedisClient must not end up inside the interface,
	// so the publisher is only set when redis is actually configured.
	var publisher service.InvalidatePublisher
	if redis != nil {
		publisher = redis
	}
	configService := service.NewConfigService(configRepo, policyCache, publisher)

	s := &Server{
		router:           router,
		config:           cfg,
		redis:            redis,
		postgres:         postgres,
		limiter:          limiter,
		policyCache:      policyCache,
		tokens:           tokens,
		access:           access,
		authHandler:      handler.NewAuthHandler(authService),
		configHandler:    handler.NewConfigHandler(configService),
		studentHandler:   handler.NewStudentHandler(studentRepo),
		countdownHandler: handler.NewCountdownHandler(countdownRepo, access),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.watchInvalidations()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.RequestLogger())
}

// Route pipelines: rate limit scope -> token check -> class access -> handler.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	auth := s.router.Group("/auth")
	auth.Use(middleware.RateLimit(s.limiter, "auth"))
	{
		auth.POST("/login", s.authHandler.Login)
	}

	api := s.router.Group("/api")
	{
		students := api.Group("/students")
		students.Use(
			middleware.RateLimit(s.limiter, "read"),
			middleware.RequireAuth(s.tokens),
		)
		{
			students.GET("", middleware.WithAccessibleClasses(s.access), s.studentHandler.List)
			students.GET("/:sid", middleware.RequireStudentAccess(s.access, "sid"), s.studentHandler.Get)
		}

		// Countdown reads are also served to anonymous display boards
		countdowns := api.Group("/countdowns")
		countdowns.Use(middleware.RateLimit(s.limiter, "read"))
		{
			countdowns.GET("", middleware.OptionalAuth(s.tokens), s.countdownHandler.List)
			countdowns.GET("/:id",
				middleware.RequireAuth(s.tokens),
				middleware.RequireCountdownAccess(s.access, "id"),
				s.countdownHandler.Get)
		}
	}

	admin := s.router.Group("/admin")
	admin.Use(
		middleware.RateLimit(s.limiter, "write"),
		middleware.RequireAuth(s.tokens),
		middleware.RequireSuperAdmin(),
	)
	{
		admin.GET("/ratelimits", s.configHandler.List)
		admin.GET("/ratelimits/:key", s.configHandler.Get)
		admin.POST("/ratelimits", s.configHandler.Create)
		admin.PUT("/ratelimits/:key", s.configHandler.Update)
		admin.DELETE("/ratelimits/:key", s.configHandler.Delete)
	}
}

// watchInvalidations drops the local policy snapshot whenever a sibling
// instance mutates rate_limit_config.
func (s *Server) watchInvalidations() {
	if s.redis == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelWatch = cancel

	sub := s.redis.Subscribe(ctx, service.InvalidateChannel)

	go func() {
		defer sub.Close()
		ch := sub.Channel()

		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				log.Printf("Invalidating rate limit policy cache (key %s)", msg.Payload)
				s.policyCache.Invalidate()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Server) healthCheck(c *gin.Context) {
	// Redis is optional (single-instance setups); absent means nothing to check
	redisHealthy := true
	if s.redis != nil {
		if err := s.redis.Ping(c.Request.Context()); err != nil {
			redisHealthy = false
			log.Printf("Redis health check failed: %v", err)
		}
	}

	dbHealthy := true
	if err := s.postgres.Ping(c.Request.Context()); err != nil {
		dbHealthy = false
		log.Printf("Database health check failed: %v", err)
	}

	status := "healthy"
	statusCode := http.StatusOK

	if !redisHealthy || !dbHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"service":   "classboard-gateway",
		"timestamp": time.Now().Unix(),
		"checks": gin.H{
			"redis":    redisHealthy,
			"database": dbHealthy,
		},
	})
}

func (s *Server) Run(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	log.Printf("Starting gateway on %s", addr)
	log.Printf("Environment: %s", s.config.Server.Environment)

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	if s.cancelWatch != nil {
		s.cancelWatch()
	}
	s.limiter.Close()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
