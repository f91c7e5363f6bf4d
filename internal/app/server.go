// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"fieldops-service/internal/config"
	"fieldops-service/internal/db"
	authHandler "fieldops-service/internal/handlers/auth"
	dashboardHandler "fieldops-service/internal/handlers/dashboard"
	leadHandler "fieldops-service/internal/handlers/lead"
	orderHandler "fieldops-service/internal/handlers/order"
	orgHandler "fieldops-service/internal/handlers/organization"
	ticketHandler "fieldops-service/internal/handlers/ticket"
	wsHandler "fieldops-service/internal/handlers/websocket"
	"fieldops-service/internal/middleware"
	"fieldops-service/internal/pkg/jwt"
	"fieldops-service/internal/pkg/session"
	"fieldops-service/internal/repository/postgres"
	authUsecase "fieldops-service/internal/service/auth"
	crmUsecase "fieldops-service/internal/service/crm"
	dashboardUsecase "fieldops-service/internal/service/dashboard"
	"fieldops-service/internal/service/email"
	orderUsecase "fieldops-service/internal/service/order"
	orgUsecase "fieldops-service/internal/service/organization"
	ticketUsecase "fieldops-service/internal/service/ticket"
	"fieldops-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)

	// ----- Email -----
	emailSender := email.NewEmailSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
	)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(jwtManager.Verifier, sessionManager)
	go hub.Run(ctx)

	// ----- Services -----
	authService := authUsecase.NewAuthService(
		userRepo,
		jwtManager.Generator,
		jwtManager.Verifier,
		sessionManager,
		rateLimiter,
		s.cfg.JWT.TTL,
		logger,
	)
	orderService := orderUsecase.NewOrderService(orderRepo, userRepo, hub, logger)
	orgService := orgUsecase.NewOrganizationService(orgRepo, logger)
	leadService := crmUsecase.NewLeadService(dbWrapper, leadRepo, orgRepo, userRepo, emailSender, logger)
	ticketService := ticketUsecase.NewTicketService(ticketRepo, orgRepo, logger)
	dashboardService := dashboardUsecase.NewDashboardService(orderRepo, orgRepo, leadRepo, redisClient, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authService)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.AllowedOrigins),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:      authHandler.NewAuthHandler(authService),
		OrderHandler:     orderHandler.NewOrderHandler(orderService),
		OrgHandler:       orgHandler.NewOrganizationHandler(orgService),
		LeadHandler:      leadHandler.NewLeadHandler(leadService),
		TicketHandler:    ticketHandler.NewTicketHandler(ticketService),
		DashboardHandler: dashboardHandler.NewDashboardHandler(dashboardService),
		WSHandler:        wsHandler.NewWebSocketHandler(hub, logger),
		AuthMiddleware:   authMiddleware,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
