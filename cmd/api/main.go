package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "github.com/PtKartikVashishtha/BecopyMain-sub000/docs"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/handler"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/repository"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/adapter/repository/mongostore"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/ports"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/domain/repositories"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/cache"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/database"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/external/chatprovider"
	httpmw "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/http/middleware"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/mongodb"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/internal/infrastructure/realtime"
	chatUsecase "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/chat"
	inviteUsecase "github.com/PtKartikVashishtha/BecopyMain-sub000/internal/usecase/invite"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/config"
	"github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/jwt"
	pkglogger "github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/logger"
	pkgvalidator "github.com/PtKartikVashishtha/BecopyMain-sub000/pkg/validator"
)

// @title           Becopy Invites API
// @version         1.0
// @description     Invitations between users and the chat sessions they open

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// store bundles the repositories of the selected driver
type store struct {
	invites   repositories.InviteRepository
	sessions  repositories.ChatSessionRepository
	directory repositories.DirectoryRepository
	close     func()
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := pkglogger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, handler.SignatureHeader},
		AllowCredentials: true,
	}))

	log.Println("🔧 Initializing dependencies...")

	// Storage
	st, err := openStore(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Database.Driver, err)
	}
	defer st.close()

	// Redis carries notifications and webhook dedup. Outside production the
	// service still runs without it, with notifications off and local dedup.
	var (
		notifier ports.Notifier = realtime.NoopNotifier{}
		dedup    handler.Deduper
		hub      *realtime.Hub
	)
	redisClient, err := cache.NewRedisClient(cfg)
	switch {
	case err == nil:
		defer redisClient.Close()
		redisNotifier := realtime.NewRedisNotifier(redisClient, logger)
		defer redisNotifier.Close()
		notifier = redisNotifier
		dedup = cache.NewRedisStore(redisClient, "becopy:")
		hub = realtime.NewHub(redisClient, logger)
	case cfg.IsProduction():
		log.Fatalf("Failed to connect to Redis: %v", err)
	default:
		logger.Warn("redis.unavailable", zap.Error(err))
		memory := cache.NewMemoryStore()
		defer memory.Close()
		dedup = memory
	}

	// Chat provider
	provider, err := chatprovider.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize chat provider: %v", err)
	}
	log.Printf("💬 Chat provider: %s", provider.Name())

	// Services
	inviteService := inviteUsecase.NewInviteService(
		st.invites,
		st.directory,
		notifier,
		inviteUsecase.PolicyFromConfig(cfg.Invite),
		logger,
	)
	chatService := chatUsecase.NewChatService(
		st.sessions,
		st.invites,
		st.directory,
		provider,
		notifier,
		cfg.Chat.TokenTTL,
		logger,
	)

	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	reconciler := chatUsecase.NewReconciler(chatService, inviteService, cfg.Chat.ReconcileInterval, logger)
	reconciler.Start(rootCtx)
	defer reconciler.Stop()

	// Handlers
	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)
	authMW := httpmw.EchoAuth(jwtManager)
	createLimiter := httpmw.NewUserRateLimiter(cfg.Invite.RatePerMinute)

	var realtimeHandler *handler.Realtime
	if hub != nil {
		hub.Start(rootCtx)
		defer hub.Stop()
		realtimeHandler = handler.NewRealtimeHandler(hub, logger)
	}

	router := handler.NewRouter(
		cfg,
		handler.NewInviteHandler(inviteService, chatService, cfg.Invite.AutoProvision, logger),
		handler.NewChatHandler(chatService, logger),
		handler.NewWebhookHandler(chatService, cfg.Chat.WebhookSecret, dedup, logger),
		realtimeHandler,
		authMW,
		createLimiter.Middleware(),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server.shutdown.forced", zap.Error(err))
		return
	}

	log.Println("✅ Server stopped gracefully")
}

// openStore connects the configured driver and builds its repositories
func openStore(cfg *config.Config, logger *zap.Logger) (*store, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		db, client, err := mongodb.Connect(cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
		defer cancel()
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = mongodb.Disconnect(ctx, client)
			return nil, err
		}
		return &store{
			invites:   mongostore.NewInviteRepository(db),
			sessions:  mongostore.NewChatSessionRepository(db),
			directory: mongostore.NewDirectoryRepository(db),
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = mongodb.Disconnect(ctx, client)
			},
		}, nil

	default:
		db, err := database.NewPostgresDB(cfg, logger)
		if err != nil {
			return nil, err
		}
		// Production deployments apply the schema with cmd/migrate
		if cfg.Database.AutoMigrate {
			if cfg.IsProduction() {
				return nil, fmt.Errorf("DB_AUTO_MIGRATE is enabled in production, run cmd/migrate instead")
			}
			if err := database.AutoMigrate(db, logger); err != nil {
				return nil, err
			}
		}
		return &store{
			invites:   repository.NewInviteRepository(db),
			sessions:  repository.NewChatSessionRepository(db),
			directory: repository.NewDirectoryRepository(db),
			close:     func() { _ = database.CloseDB(db) },
		}, nil
	}
}
