package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"casemanager/backend/internal/ai"
	jwtpkg "casemanager/backend/internal/auth/jwt"
	"casemanager/backend/internal/chat"
	"casemanager/backend/internal/config"
	"casemanager/backend/internal/health"
	"casemanager/backend/internal/logger"
	"casemanager/backend/internal/mcp"
	"casemanager/backend/internal/monitoring"
	"casemanager/backend/internal/service"
	"casemanager/backend/internal/smtp"
	"casemanager/backend/internal/storage"
	"casemanager/backend/internal/storage/memory"
	sqlstore "casemanager/backend/internal/storage/sql"
	httptransport "casemanager/backend/internal/transport/http"
	"casemanager/backend/internal/websocket"
)

// main 启动案件管理综合服务：HTTP API、WebSocket、可选的 SMTP 接收器。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 设置 Gin 模式（基于开发环境标志）
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 初始化日志系统
	log, err := logger.NewLogger(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		LogFile:     "",
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      28,
		Compress:    true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	log.Info("starting casemanager server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
	)

	// 初始化存储层
	var store storage.Store
	if cfg.Database.Type != "" && cfg.Database.DSN != "" {
		store, err = sqlstore.NewStore(
			cfg.Database.Type,
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime,
		)
		if err != nil {
			log.Fatal("failed to initialize database storage", zap.Error(err))
		}
		log.Info("using database storage", zap.String("type", cfg.Database.Type))
	} else {
		store = memory.NewStore()
		log.Info("using memory storage (development mode)")
	}
	defer store.Close()

	// LLM 客户端：缺少 API key 直接终止启动
	ctx := context.Background()
	llmClient, err := ai.NewClient(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		log.Fatal("failed to initialize LLM client", zap.Error(err))
	}
	log.Info("LLM client initialized", zap.String("model", cfg.AI.Model))

	// 文档加载失败只降级，不阻止启动
	systemDocs := ai.LoadSystemDocs(cfg.AI.DocsPath, log)
	pdfDocs := ai.LoadPDFDocs(cfg.AI.PDFDocsPath, log)

	// 监控与健康检查
	metrics := monitoring.NewMetrics()
	healthChecker := health.NewChecker(store)

	// JWT 与 WebSocket Hub
	jwtManager := jwtpkg.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry)
	wsHub := websocket.NewHub(cfg.CORS.AllowedOrigins, jwtManager, log)
	wsHub.OnClientCountChange(func(n int) {
		metrics.WebsocketClients.Set(float64(n))
	})

	// 服务层
	userService := service.NewUserService(store)
	caseService := service.NewCaseService(store)
	taskActionService := service.NewTaskActionService(store)
	mailContentService := service.NewMailContentService(store)
	mailSentService := service.NewMailContentSentService(store)
	completionService := service.NewCompletionService(store, log).
		WithCompletedCounter(metrics.CasesCompleted)

	sessionStore := chat.NewMemorySessionStore(systemDocs)
	chatService := service.NewChatService(llmClient, store, sessionStore, wsHub, wsHub, systemDocs, log)
	responderService := service.NewResponderService(llmClient, store, store, pdfDocs, log)

	mcpDispatcher := mcp.NewDispatcher(completionService, log)

	// HTTP 服务器
	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:             cfg,
		UserService:        userService,
		CaseService:        caseService,
		TaskActionService:  taskActionService,
		MailContentService: mailContentService,
		MailSentService:    mailSentService,
		CompletionService:  completionService,
		ChatService:        chatService,
		ResponderService:   responderService,
		McpDispatcher:      mcpDispatcher,
		JWTManager:         jwtManager,
		WebSocketHub:       wsHub,
		HealthChecker:      healthChecker,
		Metrics:            metrics,
		Logger:             log,
	})

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 信号处理
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)

	// HTTP 服务器 goroutine
	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	// WebSocket Hub goroutine
	group.Go(func() error {
		log.Info("starting WebSocket hub")
		wsHub.Run(groupCtx)
		return nil
	})

	// 可选的 SMTP 接收器 goroutine
	if cfg.SMTP.Enabled {
		smtpBackend := smtp.NewBackend(mailContentService, cfg.SMTP.Domain, log)
		smtpServer := smtp.NewServer(smtpBackend, cfg.SMTP.BindAddr, cfg.SMTP.Domain)

		group.Go(func() error {
			log.Info("starting SMTP server",
				zap.String("address", cfg.SMTP.BindAddr),
				zap.String("domain", cfg.SMTP.Domain),
			)
			if err := smtpServer.ListenAndServe(); err != nil {
				log.Error("SMTP server error", zap.Error(err))
				return err
			}
			return nil
		})

		group.Go(func() error {
			<-groupCtx.Done()
			if err := smtpServer.Close(); err != nil {
				log.Warn("SMTP server close warning", zap.Error(err))
			}
			return nil
		})
	}

	// 优雅关闭 goroutine
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}

		log.Info("servers stopped")
		return nil
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		log.Fatal("server error", zap.Error(err))
	}

	log.Info("server exited cleanly")
}
