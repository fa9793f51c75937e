package httptransport

import (
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jwtpkg "casemanager/backend/internal/auth/jwt"
	"casemanager/backend/internal/config"
	"casemanager/backend/internal/health"
	"casemanager/backend/internal/mcp"
	"casemanager/backend/internal/middleware"
	"casemanager/backend/internal/monitoring"
	"casemanager/backend/internal/service"
	"casemanager/backend/internal/websocket"
)

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config             *config.Config
	UserService        *service.UserService
	CaseService        *service.CaseService
	TaskActionService  *service.TaskActionService
	MailContentService *service.MailContentService
	MailSentService    *service.MailContentSentService
	CompletionService  *service.CompletionService
	ChatService        *service.ChatService
	ResponderService   *service.ResponderService
	McpDispatcher      *mcp.Dispatcher
	JWTManager         *jwtpkg.Manager
	WebSocketHub       *websocket.Hub
	HealthChecker      *health.Checker
	Metrics            *monitoring.Metrics
	Logger             *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	// 使用自定义中间件替代默认中间件
	router.Use(middleware.RecoveryHandler(deps.Logger))
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(10 * 1024 * 1024))

	if deps.Metrics != nil {
		mm := middleware.NewMonitoringMiddleware(deps.Metrics)
		router.Use(mm.HTTPMetrics())
	}

	// CORS 配置
	corsConfig := gincors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// 如果允许所有来源，则需清空凭证支持。
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	// 创建处理器
	authHandler := NewAuthHandler(deps.UserService, deps.JWTManager, deps.Logger)
	userHandler := NewUserHandler(deps.UserService, deps.Logger)
	caseHandler := NewCaseHandler(deps.CaseService, deps.CompletionService, deps.Metrics, deps.Logger)
	taskActionHandler := NewTaskActionHandler(deps.TaskActionService, deps.Logger)
	mailContentHandler := NewMailContentHandler(deps.MailContentService, deps.ResponderService, deps.Metrics, deps.Logger)
	mailSentHandler := NewMailContentSentHandler(deps.MailSentService, deps.Logger)
	chatHandler := NewChatHandler(deps.ChatService, deps.Metrics, deps.Logger)
	mcpHandler := NewMcpHandler(deps.McpDispatcher, deps.Metrics, deps.Logger)

	// 创建中间件
	jwtAuth := middleware.NewJWTAuth(deps.JWTManager, deps.Logger)

	// 健康检查与监控
	if deps.HealthChecker != nil {
		router.GET("/health/live", gin.WrapF(deps.HealthChecker.LiveEndpoint()))
		router.GET("/health/ready", gin.WrapF(deps.HealthChecker.ReadyEndpoint()))
	}
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := router.Group("/api")
	{
		// ========== 认证（匿名） ==========
		authRoutes := api.Group("/authorization")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
		}

		// ========== MCP 桥接（仅 rpc 匿名，供外部代理调用） ==========
		api.POST("/mcp/rpc", mcpHandler.Rpc)

		// ========== 业务路由（需要认证） ==========
		authed := api.Group("")
		authed.Use(jwtAuth.RequireAuth())
		{
			userRoutes := authed.Group("/users")
			{
				userRoutes.GET("", userHandler.List)
				userRoutes.GET("/:id", userHandler.Get)
				userRoutes.POST("", userHandler.Create)
				userRoutes.PUT("/:id", userHandler.Update)
				userRoutes.DELETE("/:id", userHandler.Delete)
			}

			caseRoutes := authed.Group("/cases")
			{
				caseRoutes.GET("", caseHandler.List)
				caseRoutes.GET("/:id", caseHandler.Get)
				caseRoutes.POST("", caseHandler.Create)
				caseRoutes.PUT("/:id", caseHandler.Update)
				caseRoutes.DELETE("/:id", caseHandler.Delete)
			}

			taskActionRoutes := authed.Group("/taskactions")
			{
				taskActionRoutes.GET("", taskActionHandler.List)
				taskActionRoutes.GET("/:id", taskActionHandler.Get)
				taskActionRoutes.POST("", taskActionHandler.Create)
				taskActionRoutes.PUT("/:id", taskActionHandler.Update)
				taskActionRoutes.DELETE("/:id", taskActionHandler.Delete)
			}

			mailContentRoutes := authed.Group("/mailcontents")
			{
				mailContentRoutes.GET("", mailContentHandler.List)
				mailContentRoutes.GET("/:id", mailContentHandler.Get)
				mailContentRoutes.POST("", mailContentHandler.Create)
				mailContentRoutes.PUT("/:id", mailContentHandler.Update)
				mailContentRoutes.DELETE("/:id", mailContentHandler.Delete)
				mailContentRoutes.POST("/:id/generate-response", mailContentHandler.GenerateResponse)
			}

			mailSentRoutes := authed.Group("/mailcontentsents")
			{
				mailSentRoutes.GET("", mailSentHandler.List)
				mailSentRoutes.GET("/:id", mailSentHandler.Get)
				mailSentRoutes.POST("", mailSentHandler.Create)
				mailSentRoutes.PUT("/:id", mailSentHandler.Update)
				mailSentRoutes.DELETE("/:id", mailSentHandler.Delete)
			}

			chatRoutes := authed.Group("/chat")
			{
				chatRoutes.POST("", chatHandler.Send)
				chatRoutes.GET("/history/:sessionId", chatHandler.History)
				chatRoutes.DELETE("/history/:sessionId", chatHandler.ClearHistory)
			}

			mcpRoutes := authed.Group("/mcp")
			{
				mcpRoutes.POST("/list-completable-cases", caseHandler.ListCompletable)
				mcpRoutes.POST("/complete-tasks", caseHandler.CompleteTasks)
			}
		}
	}

	// ========== WebSocket ==========
	if deps.WebSocketHub != nil {
		router.GET("/chathub", websocket.HandleWebSocket(deps.WebSocketHub))
	}

	return router
}
