package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"casemanager/backend/internal/mcp"
	"casemanager/backend/internal/monitoring"
)

// McpHandler 把 JSON-RPC 调度器桥接到 HTTP
//
// 与 stdio 伴生进程共用同一个调度器，语义完全一致。JSON-RPC 层
// 的错误（方法不存在、参数无效、内部错误）体现在响应体的 error
// 字段里，HTTP 状态码始终为 200。
type McpHandler struct {
	dispatcher *mcp.Dispatcher
	metrics    *monitoring.Metrics
	log        *zap.Logger
}

// NewMcpHandler 创建 MCP 桥接处理器
func NewMcpHandler(dispatcher *mcp.Dispatcher, metrics *monitoring.Metrics, log *zap.Logger) *McpHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &McpHandler{dispatcher: dispatcher, metrics: metrics, log: log}
}

// Rpc 处理一条 JSON-RPC 请求
//
// @Summary JSON-RPC 桥接
// @Tags MCP
// @Accept json
// @Produce json
// @Param request body mcp.Request true "JSON-RPC 请求"
// @Success 200 {object} mcp.Response "JSON-RPC 响应"
// @Router /api/mcp/rpc [post]
func (h *McpHandler) Rpc(c *gin.Context) {
	var req mcp.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordRPC("parse", "error")
		c.JSON(http.StatusOK, mcp.NewError(nil, mcp.CodeParseError, "Parse error", err.Error()))
		return
	}

	resp := h.dispatcher.Dispatch(&req)

	outcome := "ok"
	if resp.Error != nil {
		outcome = "error"
	}
	h.recordRPC(req.Method, outcome)

	c.JSON(http.StatusOK, resp)
}

func (h *McpHandler) recordRPC(method, outcome string) {
	if h.metrics == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	h.metrics.RecordRPCRequest(method, outcome)
}
