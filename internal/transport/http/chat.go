package httptransport

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"casemanager/backend/internal/middleware"
	"casemanager/backend/internal/monitoring"
	"casemanager/backend/internal/service"
)

// ChatHandler 处理 LLM 聊天相关的 HTTP 请求
type ChatHandler struct {
	chat    *service.ChatService
	metrics *monitoring.Metrics
	log     *zap.Logger
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(chat *service.ChatService, metrics *monitoring.Metrics, log *zap.Logger) *ChatHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatHandler{chat: chat, metrics: metrics, log: log}
}

// chatRequest 聊天请求体
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// chatResponse 聊天响应体
type chatResponse struct {
	Message   string    `json:"message"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}

// Send 发送一条聊天消息
//
// 未带 sessionId 时自动新建会话；回复分片通过 /chathub 实时广播，
// 此接口返回完整回复。
//
// @Summary 发送聊天消息
// @Tags 聊天
// @Accept json
// @Produce json
// @Param request body chatRequest true "消息内容与可选会话ID"
// @Success 200 {object} Response "完整回复"
// @Failure 400 {object} Response "消息内容为空"
// @Router /api/chat [post]
func (h *ChatHandler) Send(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		BadRequest(c, MsgChatMessageRequired)
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		Unauthorized(c, MsgInvalidUsername)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := h.chat.SendMessage(c.Request.Context(), sessionID, user, req.Message)
	if err != nil {
		h.log.Error("failed to handle chat message",
			zap.String("session_id", sessionID),
			zap.Int("user_id", user.UserID),
			zap.Error(err))
		InternalError(c, MsgChatFailed)
		return
	}
	if h.metrics != nil {
		h.metrics.ChatMessagesHandled.Inc()
	}

	Success(c, chatResponse{
		Message:   reply,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	})
}

// History 查询会话记录
//
// @Summary 会话记录
// @Tags 聊天
// @Produce json
// @Param sessionId path string true "会话ID"
// @Success 200 {object} Response "会话记录"
// @Failure 404 {object} Response "会话不存在"
// @Router /api/chat/history/{sessionId} [get]
func (h *ChatHandler) History(c *gin.Context) {
	sessionID := c.Param("sessionId")

	history := h.chat.History(sessionID)
	if history == nil {
		NotFound(c, MsgSessionNotFound)
		return
	}
	Success(c, history)
}

// ClearHistory 清除会话记录
//
// @Summary 清除会话
// @Tags 聊天
// @Param sessionId path string true "会话ID"
// @Success 204 {object} Response "清除成功"
// @Router /api/chat/history/{sessionId} [delete]
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	sessionID := c.Param("sessionId")
	h.chat.ClearSession(sessionID)
	NoContent(c)
}
