package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"casemanager/backend/internal/auth/jwt"
	"casemanager/backend/internal/domain"
)

// upgraderFactory 创建带有 Origin 验证的 WebSocket 升级器
func upgraderFactory(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			for _, origin := range allowedOrigins {
				if origin == "*" {
					return true
				}
			}

			requestOrigin := r.Header.Get("Origin")
			if requestOrigin == "" {
				// 没有 Origin 视为同源请求
				return true
			}

			for _, origin := range allowedOrigins {
				if requestOrigin == origin {
					return true
				}
			}
			return false
		},
	}
}

// EventType 定义WebSocket事件类型
type EventType string

const (
	EventMessageChunk    EventType = "ReceiveMessageChunk"
	EventMessageComplete EventType = "ReceiveMessageComplete"
	EventCaseCreated     EventType = "CaseCreated"
)

// Event 下发给客户端的事件
//
// 所有事件广播给全部在线客户端；聊天事件携带 sessionId，
// 由前端按自己的会话过滤。
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"sessionId,omitempty"`
	Chunk     string    `json:"chunk,omitempty"`
	Case      any       `json:"case,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Client 代表一个WebSocket客户端连接
type Client struct {
	ID     string
	UserID int
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
	log    *zap.Logger
}

// Hub 管理所有WebSocket连接
type Hub struct {
	clients        map[string]*Client
	register       chan *Client
	unregister     chan *Client
	broadcast      chan []byte
	mu             sync.RWMutex
	log            *zap.Logger
	allowedOrigins []string
	tokens         *jwt.Manager
	onCountChange  func(int)
}

// OnClientCountChange 注册在线数变化回调，用于对接监控指标。
// 必须在 Run 之前调用。
func (h *Hub) OnClientCountChange(fn func(int)) {
	h.onCountChange = fn
}

// notifyCountLocked 调用方必须持有锁
func (h *Hub) notifyCountLocked() {
	if h.onCountChange != nil {
		h.onCountChange(len(h.clients))
	}
}

// NewHub 创建WebSocket Hub
//
// 参数:
//   - allowedOrigins: 允许的 Origin 列表，用于 WebSocket 连接验证
//   - tokens: JWT 管理器，用于验证连接令牌
//   - log: 日志记录器
func NewHub(allowedOrigins []string, tokens *jwt.Manager, log *zap.Logger) *Hub {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Hub{
		clients:        make(map[string]*Client),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan []byte, 256),
		log:            log,
		allowedOrigins: allowedOrigins,
		tokens:         tokens,
	}
}

// Run 启动Hub，直到上下文取消
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.log.Info("websocket hub stopped")
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.notifyCountLocked()
			h.mu.Unlock()
			h.log.Info("client registered",
				zap.String("id", client.ID),
				zap.Int("user_id", client.UserID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				h.notifyCountLocked()
				h.log.Info("client unregistered", zap.String("id", client.ID))
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.broadcastToAll(data)
		}
	}
}

// BroadcastChunk 下发一段流式回复分片
func (h *Hub) BroadcastChunk(sessionID, chunk string) {
	h.send(&Event{
		Type:      EventMessageChunk,
		SessionID: sessionID,
		Chunk:     chunk,
		Timestamp: time.Now(),
	})
}

// BroadcastComplete 下发回复结束通知
func (h *Hub) BroadcastComplete(sessionID string) {
	h.send(&Event{
		Type:      EventMessageComplete,
		SessionID: sessionID,
		Timestamp: time.Now(),
	})
}

// CaseCreatedPayload CaseCreated 事件的负载
type CaseCreatedPayload struct {
	CaseID           int       `json:"caseId"`
	CaseName         string    `json:"caseName"`
	AssignedUserID   int       `json:"assignedUserId"`
	AssignedUserName string    `json:"assignedUserName"`
	Timestamp        time.Time `json:"timestamp"`
}

// NotifyCaseCreated 下发案件创建事件
func (h *Hub) NotifyCaseCreated(c *domain.Case, assignedUserName string) {
	h.log.Info("broadcasting case created",
		zap.Int("case_id", c.CaseID),
		zap.String("case_name", c.CaseName),
		zap.Int("assigned_user_id", c.AssignedUserID))
	now := time.Now()
	h.send(&Event{
		Type: EventCaseCreated,
		Case: CaseCreatedPayload{
			CaseID:           c.CaseID,
			CaseName:         c.CaseName,
			AssignedUserID:   c.AssignedUserID,
			AssignedUserName: assignedUserName,
			Timestamp:        now,
		},
		Timestamp: now,
	})
}

// send 序列化事件并投入广播队列
func (h *Hub) send(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.log.Warn("broadcast queue full, dropping event", zap.String("type", string(event.Type)))
	}
}

// broadcastToAll 把消息发给全部在线客户端
func (h *Hub) broadcastToAll(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
			// 客户端阻塞，跳过
			h.log.Warn("client channel blocked, skipping", zap.String("clientID", client.ID))
		}
	}
}

// ClientCount 返回在线客户端数量
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// closeAllClients 关闭所有客户端连接
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[string]*Client)
}

// authenticateClient 认证客户端
//
// 浏览器的 WebSocket API 无法设置自定义 Header，令牌优先取
// URL 参数，其次取 Authorization 头。
func (h *Hub) authenticateClient(c *gin.Context) (*Client, error) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
	}

	if token == "" {
		return nil, errors.New("missing authentication token")
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	return &Client{
		ID:     uuid.NewString(),
		UserID: claims.UserID,
		log:    h.log,
	}, nil
}

// HandleWebSocket 处理WebSocket连接
func HandleWebSocket(hub *Hub) gin.HandlerFunc {
	upgrader := upgraderFactory(hub.allowedOrigins)

	return func(c *gin.Context) {
		client, err := hub.authenticateClient(c)
		if err != nil {
			hub.log.Warn("websocket authentication failed",
				zap.Error(err),
				zap.String("remote_addr", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.log.Error("failed to upgrade connection",
				zap.Error(err),
				zap.String("remote_addr", c.ClientIP()))
			return
		}

		client.conn = conn
		client.hub = hub
		client.send = make(chan []byte, 256)

		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// readPump 读取客户端消息
//
// 客户端到服务端没有业务消息，读循环只负责 pong 续期和
// 感知连接关闭。
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Error("websocket error", zap.Error(err))
			}
			break
		}
	}
}

// writePump 发送消息给客户端
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.WriteMessage(websocket.TextMessage, message)

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
