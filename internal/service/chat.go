package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/m-mizutani/gollem"
	"go.uber.org/zap"

	"casemanager/backend/internal/ai"
	"casemanager/backend/internal/chat"
	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// ChatBroadcaster 聊天流式输出的广播出口
//
// 广播面向全部在线客户端，sessionID 随消息下发，由前端自行过滤。
type ChatBroadcaster interface {
	BroadcastChunk(sessionID, chunk string)
	BroadcastComplete(sessionID string)
}

// ChatService 封装 LLM 聊天逻辑。
//
// 每个会话持有一个代理实例：代理内部维护模型侧对话状态，
// SessionStore 维护对外可见的会话记录（历史查询、裁剪、清除）。
type ChatService struct {
	llmClient   gollem.LLMClient
	store       storage.Store
	sessions    chat.SessionStore
	broadcaster ChatBroadcaster
	notifier    ai.CaseNotifier
	docs        string
	logger      *zap.Logger

	mu     sync.Mutex
	agents map[string]*gollem.Agent
}

// NewChatService 创建聊天业务服务。
func NewChatService(
	llmClient gollem.LLMClient,
	store storage.Store,
	sessions chat.SessionStore,
	broadcaster ChatBroadcaster,
	notifier ai.CaseNotifier,
	docs string,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		llmClient:   llmClient,
		store:       store,
		sessions:    sessions,
		broadcaster: broadcaster,
		notifier:    notifier,
		docs:        docs,
		logger:      logger,
		agents:      make(map[string]*gollem.Agent),
	}
}

// agentFor 获取或创建会话对应的代理
func (s *ChatService) agentFor(sessionID string, user domain.UserContext) *gollem.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if agent, ok := s.agents[sessionID]; ok {
		return agent
	}

	systemPrompt := ai.BuildChatSystemPrompt(s.docs, user)
	agent := gollem.New(s.llmClient,
		gollem.WithSystemPrompt(systemPrompt),
		gollem.WithTools(ai.ChatTools(s.store, s.notifier)...),
		gollem.WithResponseMode(gollem.ResponseModeStreaming),
		gollem.WithContentStreamMiddleware(s.streamBroadcast(sessionID)),
	)
	s.agents[sessionID] = agent
	return agent
}

// streamBroadcast 把流式分片转发给广播器，响应原样传给下游。
func (s *ChatService) streamBroadcast(sessionID string) gollem.ContentStreamMiddleware {
	return func(next gollem.ContentStreamHandler) gollem.ContentStreamHandler {
		return func(ctx context.Context, req *gollem.ContentRequest) (<-chan *gollem.ContentResponse, error) {
			upstream, err := next(ctx, req)
			if err != nil {
				return nil, err
			}

			out := make(chan *gollem.ContentResponse)
			go func() {
				defer close(out)
				for resp := range upstream {
					for _, chunk := range resp.Texts {
						if chunk != "" {
							s.broadcaster.BroadcastChunk(sessionID, chunk)
						}
					}
					out <- resp
				}
			}()
			return out, nil
		}
	}
}

// SendMessage 处理一条用户消息并返回完整回复。
//
// 回复分片通过广播器实时下发，结束后追加完成通知；完整回复
// 同时写入会话记录。
func (s *ChatService) SendMessage(ctx context.Context, sessionID string, user domain.UserContext, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("message must not be empty")
	}

	s.sessions.Ensure(sessionID)
	s.sessions.Append(sessionID, domain.ChatRoleUser, message)

	agent := s.agentFor(sessionID, user)

	resp, err := agent.Execute(ctx, gollem.Text(message))
	if err != nil {
		s.logger.Error("chat agent execution failed",
			zap.String("session_id", sessionID),
			zap.String("correlation_id", user.CorrelationID),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate chat response: %w", err)
	}

	reply := strings.Join(resp.Texts, "\n")
	s.sessions.Append(sessionID, domain.ChatRoleAssistant, reply)
	s.broadcaster.BroadcastComplete(sessionID)

	s.logger.Info("chat message handled",
		zap.String("session_id", sessionID),
		zap.Int("user_id", user.UserID),
		zap.String("correlation_id", user.CorrelationID))

	return reply, nil
}

// History 返回会话记录。
func (s *ChatService) History(sessionID string) []domain.ChatMessage {
	return s.sessions.History(sessionID)
}

// ClearSession 清除会话记录与代理状态。
func (s *ChatService) ClearSession(sessionID string) {
	s.sessions.Clear(sessionID)

	s.mu.Lock()
	delete(s.agents, sessionID)
	s.mu.Unlock()
}
