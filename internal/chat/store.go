package chat

import (
	"sync"
	"time"

	"casemanager/backend/internal/domain"
)

// MaxHistoryMessages 每个会话在系统提示之外保留的最大消息数。
const MaxHistoryMessages = 20

// SessionStore 管理会话记录。
//
// 实现必须保证：首条消息始终是系统提示；裁剪保留系统提示加上
// 最近 MaxHistoryMessages 条消息。
type SessionStore interface {
	// Append 向会话追加一条消息。会话不存在时先以系统提示创建。
	Append(sessionID string, role, content string)
	// History 返回会话全部消息的副本。会话不存在时返回 nil。
	History(sessionID string) []domain.ChatMessage
	// Clear 删除会话记录。
	Clear(sessionID string)
	// Ensure 保证会话存在（以系统提示初始化），返回是否新建。
	Ensure(sessionID string) bool
}

// MemorySessionStore 进程内会话存储。
//
// 记录随进程退出而消失，多实例部署时各实例互不可见。
type MemorySessionStore struct {
	mu           sync.RWMutex
	sessions     map[string][]domain.ChatMessage
	systemPrompt string
}

// NewMemorySessionStore 创建进程内会话存储。
func NewMemorySessionStore(systemPrompt string) *MemorySessionStore {
	return &MemorySessionStore{
		sessions:     make(map[string][]domain.ChatMessage),
		systemPrompt: systemPrompt,
	}
}

// Ensure 保证会话存在，返回是否新建。
func (s *MemorySessionStore) Ensure(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; ok {
		return false
	}
	s.seedLocked(sessionID)
	return true
}

// seedLocked 以系统提示初始化会话，调用方必须持有锁
func (s *MemorySessionStore) seedLocked(sessionID string) {
	s.sessions[sessionID] = []domain.ChatMessage{{
		Role:      domain.ChatRoleSystem,
		Content:   s.systemPrompt,
		Timestamp: time.Now().UTC(),
	}}
}

// Append 向会话追加一条消息并按需裁剪。
func (s *MemorySessionStore) Append(sessionID string, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		s.seedLocked(sessionID)
	}

	messages := append(s.sessions[sessionID], domain.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})

	// 裁剪：保留系统提示 + 最近 MaxHistoryMessages 条
	if len(messages) > MaxHistoryMessages+1 {
		trimmed := make([]domain.ChatMessage, 0, MaxHistoryMessages+1)
		trimmed = append(trimmed, messages[0])
		trimmed = append(trimmed, messages[len(messages)-MaxHistoryMessages:]...)
		messages = trimmed
	}

	s.sessions[sessionID] = messages
}

// History 返回会话全部消息的副本。
func (s *MemorySessionStore) History(sessionID string) []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make([]domain.ChatMessage, len(messages))
	copy(out, messages)
	return out
}

// Clear 删除会话记录。
func (s *MemorySessionStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
}
