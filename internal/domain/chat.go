package domain

import "time"

// 聊天消息角色
const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage 会话记录中的一条消息
//
// 记录只存在于进程内存中，随会话清除或进程退出而消失。
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// UserContext 从 JWT 声明还原出的当前用户上下文
type UserContext struct {
	UserID        int    `json:"userId"`
	UserName      string `json:"userName"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	CorrelationID string `json:"correlationId"`
}
