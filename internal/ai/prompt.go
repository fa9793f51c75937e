package ai

import (
	"fmt"

	"casemanager/backend/internal/domain"
)

// BuildChatSystemPrompt 构建聊天代理的系统提示词
//
// 提示词包含产品文档与当前用户信息，工具调用时代理据此填入
// 当前用户的 ID。
func BuildChatSystemPrompt(docs string, user domain.UserContext) string {
	return fmt.Sprintf(`You are a helpful assistant for the Case Manager application.
You help users manage cases, look up users, and answer questions about the system.
Use the available tools to create cases and look up data. Never invent case or user data.

Current user: %s %s (username: %s, userId: %d)
When creating cases without an explicit assignee, assign them to the current user.

Case Manager documentation:
%s`, user.FirstName, user.LastName, user.UserName, user.UserID, docs)
}

// BuildMailResponsePrompt 构建来件回复生成的提示词
func BuildMailResponsePrompt(docs string, content *domain.MailContent) string {
	return fmt.Sprintf(`You are drafting a professional email reply on behalf of the Case Manager support team.
Write a courteous, concise reply to the email below. Use the documentation for factual answers.
Return only the body of the reply, without a subject line.

Documentation:
%s

Original email:
From: %s
Subject: %s

%s`, docs, content.FromEmail, content.Subject, content.Content)
}
