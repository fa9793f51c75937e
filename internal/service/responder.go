package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/gollem"
	"go.uber.org/zap"

	"casemanager/backend/internal/ai"
	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// ResponderService 封装来件回复生成逻辑。
//
// 每次生成创建一次性的模型会话，不携带历史；结果只追加到
// MailContentSent，不修改原始来件。
type ResponderService struct {
	llmClient gollem.LLMClient
	contents  storage.MailContentRepository
	sents     storage.MailContentSentRepository
	docs      string
	logger    *zap.Logger
}

// NewResponderService 创建回复生成服务。
func NewResponderService(
	llmClient gollem.LLMClient,
	contents storage.MailContentRepository,
	sents storage.MailContentSentRepository,
	docs string,
	logger *zap.Logger,
) *ResponderService {
	return &ResponderService{
		llmClient: llmClient,
		contents:  contents,
		sents:     sents,
		docs:      docs,
		logger:    logger,
	}
}

// GenerateResponse 为指定来件生成回复并记录。
//
// 来件不存在返回 storage.ErrNotFound；生成成功但记录失败时
// 返回错误，不产生部分结果。
func (s *ResponderService) GenerateResponse(ctx context.Context, contentID int) (*domain.MailContentSent, error) {
	content, err := s.contents.GetMailContentByID(contentID)
	if err != nil {
		return nil, err
	}

	session, err := s.llmClient.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM session: %w", err)
	}

	prompt := ai.BuildMailResponsePrompt(s.docs, content)
	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		s.logger.Error("failed to generate mail response",
			zap.Int("content_id", contentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Texts) == 0 {
		return nil, fmt.Errorf("LLM returned empty response")
	}
	responseText := strings.TrimSpace(strings.Join(resp.Texts, "\n"))

	sent := &domain.MailContentSent{
		ContentID:       contentID,
		ResponseContent: responseText,
	}
	if err := s.sents.CreateMailContentSent(sent); err != nil {
		return nil, fmt.Errorf("failed to record generated response: %w", err)
	}

	s.logger.Info("generated mail response",
		zap.Int("content_id", contentID),
		zap.Int("sent_id", sent.MailContentSentID))

	return sent, nil
}
