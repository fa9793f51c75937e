package ai

import (
	"context"
	"fmt"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/openai"
)

// NewClient 创建 LLM 客户端
//
// API key 缺失是致命错误：聊天与回复生成功能无法降级运行，
// 调用方应在启动阶段直接退出。
func NewClient(ctx context.Context, apiKey, model string) (gollem.LLMClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("LLM API key is not configured (set CASEMANAGER_AI_API_KEY)")
	}

	client, err := openai.New(ctx, apiKey, openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return client, nil
}
