package service

import (
	"context"
	"sync"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"casemanager/backend/internal/chat"
	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage/memory"
)

// recordingBroadcaster 记录广播调用，供断言使用。
type recordingBroadcaster struct {
	mu        sync.Mutex
	chunks    []string
	sessions  []string
	completes []string
}

func (b *recordingBroadcaster) BroadcastChunk(sessionID, chunk string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions = append(b.sessions, sessionID)
	b.chunks = append(b.chunks, chunk)
}

func (b *recordingBroadcaster) BroadcastComplete(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.completes = append(b.completes, sessionID)
}

// streamingClientMock 构造一个按分片吐回复的 LLM 客户端。
// 会话端应用中间件链后再下发分片，与真实客户端行为一致。
func streamingClientMock(chunks []string) *mock.LLMClientMock {
	return &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			cfg := gollem.NewSessionConfig(options...)
			return &mock.SessionMock{
				AppendHistoryFunc: func(history *gollem.History) error { return nil },
				HistoryFunc:       func() (*gollem.History, error) { return nil, nil },
				StreamFunc: func(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
					base := func(ctx context.Context, req *gollem.ContentRequest) (<-chan *gollem.ContentResponse, error) {
						ch := make(chan *gollem.ContentResponse)
						go func() {
							defer close(ch)
							for _, chunk := range chunks {
								ch <- &gollem.ContentResponse{Texts: []string{chunk}}
							}
						}()
						return ch, nil
					}
					handler := gollem.BuildContentStreamChain(cfg.ContentStreamMiddlewares(), base)
					contentCh, err := handler(ctx, &gollem.ContentRequest{Inputs: input})
					if err != nil {
						return nil, err
					}

					out := make(chan *gollem.Response)
					go func() {
						defer close(out)
						for resp := range contentCh {
							out <- &gollem.Response{
								Texts:         resp.Texts,
								FunctionCalls: resp.FunctionCalls,
								Error:         resp.Error,
							}
						}
					}()
					return out, nil
				},
			}, nil
		},
	}
}

func newChatFixture(t *testing.T, chunks []string) (*ChatService, *recordingBroadcaster) {
	t.Helper()

	store := memory.NewStore()
	broadcaster := &recordingBroadcaster{}
	svc := NewChatService(
		streamingClientMock(chunks),
		store,
		chat.NewMemorySessionStore("你是案件管理助手。"),
		broadcaster,
		nil,
		"",
		zap.NewNop(),
	)
	return svc, broadcaster
}

func TestSendMessageStreamsChunks(t *testing.T) {
	svc, broadcaster := newChatFixture(t, []string{"你好，", "我能帮你什么？"})
	user := domain.UserContext{UserID: 1, UserName: "jsmith", CorrelationID: "corr-1"}

	reply, err := svc.SendMessage(context.Background(), "sess-1", user, "hello")
	require.NoError(t, err)
	assert.Equal(t, "你好，\n我能帮你什么？", reply)

	// 分片逐个到达广播器，且携带会话标识
	assert.Equal(t, []string{"你好，", "我能帮你什么？"}, broadcaster.chunks)
	assert.Equal(t, []string{"sess-1", "sess-1"}, broadcaster.sessions)
	assert.Equal(t, []string{"sess-1"}, broadcaster.completes)
}

func TestSendMessageRecordsHistory(t *testing.T) {
	svc, _ := newChatFixture(t, []string{"回复"})
	user := domain.UserContext{UserID: 1, UserName: "jsmith"}

	_, err := svc.SendMessage(context.Background(), "sess-2", user, "问题")
	require.NoError(t, err)

	history := svc.History("sess-2")
	require.Len(t, history, 3)
	assert.Equal(t, domain.ChatRoleSystem, history[0].Role)
	assert.Equal(t, domain.ChatRoleUser, history[1].Role)
	assert.Equal(t, "问题", history[1].Content)
	assert.Equal(t, domain.ChatRoleAssistant, history[2].Role)
	assert.Equal(t, "回复", history[2].Content)
}

func TestSendMessageEmpty(t *testing.T) {
	svc, broadcaster := newChatFixture(t, nil)

	_, err := svc.SendMessage(context.Background(), "sess-3", domain.UserContext{}, "   ")
	require.Error(t, err)
	assert.Empty(t, broadcaster.chunks)
}

func TestClearSessionDropsHistory(t *testing.T) {
	svc, _ := newChatFixture(t, []string{"好的"})

	_, err := svc.SendMessage(context.Background(), "sess-4", domain.UserContext{UserID: 1}, "你好")
	require.NoError(t, err)
	require.NotEmpty(t, svc.History("sess-4"))

	svc.ClearSession("sess-4")
	assert.Nil(t, svc.History("sess-4"))
}
