package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casemanager/backend/internal/domain"
)

const testPrompt = "You are a helpful case management assistant."

func TestEnsureSeedsSystemPrompt(t *testing.T) {
	store := NewMemorySessionStore(testPrompt)

	created := store.Ensure("s1")
	assert.True(t, created)

	history := store.History("s1")
	require.Len(t, history, 1)
	assert.Equal(t, domain.ChatRoleSystem, history[0].Role)
	assert.Equal(t, testPrompt, history[0].Content)

	// 幂等：二次 Ensure 不重建
	created = store.Ensure("s1")
	assert.False(t, created)
	assert.Len(t, store.History("s1"), 1)
}

func TestAppendCreatesSessionOnDemand(t *testing.T) {
	store := NewMemorySessionStore(testPrompt)

	store.Append("s1", domain.ChatRoleUser, "hello")

	history := store.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, domain.ChatRoleSystem, history[0].Role)
	assert.Equal(t, domain.ChatRoleUser, history[1].Role)
	assert.Equal(t, "hello", history[1].Content)
}

func TestTrimKeepsSystemPlusRecent(t *testing.T) {
	store := NewMemorySessionStore(testPrompt)

	for i := 0; i < 30; i++ {
		store.Append("s1", domain.ChatRoleUser, fmt.Sprintf("message %d", i))
	}

	history := store.History("s1")
	// 系统提示 + 最近 20 条
	require.Len(t, history, MaxHistoryMessages+1)
	assert.Equal(t, domain.ChatRoleSystem, history[0].Role)
	assert.Equal(t, "message 10", history[1].Content)
	assert.Equal(t, "message 29", history[len(history)-1].Content)
}

func TestHistoryUnknownSession(t *testing.T) {
	store := NewMemorySessionStore(testPrompt)
	assert.Nil(t, store.History("nope"))
}

func TestHistoryReturnsCopy(t *testing.T) {
	store := NewMemorySessionStore(testPrompt)
	store.Append("s1", domain.ChatRoleUser, "original")

	history := store.History("s1")
	history[1].Content = "mutated"

	fresh := store.History("s1")
	assert.Equal(t, "original", fresh[1].Content)
}

func TestClear(t *testing.T) {
	store := NewMemorySessionStore(testPrompt)
	store.Append("s1", domain.ChatRoleUser, "hello")

	store.Clear("s1")
	assert.Nil(t, store.History("s1"))

	// 清除后再次使用重新以系统提示初始化
	store.Append("s1", domain.ChatRoleUser, "again")
	history := store.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, domain.ChatRoleSystem, history[0].Role)
}
