package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage/memory"
)

func newCompletionFixture(t *testing.T) (*CompletionService, *memory.Store, *domain.User) {
	t.Helper()

	store := memory.NewStore()
	user := &domain.User{UserName: "jsmith", FirstName: "John", LastName: "Smith"}
	require.NoError(t, store.CreateUser(user))

	return NewCompletionService(store, zap.NewNop()), store, user
}

func TestListCompletable(t *testing.T) {
	svc, store, user := newCompletionFixture(t)

	require.NoError(t, store.CreateCase(&domain.Case{CaseName: "Open", CanComplete: true, AssignedUserID: user.UserID}))
	require.NoError(t, store.CreateCase(&domain.Case{CaseName: "Locked", CanComplete: false, AssignedUserID: user.UserID}))
	require.NoError(t, store.CreateCase(&domain.Case{CaseName: "Done", CanComplete: true, IsComplete: true, AssignedUserID: user.UserID}))

	result, err := svc.ListCompletable(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, result.UserID)
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Cases, 1)
	assert.Equal(t, "Open", result.Cases[0].CaseName)
}

func TestListCompletableEmpty(t *testing.T) {
	svc, _, user := newCompletionFixture(t)

	result, err := svc.ListCompletable(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	// 空结果序列化为 []，不是 null
	assert.NotNil(t, result.Cases)
}

func TestCompleteAll(t *testing.T) {
	svc, store, user := newCompletionFixture(t)

	require.NoError(t, store.CreateCase(&domain.Case{CaseName: "First", CanComplete: true, AssignedUserID: user.UserID}))
	require.NoError(t, store.CreateCase(&domain.Case{CaseName: "Second", CanComplete: true, AssignedUserID: user.UserID}))

	result, err := svc.CompleteAll(user.UserID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.CompletedCount)
	assert.Equal(t, "Completed 2 task(s) successfully", result.Message)
	assert.Equal(t, user.UserID, result.UserID)

	// 每个案件一条 TaskAction
	actions, err := store.ListTaskActions()
	require.NoError(t, err)
	assert.Len(t, actions, 2)
}

func TestCompleteAllNothingToDo(t *testing.T) {
	svc, _, user := newCompletionFixture(t)

	result, err := svc.CompleteAll(user.UserID)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 0, result.CompletedCount)
	assert.Equal(t, "No completable tasks found", result.Message)
}

func TestCompleteAllIdempotent(t *testing.T) {
	svc, store, user := newCompletionFixture(t)

	require.NoError(t, store.CreateCase(&domain.Case{CaseName: "Only", CanComplete: true, AssignedUserID: user.UserID}))

	first, err := svc.CompleteAll(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.CompletedCount)

	second, err := svc.CompleteAll(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.CompletedCount)
	assert.Equal(t, "No completable tasks found", second.Message)
}
