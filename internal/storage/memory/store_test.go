package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

func TestUserCRUD(t *testing.T) {
	store := NewStore()

	user := &domain.User{UserName: "jsmith", FirstName: "John", LastName: "Smith", Address: "1 Main St"}
	require.NoError(t, store.CreateUser(user))
	assert.Equal(t, 1, user.UserID)

	got, err := store.GetUserByID(1)
	require.NoError(t, err)
	assert.Equal(t, "jsmith", got.UserName)

	got, err = store.GetUserByUsername("jsmith")
	require.NoError(t, err)
	assert.Equal(t, 1, got.UserID)

	_, err = store.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	user.Address = "2 Oak Ave"
	require.NoError(t, store.UpdateUser(user))
	got, err = store.GetUserByID(1)
	require.NoError(t, err)
	assert.Equal(t, "2 Oak Ave", got.Address)

	err = store.UpdateUser(&domain.User{UserID: 99, UserName: "ghost"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	deleted, err := store.DeleteUser(1)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.DeleteUser(1)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListCasesWithUser(t *testing.T) {
	store := NewStore()

	user := &domain.User{UserName: "jsmith", FirstName: "John", LastName: "Smith"}
	require.NoError(t, store.CreateUser(user))

	assigned := &domain.Case{CaseName: "Review onboarding", AssignedUserID: user.UserID}
	orphan := &domain.Case{CaseName: "Unassigned work", AssignedUserID: 999}
	require.NoError(t, store.CreateCase(assigned))
	require.NoError(t, store.CreateCase(orphan))

	list, err := store.ListCasesWithUser()
	require.NoError(t, err)

	// 等值连接：没有匹配用户的案件被过滤
	require.Len(t, list, 1)
	assert.Equal(t, assigned.CaseID, list[0].CaseID)
	assert.Equal(t, "John", list[0].AssignedUserFirstName)
	assert.Equal(t, "jsmith", list[0].AssignedUserName)
}

func TestCompleteCases(t *testing.T) {
	store := NewStore()

	user := &domain.User{UserName: "jsmith", FirstName: "John", LastName: "Smith"}
	require.NoError(t, store.CreateUser(user))

	completable1 := &domain.Case{CaseName: "Close account", CanComplete: true, AssignedUserID: user.UserID}
	completable2 := &domain.Case{CaseName: "Send notice", CanComplete: true, AssignedUserID: user.UserID}
	locked := &domain.Case{CaseName: "Pending review", CanComplete: false, AssignedUserID: user.UserID}
	done := &domain.Case{CaseName: "Old case", CanComplete: true, IsComplete: true, AssignedUserID: user.UserID}
	other := &domain.Case{CaseName: "Someone else", CanComplete: true, AssignedUserID: 42}
	for _, c := range []*domain.Case{completable1, completable2, locked, done, other} {
		require.NoError(t, store.CreateCase(c))
	}

	completable, err := store.ListCompletableCases(user.UserID)
	require.NoError(t, err)
	assert.Len(t, completable, 2)

	count, err := store.CompleteCases(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// 每个完成的案件恰好对应一条 TaskAction
	actions, err := store.ListTaskActions()
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "Close account", actions[0].TaskActionName)
	assert.Equal(t, completable1.CaseID, actions[0].CaseID)
	assert.Equal(t, user.UserID, actions[0].UserID)

	c, err := store.GetCaseByID(completable1.CaseID)
	require.NoError(t, err)
	assert.True(t, c.IsComplete)

	// 二次调用幂等：没有剩余可完成案件
	count, err = store.CompleteCases(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	actions, err = store.ListTaskActions()
	require.NoError(t, err)
	assert.Len(t, actions, 2)
}

func TestMailContentSentAppendOnly(t *testing.T) {
	store := NewStore()

	content := &domain.MailContent{Subject: "Help", Content: "I need help", FromEmail: "a@b.com"}
	require.NoError(t, store.CreateMailContent(content))

	first := &domain.MailContentSent{ContentID: content.ContentID, ResponseContent: "Reply one"}
	second := &domain.MailContentSent{ContentID: content.ContentID, ResponseContent: "Reply two"}
	require.NoError(t, store.CreateMailContentSent(first))
	require.NoError(t, store.CreateMailContentSent(second))

	sents, err := store.ListMailContentSents()
	require.NoError(t, err)
	require.Len(t, sents, 2)
	assert.Equal(t, "Reply one", sents[0].ResponseContent)
	assert.Equal(t, "Reply two", sents[1].ResponseContent)
}
