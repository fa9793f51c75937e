package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/service"
	"casemanager/backend/internal/storage/memory"
)

func newDispatcherFixture(t *testing.T) (*Dispatcher, *memory.Store, *domain.User) {
	t.Helper()

	store := memory.NewStore()
	user := &domain.User{UserName: "jsmith", FirstName: "John", LastName: "Smith"}
	require.NoError(t, store.CreateUser(user))

	completion := service.NewCompletionService(store, zap.NewNop())
	return NewDispatcher(completion, zap.NewNop()), store, user
}

func rawID(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestDispatchInitialize(t *testing.T) {
	dispatcher, _, _ := newDispatcherFixture(t)

	resp := dispatcher.Dispatch(&Request{JSONRPC: "2.0", ID: rawID(t, 1), Method: "initialize"})

	require.Nil(t, resp.Error)
	result, ok := resp.Result.(InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "2024-11-05", result.ProtocolVersion)
	assert.Equal(t, "casemanager-mcp-server", result.ServerInfo.Name)
	assert.Equal(t, "1.0.0", result.ServerInfo.Version)
	assert.Contains(t, result.Capabilities, "tools")
}

func TestDispatchToolsList(t *testing.T) {
	dispatcher, _, _ := newDispatcherFixture(t)

	resp := dispatcher.Dispatch(&Request{JSONRPC: "2.0", ID: rawID(t, 2), Method: "tools/list"})

	require.Nil(t, resp.Error)
	result, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	tools, ok := result["tools"].([]ToolDescriptor)
	require.True(t, ok)
	require.Len(t, tools, 2)
	assert.Equal(t, "list_completable_cases", tools[0].Name)
	assert.Equal(t, "complete_task", tools[1].Name)
	assert.Equal(t, []string{"userId"}, tools[0].InputSchema["required"])
}

func TestDispatchUnknownMethod(t *testing.T) {
	dispatcher, _, _ := newDispatcherFixture(t)

	resp := dispatcher.Dispatch(&Request{JSONRPC: "2.0", ID: rawID(t, "abc"), Method: "resources/list"})

	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
	assert.Equal(t, "Method not found: resources/list", resp.Error.Message)
	// ID 原样回显
	assert.Equal(t, `"abc"`, string(resp.ID))
}

func TestDispatchToolsCallListCompletable(t *testing.T) {
	dispatcher, store, user := newDispatcherFixture(t)
	require.NoError(t, store.CreateCase(&domain.Case{CaseName: "Open", CanComplete: true, AssignedUserID: user.UserID}))

	params := fmt.Sprintf(`{"name":"list_completable_cases","arguments":{"userId":%d}}`, user.UserID)
	resp := dispatcher.Dispatch(&Request{
		JSONRPC: "2.0",
		ID:      rawID(t, 3),
		Method:  "tools/call",
		Params:  json.RawMessage(params),
	})

	require.Nil(t, resp.Error)
	result, ok := resp.Result.(ToolResult)
	require.True(t, ok)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)

	var payload service.CompletableResult
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &payload))
	assert.Equal(t, 1, payload.Count)
	assert.Equal(t, user.UserID, payload.UserID)
}

func TestDispatchToolsCallCompleteTask(t *testing.T) {
	dispatcher, store, user := newDispatcherFixture(t)
	require.NoError(t, store.CreateCase(&domain.Case{CaseName: "First", CanComplete: true, AssignedUserID: user.UserID}))
	require.NoError(t, store.CreateCase(&domain.Case{CaseName: "Second", CanComplete: true, AssignedUserID: user.UserID}))

	params := fmt.Sprintf(`{"name":"complete_task","arguments":{"userId":%d}}`, user.UserID)
	resp := dispatcher.Dispatch(&Request{
		JSONRPC: "2.0",
		ID:      rawID(t, 4),
		Method:  "tools/call",
		Params:  json.RawMessage(params),
	})

	require.Nil(t, resp.Error)
	result := resp.Result.(ToolResult)
	var payload service.CompletionResult
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, 2, payload.CompletedCount)
	assert.Equal(t, "Completed 2 task(s) successfully", payload.Message)

	// 空跑返回成功与提示文本
	resp = dispatcher.Dispatch(&Request{
		JSONRPC: "2.0",
		ID:      rawID(t, 5),
		Method:  "tools/call",
		Params:  json.RawMessage(params),
	})
	require.Nil(t, resp.Error)
	result = resp.Result.(ToolResult)
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &payload))
	assert.Equal(t, 0, payload.CompletedCount)
	assert.Equal(t, "No completable tasks found", payload.Message)
}

func TestDispatchToolsCallUnknownTool(t *testing.T) {
	dispatcher, _, _ := newDispatcherFixture(t)

	resp := dispatcher.Dispatch(&Request{
		JSONRPC: "2.0",
		ID:      rawID(t, 6),
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"drop_tables","arguments":{}}`),
	})

	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
	assert.Equal(t, "Tool not found: drop_tables", resp.Error.Message)
}

func TestDispatchToolsCallMalformedParams(t *testing.T) {
	dispatcher, _, _ := newDispatcherFixture(t)

	resp := dispatcher.Dispatch(&Request{
		JSONRPC: "2.0",
		ID:      rawID(t, 7),
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})

	// 参数解析失败折叠为 internal error，错误文本放在 data
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternalError, resp.Error.Code)
	assert.Equal(t, "Internal error", resp.Error.Message)
	assert.NotEmpty(t, resp.Error.Data)
}

func TestDispatchToolsCallMissingUserID(t *testing.T) {
	dispatcher, _, _ := newDispatcherFixture(t)

	for _, params := range []string{
		`{"name":"complete_task","arguments":{}}`,
		`{"name":"complete_task"}`,
		`{"name":"list_completable_cases","arguments":{"userId":0}}`,
	} {
		resp := dispatcher.Dispatch(&Request{
			JSONRPC: "2.0",
			ID:      rawID(t, 8),
			Method:  "tools/call",
			Params:  json.RawMessage(params),
		})

		require.NotNil(t, resp.Error, params)
		assert.Equal(t, CodeInternalError, resp.Error.Code, params)
		assert.Equal(t, "Invalid userId", resp.Error.Data, params)
	}
}

func TestStdioServerRoundTrip(t *testing.T) {
	dispatcher, store, user := newDispatcherFixture(t)
	require.NoError(t, store.CreateCase(&domain.Case{CaseName: "Open", CanComplete: true, AssignedUserID: user.UserID}))

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`not json at all`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		fmt.Sprintf(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"complete_task","arguments":{"userId":%d}}}`, user.UserID),
	}, "\n") + "\n"

	var out bytes.Buffer
	server := NewServer(dispatcher, strings.NewReader(input), &out, zap.NewNop())
	require.NoError(t, server.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)

	var first Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "2.0", first.JSONRPC)
	assert.Equal(t, "1", string(first.ID))
	assert.Nil(t, first.Error)

	// 坏行回 parse error，循环继续
	var second Response
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.NotNil(t, second.Error)
	assert.Equal(t, CodeParseError, second.Error.Code)

	var fourth Response
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &fourth))
	assert.Nil(t, fourth.Error)
	assert.Equal(t, "3", string(fourth.ID))
}
