package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	jwtpkg "casemanager/backend/internal/auth/jwt"
	"casemanager/backend/internal/chat"
	"casemanager/backend/internal/config"
	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/mcp"
	"casemanager/backend/internal/service"
	"casemanager/backend/internal/storage/memory"
)

const testSecret = "test-secret-key-for-router-tests-0123456789"

// testEnv 路由测试环境
type testEnv struct {
	router *gin.Engine
	store  *memory.Store
	jwt    *jwtpkg.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	logger := zap.NewNop()
	jwtManager := jwtpkg.NewManager(testSecret, "casemanager", 8*time.Hour)

	completion := service.NewCompletionService(store, logger)
	chatService := service.NewChatService(nil, store, chat.NewMemorySessionStore("你是案件管理助手。"), nil, nil, "", logger)
	deps := RouterDependencies{
		Config: &config.Config{
			CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
		},
		UserService:        service.NewUserService(store),
		CaseService:        service.NewCaseService(store),
		TaskActionService:  service.NewTaskActionService(store),
		MailContentService: service.NewMailContentService(store),
		MailSentService:    service.NewMailContentSentService(store),
		CompletionService:  completion,
		ChatService:        chatService,
		McpDispatcher:      mcp.NewDispatcher(completion, logger),
		JWTManager:         jwtManager,
		Logger:             logger,
	}

	return &testEnv{
		router: NewRouter(deps),
		store:  store,
		jwt:    jwtManager,
	}
}

// seedUser 注入一个用户并返回其令牌
func (e *testEnv) seedUser(t *testing.T, userName string) (*domain.User, string) {
	t.Helper()
	user := &domain.User{UserName: userName, FirstName: "测试", LastName: "用户"}
	require.NoError(t, e.store.CreateUser(user))

	token, err := e.jwt.Generate(user)
	require.NoError(t, err)
	return user, token.AccessToken
}

// do 发起请求，token 为空表示匿名请求
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decodeResponse 解析统一响应结构
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "zhangsan")

	t.Run("缺少用户名返回400", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/authorization/login", "", gin.H{"userName": "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Username is required", decodeResponse(t, w).Msg)
	})

	t.Run("用户名不存在返回401", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/authorization/login", "", gin.H{"userName": "nobody"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid username", decodeResponse(t, w).Msg)
	})

	t.Run("登录成功返回令牌", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/authorization/login", "", gin.H{"userName": "zhangsan"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data loginResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Data.Token)
		assert.Equal(t, "zhangsan", resp.Data.UserName)

		claims, err := env.jwt.ValidateToken(resp.Data.Token)
		require.NoError(t, err)
		assert.Equal(t, "zhangsan", claims.UserName)
		assert.NotEmpty(t, claims.CorrelationID)
	})
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserCRUD(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "admin")

	t.Run("创建用户", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/users", token, domain.User{
			UserName: "lisi", FirstName: "四", LastName: "李",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("更新时ID不匹配返回400", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/users/2", token, domain.User{
			UserID: 99, UserName: "lisi",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ID mismatch", decodeResponse(t, w).Msg)
	})

	t.Run("更新不存在的用户返回404", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/users/99", token, domain.User{
			UserID: 99, UserName: "ghost",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("删除后再查询返回404", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/users/2", token, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = env.do(t, http.MethodGet, "/api/users/2", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = env.do(t, http.MethodDelete, "/api/users/2", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCaseEndpoints(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "worker")

	seedCase := func(name string, canComplete, isComplete bool) *domain.Case {
		c := &domain.Case{
			CaseName:       name,
			CanComplete:    canComplete,
			IsComplete:     isComplete,
			AssignedUserID: user.UserID,
		}
		require.NoError(t, env.store.CreateCase(c))
		return c
	}

	seedCase("可完成案件", true, false)
	seedCase("锁定案件", false, false)
	seedCase("已完成案件", true, true)

	t.Run("案件列表携带用户信息", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/cases", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []domain.CaseWithUser `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 3)
		assert.Equal(t, "worker", resp.Data[0].AssignedUserName)
	})

	t.Run("完成类接口需要认证", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/mcp/list-completable-cases", "", gin.H{"userId": user.UserID})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = env.do(t, http.MethodPost, "/api/mcp/complete-tasks", "", gin.H{"userId": user.UserID})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("可完成案件只含满足条件的案件", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/mcp/list-completable-cases", token, gin.H{"userId": user.UserID})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data service.CompletableResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Data.Count)
		assert.Equal(t, "可完成案件", resp.Data.Cases[0].CaseName)
	})

	t.Run("批量完成案件并生成任务动作", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/mcp/complete-tasks", token, gin.H{"userId": user.UserID})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data service.CompletionResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.Success)
		assert.Equal(t, 1, resp.Data.CompletedCount)

		actions, err := env.store.ListTaskActions()
		require.NoError(t, err)
		require.Len(t, actions, 1)
		assert.Equal(t, "可完成案件", actions[0].TaskActionName)

		// 再次执行：已无可完成案件
		w = env.do(t, http.MethodPost, "/api/mcp/complete-tasks", token, gin.H{"userId": user.UserID})
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Data.Success)
		assert.Equal(t, 0, resp.Data.CompletedCount)
	})

	t.Run("案件详情不存在返回404", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/cases/999", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMailContentEndpoints(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "clerk")

	t.Run("创建并查询来件", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/mailcontents", token, domain.MailContent{
			Subject: "咨询", Content: "请问如何完成案件？", FromEmail: "a@example.com", ToEmail: "support@example.com",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, http.MethodGet, "/api/mailcontents/1", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("来件更新ID不匹配返回400", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/mailcontents/1", token, domain.MailContent{
			ContentID: 7, Subject: "改",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ID mismatch", decodeResponse(t, w).Msg)
	})

	t.Run("回复记录独立管理", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/mailcontentsents", token, domain.MailContentSent{
			ContentID: 1, ResponseContent: "您好，感谢来信。",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, http.MethodGet, "/api/mailcontentsents", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data []domain.MailContentSent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, 1, resp.Data[0].ContentID)
	})
}

func TestMcpRpcBridge(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.seedUser(t, "agent")

	c := &domain.Case{CaseName: "代理案件", CanComplete: true, AssignedUserID: user.UserID}
	require.NoError(t, env.store.CreateCase(c))

	rpc := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/mcp/rpc", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	t.Run("initialize返回协议信息", func(t *testing.T) {
		w := rpc(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Result mcp.InitializeResult `json:"result"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, mcp.ProtocolVersion, resp.Result.ProtocolVersion)
		assert.Equal(t, mcp.ServerName, resp.Result.ServerInfo.Name)
	})

	t.Run("未知方法回显字符串ID", func(t *testing.T) {
		w := rpc(`{"jsonrpc":"2.0","id":"abc","method":"bogus"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp mcp.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, mcp.CodeMethodNotFound, resp.Error.Code)
		assert.Equal(t, "Method not found: bogus", resp.Error.Message)
		assert.Equal(t, `"abc"`, string(resp.ID))
	})

	t.Run("tools-call完成案件", func(t *testing.T) {
		body := fmt.Sprintf(
			`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"complete_task","arguments":{"userId":%d}}}`,
			user.UserID)
		w := rpc(body)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Result mcp.ToolResult `json:"result"`
			Error  *mcp.Error     `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Nil(t, resp.Error)
		require.Len(t, resp.Result.Content, 1)
		assert.Contains(t, resp.Result.Content[0].Text, "Completed 1 task(s) successfully")

		got, err := env.store.GetCaseByID(c.CaseID)
		require.NoError(t, err)
		assert.True(t, got.IsComplete)
	})
}

func TestChatHistoryNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "chatter")

	w := env.do(t, http.MethodGet, "/api/chat/history/no-such-session", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
