package ai

import (
	"context"
	"fmt"

	"github.com/m-mizutani/gollem"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// CaseNotifier 案件创建事件的广播出口
//
// 工具创建案件后通知所有在线客户端，由 websocket Hub 实现。
// assignedUserName 是被指派用户的用户名，随事件下发给前端展示。
type CaseNotifier interface {
	NotifyCaseCreated(c *domain.Case, assignedUserName string)
}

// ChatTools 构建聊天代理可调用的工具集
func ChatTools(store storage.Store, notifier CaseNotifier) []gollem.Tool {
	return []gollem.Tool{
		&createCaseTool{store: store, notifier: notifier},
		&getUserByUsernameTool{store: store},
		&listAllUsersTool{store: store},
		&getCaseByIDTool{store: store},
	}
}

// caseToMap 把案件转为工具响应
func caseToMap(c *domain.Case) map[string]any {
	return map[string]any{
		"caseId":         c.CaseID,
		"caseName":       c.CaseName,
		"isComplete":     c.IsComplete,
		"canComplete":    c.CanComplete,
		"assignedUserId": c.AssignedUserID,
	}
}

// userToMap 把用户转为工具响应
func userToMap(u *domain.User) map[string]any {
	return map[string]any{
		"userId":    u.UserID,
		"userName":  u.UserName,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"address":   u.Address,
	}
}

// createCaseTool 创建案件并广播 CaseCreated 事件
type createCaseTool struct {
	store    storage.Store
	notifier CaseNotifier
}

func (t *createCaseTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "create_case",
		Description: "Create a new case and assign it to a user",
		Parameters: map[string]*gollem.Parameter{
			"caseName": {
				Type:        gollem.TypeString,
				Description: "Name of the case to create",
				Required:    true,
			},
			"assignedUserId": {
				Type:        gollem.TypeInteger,
				Description: "ID of the user the case is assigned to",
				Required:    true,
			},
			"canComplete": {
				Type:        gollem.TypeBoolean,
				Description: "Whether the case may be auto-completed by agents",
			},
		},
	}
}

func (t *createCaseTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	caseName, ok := args["caseName"].(string)
	if !ok || caseName == "" {
		return nil, fmt.Errorf("caseName is required")
	}
	userID, err := intArg(args, "assignedUserId")
	if err != nil {
		return nil, err
	}
	canComplete, _ := args["canComplete"].(bool)

	// 被指派用户必须存在
	user, err := t.store.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("assigned user %d not found", userID)
	}

	c := &domain.Case{
		CaseName:       caseName,
		CanComplete:    canComplete,
		AssignedUserID: userID,
	}
	if err := t.store.CreateCase(c); err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	if t.notifier != nil {
		t.notifier.NotifyCaseCreated(c, user.UserName)
	}

	return caseToMap(c), nil
}

// getUserByUsernameTool 按用户名查找用户
type getUserByUsernameTool struct {
	store storage.Store
}

func (t *getUserByUsernameTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_user_by_username",
		Description: "Look up a user by their unique username",
		Parameters: map[string]*gollem.Parameter{
			"userName": {
				Type:        gollem.TypeString,
				Description: "Username to look up",
				Required:    true,
			},
		},
	}
}

func (t *getUserByUsernameTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	userName, ok := args["userName"].(string)
	if !ok || userName == "" {
		return nil, fmt.Errorf("userName is required")
	}

	user, err := t.store.GetUserByUsername(userName)
	if err != nil {
		return nil, fmt.Errorf("user %q not found", userName)
	}
	return userToMap(user), nil
}

// listAllUsersTool 列出全部用户
type listAllUsersTool struct {
	store storage.Store
}

func (t *listAllUsersTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "list_all_users",
		Description: "List all users in the case management system",
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *listAllUsersTool) Run(ctx context.Context, _ map[string]any) (map[string]any, error) {
	users, err := t.store.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	items := make([]map[string]any, len(users))
	for i := range users {
		items[i] = userToMap(&users[i])
	}
	return map[string]any{"users": items, "count": len(items)}, nil
}

// getCaseByIDTool 按 ID 查找案件
type getCaseByIDTool struct {
	store storage.Store
}

func (t *getCaseByIDTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_case_by_id",
		Description: "Get a case by its numeric ID",
		Parameters: map[string]*gollem.Parameter{
			"caseId": {
				Type:        gollem.TypeInteger,
				Description: "ID of the case to retrieve",
				Required:    true,
			},
		},
	}
}

func (t *getCaseByIDTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	caseID, err := intArg(args, "caseId")
	if err != nil {
		return nil, err
	}

	c, err := t.store.GetCaseByID(caseID)
	if err != nil {
		return nil, fmt.Errorf("case %d not found", caseID)
	}
	return caseToMap(c), nil
}

// intArg 读取整数参数（JSON 数字解码为 float64）
func intArg(args map[string]any, key string) (int, error) {
	switch v := args[key].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("%s is required and must be an integer", key)
	}
}
