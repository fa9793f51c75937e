package mcp

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"casemanager/backend/internal/service"
)

// Dispatcher 处理 JSON-RPC 请求并产生响应。
//
// stdio 伴生进程与 HTTP 桥共用同一个实例，两条传输通道上的
// 方法语义完全一致。
type Dispatcher struct {
	completion *service.CompletionService
	logger     *zap.Logger
}

// NewDispatcher 创建 JSON-RPC 调度器。
func NewDispatcher(completion *service.CompletionService, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{completion: completion, logger: logger}
}

// Dispatch 处理单个请求。
//
// 业务失败不会中断通道：一律折叠为 -32603 响应，错误文本放在
// error.data 中。
func (d *Dispatcher) Dispatch(req *Request) *Response {
	switch req.Method {
	case "initialize":
		return d.handleInitialize(req)
	case "tools/list":
		return d.handleToolsList(req)
	case "tools/call":
		return d.handleToolsCall(req)
	default:
		d.logger.Warn("unknown RPC method", zap.String("method", req.Method))
		return NewError(req.ID, CodeMethodNotFound, "Method not found: "+req.Method, nil)
	}
}

// handleInitialize 响应协议握手
func (d *Dispatcher) handleInitialize(req *Request) *Response {
	return NewResult(req.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    map[string]any{"tools": map[string]any{}},
		ServerInfo:      ServerInfo{Name: ServerName, Version: ServerVersion},
	})
}

// handleToolsList 返回可调用工具清单
func (d *Dispatcher) handleToolsList(req *Request) *Response {
	userIDSchema := func(description string) map[string]any {
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"userId": map[string]any{
					"type":        "integer",
					"description": description,
				},
			},
			"required": []string{"userId"},
		}
	}

	tools := []ToolDescriptor{
		{
			Name:        "list_completable_cases",
			Description: "List all cases assigned to a user that can currently be completed",
			InputSchema: userIDSchema("ID of the user whose completable cases to list"),
		},
		{
			Name:        "complete_task",
			Description: "Complete all completable cases for a user and record a task action for each",
			InputSchema: userIDSchema("ID of the user whose cases to complete"),
		},
	}

	return NewResult(req.ID, map[string]any{"tools": tools})
}

// handleToolsCall 调用指定工具
func (d *Dispatcher) handleToolsCall(req *Request) *Response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return NewError(req.ID, CodeInternalError, "Internal error", err.Error())
	}

	var args UserArguments
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments, &args); err != nil {
			return NewError(req.ID, CodeInternalError, "Internal error", err.Error())
		}
	}
	// 未知工具先于参数校验报告
	switch params.Name {
	case "list_completable_cases", "complete_task":
	default:
		return NewError(req.ID, CodeMethodNotFound, fmt.Sprintf("Tool not found: %s", params.Name), nil)
	}
	if args.UserID <= 0 {
		return NewError(req.ID, CodeInternalError, "Internal error", "Invalid userId")
	}

	var payload any
	var err error
	switch params.Name {
	case "list_completable_cases":
		payload, err = d.completion.ListCompletable(args.UserID)
	case "complete_task":
		payload, err = d.completion.CompleteAll(args.UserID)
	}
	if err != nil {
		d.logger.Error("tool call failed",
			zap.String("tool", params.Name),
			zap.Int("user_id", args.UserID),
			zap.Error(err))
		return NewError(req.ID, CodeInternalError, "Internal error", err.Error())
	}

	text, err := json.Marshal(payload)
	if err != nil {
		return NewError(req.ID, CodeInternalError, "Internal error", err.Error())
	}

	return NewResult(req.ID, ToolResult{
		Content: []ContentItem{{Type: "text", Text: string(text)}},
	})
}
