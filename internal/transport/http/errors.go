package httptransport

// 通用错误消息
const (
	// 请求相关
	MsgInvalidRequest = "请求参数格式错误"
	MsgInvalidID      = "ID 格式无效"
	MsgIDMismatch     = "ID mismatch"

	// 认证相关
	MsgUsernameRequired = "Username is required"
	MsgInvalidUsername  = "Invalid username"

	// 用户相关
	MsgUserNotFound     = "用户不存在"
	MsgUserListFailed   = "获取用户列表失败"
	MsgUserCreateFailed = "创建用户失败"
	MsgUserUpdateFailed = "更新用户失败"
	MsgUserDeleteFailed = "删除用户失败"

	// 案件相关
	MsgCaseNotFound       = "案件不存在"
	MsgCaseListFailed     = "获取案件列表失败"
	MsgCaseCreateFailed   = "创建案件失败"
	MsgCaseUpdateFailed   = "更新案件失败"
	MsgCaseDeleteFailed   = "删除案件失败"
	MsgCompletableFailed  = "获取可完成案件失败"
	MsgCompleteTaskFailed = "批量完成案件失败"

	// 任务动作相关
	MsgTaskActionNotFound     = "任务动作不存在"
	MsgTaskActionListFailed   = "获取任务动作列表失败"
	MsgTaskActionCreateFailed = "创建任务动作失败"
	MsgTaskActionUpdateFailed = "更新任务动作失败"
	MsgTaskActionDeleteFailed = "删除任务动作失败"

	// 来件相关
	MsgMailContentNotFound     = "来件内容不存在"
	MsgMailContentListFailed   = "获取来件列表失败"
	MsgMailContentCreateFailed = "创建来件失败"
	MsgMailContentUpdateFailed = "更新来件失败"
	MsgMailContentDeleteFailed = "删除来件失败"
	MsgGenerateResponseFailed  = "生成回复失败"

	// 回复记录相关
	MsgMailSentNotFound     = "回复记录不存在"
	MsgMailSentListFailed   = "获取回复记录列表失败"
	MsgMailSentCreateFailed = "创建回复记录失败"
	MsgMailSentUpdateFailed = "更新回复记录失败"
	MsgMailSentDeleteFailed = "删除回复记录失败"

	// 聊天相关
	MsgChatMessageRequired = "消息内容不能为空"
	MsgChatFailed          = "处理聊天消息失败"
	MsgSessionNotFound     = "会话不存在"

	// 服务器错误
	MsgInternalError = "服务器内部错误，请稍后重试"
)
