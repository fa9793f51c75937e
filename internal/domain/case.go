package domain

// Case 案件实体，可指派给用户的一个工作单元
//
// CanComplete 控制外部代理（MCP 工具）是否允许自动完成该案件；
// IsComplete 表示案件已关闭。"可完成案件" 指 CanComplete=true 且
// IsComplete=false 的案件。
type Case struct {
	CaseID         int    `json:"caseId" gorm:"primaryKey;autoIncrement;column:case_id"`
	CaseName       string `json:"caseName" gorm:"size:255;column:case_name"`
	IsComplete     bool   `json:"isComplete" gorm:"column:is_complete"`
	CanComplete    bool   `json:"canComplete" gorm:"column:can_complete"`
	AssignedUserID int    `json:"assignedUserId" gorm:"column:assigned_user_id"`
}

// TableName 指定表名
func (Case) TableName() string {
	return "cases"
}

// CaseWithUser 案件列表视图，携带被指派用户的信息（等值连接）
type CaseWithUser struct {
	CaseID                int    `json:"caseId"`
	CaseName              string `json:"caseName"`
	IsComplete            bool   `json:"isComplete"`
	CanComplete           bool   `json:"canComplete"`
	AssignedUserID        int    `json:"assignedUserId"`
	AssignedUserFirstName string `json:"assignedUserFirstName"`
	AssignedUserLastName  string `json:"assignedUserLastName"`
	AssignedUserName      string `json:"assignedUserName"`
}

// CaseDetail 案件详情视图
type CaseDetail struct {
	CaseID                int    `json:"caseId"`
	CaseName              string `json:"caseName"`
	IsComplete            bool   `json:"isComplete"`
	CanComplete           bool   `json:"canComplete"`
	AssignedUserID        int    `json:"assignedUserId"`
	AssignedUserFirstName string `json:"assignedUserFirstName"`
	AssignedUserLastName  string `json:"assignedUserLastName"`
}

// TaskAction 任务动作实体，案件完成时生成的审计记录
//
// 完成操作与 TaskAction 一一对应：每完成一个案件恰好插入一条记录，
// 记录名取案件名。
type TaskAction struct {
	TaskActionID   int    `json:"taskActionId" gorm:"primaryKey;autoIncrement;column:task_action_id"`
	TaskActionName string `json:"taskActionName" gorm:"size:255;column:task_action_name"`
	CaseID         int    `json:"caseId" gorm:"column:case_id"`
	UserID         int    `json:"userId" gorm:"column:user_id"`
}

// TableName 指定表名
func (TaskAction) TableName() string {
	return "task_actions"
}

// TaskActionWithDetail 任务动作列表视图，携带案件名与用户名
type TaskActionWithDetail struct {
	TaskActionID   int    `json:"taskActionId"`
	TaskActionName string `json:"taskActionName"`
	CaseID         int    `json:"caseId"`
	CaseName       string `json:"caseName"`
	UserID         int    `json:"userId"`
	UserName       string `json:"userName"`
}
