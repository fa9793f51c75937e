package storage

import (
	"errors"

	"casemanager/backend/internal/domain"
)

var (
	// ErrNotFound 按主键查询/更新时没有匹配到任何行。
	//
	// 更新操作通过 RowsAffected（或内存存储的存在性检查）显式判定
	// "未找到"，不从其他数据库错误推断，约束冲突等写入失败会原样返回。
	ErrNotFound = errors.New("record not found")
)

// UserRepository 定义用户数据存取操作。
type UserRepository interface {
	ListUsers() ([]domain.User, error)
	GetUserByID(id int) (*domain.User, error)
	GetUserByUsername(username string) (*domain.User, error)
	CreateUser(user *domain.User) error
	UpdateUser(user *domain.User) error
	DeleteUser(id int) (bool, error)
}

// CaseRepository 定义案件数据存取操作。
type CaseRepository interface {
	ListCases() ([]domain.Case, error)
	ListCasesWithUser() ([]domain.CaseWithUser, error)
	GetCaseByID(id int) (*domain.Case, error)
	GetCaseDetailByID(id int) (*domain.CaseDetail, error)
	CreateCase(c *domain.Case) error
	UpdateCase(c *domain.Case) error
	DeleteCase(id int) (bool, error)

	// ListCompletableCases 列出指派给该用户、CanComplete=true 且
	// IsComplete=false 的案件。
	ListCompletableCases(userID int) ([]domain.Case, error)
	// CompleteCases 把全部可完成案件标记为已完成并为每个案件插入
	// 一条 TaskAction，整批在一个事务内提交，返回完成数量。
	CompleteCases(userID int) (int, error)
}

// TaskActionRepository 定义任务动作数据存取操作。
type TaskActionRepository interface {
	ListTaskActions() ([]domain.TaskAction, error)
	ListTaskActionsWithDetail() ([]domain.TaskActionWithDetail, error)
	GetTaskActionByID(id int) (*domain.TaskAction, error)
	CreateTaskAction(action *domain.TaskAction) error
	UpdateTaskAction(action *domain.TaskAction) error
	DeleteTaskAction(id int) (bool, error)
}

// MailContentRepository 定义来件内容数据存取操作。
type MailContentRepository interface {
	ListMailContents() ([]domain.MailContent, error)
	GetMailContentByID(id int) (*domain.MailContent, error)
	CreateMailContent(content *domain.MailContent) error
	UpdateMailContent(content *domain.MailContent) error
	DeleteMailContent(id int) (bool, error)
}

// MailContentSentRepository 定义回复记录数据存取操作（只追加）。
type MailContentSentRepository interface {
	ListMailContentSents() ([]domain.MailContentSent, error)
	GetMailContentSentByID(id int) (*domain.MailContentSent, error)
	CreateMailContentSent(sent *domain.MailContentSent) error
	UpdateMailContentSent(sent *domain.MailContentSent) error
	DeleteMailContentSent(id int) (bool, error)
}

// Store 聚合所有仓储接口。
type Store interface {
	UserRepository
	CaseRepository
	TaskActionRepository
	MailContentRepository
	MailContentSentRepository

	// Health 检查存储是否可用。
	Health() error
	// Close 释放底层连接。
	Close() error
}
