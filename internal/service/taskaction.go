package service

import (
	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// TaskActionService 封装任务动作业务逻辑。
type TaskActionService struct {
	repo storage.TaskActionRepository
}

// NewTaskActionService 创建任务动作业务服务。
func NewTaskActionService(repo storage.TaskActionRepository) *TaskActionService {
	return &TaskActionService{repo: repo}
}

// CreateTaskActionInput 定义创建任务动作的输入。
type CreateTaskActionInput struct {
	TaskActionName string
	CaseID         int
	UserID         int
}

// Create 新建任务动作。
func (s *TaskActionService) Create(input CreateTaskActionInput) (*domain.TaskAction, error) {
	action := &domain.TaskAction{
		TaskActionName: input.TaskActionName,
		CaseID:         input.CaseID,
		UserID:         input.UserID,
	}
	if err := s.repo.CreateTaskAction(action); err != nil {
		return nil, err
	}
	return action, nil
}

// List 列出全部任务动作（含案件名与用户名）。
func (s *TaskActionService) List() ([]domain.TaskActionWithDetail, error) {
	return s.repo.ListTaskActionsWithDetail()
}

// Get 获取单个任务动作。
func (s *TaskActionService) Get(id int) (*domain.TaskAction, error) {
	return s.repo.GetTaskActionByID(id)
}

// Update 更新任务动作。
func (s *TaskActionService) Update(action *domain.TaskAction) error {
	return s.repo.UpdateTaskAction(action)
}

// Delete 删除任务动作，返回是否确有删除。
func (s *TaskActionService) Delete(id int) (bool, error) {
	return s.repo.DeleteTaskAction(id)
}
