package sql

import (
	"fmt"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// ListTaskActions 列出全部任务动作（按主键排序）
func (s *Store) ListTaskActions() ([]domain.TaskAction, error) {
	var actions []domain.TaskAction
	if err := s.db.Order("task_action_id").Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("failed to list task actions: %w", err)
	}
	return actions, nil
}

// ListTaskActionsWithDetail 列出全部任务动作并连接案件名与用户名
func (s *Store) ListTaskActionsWithDetail() ([]domain.TaskActionWithDetail, error) {
	var actions []domain.TaskActionWithDetail
	err := s.db.Table("task_actions").
		Select(`task_actions.task_action_id, task_actions.task_action_name,
			task_actions.case_id, cases.case_name,
			task_actions.user_id, users.user_name`).
		Joins("JOIN cases ON cases.case_id = task_actions.case_id").
		Joins("JOIN users ON users.user_id = task_actions.user_id").
		Order("task_actions.task_action_id").
		Scan(&actions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list task actions with detail: %w", err)
	}
	return actions, nil
}

// GetTaskActionByID 根据 ID 获取任务动作
func (s *Store) GetTaskActionByID(id int) (*domain.TaskAction, error) {
	var action domain.TaskAction
	if err := s.db.First(&action, "task_action_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &action, nil
}

// CreateTaskAction 创建任务动作，回填自增主键
func (s *Store) CreateTaskAction(action *domain.TaskAction) error {
	if err := s.db.Create(action).Error; err != nil {
		return fmt.Errorf("failed to create task action: %w", err)
	}
	return nil
}

// UpdateTaskAction 更新任务动作，主键不存在时返回 storage.ErrNotFound
func (s *Store) UpdateTaskAction(action *domain.TaskAction) error {
	result := s.db.Model(&domain.TaskAction{}).
		Where("task_action_id = ?", action.TaskActionID).
		Select("task_action_name", "case_id", "user_id").
		Updates(action)
	if result.Error != nil {
		return fmt.Errorf("failed to update task action: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteTaskAction 删除任务动作，返回是否确有删除
func (s *Store) DeleteTaskAction(id int) (bool, error) {
	result := s.db.Delete(&domain.TaskAction{}, "task_action_id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete task action: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
