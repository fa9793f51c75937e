package sql

import (
	"fmt"

	"gorm.io/gorm"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// ListCases 列出全部案件（按主键排序）
func (s *Store) ListCases() ([]domain.Case, error) {
	var cases []domain.Case
	if err := s.db.Order("case_id").Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

// ListCasesWithUser 列出全部案件并连接被指派用户的信息
//
// 等值连接：没有匹配用户的案件不会出现在结果中。
func (s *Store) ListCasesWithUser() ([]domain.CaseWithUser, error) {
	var cases []domain.CaseWithUser
	err := s.db.Table("cases").
		Select(`cases.case_id, cases.case_name, cases.is_complete, cases.can_complete,
			cases.assigned_user_id,
			users.first_name AS assigned_user_first_name,
			users.last_name AS assigned_user_last_name,
			users.user_name AS assigned_user_name`).
		Joins("JOIN users ON users.user_id = cases.assigned_user_id").
		Order("cases.case_id").
		Scan(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cases with user: %w", err)
	}
	return cases, nil
}

// GetCaseByID 根据 ID 获取案件
func (s *Store) GetCaseByID(id int) (*domain.Case, error) {
	var c domain.Case
	if err := s.db.First(&c, "case_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// GetCaseDetailByID 获取案件详情（连接被指派用户）
func (s *Store) GetCaseDetailByID(id int) (*domain.CaseDetail, error) {
	var detail domain.CaseDetail
	result := s.db.Table("cases").
		Select(`cases.case_id, cases.case_name, cases.is_complete, cases.can_complete,
			cases.assigned_user_id,
			users.first_name AS assigned_user_first_name,
			users.last_name AS assigned_user_last_name`).
		Joins("JOIN users ON users.user_id = cases.assigned_user_id").
		Where("cases.case_id = ?", id).
		Scan(&detail)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get case detail: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, storage.ErrNotFound
	}
	return &detail, nil
}

// CreateCase 创建案件，回填自增主键
func (s *Store) CreateCase(c *domain.Case) error {
	if err := s.db.Create(c).Error; err != nil {
		return fmt.Errorf("failed to create case: %w", err)
	}
	return nil
}

// UpdateCase 更新案件，主键不存在时返回 storage.ErrNotFound
func (s *Store) UpdateCase(c *domain.Case) error {
	result := s.db.Model(&domain.Case{}).
		Where("case_id = ?", c.CaseID).
		Select("case_name", "is_complete", "can_complete", "assigned_user_id").
		Updates(c)
	if result.Error != nil {
		return fmt.Errorf("failed to update case: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteCase 删除案件，返回是否确有删除
func (s *Store) DeleteCase(id int) (bool, error) {
	result := s.db.Delete(&domain.Case{}, "case_id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete case: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListCompletableCases 列出该用户当前可完成的案件
func (s *Store) ListCompletableCases(userID int) ([]domain.Case, error) {
	var cases []domain.Case
	err := s.db.
		Where("assigned_user_id = ? AND can_complete = ? AND is_complete = ?", userID, true, false).
		Order("case_id").
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list completable cases: %w", err)
	}
	return cases, nil
}

// CompleteCases 在单个事务内完成该用户全部可完成案件
//
// 每个案件置 IsComplete=true 并插入一条同名 TaskAction；任一步失败
// 整批回滚。没有可完成案件时返回 0，不视为错误。
func (s *Store) CompleteCases(userID int) (int, error) {
	completed := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cases []domain.Case
		if err := tx.
			Where("assigned_user_id = ? AND can_complete = ? AND is_complete = ?", userID, true, false).
			Order("case_id").
			Find(&cases).Error; err != nil {
			return fmt.Errorf("failed to list completable cases: %w", err)
		}

		for _, c := range cases {
			result := tx.Model(&domain.Case{}).
				Where("case_id = ?", c.CaseID).
				Update("is_complete", true)
			if result.Error != nil {
				return fmt.Errorf("failed to complete case %d: %w", c.CaseID, result.Error)
			}

			action := domain.TaskAction{
				TaskActionName: c.CaseName,
				CaseID:         c.CaseID,
				UserID:         userID,
			}
			if err := tx.Create(&action).Error; err != nil {
				return fmt.Errorf("failed to record task action for case %d: %w", c.CaseID, err)
			}
		}

		completed = len(cases)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return completed, nil
}
