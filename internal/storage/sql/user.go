package sql

import (
	"fmt"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// ListUsers 列出全部用户（按主键排序）
func (s *Store) ListUsers() ([]domain.User, error) {
	var users []domain.User
	if err := s.db.Order("user_id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUserByID 根据 ID 获取用户
func (s *Store) GetUserByID(id int) (*domain.User, error) {
	var user domain.User
	if err := s.db.First(&user, "user_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetUserByUsername 根据用户名获取用户（精确匹配）
func (s *Store) GetUserByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := s.db.First(&user, "user_name = ?", username).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// CreateUser 创建用户，回填自增主键
func (s *Store) CreateUser(user *domain.User) error {
	if err := s.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser 更新用户，主键不存在时返回 storage.ErrNotFound
func (s *Store) UpdateUser(user *domain.User) error {
	result := s.db.Model(&domain.User{}).
		Where("user_id = ?", user.UserID).
		Select("user_name", "first_name", "last_name", "address").
		Updates(user)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteUser 删除用户，返回是否确有删除
func (s *Store) DeleteUser(id int) (bool, error) {
	result := s.db.Delete(&domain.User{}, "user_id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete user: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
