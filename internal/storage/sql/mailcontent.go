package sql

import (
	"fmt"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// ListMailContents 列出全部来件内容（按主键排序）
func (s *Store) ListMailContents() ([]domain.MailContent, error) {
	var contents []domain.MailContent
	if err := s.db.Order("content_id").Find(&contents).Error; err != nil {
		return nil, fmt.Errorf("failed to list mail contents: %w", err)
	}
	return contents, nil
}

// GetMailContentByID 根据 ID 获取来件内容
func (s *Store) GetMailContentByID(id int) (*domain.MailContent, error) {
	var content domain.MailContent
	if err := s.db.First(&content, "content_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &content, nil
}

// CreateMailContent 创建来件内容，回填自增主键
func (s *Store) CreateMailContent(content *domain.MailContent) error {
	if err := s.db.Create(content).Error; err != nil {
		return fmt.Errorf("failed to create mail content: %w", err)
	}
	return nil
}

// UpdateMailContent 更新来件内容，主键不存在时返回 storage.ErrNotFound
func (s *Store) UpdateMailContent(content *domain.MailContent) error {
	result := s.db.Model(&domain.MailContent{}).
		Where("content_id = ?", content.ContentID).
		Select("subject", "content", "from_email", "to_email").
		Updates(content)
	if result.Error != nil {
		return fmt.Errorf("failed to update mail content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteMailContent 删除来件内容，返回是否确有删除
func (s *Store) DeleteMailContent(id int) (bool, error) {
	result := s.db.Delete(&domain.MailContent{}, "content_id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete mail content: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListMailContentSents 列出全部回复记录（按主键排序）
func (s *Store) ListMailContentSents() ([]domain.MailContentSent, error) {
	var sents []domain.MailContentSent
	if err := s.db.Order("mail_content_sent_id").Find(&sents).Error; err != nil {
		return nil, fmt.Errorf("failed to list mail content sents: %w", err)
	}
	return sents, nil
}

// GetMailContentSentByID 根据 ID 获取回复记录
func (s *Store) GetMailContentSentByID(id int) (*domain.MailContentSent, error) {
	var sent domain.MailContentSent
	if err := s.db.First(&sent, "mail_content_sent_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sent, nil
}

// CreateMailContentSent 创建回复记录，回填自增主键
func (s *Store) CreateMailContentSent(sent *domain.MailContentSent) error {
	if err := s.db.Create(sent).Error; err != nil {
		return fmt.Errorf("failed to create mail content sent: %w", err)
	}
	return nil
}

// UpdateMailContentSent 更新回复记录，主键不存在时返回 storage.ErrNotFound
func (s *Store) UpdateMailContentSent(sent *domain.MailContentSent) error {
	result := s.db.Model(&domain.MailContentSent{}).
		Where("mail_content_sent_id = ?", sent.MailContentSentID).
		Select("content_id", "response_content").
		Updates(sent)
	if result.Error != nil {
		return fmt.Errorf("failed to update mail content sent: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteMailContentSent 删除回复记录，返回是否确有删除
func (s *Store) DeleteMailContentSent(id int) (bool, error) {
	result := s.db.Delete(&domain.MailContentSent{}, "mail_content_sent_id = ?", id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete mail content sent: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
