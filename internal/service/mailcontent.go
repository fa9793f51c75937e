package service

import (
	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// MailContentService 封装来件内容业务逻辑。
type MailContentService struct {
	repo storage.MailContentRepository
}

// NewMailContentService 创建来件内容业务服务。
func NewMailContentService(repo storage.MailContentRepository) *MailContentService {
	return &MailContentService{repo: repo}
}

// CreateMailContentInput 定义创建来件内容的输入。
type CreateMailContentInput struct {
	Subject   string
	Content   string
	FromEmail string
	ToEmail   string
}

// Create 新建来件内容。
func (s *MailContentService) Create(input CreateMailContentInput) (*domain.MailContent, error) {
	content := &domain.MailContent{
		Subject:   input.Subject,
		Content:   input.Content,
		FromEmail: input.FromEmail,
		ToEmail:   input.ToEmail,
	}
	if err := s.repo.CreateMailContent(content); err != nil {
		return nil, err
	}
	return content, nil
}

// List 列出全部来件内容。
func (s *MailContentService) List() ([]domain.MailContent, error) {
	return s.repo.ListMailContents()
}

// Get 获取单条来件内容。
func (s *MailContentService) Get(id int) (*domain.MailContent, error) {
	return s.repo.GetMailContentByID(id)
}

// Update 更新来件内容。
func (s *MailContentService) Update(content *domain.MailContent) error {
	return s.repo.UpdateMailContent(content)
}

// Delete 删除来件内容，返回是否确有删除。
func (s *MailContentService) Delete(id int) (bool, error) {
	return s.repo.DeleteMailContent(id)
}

// MailContentSentService 封装回复记录业务逻辑。
type MailContentSentService struct {
	repo storage.MailContentSentRepository
}

// NewMailContentSentService 创建回复记录业务服务。
func NewMailContentSentService(repo storage.MailContentSentRepository) *MailContentSentService {
	return &MailContentSentService{repo: repo}
}

// CreateMailContentSentInput 定义创建回复记录的输入。
type CreateMailContentSentInput struct {
	ContentID       int
	ResponseContent string
}

// Create 追加一条回复记录。
func (s *MailContentSentService) Create(input CreateMailContentSentInput) (*domain.MailContentSent, error) {
	sent := &domain.MailContentSent{
		ContentID:       input.ContentID,
		ResponseContent: input.ResponseContent,
	}
	if err := s.repo.CreateMailContentSent(sent); err != nil {
		return nil, err
	}
	return sent, nil
}

// List 列出全部回复记录。
func (s *MailContentSentService) List() ([]domain.MailContentSent, error) {
	return s.repo.ListMailContentSents()
}

// Get 获取单条回复记录。
func (s *MailContentSentService) Get(id int) (*domain.MailContentSent, error) {
	return s.repo.GetMailContentSentByID(id)
}

// Update 更新回复记录。
func (s *MailContentSentService) Update(sent *domain.MailContentSent) error {
	return s.repo.UpdateMailContentSent(sent)
}

// Delete 删除回复记录，返回是否确有删除。
func (s *MailContentSentService) Delete(id int) (bool, error) {
	return s.repo.DeleteMailContentSent(id)
}
