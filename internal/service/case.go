package service

import (
	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// CaseService 封装案件业务逻辑。
type CaseService struct {
	repo storage.CaseRepository
}

// NewCaseService 创建案件业务服务。
func NewCaseService(repo storage.CaseRepository) *CaseService {
	return &CaseService{repo: repo}
}

// CreateCaseInput 定义创建案件的输入。
type CreateCaseInput struct {
	CaseName       string
	IsComplete     bool
	CanComplete    bool
	AssignedUserID int
}

// Create 新建案件。
func (s *CaseService) Create(input CreateCaseInput) (*domain.Case, error) {
	c := &domain.Case{
		CaseName:       input.CaseName,
		IsComplete:     input.IsComplete,
		CanComplete:    input.CanComplete,
		AssignedUserID: input.AssignedUserID,
	}
	if err := s.repo.CreateCase(c); err != nil {
		return nil, err
	}
	return c, nil
}

// List 列出全部案件（含被指派用户信息）。
func (s *CaseService) List() ([]domain.CaseWithUser, error) {
	return s.repo.ListCasesWithUser()
}

// Get 获取单个案件。
func (s *CaseService) Get(id int) (*domain.Case, error) {
	return s.repo.GetCaseByID(id)
}

// GetDetail 获取案件详情（含被指派用户信息）。
func (s *CaseService) GetDetail(id int) (*domain.CaseDetail, error) {
	return s.repo.GetCaseDetailByID(id)
}

// Update 更新案件。
func (s *CaseService) Update(c *domain.Case) error {
	return s.repo.UpdateCase(c)
}

// Delete 删除案件，返回是否确有删除。
func (s *CaseService) Delete(id int) (bool, error) {
	return s.repo.DeleteCase(id)
}
