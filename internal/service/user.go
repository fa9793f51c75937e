package service

import (
	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// UserService 封装用户业务逻辑。
type UserService struct {
	repo storage.UserRepository
}

// NewUserService 创建用户业务服务。
func NewUserService(repo storage.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// CreateUserInput 定义创建用户的输入。
type CreateUserInput struct {
	UserName  string
	FirstName string
	LastName  string
	Address   string
}

// Create 新建用户。
func (s *UserService) Create(input CreateUserInput) (*domain.User, error) {
	user := &domain.User{
		UserName:  input.UserName,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Address:   input.Address,
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// List 列出全部用户。
func (s *UserService) List() ([]domain.User, error) {
	return s.repo.ListUsers()
}

// Get 获取单个用户。
func (s *UserService) Get(id int) (*domain.User, error) {
	return s.repo.GetUserByID(id)
}

// GetByUsername 根据用户名获取用户。
func (s *UserService) GetByUsername(username string) (*domain.User, error) {
	return s.repo.GetUserByUsername(username)
}

// Update 更新用户。
func (s *UserService) Update(user *domain.User) error {
	return s.repo.UpdateUser(user)
}

// Delete 删除用户，返回是否确有删除。
func (s *UserService) Delete(id int) (bool, error) {
	return s.repo.DeleteUser(id)
}
