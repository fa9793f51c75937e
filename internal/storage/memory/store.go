package memory

import (
	"sort"
	"sync"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// Store 内存存储实现
//
// 用于测试和无数据库的本地开发。所有操作在单个互斥锁内完成，
// CompleteCases 因此天然具备事务语义。
type Store struct {
	mu sync.RWMutex

	users            map[int]domain.User
	cases            map[int]domain.Case
	taskActions      map[int]domain.TaskAction
	mailContents     map[int]domain.MailContent
	mailContentSents map[int]domain.MailContentSent

	nextUserID            int
	nextCaseID            int
	nextTaskActionID      int
	nextMailContentID     int
	nextMailContentSentID int
}

// NewStore 创建内存存储
func NewStore() *Store {
	return &Store{
		users:                 make(map[int]domain.User),
		cases:                 make(map[int]domain.Case),
		taskActions:           make(map[int]domain.TaskAction),
		mailContents:          make(map[int]domain.MailContent),
		mailContentSents:      make(map[int]domain.MailContentSent),
		nextUserID:            1,
		nextCaseID:            1,
		nextTaskActionID:      1,
		nextMailContentID:     1,
		nextMailContentSentID: 1,
	}
}

// Health 内存存储始终可用
func (s *Store) Health() error { return nil }

// Close 内存存储无需释放资源
func (s *Store) Close() error { return nil }

// ---- 用户 ----

// ListUsers 列出全部用户（按主键排序）
func (s *Store) ListUsers() ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

// GetUserByID 根据 ID 获取用户
func (s *Store) GetUserByID(id int) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

// GetUserByUsername 根据用户名获取用户（精确匹配）
func (s *Store) GetUserByUsername(username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.UserName == username {
			user := u
			return &user, nil
		}
	}
	return nil, storage.ErrNotFound
}

// CreateUser 创建用户，回填自增主键
func (s *Store) CreateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.UserID = s.nextUserID
	s.nextUserID++
	s.users[user.UserID] = *user
	return nil
}

// UpdateUser 更新用户，主键不存在时返回 storage.ErrNotFound
func (s *Store) UpdateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.UserID]; !ok {
		return storage.ErrNotFound
	}
	s.users[user.UserID] = *user
	return nil
}

// DeleteUser 删除用户，返回是否确有删除
func (s *Store) DeleteUser(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

// ---- 案件 ----

// ListCases 列出全部案件（按主键排序）
func (s *Store) ListCases() ([]domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cases := make([]domain.Case, 0, len(s.cases))
	for _, c := range s.cases {
		cases = append(cases, c)
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].CaseID < cases[j].CaseID })
	return cases, nil
}

// ListCasesWithUser 列出全部案件并连接被指派用户的信息
//
// 等值连接语义：没有匹配用户的案件不出现在结果中。
func (s *Store) ListCasesWithUser() ([]domain.CaseWithUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.CaseWithUser, 0, len(s.cases))
	for _, c := range s.cases {
		u, ok := s.users[c.AssignedUserID]
		if !ok {
			continue
		}
		result = append(result, domain.CaseWithUser{
			CaseID:                c.CaseID,
			CaseName:              c.CaseName,
			IsComplete:            c.IsComplete,
			CanComplete:           c.CanComplete,
			AssignedUserID:        c.AssignedUserID,
			AssignedUserFirstName: u.FirstName,
			AssignedUserLastName:  u.LastName,
			AssignedUserName:      u.UserName,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CaseID < result[j].CaseID })
	return result, nil
}

// GetCaseByID 根据 ID 获取案件
func (s *Store) GetCaseByID(id int) (*domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cases[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

// GetCaseDetailByID 获取案件详情（连接被指派用户）
func (s *Store) GetCaseDetailByID(id int) (*domain.CaseDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cases[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u, ok := s.users[c.AssignedUserID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &domain.CaseDetail{
		CaseID:                c.CaseID,
		CaseName:              c.CaseName,
		IsComplete:            c.IsComplete,
		CanComplete:           c.CanComplete,
		AssignedUserID:        c.AssignedUserID,
		AssignedUserFirstName: u.FirstName,
		AssignedUserLastName:  u.LastName,
	}, nil
}

// CreateCase 创建案件，回填自增主键
func (s *Store) CreateCase(c *domain.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.CaseID = s.nextCaseID
	s.nextCaseID++
	s.cases[c.CaseID] = *c
	return nil
}

// UpdateCase 更新案件，主键不存在时返回 storage.ErrNotFound
func (s *Store) UpdateCase(c *domain.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cases[c.CaseID]; !ok {
		return storage.ErrNotFound
	}
	s.cases[c.CaseID] = *c
	return nil
}

// DeleteCase 删除案件，返回是否确有删除
func (s *Store) DeleteCase(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cases[id]; !ok {
		return false, nil
	}
	delete(s.cases, id)
	return true, nil
}

// ListCompletableCases 列出该用户当前可完成的案件
func (s *Store) ListCompletableCases(userID int) ([]domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.completableLocked(userID), nil
}

// completableLocked 调用方必须持有锁
func (s *Store) completableLocked(userID int) []domain.Case {
	var cases []domain.Case
	for _, c := range s.cases {
		if c.AssignedUserID == userID && c.CanComplete && !c.IsComplete {
			cases = append(cases, c)
		}
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].CaseID < cases[j].CaseID })
	return cases
}

// CompleteCases 完成该用户全部可完成案件并逐案插入 TaskAction
func (s *Store) CompleteCases(userID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cases := s.completableLocked(userID)
	for _, c := range cases {
		c.IsComplete = true
		s.cases[c.CaseID] = c

		action := domain.TaskAction{
			TaskActionID:   s.nextTaskActionID,
			TaskActionName: c.CaseName,
			CaseID:         c.CaseID,
			UserID:         userID,
		}
		s.nextTaskActionID++
		s.taskActions[action.TaskActionID] = action
	}
	return len(cases), nil
}

// ---- 任务动作 ----

// ListTaskActions 列出全部任务动作（按主键排序）
func (s *Store) ListTaskActions() ([]domain.TaskAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	actions := make([]domain.TaskAction, 0, len(s.taskActions))
	for _, a := range s.taskActions {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].TaskActionID < actions[j].TaskActionID })
	return actions, nil
}

// ListTaskActionsWithDetail 列出全部任务动作并连接案件名与用户名
func (s *Store) ListTaskActionsWithDetail() ([]domain.TaskActionWithDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.TaskActionWithDetail, 0, len(s.taskActions))
	for _, a := range s.taskActions {
		c, ok := s.cases[a.CaseID]
		if !ok {
			continue
		}
		u, ok := s.users[a.UserID]
		if !ok {
			continue
		}
		result = append(result, domain.TaskActionWithDetail{
			TaskActionID:   a.TaskActionID,
			TaskActionName: a.TaskActionName,
			CaseID:         a.CaseID,
			CaseName:       c.CaseName,
			UserID:         a.UserID,
			UserName:       u.UserName,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TaskActionID < result[j].TaskActionID })
	return result, nil
}

// GetTaskActionByID 根据 ID 获取任务动作
func (s *Store) GetTaskActionByID(id int) (*domain.TaskAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.taskActions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

// CreateTaskAction 创建任务动作，回填自增主键
func (s *Store) CreateTaskAction(action *domain.TaskAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	action.TaskActionID = s.nextTaskActionID
	s.nextTaskActionID++
	s.taskActions[action.TaskActionID] = *action
	return nil
}

// UpdateTaskAction 更新任务动作，主键不存在时返回 storage.ErrNotFound
func (s *Store) UpdateTaskAction(action *domain.TaskAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.taskActions[action.TaskActionID]; !ok {
		return storage.ErrNotFound
	}
	s.taskActions[action.TaskActionID] = *action
	return nil
}

// DeleteTaskAction 删除任务动作，返回是否确有删除
func (s *Store) DeleteTaskAction(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.taskActions[id]; !ok {
		return false, nil
	}
	delete(s.taskActions, id)
	return true, nil
}

// ---- 来件内容 ----

// ListMailContents 列出全部来件内容（按主键排序）
func (s *Store) ListMailContents() ([]domain.MailContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contents := make([]domain.MailContent, 0, len(s.mailContents))
	for _, m := range s.mailContents {
		contents = append(contents, m)
	}
	sort.Slice(contents, func(i, j int) bool { return contents[i].ContentID < contents[j].ContentID })
	return contents, nil
}

// GetMailContentByID 根据 ID 获取来件内容
func (s *Store) GetMailContentByID(id int) (*domain.MailContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.mailContents[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &m, nil
}

// CreateMailContent 创建来件内容，回填自增主键
func (s *Store) CreateMailContent(content *domain.MailContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content.ContentID = s.nextMailContentID
	s.nextMailContentID++
	s.mailContents[content.ContentID] = *content
	return nil
}

// UpdateMailContent 更新来件内容，主键不存在时返回 storage.ErrNotFound
func (s *Store) UpdateMailContent(content *domain.MailContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mailContents[content.ContentID]; !ok {
		return storage.ErrNotFound
	}
	s.mailContents[content.ContentID] = *content
	return nil
}

// DeleteMailContent 删除来件内容，返回是否确有删除
func (s *Store) DeleteMailContent(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mailContents[id]; !ok {
		return false, nil
	}
	delete(s.mailContents, id)
	return true, nil
}

// ---- 回复记录 ----

// ListMailContentSents 列出全部回复记录（按主键排序）
func (s *Store) ListMailContentSents() ([]domain.MailContentSent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sents := make([]domain.MailContentSent, 0, len(s.mailContentSents))
	for _, m := range s.mailContentSents {
		sents = append(sents, m)
	}
	sort.Slice(sents, func(i, j int) bool {
		return sents[i].MailContentSentID < sents[j].MailContentSentID
	})
	return sents, nil
}

// GetMailContentSentByID 根据 ID 获取回复记录
func (s *Store) GetMailContentSentByID(id int) (*domain.MailContentSent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.mailContentSents[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &m, nil
}

// CreateMailContentSent 创建回复记录，回填自增主键
func (s *Store) CreateMailContentSent(sent *domain.MailContentSent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sent.MailContentSentID = s.nextMailContentSentID
	s.nextMailContentSentID++
	s.mailContentSents[sent.MailContentSentID] = *sent
	return nil
}

// UpdateMailContentSent 更新回复记录，主键不存在时返回 storage.ErrNotFound
func (s *Store) UpdateMailContentSent(sent *domain.MailContentSent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mailContentSents[sent.MailContentSentID]; !ok {
		return storage.ErrNotFound
	}
	s.mailContentSents[sent.MailContentSentID] = *sent
	return nil
}

// DeleteMailContentSent 删除回复记录，返回是否确有删除
func (s *Store) DeleteMailContentSent(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mailContentSents[id]; !ok {
		return false, nil
	}
	delete(s.mailContentSents, id)
	return true, nil
}
