package service

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/storage"
)

// CompletionService 封装 "可完成案件" 的查询与批量完成逻辑。
//
// REST 接口、MCP HTTP 桥和 stdio MCP 伴生进程共用同一个实例，
// 三条入口的行为由此保持一致。
type CompletionService struct {
	repo      storage.CaseRepository
	logger    *zap.Logger
	completed prometheus.Counter
}

// NewCompletionService 创建完成服务。
func NewCompletionService(repo storage.CaseRepository, logger *zap.Logger) *CompletionService {
	return &CompletionService{repo: repo, logger: logger}
}

// WithCompletedCounter 挂接完成数监控指标。
func (s *CompletionService) WithCompletedCounter(counter prometheus.Counter) *CompletionService {
	s.completed = counter
	return s
}

// CompletableResult 可完成案件查询结果。
type CompletableResult struct {
	Cases  []domain.Case `json:"cases"`
	Count  int           `json:"count"`
	UserID int           `json:"userId"`
}

// CompletionResult 批量完成结果。
type CompletionResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	CompletedCount int    `json:"completedCount"`
	UserID         int    `json:"userId"`
}

// ListCompletable 列出该用户当前可完成的案件。
func (s *CompletionService) ListCompletable(userID int) (*CompletableResult, error) {
	cases, err := s.repo.ListCompletableCases(userID)
	if err != nil {
		s.logger.Error("failed to list completable cases",
			zap.Int("user_id", userID),
			zap.Error(err))
		return nil, err
	}
	if cases == nil {
		cases = []domain.Case{}
	}
	return &CompletableResult{
		Cases:  cases,
		Count:  len(cases),
		UserID: userID,
	}, nil
}

// CompleteAll 完成该用户全部可完成案件。
//
// 没有可完成案件不是错误：返回计数为零、Success=false 的正常结果。
func (s *CompletionService) CompleteAll(userID int) (*CompletionResult, error) {
	count, err := s.repo.CompleteCases(userID)
	if err != nil {
		s.logger.Error("failed to complete cases",
			zap.Int("user_id", userID),
			zap.Error(err))
		return nil, err
	}

	message := "No completable tasks found"
	if count > 0 {
		message = fmt.Sprintf("Completed %d task(s) successfully", count)
		if s.completed != nil {
			s.completed.Add(float64(count))
		}
	}

	s.logger.Info("completed cases for user",
		zap.Int("user_id", userID),
		zap.Int("count", count))

	return &CompletionResult{
		Success:        count > 0,
		Message:        message,
		CompletedCount: count,
		UserID:         userID,
	}, nil
}
