package httptransport

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/monitoring"
	"casemanager/backend/internal/service"
	"casemanager/backend/internal/storage"
)

// CaseHandler 处理案件相关的 HTTP 请求
type CaseHandler struct {
	cases      *service.CaseService
	completion *service.CompletionService
	metrics    *monitoring.Metrics
	log        *zap.Logger
}

// NewCaseHandler 创建案件处理器
func NewCaseHandler(cases *service.CaseService, completion *service.CompletionService, metrics *monitoring.Metrics, log *zap.Logger) *CaseHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CaseHandler{cases: cases, completion: completion, metrics: metrics, log: log}
}

// List 列出全部案件（含被指派用户信息）
//
// @Summary 案件列表
// @Tags 案件
// @Produce json
// @Success 200 {object} Response "案件列表"
// @Router /api/cases [get]
func (h *CaseHandler) List(c *gin.Context) {
	cases, err := h.cases.List()
	if err != nil {
		h.log.Error("failed to list cases", zap.Error(err))
		InternalError(c, MsgCaseListFailed)
		return
	}
	Success(c, cases)
}

// Get 获取案件详情
//
// @Summary 案件详情
// @Tags 案件
// @Produce json
// @Param id path int true "案件ID"
// @Success 200 {object} Response "案件详情"
// @Failure 404 {object} Response "案件不存在"
// @Router /api/cases/{id} [get]
func (h *CaseHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.cases.GetDetail(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFound(c, MsgCaseNotFound)
			return
		}
		h.log.Error("failed to get case", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}
	Success(c, detail)
}

// Create 创建案件
//
// @Summary 创建案件
// @Tags 案件
// @Accept json
// @Produce json
// @Param request body domain.Case true "案件信息"
// @Success 201 {object} Response "创建成功"
// @Router /api/cases [post]
func (h *CaseHandler) Create(c *gin.Context) {
	var req domain.Case
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	created, err := h.cases.Create(service.CreateCaseInput{
		CaseName:       req.CaseName,
		IsComplete:     req.IsComplete,
		CanComplete:    req.CanComplete,
		AssignedUserID: req.AssignedUserID,
	})
	if err != nil {
		h.log.Error("failed to create case", zap.Error(err))
		InternalError(c, MsgCaseCreateFailed)
		return
	}
	if h.metrics != nil {
		h.metrics.CasesCreated.Inc()
	}
	Created(c, created)
}

// Update 更新案件
//
// @Summary 更新案件
// @Tags 案件
// @Accept json
// @Produce json
// @Param id path int true "案件ID"
// @Param request body domain.Case true "案件信息"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} Response "ID 不匹配"
// @Failure 404 {object} Response "案件不存在"
// @Router /api/cases/{id} [put]
func (h *CaseHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.Case
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if req.CaseID != id {
		BadRequest(c, MsgIDMismatch)
		return
	}

	if err := h.cases.Update(&req); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFound(c, MsgCaseNotFound)
			return
		}
		h.log.Error("failed to update case", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgCaseUpdateFailed)
		return
	}
	Success(c, req)
}

// Delete 删除案件
//
// @Summary 删除案件
// @Tags 案件
// @Param id path int true "案件ID"
// @Success 204 {object} Response "删除成功"
// @Failure 404 {object} Response "案件不存在"
// @Router /api/cases/{id} [delete]
func (h *CaseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	deleted, err := h.cases.Delete(id)
	if err != nil {
		h.log.Error("failed to delete case", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgCaseDeleteFailed)
		return
	}
	if !deleted {
		NotFound(c, MsgCaseNotFound)
		return
	}
	NoContent(c)
}

// userIDRequest 完成操作的请求体
type userIDRequest struct {
	UserID int `json:"userId"`
}

// requestUserID 从请求体取用户 ID
func requestUserID(c *gin.Context) (int, bool) {
	var req userIDRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID <= 0 {
		BadRequest(c, MsgInvalidRequest)
		return 0, false
	}
	return req.UserID, true
}

// ListCompletable 列出某用户可完成的案件
//
// @Summary 可完成案件
// @Tags 案件
// @Accept json
// @Produce json
// @Param request body userIDRequest true "用户ID"
// @Success 200 {object} Response "可完成案件"
// @Router /api/mcp/list-completable-cases [post]
func (h *CaseHandler) ListCompletable(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	result, err := h.completion.ListCompletable(userID)
	if err != nil {
		InternalError(c, MsgCompletableFailed)
		return
	}
	Success(c, result)
}

// CompleteTasks 完成某用户全部可完成案件
//
// @Summary 批量完成案件
// @Tags 案件
// @Accept json
// @Produce json
// @Param request body userIDRequest true "用户ID"
// @Success 200 {object} Response "完成结果"
// @Router /api/mcp/complete-tasks [post]
func (h *CaseHandler) CompleteTasks(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	result, err := h.completion.CompleteAll(userID)
	if err != nil {
		InternalError(c, MsgCompleteTaskFailed)
		return
	}
	Success(c, result)
}
