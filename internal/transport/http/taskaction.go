package httptransport

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/service"
	"casemanager/backend/internal/storage"
)

// TaskActionHandler 处理任务动作相关的 HTTP 请求
type TaskActionHandler struct {
	actions *service.TaskActionService
	log     *zap.Logger
}

// NewTaskActionHandler 创建任务动作处理器
func NewTaskActionHandler(actions *service.TaskActionService, log *zap.Logger) *TaskActionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskActionHandler{actions: actions, log: log}
}

// List 列出全部任务动作（含案件名与用户名）
//
// @Summary 任务动作列表
// @Tags 任务动作
// @Produce json
// @Success 200 {object} Response "任务动作列表"
// @Router /api/taskactions [get]
func (h *TaskActionHandler) List(c *gin.Context) {
	actions, err := h.actions.List()
	if err != nil {
		h.log.Error("failed to list task actions", zap.Error(err))
		InternalError(c, MsgTaskActionListFailed)
		return
	}
	Success(c, actions)
}

// Get 获取任务动作详情
//
// @Summary 任务动作详情
// @Tags 任务动作
// @Produce json
// @Param id path int true "任务动作ID"
// @Success 200 {object} Response "任务动作详情"
// @Failure 404 {object} Response "任务动作不存在"
// @Router /api/taskactions/{id} [get]
func (h *TaskActionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	action, err := h.actions.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFound(c, MsgTaskActionNotFound)
			return
		}
		h.log.Error("failed to get task action", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}
	Success(c, action)
}

// Create 创建任务动作
//
// @Summary 创建任务动作
// @Tags 任务动作
// @Accept json
// @Produce json
// @Param request body domain.TaskAction true "任务动作信息"
// @Success 201 {object} Response "创建成功"
// @Router /api/taskactions [post]
func (h *TaskActionHandler) Create(c *gin.Context) {
	var req domain.TaskAction
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	created, err := h.actions.Create(service.CreateTaskActionInput{
		TaskActionName: req.TaskActionName,
		CaseID:         req.CaseID,
		UserID:         req.UserID,
	})
	if err != nil {
		h.log.Error("failed to create task action", zap.Error(err))
		InternalError(c, MsgTaskActionCreateFailed)
		return
	}
	Created(c, created)
}

// Update 更新任务动作
//
// @Summary 更新任务动作
// @Tags 任务动作
// @Accept json
// @Produce json
// @Param id path int true "任务动作ID"
// @Param request body domain.TaskAction true "任务动作信息"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} Response "ID 不匹配"
// @Failure 404 {object} Response "任务动作不存在"
// @Router /api/taskactions/{id} [put]
func (h *TaskActionHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.TaskAction
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if req.TaskActionID != id {
		BadRequest(c, MsgIDMismatch)
		return
	}

	if err := h.actions.Update(&req); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFound(c, MsgTaskActionNotFound)
			return
		}
		h.log.Error("failed to update task action", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgTaskActionUpdateFailed)
		return
	}
	Success(c, req)
}

// Delete 删除任务动作
//
// @Summary 删除任务动作
// @Tags 任务动作
// @Param id path int true "任务动作ID"
// @Success 204 {object} Response "删除成功"
// @Failure 404 {object} Response "任务动作不存在"
// @Router /api/taskactions/{id} [delete]
func (h *TaskActionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	deleted, err := h.actions.Delete(id)
	if err != nil {
		h.log.Error("failed to delete task action", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgTaskActionDeleteFailed)
		return
	}
	if !deleted {
		NotFound(c, MsgTaskActionNotFound)
		return
	}
	NoContent(c)
}
