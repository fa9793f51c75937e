package httptransport

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"casemanager/backend/internal/domain"
	"casemanager/backend/internal/service"
	"casemanager/backend/internal/storage"
)

// UserHandler 处理用户相关的 HTTP 请求
type UserHandler struct {
	users *service.UserService
	log   *zap.Logger
}

// NewUserHandler 创建用户处理器
func NewUserHandler(users *service.UserService, log *zap.Logger) *UserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{users: users, log: log}
}

// pathID 解析路径中的数字 ID
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		BadRequest(c, MsgInvalidID)
		return 0, false
	}
	return id, true
}

// List 列出全部用户
//
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Success 200 {object} Response "用户列表"
// @Router /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List()
	if err != nil {
		h.log.Error("failed to list users", zap.Error(err))
		InternalError(c, MsgUserListFailed)
		return
	}
	Success(c, users)
}

// Get 获取单个用户
//
// @Summary 用户详情
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} Response "用户详情"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	user, err := h.users.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFound(c, MsgUserNotFound)
			return
		}
		h.log.Error("failed to get user", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}
	Success(c, user)
}

// Create 创建用户
//
// @Summary 创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body domain.User true "用户信息"
// @Success 201 {object} Response "创建成功"
// @Router /api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req domain.User
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	user, err := h.users.Create(service.CreateUserInput{
		UserName:  req.UserName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
	})
	if err != nil {
		h.log.Error("failed to create user", zap.Error(err))
		InternalError(c, MsgUserCreateFailed)
		return
	}
	Created(c, user)
}

// Update 更新用户
//
// 请求体中的 ID 必须与路径参数一致，不一致按客户端错误处理。
//
// @Summary 更新用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param id path int true "用户ID"
// @Param request body domain.User true "用户信息"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} Response "ID 不匹配"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.User
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if req.UserID != id {
		BadRequest(c, MsgIDMismatch)
		return
	}

	if err := h.users.Update(&req); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFound(c, MsgUserNotFound)
			return
		}
		h.log.Error("failed to update user", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgUserUpdateFailed)
		return
	}
	Success(c, req)
}

// Delete 删除用户
//
// @Summary 删除用户
// @Tags 用户
// @Param id path int true "用户ID"
// @Success 204 {object} Response "删除成功"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	deleted, err := h.users.Delete(id)
	if err != nil {
		h.log.Error("failed to delete user", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgUserDeleteFailed)
		return
	}
	if !deleted {
		NotFound(c, MsgUserNotFound)
		return
	}
	NoContent(c)
}
