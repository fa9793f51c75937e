package httptransport

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jwtpkg "casemanager/backend/internal/auth/jwt"
	"casemanager/backend/internal/service"
	"casemanager/backend/internal/storage"
)

// AuthHandler 处理认证相关的 HTTP 请求
type AuthHandler struct {
	users      *service.UserService // 用户业务服务
	jwtManager *jwtpkg.Manager      // JWT 令牌管理器
	log        *zap.Logger          // 结构化日志记录器
}

// NewAuthHandler 创建新的认证处理器实例
func NewAuthHandler(users *service.UserService, jwtManager *jwtpkg.Manager, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		users:      users,
		jwtManager: jwtManager,
		log:        log,
	}
}

type loginRequest struct {
	UserName string `json:"userName"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	UserID    int    `json:"userId"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Login 处理登录请求
//
// 仅凭用户名换取令牌：用户表中存在该用户名即登录成功，没有
// 密码或其他凭据校验。
//
// @Summary 用户登录
// @Description 凭用户名换取访问令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} loginResponse "登录成功"
// @Failure 400 {object} Response "缺少用户名"
// @Failure 401 {object} Response "用户名不存在"
// @Router /api/authorization/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		BadRequest(c, MsgUsernameRequired)
		return
	}

	user, err := h.users.GetByUsername(userName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.log.Warn("login attempt with unknown username",
				zap.String("user_name", userName),
				zap.String("ip", c.ClientIP()))
			Unauthorized(c, MsgInvalidUsername)
			return
		}
		h.log.Error("failed to look up user for login", zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		h.log.Error("failed to issue token", zap.Int("user_id", user.UserID), zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}

	h.log.Info("user logged in",
		zap.Int("user_id", user.UserID),
		zap.String("user_name", user.UserName))

	Success(c, loginResponse{
		Token:     token.AccessToken,
		ExpiresIn: token.ExpiresIn,
		UserID:    user.UserID,
		UserName:  user.UserName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// Logout 处理登出请求
//
// 令牌失效完全由客户端删除令牌实现，服务端只做确认应答。
//
// @Summary 用户登出
// @Tags 认证
// @Produce json
// @Success 200 {object} Response "登出成功"
// @Router /api/authorization/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	SuccessWithMsg(c, "已登出", nil)
}
