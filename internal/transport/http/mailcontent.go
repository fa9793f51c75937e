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

// MailContentHandler 处理来件内容相关的 HTTP 请求
type MailContentHandler struct {
	contents  *service.MailContentService
	responder *service.ResponderService
	metrics   *monitoring.Metrics
	log       *zap.Logger
}

// NewMailContentHandler 创建来件内容处理器
func NewMailContentHandler(
	contents *service.MailContentService,
	responder *service.ResponderService,
	metrics *monitoring.Metrics,
	log *zap.Logger,
) *MailContentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MailContentHandler{contents: contents, responder: responder, metrics: metrics, log: log}
}

// List 列出全部来件内容
//
// @Summary 来件列表
// @Tags 来件
// @Produce json
// @Success 200 {object} Response "来件列表"
// @Router /api/mailcontents [get]
func (h *MailContentHandler) List(c *gin.Context) {
	contents, err := h.contents.List()
	if err != nil {
		h.log.Error("failed to list mail contents", zap.Error(err))
		InternalError(c, MsgMailContentListFailed)
		return
	}
	Success(c, contents)
}

// Get 获取来件详情
//
// @Summary 来件详情
// @Tags 来件
// @Produce json
// @Param id path int true "来件ID"
// @Success 200 {object} Response "来件详情"
// @Failure 404 {object} Response "来件不存在"
// @Router /api/mailcontents/{id} [get]
func (h *MailContentHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	content, err := h.contents.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFound(c, MsgMailContentNotFound)
			return
		}
		h.log.Error("failed to get mail content", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}
	Success(c, content)
}

// Create 创建来件记录
//
// @Summary 创建来件
// @Tags 来件
// @Accept json
// @Produce json
// @Param request body domain.MailContent true "来件信息"
// @Success 201 {object} Response "创建成功"
// @Router /api/mailcontents [post]
func (h *MailContentHandler) Create(c *gin.Context) {
	var req domain.MailContent
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	created, err := h.contents.Create(service.CreateMailContentInput{
		Subject:   req.Subject,
		Content:   req.Content,
		FromEmail: req.FromEmail,
		ToEmail:   req.ToEmail,
	})
	if err != nil {
		h.log.Error("failed to create mail content", zap.Error(err))
		InternalError(c, MsgMailContentCreateFailed)
		return
	}
	Created(c, created)
}

// Update 更新来件记录
//
// @Summary 更新来件
// @Tags 来件
// @Accept json
// @Produce json
// @Param id path int true "来件ID"
// @Param request body domain.MailContent true "来件信息"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} Response "ID 不匹配"
// @Failure 404 {object} Response "来件不存在"
// @Router /api/mailcontents/{id} [put]
func (h *MailContentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.MailContent
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if req.ContentID != id {
		BadRequest(c, MsgIDMismatch)
		return
	}

	if err := h.contents.Update(&req); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFound(c, MsgMailContentNotFound)
			return
		}
		h.log.Error("failed to update mail content", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgMailContentUpdateFailed)
		return
	}
	Success(c, req)
}

// Delete 删除来件记录
//
// @Summary 删除来件
// @Tags 来件
// @Param id path int true "来件ID"
// @Success 204 {object} Response "删除成功"
// @Failure 404 {object} Response "来件不存在"
// @Router /api/mailcontents/{id} [delete]
func (h *MailContentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	deleted, err := h.contents.Delete(id)
	if err != nil {
		h.log.Error("failed to delete mail content", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgMailContentDeleteFailed)
		return
	}
	if !deleted {
		NotFound(c, MsgMailContentNotFound)
		return
	}
	NoContent(c)
}

// GenerateResponse 为来件生成 AI 回复
//
// @Summary 生成来件回复
// @Tags 来件
// @Produce json
// @Param id path int true "来件ID"
// @Success 201 {object} Response "生成成功"
// @Failure 404 {object} Response "来件不存在"
// @Router /api/mailcontents/{id}/generate-response [post]
func (h *MailContentHandler) GenerateResponse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	sent, err := h.responder.GenerateResponse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFound(c, MsgMailContentNotFound)
			return
		}
		h.log.Error("failed to generate mail response", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgGenerateResponseFailed)
		return
	}
	if h.metrics != nil {
		h.metrics.MailResponsesCreated.Inc()
	}
	Created(c, sent)
}

// MailContentSentHandler 处理回复记录相关的 HTTP 请求
type MailContentSentHandler struct {
	sents *service.MailContentSentService
	log   *zap.Logger
}

// NewMailContentSentHandler 创建回复记录处理器
func NewMailContentSentHandler(sents *service.MailContentSentService, log *zap.Logger) *MailContentSentHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MailContentSentHandler{sents: sents, log: log}
}

// List 列出全部回复记录
//
// @Summary 回复记录列表
// @Tags 回复记录
// @Produce json
// @Success 200 {object} Response "回复记录列表"
// @Router /api/mailcontentsents [get]
func (h *MailContentSentHandler) List(c *gin.Context) {
	sents, err := h.sents.List()
	if err != nil {
		h.log.Error("failed to list mail content sents", zap.Error(err))
		InternalError(c, MsgMailSentListFailed)
		return
	}
	Success(c, sents)
}

// Get 获取回复记录详情
//
// @Summary 回复记录详情
// @Tags 回复记录
// @Produce json
// @Param id path int true "回复记录ID"
// @Success 200 {object} Response "回复记录详情"
// @Failure 404 {object} Response "回复记录不存在"
// @Router /api/mailcontentsents/{id} [get]
func (h *MailContentSentHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	sent, err := h.sents.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFound(c, MsgMailSentNotFound)
			return
		}
		h.log.Error("failed to get mail content sent", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}
	Success(c, sent)
}

// Create 创建回复记录
//
// @Summary 创建回复记录
// @Tags 回复记录
// @Accept json
// @Produce json
// @Param request body domain.MailContentSent true "回复记录信息"
// @Success 201 {object} Response "创建成功"
// @Router /api/mailcontentsents [post]
func (h *MailContentSentHandler) Create(c *gin.Context) {
	var req domain.MailContentSent
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	created, err := h.sents.Create(service.CreateMailContentSentInput{
		ContentID:       req.ContentID,
		ResponseContent: req.ResponseContent,
	})
	if err != nil {
		h.log.Error("failed to create mail content sent", zap.Error(err))
		InternalError(c, MsgMailSentCreateFailed)
		return
	}
	Created(c, created)
}

// Update 更新回复记录
//
// @Summary 更新回复记录
// @Tags 回复记录
// @Accept json
// @Produce json
// @Param id path int true "回复记录ID"
// @Param request body domain.MailContentSent true "回复记录信息"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} Response "ID 不匹配"
// @Failure 404 {object} Response "回复记录不存在"
// @Router /api/mailcontentsents/{id} [put]
func (h *MailContentSentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.MailContentSent
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}
	if req.MailContentSentID != id {
		BadRequest(c, MsgIDMismatch)
		return
	}

	if err := h.sents.Update(&req); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFound(c, MsgMailSentNotFound)
			return
		}
		h.log.Error("failed to update mail content sent", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgMailSentUpdateFailed)
		return
	}
	Success(c, req)
}

// Delete 删除回复记录
//
// @Summary 删除回复记录
// @Tags 回复记录
// @Param id path int true "回复记录ID"
// @Success 204 {object} Response "删除成功"
// @Failure 404 {object} Response "回复记录不存在"
// @Router /api/mailcontentsents/{id} [delete]
func (h *MailContentSentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	deleted, err := h.sents.Delete(id)
	if err != nil {
		h.log.Error("failed to delete mail content sent", zap.Int("id", id), zap.Error(err))
		InternalError(c, MsgMailSentDeleteFailed)
		return
	}
	if !deleted {
		NotFound(c, MsgMailSentNotFound)
		return
	}
	NoContent(c)
}
