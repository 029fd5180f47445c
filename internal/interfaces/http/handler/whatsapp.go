package handler

import (
	"github.com/gin-gonic/gin"
	appmessaging "github.com/livecommerce/backend/internal/application/messaging"
)

// WhatsAppHandler handles provider webhooks and the back-office inbox
type WhatsAppHandler struct {
	BaseHandler
	messageService   *appmessaging.MessageService
	autoReplyService *appmessaging.AutoReplyService
}

// NewWhatsAppHandler creates a new WhatsAppHandler
func NewWhatsAppHandler(messageService *appmessaging.MessageService, autoReplyService *appmessaging.AutoReplyService) *WhatsAppHandler {
	return &WhatsAppHandler{
		messageService:   messageService,
		autoReplyService: autoReplyService,
	}
}

// conversationQuery pages through one phone's messages
type conversationQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Inbound godoc
// @Summary      Inbound message webhook
// @Description  Store an inbound WhatsApp message and answer it with the matching auto-reply. Redelivered provider ids are acknowledged without a second reply.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Token header string true "Shared secret"
// @Param        request body appmessaging.InboundWebhookRequest true "Message"
// @Success      200 {object} dto.Response{data=appmessaging.InboundResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /webhooks/whatsapp [post]
func (h *WhatsAppHandler) Inbound(c *gin.Context) {
	var req appmessaging.InboundWebhookRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.messageService.HandleInbound(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Status godoc
// @Summary      Delivery status webhook
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Token header string true "Shared secret"
// @Param        request body appmessaging.StatusCallbackRequest true "Status"
// @Success      200 {object} dto.Response{data=appmessaging.MessageResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /webhooks/whatsapp/status [post]
func (h *WhatsAppHandler) Status(c *gin.Context) {
	var req appmessaging.StatusCallbackRequest
	if !h.BindJSON(c, &req) {
		return
	}

	message, err := h.messageService.HandleStatus(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, message)
}

// ListMessages godoc
// @Summary      List messages
// @Tags         whatsapp
// @Produce      json
// @Param        search query string false "Message text"
// @Param        phone query string false "Phone"
// @Param        direction query string false "Direction" Enums(inbound, outbound)
// @Param        status query string false "Status" Enums(received, queued, sent, delivered, read, failed)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appmessaging.MessageResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/whatsapp/messages [get]
func (h *WhatsAppHandler) ListMessages(c *gin.Context) {
	var filter appmessaging.MessageListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	messages, total, err := h.messageService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, messages, total, filter.Page, filter.PageSize)
}

// Conversation godoc
// @Summary      Conversation with a phone
// @Description  Both directions, newest first
// @Tags         whatsapp
// @Produce      json
// @Param        phone path string true "Phone"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appmessaging.MessageResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/whatsapp/conversations/{phone} [get]
func (h *WhatsAppHandler) Conversation(c *gin.Context) {
	var q conversationQuery
	if !h.BindQuery(c, &q) {
		return
	}

	messages, total, err := h.messageService.Conversation(c.Request.Context(), c.Param("phone"), q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, messages, total, q.Page, q.PageSize)
}

// Send godoc
// @Summary      Send message
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Param        request body appmessaging.SendMessageRequest true "Message"
// @Success      201 {object} dto.Response{data=appmessaging.MessageResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/whatsapp/messages [post]
func (h *WhatsAppHandler) Send(c *gin.Context) {
	var req appmessaging.SendMessageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, message)
}

// ListAutoReplies godoc
// @Summary      List auto-reply rules
// @Tags         whatsapp
// @Produce      json
// @Param        search query string false "Name"
// @Param        active query bool false "Active"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appmessaging.AutoReplyResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/whatsapp/auto-replies [get]
func (h *WhatsAppHandler) ListAutoReplies(c *gin.Context) {
	var filter appmessaging.AutoReplyListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	rules, total, err := h.autoReplyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, rules, total, filter.Page, filter.PageSize)
}

// GetAutoReply godoc
// @Summary      Get auto-reply rule
// @Tags         whatsapp
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} dto.Response{data=appmessaging.AutoReplyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/whatsapp/auto-replies/{id} [get]
func (h *WhatsAppHandler) GetAutoReply(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "auto-reply")
	if !ok {
		return
	}

	rule, err := h.autoReplyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// CreateAutoReply godoc
// @Summary      Create auto-reply rule
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Param        request body appmessaging.AutoReplyRequest true "Rule"
// @Success      201 {object} dto.Response{data=appmessaging.AutoReplyResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/whatsapp/auto-replies [post]
func (h *WhatsAppHandler) CreateAutoReply(c *gin.Context) {
	var req appmessaging.AutoReplyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rule, err := h.autoReplyService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rule)
}

// UpdateAutoReply godoc
// @Summary      Update auto-reply rule
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Param        request body appmessaging.AutoReplyRequest true "Rule"
// @Success      200 {object} dto.Response{data=appmessaging.AutoReplyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/whatsapp/auto-replies/{id} [put]
func (h *WhatsAppHandler) UpdateAutoReply(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "auto-reply")
	if !ok {
		return
	}
	var req appmessaging.AutoReplyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rule, err := h.autoReplyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// DeleteAutoReply godoc
// @Summary      Delete auto-reply rule
// @Tags         whatsapp
// @Param        id path string true "Rule ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/whatsapp/auto-replies/{id} [delete]
func (h *WhatsAppHandler) DeleteAutoReply(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "auto-reply")
	if !ok {
		return
	}

	if err := h.autoReplyService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// TestAutoReply godoc
// @Summary      Preview auto-reply
// @Description  Show which active rule would answer a message
// @Tags         whatsapp
// @Accept       json
// @Produce      json
// @Param        request body appmessaging.AutoReplyTestRequest true "Message"
// @Success      200 {object} dto.Response{data=appmessaging.AutoReplyTestResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/whatsapp/auto-replies/test [post]
func (h *WhatsAppHandler) TestAutoReply(c *gin.Context) {
	var req appmessaging.AutoReplyTestRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.autoReplyService.Test(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
