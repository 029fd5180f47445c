package handler

import (
	"github.com/gin-gonic/gin"
	applive "github.com/livecommerce/backend/internal/application/live"
)

// LiveCommentHandler handles live chat
type LiveCommentHandler struct {
	BaseHandler
	commentService *applive.CommentService
}

// NewLiveCommentHandler creates a new LiveCommentHandler
func NewLiveCommentHandler(commentService *applive.CommentService) *LiveCommentHandler {
	return &LiveCommentHandler{commentService: commentService}
}

// Post godoc
// @Summary      Post comment
// @Description  Post a chat message. Messages like "order #SKU x2" place a pending order for the pinned or named product.
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Param        request body applive.PostCommentRequest true "Message"
// @Success      201 {object} dto.Response{data=applive.CommentResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /live-streams/{id}/comments [post]
func (h *LiveCommentHandler) Post(c *gin.Context) {
	streamID, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}
	userID, ok := h.ActorID(c)
	if !ok {
		return
	}
	var req applive.PostCommentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Post(c.Request.Context(), streamID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, comment)
}

// List godoc
// @Summary      List comments
// @Description  Chat history, newest first
// @Tags         storefront
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Param        search query string false "Message text"
// @Param        orders_only query bool false "Only comments that placed an order"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]applive.CommentResponse,meta=dto.Meta}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /live-streams/{id}/comments [get]
func (h *LiveCommentHandler) List(c *gin.Context) {
	streamID, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}
	var filter applive.CommentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	comments, total, err := h.commentService.List(c.Request.Context(), streamID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, comments, total, filter.Page, filter.PageSize)
}
