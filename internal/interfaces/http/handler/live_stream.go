package handler

import (
	"github.com/gin-gonic/gin"
	applive "github.com/livecommerce/backend/internal/application/live"
	"github.com/livecommerce/backend/internal/interfaces/http/middleware"
)

// LiveStreamHandler handles live stream sessions for hosts and viewers
type LiveStreamHandler struct {
	BaseHandler
	streamService *applive.StreamService
}

// NewLiveStreamHandler creates a new LiveStreamHandler
func NewLiveStreamHandler(streamService *applive.StreamService) *LiveStreamHandler {
	return &LiveStreamHandler{streamService: streamService}
}

// List godoc
// @Summary      List live streams
// @Tags         live-streams
// @Produce      json
// @Param        search query string false "Title"
// @Param        status query string false "Status" Enums(scheduled, live, ended)
// @Param        host_id query string false "Host admin ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]applive.StreamResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/live-streams [get]
func (h *LiveStreamHandler) List(c *gin.Context) {
	var filter applive.StreamListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	streams, total, err := h.streamService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, streams, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get live stream
// @Description  Live streams report the current viewer count
// @Tags         live-streams
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Success      200 {object} dto.Response{data=applive.StreamResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams/{id} [get]
func (h *LiveStreamHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}

	stream, err := h.streamService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stream)
}

// Create godoc
// @Summary      Schedule live stream
// @Description  The signed-in admin becomes the host
// @Tags         live-streams
// @Accept       json
// @Produce      json
// @Param        request body applive.CreateStreamRequest true "Stream"
// @Success      201 {object} dto.Response{data=applive.StreamResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams [post]
func (h *LiveStreamHandler) Create(c *gin.Context) {
	hostID, ok := h.ActorID(c)
	if !ok {
		return
	}
	var req applive.CreateStreamRequest
	if !h.BindJSON(c, &req) {
		return
	}

	stream, err := h.streamService.Create(c.Request.Context(), hostID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, stream)
}

// Update godoc
// @Summary      Update live stream
// @Tags         live-streams
// @Accept       json
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Param        request body applive.UpdateStreamRequest true "Stream"
// @Success      200 {object} dto.Response{data=applive.StreamResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams/{id} [put]
func (h *LiveStreamHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}
	var req applive.UpdateStreamRequest
	if !h.BindJSON(c, &req) {
		return
	}

	stream, err := h.streamService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stream)
}

// Delete godoc
// @Summary      Delete live stream
// @Description  Only scheduled streams can be deleted
// @Tags         live-streams
// @Param        id path string true "Stream ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams/{id} [delete]
func (h *LiveStreamHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}

	if err := h.streamService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Start godoc
// @Summary      Go live
// @Description  Move a scheduled stream to live and issue the host publish token
// @Tags         live-streams
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Success      200 {object} dto.Response{data=applive.StartStreamResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams/{id}/start [post]
func (h *LiveStreamHandler) Start(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}

	result, err := h.streamService.Start(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// End godoc
// @Summary      End live stream
// @Description  Move a live stream to ended and persist the final viewer count and peak
// @Tags         live-streams
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Success      200 {object} dto.Response{data=applive.StreamResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams/{id}/end [post]
func (h *LiveStreamHandler) End(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}

	stream, err := h.streamService.End(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stream)
}

// Pin godoc
// @Summary      Pin product
// @Description  Pin an active product on the stream; a null product_id clears the pin
// @Tags         live-streams
// @Accept       json
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Param        request body applive.PinProductRequest true "Product"
// @Success      200 {object} dto.Response{data=applive.StreamResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams/{id}/pin [put]
func (h *LiveStreamHandler) Pin(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}
	var req applive.PinProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	stream, err := h.streamService.Pin(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stream)
}

// ListPublic godoc
// @Summary      Browse live streams
// @Description  Streams that are live or scheduled, live first
// @Tags         storefront
// @Produce      json
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]applive.StreamResponse,meta=dto.Meta}
// @Router       /live-streams [get]
func (h *LiveStreamHandler) ListPublic(c *gin.Context) {
	var params applive.PageParams
	if !h.BindQuery(c, &params) {
		return
	}

	streams, total, err := h.streamService.ListPublic(c.Request.Context(), params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, streams, total, params.Page, params.PageSize)
}

// GetPublic godoc
// @Summary      Get a live stream
// @Tags         storefront
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Success      200 {object} dto.Response{data=applive.StreamResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /live-streams/{id} [get]
func (h *LiveStreamHandler) GetPublic(c *gin.Context) {
	h.GetByID(c)
}

// Join godoc
// @Summary      Join live stream
// @Description  Count the viewer in and issue a play token. Anonymous viewers join as guests.
// @Tags         storefront
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Success      200 {object} dto.Response{data=applive.JoinResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /live-streams/{id}/join [post]
func (h *LiveStreamHandler) Join(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}

	result, err := h.streamService.Join(c.Request.Context(), id, middleware.GetJWTUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Leave godoc
// @Summary      Leave live stream
// @Tags         storefront
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Success      200 {object} dto.Response{data=applive.LeaveResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /live-streams/{id}/leave [post]
func (h *LiveStreamHandler) Leave(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}

	result, err := h.streamService.Leave(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
