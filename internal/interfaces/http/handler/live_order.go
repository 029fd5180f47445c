package handler

import (
	"github.com/gin-gonic/gin"
	applive "github.com/livecommerce/backend/internal/application/live"
	apptrade "github.com/livecommerce/backend/internal/application/trade"
)

// LiveOrderHandler handles orders placed during a live session
type LiveOrderHandler struct {
	BaseHandler
	liveOrderService *applive.LiveOrderService
}

// NewLiveOrderHandler creates a new LiveOrderHandler
func NewLiveOrderHandler(liveOrderService *applive.LiveOrderService) *LiveOrderHandler {
	return &LiveOrderHandler{liveOrderService: liveOrderService}
}

// List godoc
// @Summary      List live orders
// @Tags         live-orders
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Param        status query string false "Status" Enums(pending, confirmed, paid, shipped, delivered, cancelled)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]apptrade.OrderResponse,meta=dto.Meta}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams/{id}/orders [get]
func (h *LiveOrderHandler) List(c *gin.Context) {
	streamID, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}
	var filter apptrade.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	orders, total, err := h.liveOrderService.ListOrders(c.Request.Context(), streamID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Confirm godoc
// @Summary      Confirm live order
// @Description  Confirm a pending live order, optionally redeeming a stream voucher
// @Tags         live-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Param        orderId path string true "Order ID" format(uuid)
// @Param        request body applive.ConfirmLiveOrderRequest false "Voucher"
// @Success      200 {object} dto.Response{data=apptrade.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams/{id}/orders/{orderId}/confirm [post]
func (h *LiveOrderHandler) Confirm(c *gin.Context) {
	streamID, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}
	orderID, ok := h.ParseID(c, "orderId", "order")
	if !ok {
		return
	}
	var req applive.ConfirmLiveOrderRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}

	order, err := h.liveOrderService.ConfirmOrder(c.Request.Context(), streamID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
