package handler

import (
	"github.com/gin-gonic/gin"
	applive "github.com/livecommerce/backend/internal/application/live"
)

// LiveVoucherHandler manages vouchers scoped to a live stream
type LiveVoucherHandler struct {
	BaseHandler
	voucherService *applive.VoucherService
}

// NewLiveVoucherHandler creates a new LiveVoucherHandler
func NewLiveVoucherHandler(voucherService *applive.VoucherService) *LiveVoucherHandler {
	return &LiveVoucherHandler{voucherService: voucherService}
}

// List godoc
// @Summary      List vouchers
// @Tags         live-vouchers
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]applive.VoucherResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams/{id}/vouchers [get]
func (h *LiveVoucherHandler) List(c *gin.Context) {
	streamID, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}

	vouchers, err := h.voucherService.List(c.Request.Context(), streamID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vouchers)
}

// Create godoc
// @Summary      Create voucher
// @Description  Codes are upper-cased and unique per stream
// @Tags         live-vouchers
// @Accept       json
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Param        request body applive.VoucherRequest true "Voucher"
// @Success      201 {object} dto.Response{data=applive.VoucherResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams/{id}/vouchers [post]
func (h *LiveVoucherHandler) Create(c *gin.Context) {
	streamID, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}
	var req applive.VoucherRequest
	if !h.BindJSON(c, &req) {
		return
	}

	voucher, err := h.voucherService.Create(c.Request.Context(), streamID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, voucher)
}

// Update godoc
// @Summary      Update voucher terms
// @Tags         live-vouchers
// @Accept       json
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Param        voucherId path string true "Voucher ID" format(uuid)
// @Param        request body applive.VoucherRequest true "Voucher"
// @Success      200 {object} dto.Response{data=applive.VoucherResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams/{id}/vouchers/{voucherId} [put]
func (h *LiveVoucherHandler) Update(c *gin.Context) {
	streamID, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}
	voucherID, ok := h.ParseID(c, "voucherId", "voucher")
	if !ok {
		return
	}
	var req applive.VoucherRequest
	if !h.BindJSON(c, &req) {
		return
	}

	voucher, err := h.voucherService.Update(c.Request.Context(), streamID, voucherID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, voucher)
}

// Deactivate godoc
// @Summary      Deactivate voucher
// @Tags         live-vouchers
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Param        voucherId path string true "Voucher ID" format(uuid)
// @Success      200 {object} dto.Response{data=applive.VoucherResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/live-streams/{id}/vouchers/{voucherId}/deactivate [post]
func (h *LiveVoucherHandler) Deactivate(c *gin.Context) {
	streamID, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}
	voucherID, ok := h.ParseID(c, "voucherId", "voucher")
	if !ok {
		return
	}

	voucher, err := h.voucherService.Deactivate(c.Request.Context(), streamID, voucherID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, voucher)
}

// Check godoc
// @Summary      Preview voucher
// @Description  Compute the discount a voucher would grant on an amount
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        id path string true "Stream ID" format(uuid)
// @Param        request body applive.VoucherCheckRequest true "Code and amount"
// @Success      200 {object} dto.Response{data=applive.VoucherCheckResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /live-streams/{id}/vouchers/check [post]
func (h *LiveVoucherHandler) Check(c *gin.Context) {
	streamID, ok := h.ParseID(c, "id", "live stream")
	if !ok {
		return
	}
	var req applive.VoucherCheckRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.voucherService.Check(c.Request.Context(), streamID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
