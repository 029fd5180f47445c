package handler

import (
	"github.com/gin-gonic/gin"
	apptrade "github.com/livecommerce/backend/internal/application/trade"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *apptrade.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *apptrade.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// List godoc
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        status query string false "Status" Enums(pending, paid, failed, refunded)
// @Param        method query string false "Method" Enums(bank_transfer, cash, ewallet, card)
// @Param        order_id query string false "Order ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]apptrade.PaymentResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	var filter apptrade.PaymentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.Response{data=apptrade.PaymentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "payment")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Create godoc
// @Summary      Record payment
// @Description  Record a pending payment against a confirmed order
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body apptrade.CreatePaymentRequest true "Payment"
// @Success      201 {object} dto.Response{data=apptrade.PaymentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req apptrade.CreatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// MarkPaid godoc
// @Summary      Mark payment paid
// @Description  Settle a payment. The order moves to paid once settled payments cover its total.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body apptrade.MarkPaymentPaidRequest false "Provider reference"
// @Success      200 {object} dto.Response{data=apptrade.PaymentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payments/{id}/mark-paid [post]
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "payment")
	if !ok {
		return
	}
	var req apptrade.MarkPaymentPaidRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.MarkPaid(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// MarkFailed godoc
// @Summary      Mark payment failed
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body apptrade.MarkPaymentFailedRequest true "Failure reason"
// @Success      200 {object} dto.Response{data=apptrade.PaymentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payments/{id}/mark-failed [post]
func (h *PaymentHandler) MarkFailed(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "payment")
	if !ok {
		return
	}
	var req apptrade.MarkPaymentFailedRequest
	if !h.BindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.MarkFailed(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Refund godoc
// @Summary      Refund payment
// @Description  Refund a paid payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body apptrade.RefundPaymentRequest false "Note"
// @Success      200 {object} dto.Response{data=apptrade.PaymentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "payment")
	if !ok {
		return
	}
	var req apptrade.RefundPaymentRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Refund(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}
