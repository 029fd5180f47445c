package handler

import (
	"github.com/gin-gonic/gin"
	apptrade "github.com/livecommerce/backend/internal/application/trade"
)

// ShipmentHandler handles shipment endpoints
type ShipmentHandler struct {
	BaseHandler
	shipmentService *apptrade.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler
func NewShipmentHandler(shipmentService *apptrade.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{shipmentService: shipmentService}
}

// List godoc
// @Summary      List shipments
// @Tags         shipments
// @Produce      json
// @Param        status query string false "Status" Enums(pending, shipped, delivered)
// @Param        order_id query string false "Order ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]apptrade.ShipmentResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /admin/shipments [get]
func (h *ShipmentHandler) List(c *gin.Context) {
	var filter apptrade.ShipmentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	shipments, total, err := h.shipmentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, shipments, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get shipment
// @Tags         shipments
// @Produce      json
// @Param        id path string true "Shipment ID" format(uuid)
// @Success      200 {object} dto.Response{data=apptrade.ShipmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/shipments/{id} [get]
func (h *ShipmentHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "shipment")
	if !ok {
		return
	}

	shipment, err := h.shipmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

// Create godoc
// @Summary      Create shipment
// @Description  Create a pending shipment for a paid order
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        request body apptrade.CreateShipmentRequest true "Shipment"
// @Success      201 {object} dto.Response{data=apptrade.ShipmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/shipments [post]
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req apptrade.CreateShipmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	shipment, err := h.shipmentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, shipment)
}

// Ship godoc
// @Summary      Ship
// @Description  Hand the parcel to the courier; the order moves to shipped
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id path string true "Shipment ID" format(uuid)
// @Param        request body apptrade.ShipShipmentRequest true "Tracking number"
// @Success      200 {object} dto.Response{data=apptrade.ShipmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/shipments/{id}/ship [post]
func (h *ShipmentHandler) Ship(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "shipment")
	if !ok {
		return
	}
	var req apptrade.ShipShipmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	shipment, err := h.shipmentService.Ship(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

// Deliver godoc
// @Summary      Deliver
// @Description  Record delivery; the order moves to delivered
// @Tags         shipments
// @Produce      json
// @Param        id path string true "Shipment ID" format(uuid)
// @Success      200 {object} dto.Response{data=apptrade.ShipmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/shipments/{id}/deliver [post]
func (h *ShipmentHandler) Deliver(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "shipment")
	if !ok {
		return
	}

	shipment, err := h.shipmentService.Deliver(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}
