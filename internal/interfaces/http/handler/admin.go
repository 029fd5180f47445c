package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/livecommerce/backend/internal/application/identity"
)

// AdminHandler manages back-office accounts
type AdminHandler struct {
	BaseHandler
	adminService *appidentity.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *appidentity.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// List godoc
// @Summary      List admins
// @Tags         admins
// @Produce      json
// @Param        search query string false "Name or email"
// @Param        role query string false "Role" Enums(superadmin, manager, operator)
// @Param        status query string false "Status" Enums(active, inactive)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appidentity.AdminResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	var filter appidentity.AdminListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	admins, total, err := h.adminService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, admins, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get admin
// @Tags         admins
// @Produce      json
// @Param        id path string true "Admin ID" format(uuid)
// @Success      200 {object} dto.Response{data=appidentity.AdminResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/admins/{id} [get]
func (h *AdminHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "admin")
	if !ok {
		return
	}

	admin, err := h.adminService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, admin)
}

// Create godoc
// @Summary      Create admin
// @Tags         admins
// @Accept       json
// @Produce      json
// @Param        request body appidentity.CreateAdminRequest true "Admin"
// @Success      201 {object} dto.Response{data=appidentity.AdminResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/admins [post]
func (h *AdminHandler) Create(c *gin.Context) {
	var req appidentity.CreateAdminRequest
	if !h.BindJSON(c, &req) {
		return
	}

	admin, err := h.adminService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, admin)
}

// Update godoc
// @Summary      Update admin
// @Description  Change name, role or status. Role and status changes revoke the admin's sessions.
// @Tags         admins
// @Accept       json
// @Produce      json
// @Param        id path string true "Admin ID" format(uuid)
// @Param        request body appidentity.UpdateAdminRequest true "Changes"
// @Success      200 {object} dto.Response{data=appidentity.AdminResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/admins/{id} [put]
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "admin")
	if !ok {
		return
	}
	var req appidentity.UpdateAdminRequest
	if !h.BindJSON(c, &req) {
		return
	}

	admin, err := h.adminService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, admin)
}

// ResetPassword godoc
// @Summary      Reset admin password
// @Tags         admins
// @Accept       json
// @Param        id path string true "Admin ID" format(uuid)
// @Param        request body appidentity.ResetPasswordRequest true "New password"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/admins/{id}/password [put]
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "admin")
	if !ok {
		return
	}
	var req appidentity.ResetPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.adminService.ResetPassword(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @Summary      Delete admin
// @Description  Admins cannot delete their own account
// @Tags         admins
// @Param        id path string true "Admin ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/admins/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "admin")
	if !ok {
		return
	}
	actorID, ok := h.ActorID(c)
	if !ok {
		return
	}

	if err := h.adminService.Delete(c.Request.Context(), actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
