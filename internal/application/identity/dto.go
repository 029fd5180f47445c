package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/auth"
)

// LoginRequest is the admin sign-in request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=1,max=72"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// OTPRequest asks for a one-time password over WhatsApp
type OTPRequest struct {
	Phone string `json:"phone" binding:"required,min=8,max=20"`
}

// OTPVerifyRequest exchanges a one-time password for a user session
type OTPVerifyRequest struct {
	Phone string `json:"phone" binding:"required,min=8,max=20"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
	Name  string `json:"name" binding:"max=100"`
}

// OTPRequestResponse tells the client when the code expires and when it may ask again
type OTPRequestResponse struct {
	Phone       string    `json:"phone"`
	ExpiresAt   time.Time `json:"expires_at"`
	ResendAfter int       `json:"resend_after_seconds"`
}

// PrincipalResponse describes the signed-in admin or user
type PrincipalResponse struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
}

// LoginResponse carries the issued tokens and the principal
type LoginResponse struct {
	Token     *auth.TokenPair   `json:"token"`
	Principal PrincipalResponse `json:"principal"`
}

// CreateAdminRequest creates a back-office account
type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=superadmin manager operator"`
}

// UpdateAdminRequest is a partial admin update
type UpdateAdminRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=100"`
	Role   *string `json:"role" binding:"omitempty,oneof=superadmin manager operator"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ResetPasswordRequest sets a new password for an admin
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// AdminListFilter represents filter options for the admin list
type AdminListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=superadmin manager operator"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active blocked"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AdminResponse represents an admin in API responses
type AdminResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Permissions []string   `json:"permissions"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP string     `json:"last_login_ip,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserResponse represents a storefront user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email,omitempty"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToAdminResponse converts a domain Admin to AdminResponse
func ToAdminResponse(a *identity.Admin) AdminResponse {
	return AdminResponse{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Role:        string(a.Role),
		Status:      string(a.Status),
		Permissions: a.Permissions(),
		LockedUntil: a.LockedUntil,
		LastLoginAt: a.LastLoginAt,
		LastLoginIP: a.LastLoginIP,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Phone:       u.Phone,
		Email:       u.Email,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func adminPrincipal(a *identity.Admin) PrincipalResponse {
	return PrincipalResponse{
		ID:          a.ID,
		Kind:        string(auth.PrincipalAdmin),
		Name:        a.Name,
		Email:       a.Email,
		Role:        string(a.Role),
		Permissions: a.Permissions(),
	}
}

func userPrincipal(u *identity.User) PrincipalResponse {
	return PrincipalResponse{
		ID:          u.ID,
		Kind:        string(auth.PrincipalUser),
		Name:        u.Name,
		Phone:       u.Phone,
		Role:        string(identity.RoleCustomer),
		Permissions: []string{},
	}
}

func newFilter(page, pageSize int, orderBy, orderDir, search string) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	f.Search = strings.TrimSpace(search)
	return f
}
