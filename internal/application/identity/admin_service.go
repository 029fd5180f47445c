package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AdminService manages back-office accounts
type AdminService struct {
	adminRepo identity.AdminRepository
	blacklist auth.TokenBlacklist
	revokeTTL time.Duration
	logger    *zap.Logger
}

// NewAdminService creates a new AdminService. revokeTTL should cover the
// refresh token lifetime so revoked sessions cannot be refreshed.
func NewAdminService(adminRepo identity.AdminRepository, blacklist auth.TokenBlacklist, revokeTTL time.Duration, logger *zap.Logger) *AdminService {
	return &AdminService{
		adminRepo: adminRepo,
		blacklist: blacklist,
		revokeTTL: revokeTTL,
		logger:    logger,
	}
}

// List lists admins
func (s *AdminService) List(ctx context.Context, filter AdminListFilter) ([]AdminResponse, int64, error) {
	f := newFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Role != "" {
		f.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}

	admins, err := s.adminRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.adminRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AdminResponse, len(admins))
	for i := range admins {
		out[i] = ToAdminResponse(&admins[i])
	}
	return out, total, nil
}

// GetByID retrieves an admin
func (s *AdminService) GetByID(ctx context.Context, id uuid.UUID) (*AdminResponse, error) {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAdminResponse(admin)
	return &resp, nil
}

// Create creates an admin
func (s *AdminService) Create(ctx context.Context, req CreateAdminRequest) (*AdminResponse, error) {
	admin, err := identity.NewAdmin(req.Name, req.Email, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	exists, err := s.adminRepo.ExistsByEmail(ctx, admin.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An admin with this email already exists")
	}
	if err := s.adminRepo.Save(ctx, admin); err != nil {
		return nil, err
	}
	s.logger.Info("admin created", zap.String("admin_id", admin.ID.String()), zap.String("role", req.Role))

	resp := ToAdminResponse(admin)
	return &resp, nil
}

// Update changes the name, role or status of an admin. Role and status
// changes end the admin's current sessions.
func (s *AdminService) Update(ctx context.Context, id uuid.UUID, req UpdateAdminRequest) (*AdminResponse, error) {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	revoke := false
	name, role := admin.Name, admin.Role
	if req.Name != nil {
		name = *req.Name
	}
	if req.Role != nil && identity.Role(*req.Role) != admin.Role {
		role = identity.Role(*req.Role)
		revoke = true
	}
	if err := admin.UpdateProfile(name, role); err != nil {
		return nil, err
	}
	if req.Status != nil && identity.AdminStatus(*req.Status) != admin.Status {
		if err := admin.SetStatus(identity.AdminStatus(*req.Status)); err != nil {
			return nil, err
		}
		revoke = revoke || admin.Status == identity.AdminStatusInactive
	}

	if err := s.adminRepo.Save(ctx, admin); err != nil {
		return nil, err
	}
	if revoke {
		s.revokeSessions(ctx, admin.ID)
	}

	resp := ToAdminResponse(admin)
	return &resp, nil
}

// ResetPassword replaces an admin's password and ends their sessions
func (s *AdminService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := admin.SetPassword(req.Password); err != nil {
		return err
	}
	if err := s.adminRepo.Save(ctx, admin); err != nil {
		return err
	}
	s.revokeSessions(ctx, admin.ID)
	return nil
}

// Delete removes an admin; an admin cannot delete their own account
func (s *AdminService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return shared.NewDomainError("CANNOT_DELETE_SELF", "You cannot delete your own account")
	}
	if _, err := s.adminRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.adminRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeSessions(ctx, id)
	return nil
}

func (s *AdminService) revokeSessions(ctx context.Context, id uuid.UUID) {
	if err := revokeAll(ctx, s.blacklist, s.revokeTTL, id); err != nil {
		s.logger.Warn("failed to revoke admin sessions", zap.String("admin_id", id.String()), zap.Error(err))
	}
}
