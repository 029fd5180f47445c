package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/identity"
	"github.com/livecommerce/backend/internal/domain/shared"
	"github.com/livecommerce/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Authentication errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountLocked      = shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked, please try again later")
	ErrAccountInactive    = shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	ErrInvalidOTP         = shared.NewDomainError("INVALID_OTP", "Invalid or expired code")
	ErrUserBlocked        = shared.NewDomainError("USER_BLOCKED", "This account has been blocked")
	ErrInvalidRefresh     = shared.NewDomainError("INVALID_TOKEN", "Invalid or expired refresh token")
)

// MessageSender delivers a text message to a phone number
type MessageSender interface {
	SendText(ctx context.Context, phone, body string) error
}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
	OTPTTL           time.Duration
	OTPCooldown      time.Duration
	OTPMaxAttempts   int
	// OTPTemplate is a fmt template with one %s for the code
	OTPTemplate string
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: identity.MaxLoginAttempts,
		LockDuration:     identity.LockDuration,
		OTPTTL:           5 * time.Minute,
		OTPCooldown:      60 * time.Second,
		OTPMaxAttempts:   5,
		OTPTemplate:      "Your verification code is %s. It expires in 5 minutes.",
	}
}

// AuthService handles authentication of admins (password) and storefront
// users (WhatsApp OTP)
type AuthService struct {
	adminRepo  identity.AdminRepository
	userRepo   identity.UserRepository
	otpStore   identity.OTPStore
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	sender     MessageSender
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	adminRepo identity.AdminRepository,
	userRepo identity.UserRepository,
	otpStore identity.OTPStore,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	sender MessageSender,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		userRepo:   userRepo,
		otpStore:   otpStore,
		jwtService: jwtService,
		blacklist:  blacklist,
		sender:     sender,
		config:     config,
		logger:     logger,
	}
}

// Login authenticates an admin by email and password
func (s *AuthService) Login(ctx context.Context, req LoginRequest, clientIP string) (*LoginResponse, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("login for unknown email", zap.String("email", req.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !admin.CanLogin() {
		if admin.IsLocked() {
			s.logger.Warn("login attempt for locked account", zap.String("admin_id", admin.ID.String()))
			return nil, ErrAccountLocked
		}
		return nil, ErrAccountInactive
	}

	if !admin.VerifyPassword(req.Password) {
		locked := admin.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.adminRepo.Save(ctx, admin); err != nil {
			s.logger.Error("failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("account locked after too many failed attempts",
				zap.String("admin_id", admin.ID.String()),
				zap.Int("max_attempts", s.config.MaxLoginAttempts))
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	admin.RecordLoginSuccess(clientIP)
	if err := s.adminRepo.Save(ctx, admin); err != nil {
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(adminTokenPrincipal(admin))
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}
	s.logger.Info("admin logged in", zap.String("admin_id", admin.ID.String()), zap.String("ip", clientIP))

	return &LoginResponse{Token: pair, Principal: adminPrincipal(admin)}, nil
}

// Refresh rotates a refresh token; the presented token cannot be used again
func (s *AuthService) Refresh(ctx context.Context, req RefreshTokenRequest) (*LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	var (
		principal auth.Principal
		response  PrincipalResponse
	)
	switch claims.Kind {
	case auth.PrincipalAdmin:
		admin, err := s.adminRepo.FindByID(ctx, id)
		if err != nil {
			return nil, s.notFoundAsInvalid(err)
		}
		if !admin.CanLogin() {
			return nil, ErrAccountInactive
		}
		principal, response = adminTokenPrincipal(admin), adminPrincipal(admin)
	case auth.PrincipalUser:
		user, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			return nil, s.notFoundAsInvalid(err)
		}
		if !user.IsActive() {
			return nil, ErrUserBlocked
		}
		principal, response = userTokenPrincipal(user), userPrincipal(user)
	default:
		return nil, ErrInvalidRefresh
	}

	// Only the caller that claims the jti may rotate it.
	claimed, err := s.blacklist.AddIfAbsent(ctx, claims.ID, claims.GetRemainingTTL())
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrInvalidRefresh
	}
	pair, err := s.jwtService.GenerateTokenPair(principal)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}
	return &LoginResponse{Token: pair, Principal: response}, nil
}

// Logout revokes the access token until it expires
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return shared.ErrUnauthorized
	}
	return s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL())
}

// Me returns the principal behind an access token
func (s *AuthService) Me(ctx context.Context, claims *auth.Claims) (*PrincipalResponse, error) {
	id, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	switch claims.Kind {
	case auth.PrincipalAdmin:
		admin, err := s.adminRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		p := adminPrincipal(admin)
		return &p, nil
	case auth.PrincipalUser:
		user, err := s.userRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		p := userPrincipal(user)
		return &p, nil
	}
	return nil, shared.ErrUnauthorized
}

// RequestOTP generates a one-time password for phone and sends it over WhatsApp
func (s *AuthService) RequestOTP(ctx context.Context, req OTPRequest) (*OTPRequestResponse, error) {
	phone := identity.NormalizePhone(req.Phone)
	if !identity.ValidPhone(phone) {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone number must contain 8 to 15 digits")
	}

	ok, err := s.otpStore.AcquireCooldown(ctx, phone, s.config.OTPCooldown)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewDomainError("TOO_MANY_REQUESTS",
			fmt.Sprintf("A code was sent recently, retry in %d seconds", int(s.config.OTPCooldown.Seconds())))
	}

	code, err := identity.GenerateOTP()
	if err != nil {
		return nil, err
	}
	entry, err := identity.NewOTPEntry(code, s.config.OTPTTL)
	if err != nil {
		return nil, fmt.Errorf("hash otp: %w", err)
	}
	if err := s.otpStore.Save(ctx, phone, entry, s.config.OTPTTL); err != nil {
		return nil, err
	}

	if err := s.sender.SendText(ctx, phone, fmt.Sprintf(s.config.OTPTemplate, code)); err != nil {
		if delErr := s.otpStore.Delete(ctx, phone); delErr != nil {
			s.logger.Warn("failed to discard unsent otp", zap.Error(delErr))
		}
		return nil, fmt.Errorf("send otp: %w", err)
	}

	return &OTPRequestResponse{
		Phone:       phone,
		ExpiresAt:   entry.ExpiresAt,
		ResendAfter: int(s.config.OTPCooldown.Seconds()),
	}, nil
}

// VerifyOTP checks a one-time password and signs the user in, registering
// the phone number on first use
func (s *AuthService) VerifyOTP(ctx context.Context, req OTPVerifyRequest) (*LoginResponse, error) {
	phone := identity.NormalizePhone(req.Phone)

	entry, err := s.otpStore.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}
	if entry.Expired(time.Now()) || entry.Attempts >= s.config.OTPMaxAttempts {
		_ = s.otpStore.Delete(ctx, phone)
		return nil, ErrInvalidOTP
	}

	if !entry.Matches(req.Code) {
		attempts, err := s.otpStore.IncrementAttempts(ctx, phone)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if attempts >= s.config.OTPMaxAttempts {
			if err := s.otpStore.Delete(ctx, phone); err != nil {
				s.logger.Warn("failed to discard exhausted otp", zap.Error(err))
			}
			s.logger.Warn("otp discarded after too many attempts", zap.String("phone", phone))
		}
		return nil, ErrInvalidOTP
	}
	if err := s.otpStore.Delete(ctx, phone); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhone(ctx, phone)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		user, err = identity.NewUser(phone, req.Name)
		if err != nil {
			return nil, err
		}
		s.logger.Info("registering user on first otp login", zap.String("user_id", user.ID.String()))
	case err != nil:
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrUserBlocked
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(userTokenPrincipal(user))
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}
	return &LoginResponse{Token: pair, Principal: userPrincipal(user)}, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrInvalidRefresh
	}
	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return err
	}
	if invalidated {
		return ErrInvalidRefresh
	}
	return nil
}

func (s *AuthService) notFoundAsInvalid(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return ErrInvalidRefresh
	}
	return err
}

func adminTokenPrincipal(a *identity.Admin) auth.Principal {
	return auth.Principal{
		ID:          a.ID,
		Kind:        auth.PrincipalAdmin,
		Name:        a.Name,
		Role:        string(a.Role),
		Permissions: a.Permissions(),
	}
}

func userTokenPrincipal(u *identity.User) auth.Principal {
	return auth.Principal{
		ID:   u.ID,
		Kind: auth.PrincipalUser,
		Name: u.Name,
		Role: string(identity.RoleCustomer),
	}
}

// revokeAll invalidates every token issued to id so far
func revokeAll(ctx context.Context, blacklist auth.TokenBlacklist, ttl time.Duration, id uuid.UUID) error {
	if blacklist == nil {
		return nil
	}
	return blacklist.AddUserTokensToBlacklist(ctx, id.String(), ttl)
}
