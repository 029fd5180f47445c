package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/livecommerce/backend/internal/domain/shared"
)

// AdminStatus represents whether an admin may sign in
type AdminStatus string

const (
	AdminStatusActive   AdminStatus = "active"
	AdminStatusInactive AdminStatus = "inactive"
)

// IsValid checks if the status is known
func (s AdminStatus) IsValid() bool {
	return s == AdminStatusActive || s == AdminStatusInactive
}

// Login lock policy
const (
	MaxLoginAttempts = 5
	LockDuration     = 15 * time.Minute
)

// Admin is a back-office account that manages the platform
type Admin struct {
	shared.BaseAggregateRoot
	Name           string
	Email          string
	PasswordHash   string
	Role           Role
	Status         AdminStatus
	FailedAttempts int
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
	LastLoginIP    string
}

// NewAdmin creates an active admin with a hashed password
func NewAdmin(name, email, password string, role Role) (*Admin, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !role.IsAdminRole() {
		return nil, shared.NewDomainError("INVALID_ROLE", fmt.Sprintf("Unknown admin role %q", role))
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &Admin{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		Status:            AdminStatusActive,
	}, nil
}

// UpdateProfile changes name and role
func (a *Admin) UpdateProfile(name string, role Role) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if !role.IsAdminRole() {
		return shared.NewDomainError("INVALID_ROLE", fmt.Sprintf("Unknown admin role %q", role))
	}
	a.Name = name
	a.Role = role
	a.touch()
	return nil
}

// SetStatus activates or deactivates the admin
func (a *Admin) SetStatus(status AdminStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown admin status %q", status))
	}
	a.Status = status
	if status == AdminStatusActive {
		a.FailedAttempts = 0
		a.LockedUntil = nil
	}
	a.touch()
	return nil
}

// SetPassword replaces the password (admin reset, no old password check)
func (a *Admin) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	a.PasswordHash = hash
	a.touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (a *Admin) VerifyPassword(password string) bool {
	return verifyHash(a.PasswordHash, password)
}

// RecordLoginSuccess records a successful login
func (a *Admin) RecordLoginSuccess(ip string) {
	now := time.Now()
	a.LastLoginAt = &now
	a.LastLoginIP = ip
	a.FailedAttempts = 0
	a.LockedUntil = nil
	a.touch()
}

// RecordLoginFailure records a failed login attempt.
// Returns true if the account got locked by this attempt.
func (a *Admin) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	a.FailedAttempts++
	a.touch()
	if a.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		a.LockedUntil = &until
		a.FailedAttempts = 0
		return true
	}
	return false
}

// IsLocked returns true while a lock is in effect
func (a *Admin) IsLocked() bool {
	return a.LockedUntil != nil && time.Now().Before(*a.LockedUntil)
}

// CanLogin returns true if the admin is active and not locked
func (a *Admin) CanLogin() bool {
	return a.Status == AdminStatusActive && !a.IsLocked()
}

// Permissions returns the permissions granted by the admin's role
func (a *Admin) Permissions() []string {
	return PermissionsFor(a.Role)
}

func (a *Admin) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}
