package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/livecommerce/backend/internal/domain/shared"
)

// UserStatus represents whether a storefront user may sign in
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

var userPhonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// User is a storefront customer who signs in with a phone OTP
type User struct {
	shared.BaseAggregateRoot
	Name        string
	Phone       string
	Email       string
	Status      UserStatus
	LastLoginAt *time.Time
}

// NewUser creates an active user identified by phone
func NewUser(phone, name string) (*User, error) {
	phone = NormalizePhone(phone)
	if !userPhonePattern.MatchString(phone) {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone number must contain 8 to 15 digits")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = phone
	}
	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             phone,
		Status:            UserStatusActive,
	}, nil
}

// UpdateProfile changes the name and email
func (u *User) UpdateProfile(name, email string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	u.Name = name
	u.Email = email
	u.touch()
	return nil
}

// Block prevents the user from signing in
func (u *User) Block() error {
	if u.Status == UserStatusBlocked {
		return shared.NewDomainError("INVALID_STATE", "User is already blocked")
	}
	u.Status = UserStatusBlocked
	u.touch()
	return nil
}

// Unblock restores access
func (u *User) Unblock() error {
	if u.Status != UserStatusBlocked {
		return shared.NewDomainError("INVALID_STATE", "User is not blocked")
	}
	u.Status = UserStatusActive
	u.touch()
	return nil
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.touch()
}

// IsActive returns true if the user may sign in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

func (u *User) touch() {
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// NormalizePhone strips formatting characters from a phone number
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

// ValidPhone reports whether a normalized phone number is acceptable
func ValidPhone(phone string) bool {
	return userPhonePattern.MatchString(phone)
}
