package models

import (
	"time"

	"github.com/livecommerce/backend/internal/domain/identity"
)

// AdminModel is the persistence model for back-office admins
type AdminModel struct {
	AggregateModel
	Name           string               `gorm:"type:varchar(100);not null"`
	Email          string               `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash   string               `gorm:"type:varchar(255);not null"`
	Role           identity.Role        `gorm:"type:varchar(20);not null;index"`
	Status         identity.AdminStatus `gorm:"type:varchar(20);not null;default:'active'"`
	FailedAttempts int                  `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"type:varchar(45)"`
}

func (AdminModel) TableName() string { return "admins" }

func (m *AdminModel) ToDomain() *identity.Admin {
	return &identity.Admin{
		BaseAggregateRoot: m.toDomain(),
		Name:              m.Name,
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		Status:            m.Status,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
		LastLoginAt:       m.LastLoginAt,
		LastLoginIP:       m.LastLoginIP,
	}
}

func AdminModelFromDomain(a *identity.Admin) *AdminModel {
	return &AdminModel{
		AggregateModel: aggregateFromDomain(a.BaseAggregateRoot),
		Name:           a.Name,
		Email:          a.Email,
		PasswordHash:   a.PasswordHash,
		Role:           a.Role,
		Status:         a.Status,
		FailedAttempts: a.FailedAttempts,
		LockedUntil:    a.LockedUntil,
		LastLoginAt:    a.LastLoginAt,
		LastLoginIP:    a.LastLoginIP,
	}
}

// UserModel is the persistence model for storefront users
type UserModel struct {
	AggregateModel
	Name        string              `gorm:"type:varchar(100);not null"`
	Phone       string              `gorm:"type:varchar(20);not null;uniqueIndex"`
	Email       string              `gorm:"type:varchar(255)"`
	Status      identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt *time.Time
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.toDomain(),
		Name:              m.Name,
		Phone:             m.Phone,
		Email:             m.Email,
		Status:            m.Status,
		LastLoginAt:       m.LastLoginAt,
	}
}

func UserModelFromDomain(u *identity.User) *UserModel {
	return &UserModel{
		AggregateModel: aggregateFromDomain(u.BaseAggregateRoot),
		Name:           u.Name,
		Phone:          u.Phone,
		Email:          u.Email,
		Status:         u.Status,
		LastLoginAt:    u.LastLoginAt,
	}
}
