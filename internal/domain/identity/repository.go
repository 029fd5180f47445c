package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
)

// AdminRepository defines the interface for admin persistence
type AdminRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// FindAll supports filter keys: role, status
	FindAll(ctx context.Context, filter shared.Filter) ([]Admin, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, admin *Admin) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the interface for storefront user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)

	// FindAll supports filter keys: status; Search matches name and phone
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, user *User) error
}
