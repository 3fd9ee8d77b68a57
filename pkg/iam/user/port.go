package user

import (
	"context"

	"github.com/texamhq/texam/pkg/kernel"
)

// UserRepository defines the contract for identity persistence.
type UserRepository interface {
	FindByID(ctx context.Context, id kernel.UserID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)

	// Create inserts a user. Returns a CodeEmailTaken error when the email
	// uniqueness constraint rejects the row.
	Create(ctx context.Context, u User) error

	// CreateWithRole inserts a user and grants the named global role in one
	// transaction. Returns CodeEmailTaken on the uniqueness constraint and
	// CodeRoleGrant when only the grant leg failed (nothing is committed).
	CreateWithRole(ctx context.Context, u User, roleName string) error

	// UpdateProfile persists the mutable profile fields (name, picture).
	UpdateProfile(ctx context.Context, u User) error
}
