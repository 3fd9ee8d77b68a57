package apitoken

import (
	"context"

	"github.com/texamhq/texam/pkg/kernel"
)

// APITokenRepository defines the contract for API token persistence.
type APITokenRepository interface {
	Save(ctx context.Context, t APIToken) error
	FindByHash(ctx context.Context, hash string) (*APIToken, error)

	// ListActiveByUser returns the caller's non-revoked, non-expired tokens.
	ListActiveByUser(ctx context.Context, userID kernel.UserID) ([]*APIToken, error)

	// Revoke flips the revoked flag on a token the owner holds. Returns
	// CodeTokenNotFound when no row matches both id and owner.
	Revoke(ctx context.Context, id string, ownerID kernel.UserID) error
}
