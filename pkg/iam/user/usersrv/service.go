package usersrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/oauth"
	"github.com/texamhq/texam/pkg/iam/rbac"
	"github.com/texamhq/texam/pkg/iam/tenant"
	"github.com/texamhq/texam/pkg/iam/user"
	"github.com/texamhq/texam/pkg/kernel"
	"github.com/texamhq/texam/pkg/logx"
)

// UserService owns identity reconciliation: mapping provider claims onto a
// local user row, creating one on first login.
type UserService struct {
	repo user.UserRepository
}

// NewUserService creates a new service instance.
func NewUserService(repo user.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Reconcile finds or creates the user behind a set of provider claims.
//
// First login through a non-default tenant also grants the Member role, in
// the same transaction as the insert. Logins through the default tenant get
// no automatic role: that tenant represents unaffiliated identities. When
// only the role grant fails the user is still created and the grant failure
// is logged; an unprovisioned role is repairable, a failed login is not.
//
// Concurrent first logins of one email race on the store's uniqueness
// constraint; the loser observes the winner's row and takes the update path.
func (s *UserService) Reconcile(ctx context.Context, t *tenant.Tenant, claims *oauth.IdentityClaims) (*user.User, error) {
	existing, err := s.repo.FindByEmail(ctx, claims.Email)
	switch {
	case err == nil:
		return s.refresh(ctx, existing, claims)
	case errx.IsType(err, errx.TypeNotFound):
		return s.create(ctx, t, claims)
	default:
		return nil, err
	}
}

func (s *UserService) create(ctx context.Context, t *tenant.Tenant, claims *oauth.IdentityClaims) (*user.User, error) {
	now := time.Now().UTC()
	email := claims.Email
	u := user.User{
		ID:        kernel.NewUserID(uuid.NewString()),
		Username:  claims.Email,
		Email:     &email,
		Name:      claims.Name,
		Picture:   claims.Picture,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var err error
	if t.IsDefault() {
		err = s.repo.Create(ctx, u)
	} else {
		err = s.repo.CreateWithRole(ctx, u, rbac.RoleMember)
		if errx.IsType(err, errx.TypeInternal) {
			// The grant leg failed and nothing was committed. The login
			// must still succeed; retry the bare insert and flag the
			// missing grant for repair.
			logx.WithFields(logx.Fields{
				"email":  claims.Email,
				"tenant": t.Domain,
			}).Errorf("member role grant failed, creating user without role: %v", err)
			err = s.repo.Create(ctx, u)
		}
	}

	if errx.IsType(err, errx.TypeConflict) {
		// Lost the first-login race: another request created this email
		// between our lookup and insert. Adopt the winner's row.
		winner, ferr := s.repo.FindByEmail(ctx, claims.Email)
		if ferr != nil {
			return nil, ferr
		}
		return s.refresh(ctx, winner, claims)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) refresh(ctx context.Context, u *user.User, claims *oauth.IdentityClaims) (*user.User, error) {
	u.ApplyClaims(claims.Name, claims.Picture)
	if err := s.repo.UpdateProfile(ctx, *u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, id kernel.UserID) (*user.User, error) {
	return s.repo.FindByID(ctx, id)
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]*user.User, error) {
	return s.repo.List(ctx)
}
