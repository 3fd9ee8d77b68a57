package apitokensrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/texamhq/texam/pkg/iam/apitoken"
	"github.com/texamhq/texam/pkg/kernel"
	"github.com/texamhq/texam/pkg/logx"
)

// APITokenService owns the API token lifecycle: issuance, validation,
// listing and revocation.
type APITokenService struct {
	repo apitoken.APITokenRepository
}

// NewAPITokenService creates a new service instance.
func NewAPITokenService(repo apitoken.APITokenRepository) *APITokenService {
	return &APITokenService{repo: repo}
}

// IssueResult carries a freshly issued token. Raw is the only copy of the
// unhashed value that will ever exist.
type IssueResult struct {
	Raw   string
	Token apitoken.APIToken
}

// Issue creates a token for the user with a caller-chosen lifetime in days,
// constrained to [1, 365].
func (s *APITokenService) Issue(ctx context.Context, userID kernel.UserID, durationDays int) (*IssueResult, error) {
	if durationDays < apitoken.MinDurationDays || durationDays > apitoken.MaxDurationDays {
		return nil, apitoken.ErrInvalidDuration().WithDetail("days", durationDays)
	}

	raw := uuid.NewString()
	now := time.Now().UTC()
	t := apitoken.APIToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: apitoken.HashToken(raw),
		ExpiresAt: now.AddDate(0, 0, durationDays),
		Revoked:   false,
		CreatedAt: now,
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}

	return &IssueResult{Raw: raw, Token: t}, nil
}

// Validate authenticates a presented raw token. It fails closed: any store
// error, missing record, revocation or expiry yields ok=false.
func (s *APITokenService) Validate(ctx context.Context, raw string) (kernel.UserID, bool) {
	t, err := s.repo.FindByHash(ctx, apitoken.HashToken(raw))
	if err != nil {
		return "", false
	}
	if !t.IsValid() {
		return "", false
	}
	return t.UserID, true
}

// List returns the caller's active tokens.
func (s *APITokenService) List(ctx context.Context, userID kernel.UserID) ([]*apitoken.APIToken, error) {
	return s.repo.ListActiveByUser(ctx, userID)
}

// Revoke marks a token revoked if the caller owns it. A token belonging to
// another user answers the same not-found as a nonexistent id.
func (s *APITokenService) Revoke(ctx context.Context, id string, ownerID kernel.UserID) error {
	if _, err := uuid.Parse(id); err != nil {
		return apitoken.ErrInvalidTokenID().WithDetail("id", id)
	}
	if err := s.repo.Revoke(ctx, id, ownerID); err != nil {
		return err
	}
	logx.WithFields(logx.Fields{"token_id": id, "user_id": ownerID.String()}).Info("API token revoked")
	return nil
}
