package apitoken

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/kernel"
)

// APIToken is a long-lived credential for programmatic access. Only the
// SHA-256 hash of the token is ever persisted; the raw value exists exactly
// once, in the issuance response. Revoked and expired tokens are kept for
// audit but excluded from validation.
type APIToken struct {
	ID        string        `db:"id" json:"id"`
	UserID    kernel.UserID `db:"user_id" json:"user_id"`
	TokenHash string        `db:"token_hash" json:"-"`
	ExpiresAt time.Time     `db:"expires_at" json:"expires_at"`
	Revoked   bool          `db:"revoked" json:"revoked"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// Duration bounds for caller-chosen token lifetimes, in days.
const (
	MinDurationDays = 1
	MaxDurationDays = 365
)

// IsExpired reports whether the token lifetime has passed.
func (t *APIToken) IsExpired() bool {
	return !t.ExpiresAt.After(time.Now().UTC())
}

// IsValid reports whether the token can still authenticate a request.
func (t *APIToken) IsValid() bool {
	return !t.Revoked && !t.IsExpired()
}

// HashToken computes the persisted one-way hash of a raw token value.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("TOKEN")

var (
	// Not-owned tokens answer the same 404 as missing ones so a caller
	// cannot probe for another user's token ids.
	CodeTokenNotFound   = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "API token not found")
	CodeTokenInvalid    = ErrRegistry.Register("INVALID", errx.TypeAuthentication, http.StatusUnauthorized, "Invalid API token")
	CodeInvalidDuration = ErrRegistry.Register("INVALID_DURATION", errx.TypeValidation, http.StatusBadRequest, "Token duration must be between 1 and 365 days")
	CodeInvalidTokenID  = ErrRegistry.Register("INVALID_ID", errx.TypeValidation, http.StatusBadRequest, "Malformed token id")
)

func ErrTokenNotFound() *errx.Error {
	return ErrRegistry.New(CodeTokenNotFound)
}

func ErrTokenInvalid() *errx.Error {
	return ErrRegistry.New(CodeTokenInvalid)
}

func ErrInvalidDuration() *errx.Error {
	return ErrRegistry.New(CodeInvalidDuration)
}

func ErrInvalidTokenID() *errx.Error {
	return ErrRegistry.New(CodeInvalidTokenID)
}
