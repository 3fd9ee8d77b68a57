package auth

import (
	"net/http"
	"time"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/kernel"
)

// TokenClaims is the verified content of an access token.
type TokenClaims struct {
	UserID    kernel.UserID `json:"user_id"`
	Email     string        `json:"email"`
	IssuedAt  time.Time     `json:"iat"`
	ExpiresAt time.Time     `json:"exp"`
}

// LoginResult is the outcome of a completed OAuth callback.
type LoginResult struct {
	User         interface{} `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeInvalidRefreshToken   = ErrRegistry.Register("INVALID_REFRESH_TOKEN", errx.TypeAuthentication, http.StatusUnauthorized, "Invalid or expired refresh token")
	CodeMissingRefreshToken   = ErrRegistry.Register("MISSING_REFRESH_TOKEN", errx.TypeValidation, http.StatusBadRequest, "Refresh token required")
	CodeMissingCode           = ErrRegistry.Register("MISSING_CODE", errx.TypeValidation, http.StatusBadRequest, "Authorization code required")
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Token generation failed")
	CodeTokenValidationFailed = ErrRegistry.Register("TOKEN_VALIDATION_FAILED", errx.TypeAuthentication, http.StatusUnauthorized, "Token validation failed")
)

// Helper functions
func ErrInvalidRefreshToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidRefreshToken)
}

func ErrMissingRefreshToken() *errx.Error {
	return ErrRegistry.New(CodeMissingRefreshToken)
}

func ErrMissingCode() *errx.Error {
	return ErrRegistry.New(CodeMissingCode)
}

func ErrTokenGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenGenerationFailed)
}

func ErrTokenValidationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenValidationFailed)
}
