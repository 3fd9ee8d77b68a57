package user

import (
	"net/http"
	"time"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/kernel"
)

// User is a local identity. Created on the first successful OAuth callback
// for an email, or seeded at bootstrap; never deleted.
type User struct {
	ID       kernel.UserID `db:"id" json:"id"`
	Username string        `db:"username" json:"username"`
	// Email is nullable: system-seeded accounts have none.
	Email     *string   `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Picture   string    `db:"picture" json:"picture"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EmailValue returns the email or the empty string.
func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// ApplyClaims refreshes the mutable profile fields from provider claims.
// The name always follows the provider. A stored picture is never
// overwritten: an incoming picture only lands when none is stored yet.
func (u *User) ApplyClaims(name, picture string) {
	u.Name = name
	if picture != "" && u.Picture == "" {
		u.Picture = picture
	}
	u.UpdatedAt = time.Now().UTC()
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("USER")

var (
	CodeUserNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeEmailTaken   = ErrRegistry.Register("EMAIL_TAKEN", errx.TypeConflict, http.StatusConflict, "Email already registered")
	CodeRoleGrant    = ErrRegistry.Register("ROLE_GRANT_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Role grant failed")
)

func ErrUserNotFound() *errx.Error {
	return ErrRegistry.New(CodeUserNotFound)
}

func ErrEmailTaken() *errx.Error {
	return ErrRegistry.New(CodeEmailTaken)
}

func ErrRoleGrant(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeRoleGrant, cause)
}
