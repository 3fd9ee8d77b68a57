package org

import (
	"net/http"
	"time"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/kernel"
)

// Organization is a scope for exams, groups and per-organization roles.
type Organization struct {
	ID        kernel.OrgID `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// UserOrganization scopes a user's role within one organization, distinct
// from their global roles.
type UserOrganization struct {
	ID             string        `db:"id" json:"id"`
	UserID         kernel.UserID `db:"user_id" json:"user_id"`
	OrganizationID kernel.OrgID  `db:"organization_id" json:"organization_id"`
	RoleID         kernel.RoleID `db:"role_id" json:"role_id"`
}

// Member is a membership row joined with its user and role names.
type Member struct {
	UserID   kernel.UserID `db:"user_id" json:"user_id"`
	UserName string        `db:"user_name" json:"user_name"`
	Role     string        `db:"role" json:"role"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("ORG")

var (
	CodeOrgNotFound  = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Organization not found")
	CodeNameRequired = ErrRegistry.Register("NAME_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "Organization name is required")
	// The legacy surface answered duplicate membership with 400, not 409.
	CodeDuplicateMember = ErrRegistry.Register("DUPLICATE_MEMBER", errx.TypeConflict, http.StatusBadRequest, "User is already a member")
	CodeMemberNotFound  = ErrRegistry.Register("MEMBER_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User is not a member of this organization")
)

func ErrOrgNotFound() *errx.Error {
	return ErrRegistry.New(CodeOrgNotFound)
}

func ErrNameRequired() *errx.Error {
	return ErrRegistry.New(CodeNameRequired)
}

func ErrDuplicateMember() *errx.Error {
	return ErrRegistry.New(CodeDuplicateMember)
}

func ErrMemberNotFound() *errx.Error {
	return ErrRegistry.New(CodeMemberNotFound)
}
