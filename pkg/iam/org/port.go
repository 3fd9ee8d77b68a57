package org

import (
	"context"

	"github.com/texamhq/texam/pkg/kernel"
)

// OrganizationRepository defines the contract for organization persistence.
type OrganizationRepository interface {
	// CreateWithAdmin inserts the organization and the creator's admin
	// membership in one transaction.
	CreateWithAdmin(ctx context.Context, o Organization, creatorID kernel.UserID, adminRoleID kernel.RoleID) error

	FindByID(ctx context.Context, id kernel.OrgID) (*Organization, error)
	Members(ctx context.Context, id kernel.OrgID) ([]*Member, error)

	// AddMember attaches a user with an org-scoped role. A user already in
	// the organization answers CodeDuplicateMember.
	AddMember(ctx context.Context, orgID kernel.OrgID, userID kernel.UserID, roleID kernel.RoleID) error

	// RemoveMember detaches a user. An absent membership answers
	// CodeMemberNotFound.
	RemoveMember(ctx context.Context, orgID kernel.OrgID, userID kernel.UserID) error
}
