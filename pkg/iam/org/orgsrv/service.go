package orgsrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/texamhq/texam/pkg/iam/org"
	"github.com/texamhq/texam/pkg/iam/rbac"
	"github.com/texamhq/texam/pkg/iam/user"
	"github.com/texamhq/texam/pkg/kernel"
)

// OrgService owns organization membership.
type OrgService struct {
	repo  org.OrganizationRepository
	roles rbac.RoleRepository
	users user.UserRepository
}

// NewOrgService creates a new service instance.
func NewOrgService(repo org.OrganizationRepository, roles rbac.RoleRepository, users user.UserRepository) *OrgService {
	return &OrgService{repo: repo, roles: roles, users: users}
}

// Create makes a new organization. The creator is attached as its Admin.
func (s *OrgService) Create(ctx context.Context, name string, creatorID kernel.UserID) (*org.Organization, error) {
	if name == "" {
		return nil, org.ErrNameRequired()
	}

	adminRole, err := s.roles.FindRoleByName(ctx, rbac.RoleAdmin)
	if err != nil {
		return nil, err
	}

	o := org.Organization{
		ID:        kernel.NewOrgID(uuid.NewString()),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateWithAdmin(ctx, o, creatorID, adminRole.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

// OrgDetail is an organization with its resolved member list.
type OrgDetail struct {
	Organization *org.Organization `json:"organization"`
	Members      []*org.Member     `json:"members"`
}

// Get returns an organization with its members.
func (s *OrgService) Get(ctx context.Context, id kernel.OrgID) (*OrgDetail, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.Members(ctx, id)
	if err != nil {
		return nil, err
	}
	return &OrgDetail{Organization: o, Members: members}, nil
}

// AddMember attaches a user to an organization with the named role. The
// organization, user and role must all exist; a user already attached is a
// conflict.
func (s *OrgService) AddMember(ctx context.Context, orgID kernel.OrgID, userID kernel.UserID, roleName string) error {
	if _, err := s.repo.FindByID(ctx, orgID); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	role, err := s.roles.FindRoleByName(ctx, roleName)
	if err != nil {
		return err
	}
	return s.repo.AddMember(ctx, orgID, userID, role.ID)
}

// RemoveMember detaches a user from an organization.
func (s *OrgService) RemoveMember(ctx context.Context, orgID kernel.OrgID, userID kernel.UserID) error {
	return s.repo.RemoveMember(ctx, orgID, userID)
}
