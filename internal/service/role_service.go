package service

import (
	"context"

	"reportdesk/internal/apperr"
	"reportdesk/internal/models"
	"reportdesk/internal/permissions"
	"reportdesk/internal/repository"
)

// RoleService is the role-permission store's front: it validates permission
// names against the static catalog before any replacement reaches the
// database, so a bad set never partially applies.
type RoleService struct {
	roles repository.RoleRepository
}

func NewRoleService(roles repository.RoleRepository) *RoleService {
	return &RoleService{roles: roles}
}

func (s *RoleService) GetPermissionsForRole(ctx context.Context, roleName string) ([]string, error) {
	return s.roles.GetPermissionsForRole(ctx, roleName)
}

// SetPermissionsForRole replaces a role's whole permission set. Any name
// outside the catalog rejects the whole call before the store is touched;
// repeated names collapse to one, since the set is what is being replaced.
func (s *RoleService) SetPermissionsForRole(ctx context.Context, roleName string, permissionNames []string) error {
	seen := make(map[string]struct{}, len(permissionNames))
	names := make([]string, 0, len(permissionNames))
	for _, p := range permissionNames {
		if !permissions.Valid(p) {
			return apperr.New(apperr.Validation, "unknown permission %q", p)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		names = append(names, p)
	}
	return s.roles.ReplacePermissions(ctx, roleName, names)
}

// ResetRoleToDefault applies the catalog's default mapping for the role.
func (s *RoleService) ResetRoleToDefault(ctx context.Context, roleName string) error {
	return s.roles.ReplacePermissions(ctx, roleName, permissions.DefaultsFor(roleName))
}

func (s *RoleService) GetEffectivePermissions(ctx context.Context, userID string) ([]string, error) {
	return s.roles.GetEffectivePermissions(ctx, userID)
}

// ReplaceUserRoles rewrites a user's role assignments with one primary and
// any number of additional roles.
func (s *RoleService) ReplaceUserRoles(ctx context.Context, userID, primaryRole string, additionalRoles []string) error {
	if primaryRole == "" {
		return apperr.New(apperr.Validation, "primary role is required")
	}
	return s.roles.ReplaceUserRoles(ctx, userID, primaryRole, additionalRoles)
}

func (s *RoleService) RolesForUser(ctx context.Context, userID string) ([]models.UserRole, error) {
	return s.roles.RolesForUser(ctx, userID)
}

func (s *RoleService) ListRoles(ctx context.Context) ([]models.Role, error) {
	return s.roles.ListRoles(ctx)
}

func (s *RoleService) CreateRole(ctx context.Context, name, description string) (*models.Role, error) {
	if name == "" {
		return nil, apperr.New(apperr.Validation, "role name is required")
	}
	return s.roles.CreateRole(ctx, name, description)
}

// PermissionsForRoles is the Authorization Guard's resolver.
func (s *RoleService) PermissionsForRoles(ctx context.Context, roleNames []string) (map[string]struct{}, error) {
	return s.roles.PermissionsForRoles(ctx, roleNames)
}
