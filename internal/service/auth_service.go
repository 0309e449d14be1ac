package service

import (
	"context"
	"strings"
	"time"

	"reportdesk/internal/apperr"
	"reportdesk/internal/models"
	"reportdesk/internal/permissions"
	"reportdesk/internal/repository"
	"reportdesk/internal/utils"
)

var ErrInvalidCredentials = apperr.New(apperr.Unauthenticated, "invalid credentials")

type AuthService struct {
	users         repository.UserRepository
	roles         repository.RoleRepository
	sessionSecret string
}

func NewAuthService(users repository.UserRepository, roles repository.RoleRepository, sessionSecret string) *AuthService {
	return &AuthService{users: users, roles: roles, sessionSecret: sessionSecret}
}

// Register creates a credentials account. Self-registration always lands in
// the plain user role.
func (a *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, apperr.New(apperr.Validation, "email and name are required")
	}
	if len(password) < 6 {
		return nil, apperr.New(apperr.Validation, "password must be at least 6 characters")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := a.users.Create(ctx, email, name, permissions.RoleUser, &hash)
	if err != nil {
		return nil, err
	}
	if err := a.roles.ReplaceUserRoles(ctx, u.ID, permissions.RoleUser, nil); err != nil {
		return nil, err
	}
	return u, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	u, hash, err := a.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if u == nil || hash == nil {
		// hash is nil for OIDC-only accounts; they cannot log in with a
		// password.
		return "", nil, ErrInvalidCredentials
	}
	if !utils.CheckPassword(*hash, password) {
		return "", nil, ErrInvalidCredentials
	}
	return a.issueToken(ctx, u)
}

// OIDCIdentity is what the external identity verifier hands us after it has
// validated the provider's token.
type OIDCIdentity struct {
	Email string
	Name  string
}

// LoginOIDC finds or creates a passwordless account for a verified identity.
func (a *AuthService) LoginOIDC(ctx context.Context, id OIDCIdentity) (string, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if email == "" {
		return "", nil, apperr.New(apperr.Validation, "identity has no email")
	}
	u, _, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		name := strings.TrimSpace(id.Name)
		if name == "" {
			name = email
		}
		u, err = a.users.Create(ctx, email, name, permissions.RoleUser, nil)
		if err != nil {
			return "", nil, err
		}
		if err := a.roles.ReplaceUserRoles(ctx, u.ID, permissions.RoleUser, nil); err != nil {
			return "", nil, err
		}
	}
	return a.issueToken(ctx, u)
}

func (a *AuthService) issueToken(ctx context.Context, u *models.User) (string, *models.User, error) {
	links, err := a.roles.RolesForUser(ctx, u.ID)
	if err != nil {
		return "", nil, err
	}
	primary := u.Role
	var additional []string
	for _, l := range links {
		if l.IsPrimary {
			primary = l.RoleName
		} else {
			additional = append(additional, l.RoleName)
		}
	}
	perms, err := a.roles.GetEffectivePermissions(ctx, u.ID)
	if err != nil {
		return "", nil, err
	}

	tok, err := utils.SignJWT(a.sessionSecret, utils.Claims{
		UserID:          u.ID,
		Role:            primary,
		AdditionalRoles: additional,
		Permissions:     perms,
	}, 24*time.Hour)
	if err != nil {
		return "", nil, err
	}
	u.Role = primary
	u.Roles = links
	return tok, u, nil
}

// ChangePassword hashes and stores a new password for the user.
func (a *AuthService) ChangePassword(ctx context.Context, userID, password string) error {
	if len(password) < 6 {
		return apperr.New(apperr.Validation, "password must be at least 6 characters")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return a.users.UpdatePasswordHash(ctx, userID, hash)
}
