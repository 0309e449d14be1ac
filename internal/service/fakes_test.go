package service

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"reportdesk/internal/apperr"
	"reportdesk/internal/models"
)

// fakeRoleRepo is an in-memory role-permission store for service tests.
type fakeRoleRepo struct {
	mu        sync.Mutex
	rolePerms map[string][]string       // role name -> permission names
	userRoles map[string][]models.UserRole
	failWith  error
}

func newFakeRoleRepo(roles ...string) *fakeRoleRepo {
	f := &fakeRoleRepo{
		rolePerms: map[string][]string{},
		userRoles: map[string][]models.UserRole{},
	}
	for _, r := range roles {
		f.rolePerms[r] = []string{}
	}
	return f
}

func (f *fakeRoleRepo) ListRoles(ctx context.Context) ([]models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Role
	for name := range f.rolePerms {
		out = append(out, models.Role{ID: name, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRoleRepo) CreateRole(ctx context.Context, name, description string) (*models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rolePerms[name]; ok {
		return nil, apperr.New(apperr.Conflict, "role name already exists")
	}
	f.rolePerms[name] = []string{}
	return &models.Role{ID: name, Name: name, Description: description}, nil
}

func (f *fakeRoleRepo) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rolePerms[name]; !ok {
		return nil, nil
	}
	return &models.Role{ID: name, Name: name}, nil
}

func (f *fakeRoleRepo) GetPermissionsForRole(ctx context.Context, roleName string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	perms := f.rolePerms[roleName]
	out := make([]string, len(perms))
	copy(out, perms)
	sort.Strings(out)
	return out, nil
}

func (f *fakeRoleRepo) ReplacePermissions(ctx context.Context, roleName string, permissionNames []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rolePerms[roleName]; !ok {
		return apperr.New(apperr.NotFound, "role not found")
	}
	out := make([]string, len(permissionNames))
	copy(out, permissionNames)
	f.rolePerms[roleName] = out
	return nil
}

func (f *fakeRoleRepo) PermissionsForRoles(ctx context.Context, roleNames []string) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := map[string]struct{}{}
	for _, r := range roleNames {
		for _, p := range f.rolePerms[r] {
			out[p] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeRoleRepo) GetEffectivePermissions(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	links := f.userRoles[userID]
	f.mu.Unlock()

	set := map[string]struct{}{}
	for _, l := range links {
		f.mu.Lock()
		for _, p := range f.rolePerms[l.RoleName] {
			set[p] = struct{}{}
		}
		f.mu.Unlock()
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeRoleRepo) RolesForUser(ctx context.Context, userID string) ([]models.UserRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	links := f.userRoles[userID]
	out := make([]models.UserRole, len(links))
	copy(out, links)
	return out, nil
}

func (f *fakeRoleRepo) ReplaceUserRoles(ctx context.Context, userID, primaryRole string, additionalRoles []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rolePerms[primaryRole]; !ok {
		return apperr.New(apperr.NotFound, "role not found")
	}
	links := []models.UserRole{{UserID: userID, RoleID: primaryRole, RoleName: primaryRole, IsPrimary: true}}
	for _, r := range additionalRoles {
		if r == primaryRole {
			continue
		}
		if _, ok := f.rolePerms[r]; !ok {
			return apperr.New(apperr.NotFound, "role not found")
		}
		links = append(links, models.UserRole{UserID: userID, RoleID: r, RoleName: r})
	}
	f.userRoles[userID] = links
	return nil
}

// fakeUserRepo is an in-memory user store for auth tests.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*models.User
	hashes map[string]*string // user id -> password hash
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}, hashes: map[string]*string{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, email, name, role string, passwordHash *string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.DeletedAt == nil {
			return nil, apperr.New(apperr.Conflict, "email already registered")
		}
	}
	f.nextID++
	u := &models.User{ID: "u" + strconv.Itoa(f.nextID), Email: email, Name: name, Role: role}
	f.users[u.ID] = u
	f.hashes[u.ID] = passwordHash
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, *string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.DeletedAt == nil {
			cp := *u
			return &cp, f.hashes[u.ID], nil
		}
	}
	return nil, nil, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) List(ctx context.Context, q, role string, includeDeleted bool, limit, offset int) ([]models.User, int, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) UpdateBasic(ctx context.Context, id, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	u.Name = name
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return apperr.New(apperr.NotFound, "user not found")
	}
	f.hashes[id] = &passwordHash
	return nil
}

func (f *fakeUserRepo) SoftDelete(ctx context.Context, id string) error {
	return nil
}
