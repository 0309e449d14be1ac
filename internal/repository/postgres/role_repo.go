package postgres

import (
	"context"
	"strings"

	"reportdesk/internal/apperr"
	"reportdesk/internal/models"
	"reportdesk/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoleRepo struct{ db *pgxpool.Pool }

func NewRoleRepo(db *pgxpool.Pool) repository.RoleRepository { return &RoleRepo{db: db} }

func roleConflict(constraint string) string {
	switch {
	case strings.Contains(constraint, "roles_name"):
		return "role name already exists"
	case strings.Contains(constraint, "user_roles"):
		return "role already assigned to user"
	}
	return ""
}

func (r *RoleRepo) ListRoles(ctx context.Context) ([]models.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Role
	for rows.Next() {
		var ro models.Role
		if err := rows.Scan(&ro.ID, &ro.Name, &ro.Description); err != nil {
			return nil, err
		}
		out = append(out, ro)
	}
	return out, rows.Err()
}

func (r *RoleRepo) CreateRole(ctx context.Context, name, description string) (*models.Role, error) {
	var ro models.Role
	err := r.db.QueryRow(ctx, `
		INSERT INTO roles (name, description)
		VALUES ($1,$2)
		RETURNING id, name, description`, name, description).
		Scan(&ro.ID, &ro.Name, &ro.Description)
	if err != nil {
		return nil, apperr.FromPg(err, roleConflict)
	}
	return &ro, nil
}

func (r *RoleRepo) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var ro models.Role
	err := r.db.QueryRow(ctx, `SELECT id, name, description FROM roles WHERE name=$1`, name).
		Scan(&ro.ID, &ro.Name, &ro.Description)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &ro, nil
}

// GetPermissionsForRole returns the permission names attached to a role.
// Unknown roles yield an empty, non-nil slice.
func (r *RoleRepo) GetPermissionsForRole(ctx context.Context, roleName string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN roles ro ON ro.id = rp.role_id
		WHERE ro.name = $1
		ORDER BY p.name`, roleName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ReplacePermissions rewrites a role's permission set: delete all links,
// insert the new ones, one transaction. Permission names must already exist
// in the permissions table.
func (r *RoleRepo) ReplacePermissions(ctx context.Context, roleName string, permissionNames []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var roleID string
	if err := tx.QueryRow(ctx, `SELECT id FROM roles WHERE name=$1`, roleName).Scan(&roleID); err != nil {
		if err == pgx.ErrNoRows {
			return apperr.New(apperr.NotFound, "role %q not found", roleName)
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id=$1`, roleID); err != nil {
		return err
	}

	if len(permissionNames) > 0 {
		ct, err := tx.Exec(ctx, `
			INSERT INTO role_permissions (role_id, permission_id)
			SELECT $1, p.id FROM permissions p WHERE p.name = ANY($2)
		`, roleID, permissionNames)
		if err != nil {
			return apperr.FromPg(err, roleConflict)
		}
		// The insert matches one row per distinct name, so compare against
		// the distinct count. A shortfall means some name had no
		// permissions row; reject the whole replacement rather than apply
		// it partially.
		distinct := make(map[string]struct{}, len(permissionNames))
		for _, n := range permissionNames {
			distinct[n] = struct{}{}
		}
		if int(ct.RowsAffected()) != len(distinct) {
			return apperr.New(apperr.Validation, "unknown permission in set")
		}
	}

	return tx.Commit(ctx)
}

// PermissionsForRoles unions permission names across the given role names.
func (r *RoleRepo) PermissionsForRoles(ctx context.Context, roleNames []string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	if len(roleNames) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN roles ro ON ro.id = rp.role_id
		WHERE ro.name = ANY($1)`, roleNames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out[n] = struct{}{}
	}
	return out, rows.Err()
}

// GetEffectivePermissions unions permissions over every role the user holds.
func (r *RoleRepo) GetEffectivePermissions(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1
		ORDER BY p.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *RoleRepo) RolesForUser(ctx context.Context, userID string) ([]models.UserRole, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ur.user_id, ur.role_id, ro.name, ur.is_primary
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ur.is_primary DESC, ro.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserRole
	for rows.Next() {
		var ur models.UserRole
		if err := rows.Scan(&ur.UserID, &ur.RoleID, &ur.RoleName, &ur.IsPrimary); err != nil {
			return nil, err
		}
		out = append(out, ur)
	}
	return out, rows.Err()
}

// ReplaceUserRoles deletes the user's role links and reinserts them with the
// primary first, all in one transaction, so exactly one link ends up primary.
// The deprecated users.role mirror is updated in the same transaction.
func (r *RoleRepo) ReplaceUserRoles(ctx context.Context, userID, primaryRole string, additionalRoles []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id=$1`, userID); err != nil {
		return err
	}

	insert := func(roleName string, primary bool) error {
		ct, err := tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id, is_primary)
			SELECT $1, id, $3 FROM roles WHERE name=$2
		`, userID, roleName, primary)
		if err != nil {
			return apperr.FromPg(err, roleConflict)
		}
		if ct.RowsAffected() == 0 {
			return apperr.New(apperr.NotFound, "role %q not found", roleName)
		}
		return nil
	}

	if err := insert(primaryRole, true); err != nil {
		return err
	}
	for _, name := range additionalRoles {
		if name == primaryRole {
			continue
		}
		if err := insert(name, false); err != nil {
			return err
		}
	}

	ct, err := tx.Exec(ctx, `UPDATE users SET role=$1, updated_at=now() WHERE id=$2`, primaryRole, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}

	return tx.Commit(ctx)
}
