package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reportdesk/internal/apperr"
	"reportdesk/internal/models"
	"reportdesk/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct{ db *pgxpool.Pool }

func NewUserRepo(db *pgxpool.Pool) repository.UserRepository { return &UserRepo{db: db} }

func userConflict(constraint string) string {
	if strings.Contains(constraint, "email") {
		return "email already registered"
	}
	return ""
}

// Create stores a user; passwordHash is nil for OIDC-only accounts.
func (r *UserRepo) Create(ctx context.Context, email, name, role string, passwordHash *string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, name, role, password_h)
		VALUES ($1,$2,$3,$4)
		RETURNING id, email, name, role, created_at, updated_at`,
		email, name, role, passwordHash).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, apperr.FromPg(err, userConflict)
	}
	return &u, nil
}

// GetByEmail looks up a live (not soft-deleted) user.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, *string, error) {
	var u models.User
	var ph *string
	err := r.db.QueryRow(ctx, `
		SELECT id, email, name, role, password_h, created_at, updated_at
		FROM users WHERE email=$1 AND deleted_at IS NULL`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &ph, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return &u, ph, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		SELECT id, email, name, role, created_at, updated_at, deleted_at
		FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// List returns a filtered, paginated page of users plus the total count.
func (r *UserRepo) List(ctx context.Context, q, role string, includeDeleted bool, limit, offset int) ([]models.User, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	clauses := []string{"1=1"}
	args := []any{}

	if !includeDeleted {
		clauses = append(clauses, "deleted_at IS NULL")
	}
	if s := strings.TrimSpace(q); s != "" {
		p := "%" + s + "%"
		args = append(args, p, p)
		clauses = append(clauses, "(email ILIKE $"+itoa(len(args)-1)+" OR name ILIKE $"+itoa(len(args))+")")
	}
	if s := strings.TrimSpace(role); s != "" {
		args = append(args, s)
		clauses = append(clauses, "role = $"+itoa(len(args)))
	}

	countSQL := `SELECT COUNT(*) FROM users WHERE ` + strings.Join(clauses, " AND ")
	var total int
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	listSQL := fmt.Sprintf(`
		SELECT id, email, name, role, created_at, updated_at, deleted_at
		FROM users
		WHERE %s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(clauses, " AND "), len(args)-1, len(args))
	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *UserRepo) UpdateBasic(ctx context.Context, id, name string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET name=$1, updated_at=now()
		WHERE id=$2 AND deleted_at IS NULL
		RETURNING id, email, name, role, created_at, updated_at
	`, name, id).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, apperr.FromPg(err, nil)
	}
	return &u, nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_h=$1, updated_at=now()
		WHERE id=$2 AND deleted_at IS NULL
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}

// SoftDelete marks the user deleted and suffixes the email with the deletion
// epoch so the live-email unique index frees the address for reuse.
func (r *UserRepo) SoftDelete(ctx context.Context, id string) error {
	suffix := fmt.Sprintf("+deleted.%d", time.Now().Unix())
	ct, err := r.db.Exec(ctx, `
		UPDATE users
		SET deleted_at=now(), email = email || $1, updated_at=now()
		WHERE id=$2 AND deleted_at IS NULL
	`, suffix, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return nil
}
