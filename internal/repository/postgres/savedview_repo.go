package postgres

import (
	"context"
	"encoding/json"
	"strings"

	"reportdesk/internal/apperr"
	"reportdesk/internal/models"
	"reportdesk/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SavedViewRepo struct{ db *pgxpool.Pool }

func NewSavedViewRepo(db *pgxpool.Pool) repository.SavedViewRepository {
	return &SavedViewRepo{db: db}
}

func viewConflict(constraint string) string {
	switch {
	case strings.Contains(constraint, "default"):
		return "a default view already exists for this view type"
	case strings.Contains(constraint, "name"):
		return "a view with this name already exists"
	}
	return ""
}

func scanView(row pgx.Row, v *models.SavedView) error {
	var raw []byte
	if err := row.Scan(&v.ID, &v.UserID, &v.Name, &v.ViewType, &raw, &v.IsDefault, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return err
	}
	if len(raw) > 0 {
		return json.Unmarshal(raw, &v.Filters)
	}
	v.Filters = map[string]any{}
	return nil
}

const viewCols = `id, user_id, name, view_type, filters, is_default, created_at, updated_at`

func (r *SavedViewRepo) ListForUser(ctx context.Context, userID string, viewType models.ItemKind) ([]models.SavedView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+viewCols+`
		FROM saved_views
		WHERE user_id=$1 AND view_type=$2
		ORDER BY is_default DESC, name
	`, userID, string(viewType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SavedView
	for rows.Next() {
		var v models.SavedView
		if err := scanView(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *SavedViewRepo) Get(ctx context.Context, id string) (*models.SavedView, error) {
	var v models.SavedView
	err := scanView(r.db.QueryRow(ctx, `
		SELECT `+viewCols+` FROM saved_views WHERE id=$1`, id), &v)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *SavedViewRepo) Create(ctx context.Context, v *models.SavedView) error {
	raw, err := json.Marshal(v.Filters)
	if err != nil {
		return err
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO saved_views (user_id, name, view_type, filters, is_default)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at
	`, v.UserID, v.Name, string(v.ViewType), raw, v.IsDefault).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	return apperr.FromPg(err, viewConflict)
}

func (r *SavedViewRepo) UpdateFilters(ctx context.Context, id, name string, filters map[string]any) (*models.SavedView, error) {
	raw, err := json.Marshal(filters)
	if err != nil {
		return nil, err
	}
	var v models.SavedView
	err = scanView(r.db.QueryRow(ctx, `
		UPDATE saved_views
		SET name=$1, filters=$2, updated_at=now()
		WHERE id=$3
		RETURNING `+viewCols, name, raw, id), &v)
	if err != nil {
		return nil, apperr.FromPg(err, viewConflict)
	}
	return &v, nil
}

func (r *SavedViewRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM saved_views WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "view not found")
	}
	return nil
}

// SetDefault makes viewID the only default for (user, viewType) with a single
// conditional update: every row in the pair is rewritten in one statement, so
// there is no point at which two rows (or a stale one) carry the flag.
func (r *SavedViewRepo) SetDefault(ctx context.Context, userID string, viewType models.ItemKind, viewID string) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE saved_views
		SET is_default = (id = $3), updated_at = now()
		WHERE user_id = $1 AND view_type = $2
	`, userID, string(viewType), viewID)
	if err != nil {
		return apperr.FromPg(err, viewConflict)
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "view not found")
	}
	return nil
}
