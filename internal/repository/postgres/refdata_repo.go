package postgres

import (
	"context"
	"strings"

	"reportdesk/internal/apperr"
	"reportdesk/internal/models"
	"reportdesk/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RefDataRepo serves one reference-data table (categories or locations);
// refCol is the column work-item tables use to reference it, checked before
// delete.
type RefDataRepo struct {
	db     *pgxpool.Pool
	table  string
	refCol string
}

func NewCategoryRepo(db *pgxpool.Pool) repository.RefDataRepository {
	return &RefDataRepo{db: db, table: "categories", refCol: "category_id"}
}

func NewLocationRepo(db *pgxpool.Pool) repository.RefDataRepository {
	return &RefDataRepo{db: db, table: "locations", refCol: "location_id"}
}

func refConflict(constraint string) string {
	if strings.Contains(constraint, "name") {
		return "name already exists under this parent"
	}
	return ""
}

func (r *RefDataRepo) List(ctx context.Context) ([]models.RefEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, COALESCE(parent_id::text, ''), created_at
		FROM `+r.table+`
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.RefEntry
	for rows.Next() {
		var e models.RefEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.ParentID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *RefDataRepo) Create(ctx context.Context, name, parentID string) (*models.RefEntry, error) {
	var e models.RefEntry
	err := r.db.QueryRow(ctx, `
		INSERT INTO `+r.table+` (name, parent_id)
		VALUES ($1,$2)
		RETURNING id, name, COALESCE(parent_id::text, ''), created_at
	`, name, nullIfEmpty(parentID)).
		Scan(&e.ID, &e.Name, &e.ParentID, &e.CreatedAt)
	if err != nil {
		return nil, apperr.FromPg(err, refConflict)
	}
	return &e, nil
}

func (r *RefDataRepo) Update(ctx context.Context, id, name string) (*models.RefEntry, error) {
	var e models.RefEntry
	err := r.db.QueryRow(ctx, `
		UPDATE `+r.table+`
		SET name=$1
		WHERE id=$2
		RETURNING id, name, COALESCE(parent_id::text, ''), created_at
	`, name, id).Scan(&e.ID, &e.Name, &e.ParentID, &e.CreatedAt)
	if err != nil {
		return nil, apperr.FromPg(err, refConflict)
	}
	return &e, nil
}

// Delete refuses while tickets, reports or child entries still reference the
// row.
func (r *RefDataRepo) Delete(ctx context.Context, id string) error {
	var inUse bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM tickets WHERE `+r.refCol+`=$1)
		    OR EXISTS (SELECT 1 FROM reports WHERE `+r.refCol+`=$1)
		    OR EXISTS (SELECT 1 FROM `+r.table+` WHERE parent_id=$1)
	`, id).Scan(&inUse)
	if err != nil {
		return err
	}
	if inUse {
		return apperr.New(apperr.Conflict, "entry is still referenced")
	}

	ct, err := r.db.Exec(ctx, `DELETE FROM `+r.table+` WHERE id=$1`, id)
	if err != nil {
		return apperr.FromPg(err, nil)
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "entry not found")
	}
	return nil
}
