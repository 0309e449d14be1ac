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

// WorkItemRepo serves one of the two work-item tables; tickets and reports
// share the same shape, so the table names are parameters.
type WorkItemRepo struct {
	db          *pgxpool.Pool
	table       string
	comments    string
	attachments string
}

func NewTicketRepo(db *pgxpool.Pool) *WorkItemRepo {
	return &WorkItemRepo{db: db, table: "tickets", comments: "ticket_comments", attachments: "ticket_attachments"}
}

func NewReportRepo(db *pgxpool.Pool) *WorkItemRepo {
	return &WorkItemRepo{db: db, table: "reports", comments: "report_comments", attachments: "report_attachments"}
}

var _ repository.WorkItemRepository = (*WorkItemRepo)(nil)

const itemCols = `
	t.id, t.human_id, t.title, t.description, t.status, t.priority,
	COALESCE(t.category_id::text, ''), COALESCE(t.location_id::text, ''),
	t.created_by, COALESCE(t.assignee_id::text, ''), t.created_at, t.updated_at,
	COALESCE(u.name, ''), COALESCE(u.email, '')`

func scanItem(row pgx.Row, t *models.WorkItem) error {
	return row.Scan(
		&t.ID, &t.HumanID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.CategoryID, &t.LocationID, &t.CreatedBy, &t.AssigneeID,
		&t.CreatedAt, &t.UpdatedAt, &t.AssigneeName, &t.AssigneeEmail,
	)
}

// buildWhere composes the WHERE clause and args for list queries.
func buildWhere(f repository.WorkItemFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if s := strings.TrimSpace(f.Search); s != "" {
		p := "%" + s + "%"
		args = append(args, p, p)
		clauses = append(clauses, "(t.title ILIKE $"+itoa(len(args)-1)+" OR t.description ILIKE $"+itoa(len(args))+")")
	}
	set := func(col string, vals []string) {
		if len(vals) == 0 {
			return
		}
		args = append(args, vals)
		clauses = append(clauses, "t."+col+" = ANY($"+itoa(len(args))+")")
	}
	set("status", f.Status)
	set("priority", f.Priority)
	if len(f.CreatorIDs) > 0 {
		args = append(args, f.CreatorIDs)
		clauses = append(clauses, "t.created_by::text = ANY($"+itoa(len(args))+")")
	}
	if len(f.AssigneeIDs) > 0 {
		args = append(args, f.AssigneeIDs)
		clauses = append(clauses, "t.assignee_id::text = ANY($"+itoa(len(args))+")")
	}
	if len(f.CategoryIDs) > 0 {
		args = append(args, f.CategoryIDs)
		clauses = append(clauses, "t.category_id::text = ANY($"+itoa(len(args))+")")
	}
	if len(f.LocationIDs) > 0 {
		args = append(args, f.LocationIDs)
		clauses = append(clauses, "t.location_id::text = ANY($"+itoa(len(args))+")")
	}
	if s := strings.TrimSpace(f.DateFrom); s != "" {
		args = append(args, s)
		clauses = append(clauses, "t.created_at >= $"+itoa(len(args))+"::timestamptz")
	}
	if s := strings.TrimSpace(f.DateTo); s != "" {
		args = append(args, s)
		clauses = append(clauses, "t.created_at <= $"+itoa(len(args))+"::timestamptz")
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *WorkItemRepo) List(ctx context.Context, f repository.WorkItemFilter) ([]models.WorkItem, int, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	whereSQL, args := buildWhere(f)

	countSQL := `SELECT COUNT(*) FROM ` + r.table + ` t ` + whereSQL
	var total int
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol := sanitizeSort(f.Sort, "updated_at")
	sortOrd := sanitizeOrder(f.Order, "desc")

	sql := fmt.Sprintf(`
		SELECT %s
		FROM %s t
		LEFT JOIN users u ON u.id = t.assignee_id
		%s
		ORDER BY t.%s %s
		LIMIT $%d OFFSET $%d
	`, itemCols, r.table, whereSQL, sortCol, sortOrd, len(args)+1, len(args)+2)

	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.WorkItem
	for rows.Next() {
		var t models.WorkItem
		if err := scanItem(rows, &t); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *WorkItemRepo) Get(ctx context.Context, id string) (*models.WorkItem, error) {
	var t models.WorkItem
	err := scanItem(r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s
		FROM %s t
		LEFT JOIN users u ON u.id = t.assignee_id
		WHERE t.id = $1
	`, itemCols, r.table), id), &t)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.item_id, c.author_id, COALESCE(u.name, ''), c.text, c.created_at
		FROM `+r.comments+` c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.item_id = $1
		ORDER BY c.created_at ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		t.Comments = append(t.Comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	arows, err := r.db.Query(ctx, `
		SELECT id, item_id, file_name, url, created_at
		FROM `+r.attachments+`
		WHERE item_id = $1
		ORDER BY created_at ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var a models.Attachment
		if err := arows.Scan(&a.ID, &a.ItemID, &a.FileName, &a.URL, &a.CreatedAt); err != nil {
			return nil, err
		}
		t.Attachments = append(t.Attachments, a)
	}
	return &t, arows.Err()
}

func (r *WorkItemRepo) Create(ctx context.Context, t *models.WorkItem) error {
	now := time.Now()
	err := r.db.QueryRow(ctx, `
		INSERT INTO `+r.table+` (human_id, title, description, status, priority, category_id, location_id, created_by, assignee_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at
	`,
		t.HumanID, t.Title, t.Description, t.Status, t.Priority,
		nullIfEmpty(t.CategoryID), nullIfEmpty(t.LocationID), t.CreatedBy, nullIfEmpty(t.AssigneeID), now, now,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return apperr.FromPg(err, nil)
}

func (r *WorkItemRepo) Update(ctx context.Context, t *models.WorkItem) error {
	t.UpdatedAt = time.Now()
	ct, err := r.db.Exec(ctx, `
		UPDATE `+r.table+` SET
			title=$1, description=$2, status=$3, priority=$4, category_id=$5, location_id=$6, assignee_id=$7, updated_at=$8
		WHERE id=$9
	`,
		t.Title, t.Description, t.Status, t.Priority,
		nullIfEmpty(t.CategoryID), nullIfEmpty(t.LocationID), nullIfEmpty(t.AssigneeID), t.UpdatedAt, t.ID,
	)
	if err != nil {
		return apperr.FromPg(err, nil)
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "not found")
	}
	return nil
}

// Delete removes the item with its comments, attachments and notifications
// in one transaction.
func (r *WorkItemRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM `+r.comments+` WHERE item_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM `+r.attachments+` WHERE item_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM notifications WHERE related_entity_id=$1`, id); err != nil {
		return err
	}
	ct, err := tx.Exec(ctx, `DELETE FROM `+r.table+` WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "not found")
	}
	return tx.Commit(ctx)
}

func (r *WorkItemRepo) AddComment(ctx context.Context, itemID, authorID, text string) (*models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRow(ctx, `
		INSERT INTO `+r.comments+` (item_id, author_id, text)
		VALUES ($1,$2,$3)
		RETURNING id, item_id, author_id, text, created_at
	`, itemID, authorID, text).Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.Text, &c.CreatedAt)
	if err != nil {
		return nil, apperr.FromPg(err, nil)
	}
	return &c, nil
}

func (r *WorkItemRepo) AddAttachment(ctx context.Context, itemID, fileName, url string) (*models.Attachment, error) {
	var a models.Attachment
	err := r.db.QueryRow(ctx, `
		INSERT INTO `+r.attachments+` (item_id, file_name, url)
		VALUES ($1,$2,$3)
		RETURNING id, item_id, file_name, url, created_at
	`, itemID, fileName, url).Scan(&a.ID, &a.ItemID, &a.FileName, &a.URL, &a.CreatedAt)
	if err != nil {
		return nil, apperr.FromPg(err, nil)
	}
	return &a, nil
}

// CountByStatus counts items IN (inclusive) or NOT IN the given statuses.
func (r *WorkItemRepo) CountByStatus(ctx context.Context, statuses []string, inclusive bool) (int, error) {
	op := "NOT IN"
	if inclusive {
		op = "IN"
	}
	sql := `SELECT COUNT(*) FROM ` + r.table + ` WHERE status ` + op + ` (SELECT UNNEST($1::text[]))`
	var n int
	if err := r.db.QueryRow(ctx, sql, statuses).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *WorkItemRepo) CountResolvedSince(ctx context.Context, since time.Time) (int, error) {
	sql := `SELECT COUNT(*) FROM ` + r.table + ` WHERE status IN ('RESOLVED','CLOSED') AND updated_at >= $1`
	var n int
	if err := r.db.QueryRow(ctx, sql, since).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *WorkItemRepo) CountOpenByPriorities(ctx context.Context, prios []string) (int, error) {
	sql := `SELECT COUNT(*) FROM ` + r.table + ` WHERE status NOT IN ('RESOLVED','CLOSED') AND priority = ANY($1)`
	var n int
	if err := r.db.QueryRow(ctx, sql, prios).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
