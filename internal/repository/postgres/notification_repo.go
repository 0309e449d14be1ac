package postgres

import (
	"context"

	"reportdesk/internal/apperr"
	"reportdesk/internal/models"
	"reportdesk/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepo struct{ db *pgxpool.Pool }

func NewNotificationRepo(db *pgxpool.Pool) repository.NotificationRepository {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, userID, title, message, relatedEntityID string) (*models.Notification, error) {
	var n models.Notification
	err := r.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, title, message, related_entity_id)
		VALUES ($1,$2,$3,$4)
		RETURNING id, user_id, title, message, COALESCE(related_entity_id::text, ''), read, created_at
	`, userID, title, message, nullIfEmpty(relatedEntityID)).
		Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.RelatedEntityID, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, apperr.FromPg(err, nil)
	}
	return &n, nil
}

func (r *NotificationRepo) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	cond := `user_id=$1`
	if unreadOnly {
		cond += ` AND NOT read`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE `+cond, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, message, COALESCE(related_entity_id::text, ''), read, created_at
		FROM notifications
		WHERE `+cond+`
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.RelatedEntityID, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE notifications SET read=true WHERE id=$1 AND user_id=$2
	`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.New(apperr.NotFound, "notification not found")
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `UPDATE notifications SET read=true WHERE user_id=$1 AND NOT read`, userID)
	return err
}
