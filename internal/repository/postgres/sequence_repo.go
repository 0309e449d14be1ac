package postgres

import (
	"context"
	"time"

	"reportdesk/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SequenceRepo struct{ db *pgxpool.Pool }

func NewSequenceRepo(db *pgxpool.Pool) repository.SequenceRepository {
	return &SequenceRepo{db: db}
}

// NextSeq bumps the per-(model, day) counter in a single upsert. Concurrent
// callers for the same day serialize on the counter row's lock, so the
// returned sequence numbers are distinct and contiguous.
func (r *SequenceRepo) NextSeq(ctx context.Context, model string, day time.Time) (int, error) {
	var seq int
	err := r.db.QueryRow(ctx, `
		INSERT INTO day_sequences (model_name, day, seq)
		VALUES ($1, $2::date, 1)
		ON CONFLICT (model_name, day)
		DO UPDATE SET seq = day_sequences.seq + 1
		RETURNING seq
	`, model, day.Format("2006-01-02")).Scan(&seq)
	return seq, err
}
