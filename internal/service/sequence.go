package service

import (
	"context"
	"fmt"
	"time"

	"reportdesk/internal/repository"
)

// Sequence model names and their human-id prefixes.
const (
	SeqModelReport = "report"
	SeqModelTicket = "ticket"

	PrefixReport = "R"
	PrefixTicket = "W"
)

// SequenceService issues day-scoped human-readable ids of the form
// <prefix><yy><mmdd><5-digit sequence>, e.g. R26090100012.
type SequenceService struct {
	seqs repository.SequenceRepository
}

func NewSequenceService(seqs repository.SequenceRepository) *SequenceService {
	return &SequenceService{seqs: seqs}
}

func (s *SequenceService) Next(ctx context.Context, model, prefix string, t time.Time) (string, error) {
	seq, err := s.seqs.NextSeq(ctx, model, t)
	if err != nil {
		return "", err
	}
	return FormatHumanID(prefix, t, seq), nil
}

// FormatHumanID renders prefix + yy + mmdd + zero-padded sequence.
func FormatHumanID(prefix string, t time.Time, seq int) string {
	return fmt.Sprintf("%s%s%05d", prefix, t.Format("060102"), seq)
}
