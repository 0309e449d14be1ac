package service

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeSeqRepo struct {
	mu       sync.Mutex
	counters map[string]int
}

func newFakeSeqRepo() *fakeSeqRepo {
	return &fakeSeqRepo{counters: map[string]int{}}
}

func (f *fakeSeqRepo) NextSeq(ctx context.Context, model string, day time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := model + "|" + day.Format("2006-01-02")
	f.counters[key]++
	return f.counters[key], nil
}

func TestFormatHumanID(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		prefix string
		seq    int
		want   string
	}{
		{PrefixReport, 1, "R26090100001"},
		{PrefixReport, 12, "R26090100012"},
		{PrefixTicket, 99999, "W26090199999"},
	}
	for _, c := range cases {
		if got := FormatHumanID(c.prefix, day, c.seq); got != c.want {
			t.Errorf("FormatHumanID(%q, %d) = %q, want %q", c.prefix, c.seq, got, c.want)
		}
	}
}

func TestSequenceNextDistinctAndContiguous(t *testing.T) {
	t.Parallel()

	svc := NewSequenceService(newFakeSeqRepo())
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := svc.Next(context.Background(), SeqModelReport, PrefixReport, day)
			if err != nil {
				t.Errorf("Next: %v", err)
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("got %d distinct ids, want %d", len(seen), n)
	}
	// Contiguous: every sequence 1..n must be present.
	for i := 1; i <= n; i++ {
		if !seen[FormatHumanID(PrefixReport, day, i)] {
			t.Errorf("sequence %d missing", i)
		}
	}
}

func TestSequenceScopedByDayAndModel(t *testing.T) {
	t.Parallel()

	svc := NewSequenceService(newFakeSeqRepo())
	d1 := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	a, _ := svc.Next(context.Background(), SeqModelReport, PrefixReport, d1)
	b, _ := svc.Next(context.Background(), SeqModelReport, PrefixReport, d2)
	c, _ := svc.Next(context.Background(), SeqModelTicket, PrefixTicket, d1)

	if a != "R26090100001" {
		t.Errorf("first report id = %q", a)
	}
	if b != "R26090200001" {
		t.Errorf("next-day counter did not restart: %q", b)
	}
	if c != "W26090100001" {
		t.Errorf("ticket counter shared with reports: %q", c)
	}
}
