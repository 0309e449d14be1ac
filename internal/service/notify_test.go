package service

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"reportdesk/internal/models"

	"github.com/rs/zerolog"
)

type fakeNotificationRepo struct {
	mu     sync.Mutex
	nextID int
	rows   []models.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, userID, title, message, relatedEntityID string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	n := models.Notification{
		ID:              "n" + strconv.Itoa(f.nextID),
		UserID:          userID,
		Title:           title,
		Message:         message,
		RelatedEntityID: relatedEntityID,
	}
	f.rows = append(f.rows, n)
	return &n, nil
}

func (f *fakeNotificationRepo) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.rows {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, n)
		}
	}
	return out, len(out), nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].UserID == userID {
			f.rows[i].Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].UserID == userID {
			f.rows[i].Read = true
		}
	}
	return nil
}

func TestNotifyAssignmentWritesOneRow(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{}
	// nil producer: the row write alone is the contract.
	n := NewNotifier(repo, nil, zerolog.Nop())

	it := &models.WorkItem{ID: "42", HumanID: "R26090100001", Title: "Broken door"}
	if err := n.NotifyAssignment(context.Background(), "u7", it); err != nil {
		t.Fatalf("NotifyAssignment: %v", err)
	}

	rows, total, err := repo.ListForUser(context.Background(), "u7", false, 50, 0)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if total != 1 {
		t.Fatalf("got %d notifications, want exactly 1", total)
	}
	if rows[0].RelatedEntityID != "42" {
		t.Errorf("relatedEntityId = %q, want 42", rows[0].RelatedEntityID)
	}
	if rows[0].Message != "R26090100001: Broken door" {
		t.Errorf("message = %q", rows[0].Message)
	}
}

func TestNotifyAssignmentSkipsUnassigned(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{}
	n := NewNotifier(repo, nil, zerolog.Nop())

	if err := n.NotifyAssignment(context.Background(), "", &models.WorkItem{ID: "1"}); err != nil {
		t.Fatalf("NotifyAssignment: %v", err)
	}
	if len(repo.rows) != 0 {
		t.Errorf("notification written without an assignee: %v", repo.rows)
	}
}

func TestNotifyStatusChangeTargetsCreator(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{}
	n := NewNotifier(repo, nil, zerolog.Nop())

	it := &models.WorkItem{ID: "9", HumanID: "W26090100004", CreatedBy: "u3", Status: models.StatusResolved}
	if err := n.NotifyStatusChange(context.Background(), it); err != nil {
		t.Fatalf("NotifyStatusChange: %v", err)
	}
	rows, _, _ := repo.ListForUser(context.Background(), "u3", false, 50, 0)
	if len(rows) != 1 {
		t.Fatalf("got %d notifications for creator, want 1", len(rows))
	}
	if rows[0].Message != "W26090100004 is now RESOLVED" {
		t.Errorf("message = %q", rows[0].Message)
	}
}
