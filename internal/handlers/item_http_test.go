package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"reportdesk/internal/middleware"
	"reportdesk/internal/models"
	"reportdesk/internal/repository"
	"reportdesk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type fakeItemRepo struct {
	mu     sync.Mutex
	nextID int
	items  map[string]*models.WorkItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]*models.WorkItem{}}
}

func (f *fakeItemRepo) List(ctx context.Context, fl repository.WorkItemFilter) ([]models.WorkItem, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.WorkItem
	for _, it := range f.items {
		if len(fl.CreatorIDs) > 0 {
			match := false
			for _, c := range fl.CreatorIDs {
				if it.CreatedBy == c {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *it)
	}
	return out, len(out), nil
}

func (f *fakeItemRepo) Get(ctx context.Context, id string) (*models.WorkItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (f *fakeItemRepo) Create(ctx context.Context, it *models.WorkItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	it.ID = strconv.Itoa(f.nextID)
	it.CreatedAt = time.Now()
	cp := *it
	f.items[it.ID] = &cp
	return nil
}

func (f *fakeItemRepo) Update(ctx context.Context, it *models.WorkItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *it
	f.items[it.ID] = &cp
	return nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepo) AddComment(ctx context.Context, itemID, authorID, text string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return nil, nil
	}
	c := models.Comment{ID: "c" + strconv.Itoa(len(it.Comments)+1), ItemID: itemID, AuthorID: authorID, Text: text}
	it.Comments = append(it.Comments, c)
	return &c, nil
}

func (f *fakeItemRepo) AddAttachment(ctx context.Context, itemID, fileName, url string) (*models.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return nil, nil
	}
	a := models.Attachment{ID: "a" + strconv.Itoa(len(it.Attachments)+1), ItemID: itemID, FileName: fileName, URL: url}
	it.Attachments = append(it.Attachments, a)
	return &a, nil
}

func (f *fakeItemRepo) CountByStatus(ctx context.Context, statuses []string, inclusive bool) (int, error) {
	return 0, nil
}
func (f *fakeItemRepo) CountResolvedSince(ctx context.Context, since time.Time) (int, error) {
	return 0, nil
}
func (f *fakeItemRepo) CountOpenByPriorities(ctx context.Context, prios []string) (int, error) {
	return 0, nil
}

type fakeSeqStore struct {
	mu   sync.Mutex
	seqs map[string]int
}

func (f *fakeSeqStore) NextSeq(ctx context.Context, model string, day time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seqs == nil {
		f.seqs = map[string]int{}
	}
	key := model + "/" + day.Format("2006-01-02")
	f.seqs[key]++
	return f.seqs[key], nil
}

type fakeNotifyStore struct {
	mu   sync.Mutex
	rows []models.Notification
}

func (f *fakeNotifyStore) Create(ctx context.Context, userID, title, message, relatedEntityID string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := models.Notification{ID: strconv.Itoa(len(f.rows) + 1), UserID: userID, Title: title, Message: message, RelatedEntityID: relatedEntityID}
	f.rows = append(f.rows, n)
	return &n, nil
}

func (f *fakeNotifyStore) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int, error) {
	return nil, 0, nil
}
func (f *fakeNotifyStore) MarkRead(ctx context.Context, id, userID string) error { return nil }
func (f *fakeNotifyStore) MarkAllRead(ctx context.Context, userID string) error  { return nil }

type itemFixture struct {
	h       *ItemHTTP
	items   *fakeItemRepo
	notices *fakeNotifyStore
}

func newReportFixture() itemFixture {
	items := newFakeItemRepo()
	notices := &fakeNotifyStore{}
	notifier := service.NewNotifier(notices, nil, zerolog.Nop())
	seq := service.NewSequenceService(&fakeSeqStore{})
	return itemFixture{
		h:       NewReportHTTP(items, notifier, seq, "VIEW_REPORTS"),
		items:   items,
		notices: notices,
	}
}

func asUser(r *http.Request, uid string, perms ...string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.CtxUserID, uid)
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	ctx = context.WithValue(ctx, middleware.CtxPermissions, set)
	return r.WithContext(ctx)
}

func TestCreateReportAssignsSequentialID(t *testing.T) {
	t.Parallel()

	fx := newReportFixture()
	prefix := "R" + time.Now().Format("060102")

	for i, wantSeq := range []string{"00001", "00002"} {
		req := httptest.NewRequest(http.MethodPost, "/api/reports",
			strings.NewReader(`{"title":"Leaky pipe"}`))
		rec := httptest.NewRecorder()
		fx.h.Create()(rec, asUser(req, "u1"))

		if rec.Code != http.StatusCreated {
			t.Fatalf("create %d: status %d, body %s", i, rec.Code, rec.Body.String())
		}
		var env struct {
			Success bool            `json:"success"`
			Data    models.WorkItem `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if want := prefix + wantSeq; env.Data.HumanID != want {
			t.Errorf("humanId = %q, want %q", env.Data.HumanID, want)
		}
		if env.Data.Status != models.StatusPending {
			t.Errorf("status = %q, want PENDING", env.Data.Status)
		}
		if env.Data.Priority != models.PriorityMedium {
			t.Errorf("priority = %q, want default MEDIUM", env.Data.Priority)
		}
	}
}

func TestCreateReportWithAssigneeNotifiesOnce(t *testing.T) {
	t.Parallel()

	fx := newReportFixture()
	req := httptest.NewRequest(http.MethodPost, "/api/reports",
		strings.NewReader(`{"title":"Broken window","assigneeId":"u9"}`))
	rec := httptest.NewRecorder()
	fx.h.Create()(rec, asUser(req, "u1"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	if len(fx.notices.rows) != 1 {
		t.Fatalf("%d notifications written, want exactly 1", len(fx.notices.rows))
	}
	if fx.notices.rows[0].UserID != "u9" {
		t.Errorf("notification to %q, want u9", fx.notices.rows[0].UserID)
	}
}

func TestCreateReportWithoutAssigneeNotifiesNobody(t *testing.T) {
	t.Parallel()

	fx := newReportFixture()
	req := httptest.NewRequest(http.MethodPost, "/api/reports",
		strings.NewReader(`{"title":"No assignee yet"}`))
	rec := httptest.NewRecorder()
	fx.h.Create()(rec, asUser(req, "u1"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d", rec.Code)
	}
	if len(fx.notices.rows) != 0 {
		t.Errorf("unexpected notifications: %v", fx.notices.rows)
	}
}

func TestCreateReportValidation(t *testing.T) {
	t.Parallel()

	fx := newReportFixture()
	for _, body := range []string{
		`{"title":"   "}`,
		`{"title":"ok","priority":"URGENT-ISH"}`,
		`not json`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(body))
		rec := httptest.NewRecorder()
		fx.h.Create()(rec, asUser(req, "u1"))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status %d, want 400", body, rec.Code)
		}
	}
}

func TestListScopesToCreatorWithoutViewPermission(t *testing.T) {
	t.Parallel()

	fx := newReportFixture()
	seedItem := func(createdBy string) {
		t.Helper()
		if err := fx.items.Create(context.Background(), &models.WorkItem{Title: "x", CreatedBy: createdBy}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	seedItem("u1")
	seedItem("u1")
	seedItem("u2")

	list := func(uid string, perms ...string) int {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
		rec := httptest.NewRecorder()
		fx.h.List()(rec, asUser(req, uid, perms...))
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d", rec.Code)
		}
		var env struct {
			Data struct {
				Total int `json:"total"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return env.Data.Total
	}

	if got := list("u1"); got != 2 {
		t.Errorf("creator-scoped list total = %d, want 2", got)
	}
	if got := list("u1", "VIEW_REPORTS"); got != 3 {
		t.Errorf("privileged list total = %d, want 3", got)
	}
}

func TestUpdateStatusNotifiesCreator(t *testing.T) {
	t.Parallel()

	fx := newReportFixture()
	it := &models.WorkItem{Title: "Flickering light", Status: models.StatusPending, CreatedBy: "u1", HumanID: "R26090100001"}
	if err := fx.items.Create(context.Background(), it); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/reports/"+it.ID,
		strings.NewReader(`{"status":"RESOLVED"}`))
	rec := httptest.NewRecorder()
	fx.h.Update()(rec, withURLParam(asUser(req, "u2"), "id", it.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	stored, _ := fx.items.Get(context.Background(), it.ID)
	if stored.Status != models.StatusResolved {
		t.Errorf("stored status = %q, want RESOLVED", stored.Status)
	}
	if len(fx.notices.rows) != 1 || fx.notices.rows[0].UserID != "u1" {
		t.Errorf("creator not notified: %v", fx.notices.rows)
	}
	// Title untouched by the partial update.
	if stored.Title != "Flickering light" {
		t.Errorf("title changed to %q", stored.Title)
	}
}
