package service

import (
	"context"
	"strings"

	"reportdesk/internal/apperr"
	"reportdesk/internal/models"
	"reportdesk/internal/repository"
	"reportdesk/internal/savedviews"
)

// ViewService owns saved views: filters are reconciled to the canonical
// shape on every read, views persisted in a legacy shape are rewritten the
// first time they are seen, and the single-default invariant is enforced by
// the store's conditional update.
type ViewService struct {
	views repository.SavedViewRepository
}

func NewViewService(views repository.SavedViewRepository) *ViewService {
	return &ViewService{views: views}
}

func (s *ViewService) ListForUser(ctx context.Context, userID string, viewType models.ItemKind) ([]models.SavedView, error) {
	out, err := s.views.ListForUser(ctx, userID, viewType)
	if err != nil {
		return nil, err
	}
	for i := range out {
		reconciled, migrated := savedviews.Reconcile(out[i].ViewType, out[i].Filters)
		out[i].Filters = reconciled
		if migrated {
			// Rewrite so the stored copy is canonical from now on. A
			// failure here only delays the migration to the next read.
			if _, err := s.views.UpdateFilters(ctx, out[i].ID, out[i].Name, reconciled); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (s *ViewService) Create(ctx context.Context, userID, name string, viewType models.ItemKind, filters map[string]any, isDefault bool) (*models.SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.Validation, "view name is required")
	}
	if viewType != models.KindReport && viewType != models.KindTicket {
		return nil, apperr.New(apperr.Validation, "viewType must be REPORT or TICKET")
	}
	reconciled, _ := savedviews.Reconcile(viewType, filters)

	v := &models.SavedView{
		UserID:   userID,
		Name:     name,
		ViewType: viewType,
		Filters:  reconciled,
	}
	if err := s.views.Create(ctx, v); err != nil {
		return nil, err
	}
	if isDefault {
		if err := s.views.SetDefault(ctx, userID, viewType, v.ID); err != nil {
			return nil, err
		}
		v.IsDefault = true
	}
	return v, nil
}

func (s *ViewService) Update(ctx context.Context, userID, viewID, name string, filters map[string]any) (*models.SavedView, error) {
	v, err := s.owned(ctx, userID, viewID)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name == "" {
		name = v.Name
	}
	// A nil filter map means the field was not sent; keep the stored
	// filters rather than overwrite them with an empty set.
	if filters == nil {
		filters = v.Filters
	}
	reconciled, _ := savedviews.Reconcile(v.ViewType, filters)
	return s.views.UpdateFilters(ctx, viewID, name, reconciled)
}

func (s *ViewService) Delete(ctx context.Context, userID, viewID string) error {
	if _, err := s.owned(ctx, userID, viewID); err != nil {
		return err
	}
	return s.views.Delete(ctx, viewID)
}

// SetDefault makes the view the single default for its (user, viewType).
func (s *ViewService) SetDefault(ctx context.Context, userID, viewID string) error {
	v, err := s.owned(ctx, userID, viewID)
	if err != nil {
		return err
	}
	return s.views.SetDefault(ctx, userID, v.ViewType, viewID)
}

func (s *ViewService) owned(ctx context.Context, userID, viewID string) (*models.SavedView, error) {
	v, err := s.views.Get(ctx, viewID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.New(apperr.NotFound, "view not found")
	}
	if v.UserID != userID {
		return nil, apperr.New(apperr.Forbidden, "not your view")
	}
	return v, nil
}
