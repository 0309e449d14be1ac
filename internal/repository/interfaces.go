package repository

import (
	"context"
	"time"

	"reportdesk/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, email, name, role string, passwordHash *string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, *string /*passwordHash*/, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, q, role string, includeDeleted bool, limit, offset int) ([]models.User, int, error)
	UpdateBasic(ctx context.Context, id, name string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	SoftDelete(ctx context.Context, id string) error
}

type RoleRepository interface {
	ListRoles(ctx context.Context) ([]models.Role, error)
	CreateRole(ctx context.Context, name, description string) (*models.Role, error)
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
	// GetPermissionsForRole returns an empty set, never nil, for unknown roles.
	GetPermissionsForRole(ctx context.Context, roleName string) ([]string, error)
	// ReplacePermissions swaps the whole permission set in one transaction.
	ReplacePermissions(ctx context.Context, roleName string, permissionNames []string) error
	// PermissionsForRoles unions permission names across the given roles.
	PermissionsForRoles(ctx context.Context, roleNames []string) (map[string]struct{}, error)
	GetEffectivePermissions(ctx context.Context, userID string) ([]string, error)
	RolesForUser(ctx context.Context, userID string) ([]models.UserRole, error)
	// ReplaceUserRoles atomically rewrites a user's role links; exactly one
	// link (the primary) ends up with is_primary set, and users.role is
	// mirrored to the primary role name in the same transaction.
	ReplaceUserRoles(ctx context.Context, userID, primaryRole string, additionalRoles []string) error
}

type WorkItemRepository interface {
	List(ctx context.Context, f WorkItemFilter) ([]models.WorkItem, int, error)
	Get(ctx context.Context, id string) (*models.WorkItem, error)
	Create(ctx context.Context, it *models.WorkItem) error
	Update(ctx context.Context, it *models.WorkItem) error
	// Delete removes the item and its comments, attachments and
	// notifications in one transaction.
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, itemID, authorID, text string) (*models.Comment, error)
	AddAttachment(ctx context.Context, itemID, fileName, url string) (*models.Attachment, error)
	CountByStatus(ctx context.Context, statuses []string, inclusive bool) (int, error)
	CountResolvedSince(ctx context.Context, since time.Time) (int, error)
	CountOpenByPriorities(ctx context.Context, prios []string) (int, error)
}

type SavedViewRepository interface {
	ListForUser(ctx context.Context, userID string, viewType models.ItemKind) ([]models.SavedView, error)
	Get(ctx context.Context, id string) (*models.SavedView, error)
	Create(ctx context.Context, v *models.SavedView) error
	UpdateFilters(ctx context.Context, id, name string, filters map[string]any) (*models.SavedView, error)
	Delete(ctx context.Context, id string) error
	// SetDefault flips the default flag for a (user, viewType) pair in a
	// single conditional update so there is no window with two defaults.
	SetDefault(ctx context.Context, userID string, viewType models.ItemKind, viewID string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, userID, title, message, relatedEntityID string) (*models.Notification, error)
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type RefDataRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, name, parentID string) (*models.Category, error)
	Update(ctx context.Context, id, name string) (*models.Category, error)
	// Delete fails with Conflict while work items still reference the row.
	Delete(ctx context.Context, id string) error
}

type SequenceRepository interface {
	// NextSeq increments and returns the counter for (model, day),
	// creating it at 1. Concurrent callers serialize on the counter row.
	NextSeq(ctx context.Context, model string, day time.Time) (int, error)
}
