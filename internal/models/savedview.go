package models

import "time"

// SavedView is a named, persisted filter preset for a list view.
// At most one view per (user, viewType) carries IsDefault.
type SavedView struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Name      string         `json:"name"`
	ViewType  ItemKind       `json:"viewType"`
	Filters   map[string]any `json:"filters"`
	IsDefault bool           `json:"isDefault"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
