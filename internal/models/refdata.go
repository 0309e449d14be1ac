package models

import "time"

// RefEntry is reference data with an optional parent; names are unique per
// (name, parentId). Categories and locations share the shape, so both are
// aliases over it.
type RefEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Category = RefEntry

type Location = RefEntry
