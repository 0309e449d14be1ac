package models

import "time"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	// Role mirrors the primary role for older clients. Authorization
	// decisions read the user_roles relation, never this field.
	Role      string     `json:"role"`
	Roles     []UserRole `json:"roles,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

func (u *User) Active() bool { return u.DeletedAt == nil }
