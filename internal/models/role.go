package models

type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UserRole links a user to a role. Exactly one link per user carries
// IsPrimary; the service layer replaces all links atomically to keep it so.
type UserRole struct {
	UserID    string `json:"userId"`
	RoleID    string `json:"roleId"`
	RoleName  string `json:"roleName"`
	IsPrimary bool   `json:"isPrimary"`
}
