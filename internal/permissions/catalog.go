// Package permissions holds the static permission catalog and the
// default role to permission mappings used to seed and reset roles.
package permissions

// Permission names. The catalog is closed: a name not listed here is
// rejected whenever a role's permission set is replaced.
const (
	ViewTickets   = "VIEW_TICKETS"
	CreateTickets = "CREATE_TICKETS"
	EditTickets   = "EDIT_TICKETS"
	DeleteTickets = "DELETE_TICKETS"
	AssignTickets = "ASSIGN_TICKETS"

	ViewReports   = "VIEW_REPORTS"
	CreateReports = "CREATE_REPORTS"
	EditReports   = "EDIT_REPORTS"
	DeleteReports = "DELETE_REPORTS"
	AssignReports = "ASSIGN_REPORTS"

	ManageUsers       = "MANAGE_USERS"
	ManageRoles       = "MANAGE_ROLES"
	ManageCategories  = "MANAGE_CATEGORIES"
	ManageLocations   = "MANAGE_LOCATIONS"
	ViewNotifications = "VIEW_NOTIFICATIONS"
	ManageViews       = "MANAGE_VIEWS"
)

// Built-in role names.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleAgent   = "agent"
	RoleUser    = "user"
)

var all = []string{
	ViewTickets, CreateTickets, EditTickets, DeleteTickets, AssignTickets,
	ViewReports, CreateReports, EditReports, DeleteReports, AssignReports,
	ManageUsers, ManageRoles, ManageCategories, ManageLocations,
	ViewNotifications, ManageViews,
}

var catalog = func() map[string]struct{} {
	m := make(map[string]struct{}, len(all))
	for _, p := range all {
		m[p] = struct{}{}
	}
	return m
}()

var defaults = map[string][]string{
	RoleAdmin: all,
	RoleManager: {
		ViewTickets, CreateTickets, EditTickets, AssignTickets,
		ViewReports, CreateReports, EditReports, AssignReports,
		ManageCategories, ManageLocations, ViewNotifications, ManageViews,
	},
	RoleAgent: {
		ViewTickets, CreateTickets, EditTickets,
		ViewReports, CreateReports, EditReports,
		ViewNotifications, ManageViews,
	},
	RoleUser: {
		CreateTickets, CreateReports, ViewNotifications, ManageViews,
	},
}

// All returns every permission name, in declaration order.
func All() []string {
	out := make([]string, len(all))
	copy(out, all)
	return out
}

// Valid reports whether name is in the catalog.
func Valid(name string) bool {
	_, ok := catalog[name]
	return ok
}

// DefaultsFor returns the default permission set for a built-in role.
// Unknown roles get an empty set.
func DefaultsFor(role string) []string {
	d, ok := defaults[role]
	if !ok {
		return []string{}
	}
	out := make([]string, len(d))
	copy(out, d)
	return out
}

// DefaultRoles returns the built-in role names that have default mappings.
func DefaultRoles() []string {
	return []string{RoleAdmin, RoleManager, RoleAgent, RoleUser}
}
