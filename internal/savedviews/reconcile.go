// Package savedviews normalizes persisted view filters into one canonical
// shape. Saved views written by older clients used different key names per
// view type; reconciliation renames those keys via a per-view-type lookup
// table so readers only ever see the canonical fields.
package savedviews

import "reportdesk/internal/models"

// Canonical filter field names.
const (
	FieldSearch      = "search"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldCreatorIDs  = "creatorIds"
	FieldAssigneeIDs = "assigneeIds"
	FieldLocationIDs = "locationIds"
	FieldCategoryIDs = "categoryIds"
	FieldRoleIDs     = "roleIds"
	FieldDateRange   = "dateRange"
	FieldSortField   = "sortField"
	FieldSortOrder   = "sortOrder"
)

var canonical = map[string]struct{}{
	FieldSearch:      {},
	FieldStatus:      {},
	FieldPriority:    {},
	FieldCreatorIDs:  {},
	FieldAssigneeIDs: {},
	FieldLocationIDs: {},
	FieldCategoryIDs: {},
	FieldRoleIDs:     {},
	FieldDateRange:   {},
	FieldSortField:   {},
	FieldSortOrder:   {},
}

// Legacy key mappings, one table per view type. A key maps to its canonical
// replacement; keys absent from both the table and the canonical set are
// carried over unchanged so no stored data is lost.
var reportLegacy = map[string]string{
	"searchTerm":     FieldSearch,
	"statusFilter":   FieldStatus,
	"priorityFilter": FieldPriority,
	"createdBy":      FieldCreatorIDs,
	"assignedTo":     FieldAssigneeIDs,
	"locations":      FieldLocationIDs,
	"categories":     FieldCategoryIDs,
	"roles":          FieldRoleIDs,
	"sortBy":         FieldSortField,
	"sortDir":        FieldSortOrder,
}

var ticketLegacy = map[string]string{
	"assignee":   FieldAssigneeIDs,
	"creator":    FieldCreatorIDs,
	"location":   FieldLocationIDs,
	"category":   FieldCategoryIDs,
	"sortBy":     FieldSortField,
	"sortDir":    FieldSortOrder,
	"order":      FieldSortOrder,
	"searchText": FieldSearch,
}

// Legacy report views stored the date range as two scalar keys.
const (
	legacyDateFrom = "dateFrom"
	legacyDateTo   = "dateTo"
)

func legacyTable(viewType models.ItemKind) map[string]string {
	if viewType == models.KindTicket {
		return ticketLegacy
	}
	return reportLegacy
}

// Reconcile maps filters into the canonical shape. The second return value
// reports whether any key actually changed, i.e. whether the stored view
// needs rewriting. Reconcile is idempotent: canonical input comes back
// unchanged with migrated == false.
func Reconcile(viewType models.ItemKind, in map[string]any) (map[string]any, bool) {
	if in == nil {
		return map[string]any{}, false
	}

	table := legacyTable(viewType)
	out := make(map[string]any, len(in))
	migrated := false

	var dateFrom, dateTo any
	hasFrom, hasTo := false, false

	for k, v := range in {
		switch k {
		case legacyDateFrom:
			dateFrom, hasFrom = v, true
			migrated = true
			continue
		case legacyDateTo:
			dateTo, hasTo = v, true
			migrated = true
			continue
		}
		if target, ok := table[k]; ok && target != k {
			// Canonical value wins if both spellings are present.
			if _, exists := in[target]; !exists {
				out[target] = v
			}
			migrated = true
			continue
		}
		out[k] = v
	}

	if hasFrom || hasTo {
		if _, exists := out[FieldDateRange]; !exists {
			out[FieldDateRange] = []any{dateFrom, dateTo}
		}
	}

	return out, migrated
}

// IsCanonical reports whether name is one of the canonical filter fields.
func IsCanonical(name string) bool {
	_, ok := canonical[name]
	return ok
}
