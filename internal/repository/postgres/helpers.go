package postgres

import (
	"strconv"
	"strings"
)

func sanitizeSort(s, def string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "created_at", "updated_at", "priority", "status":
		return strings.ToLower(strings.TrimSpace(s))
	default:
		return def
	}
}

func sanitizeOrder(o, def string) string {
	switch strings.ToLower(strings.TrimSpace(o)) {
	case "asc", "desc":
		return strings.ToLower(strings.TrimSpace(o))
	default:
		return def
	}
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// small helper to avoid fmt on the query-building path.
func itoa(i int) string { return strconv.Itoa(i) }
