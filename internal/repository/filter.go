package repository

// WorkItemFilter is the query shape for work-item listings. It mirrors the
// canonical saved-view filter fields so a reconciled view can be applied
// directly to a list query.
type WorkItemFilter struct {
	Search      string
	Status      []string
	Priority    []string
	CreatorIDs  []string
	AssigneeIDs []string
	LocationIDs []string
	CategoryIDs []string
	DateFrom    string
	DateTo      string
	Limit       int
	Offset      int
	Sort        string // created_at, updated_at, priority
	Order       string // asc|desc
}
