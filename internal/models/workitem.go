package models

import "time"

// ItemKind selects between the two work-item tables.
type ItemKind string

const (
	KindTicket ItemKind = "TICKET"
	KindReport ItemKind = "REPORT"
)

// Statuses and priorities are closed enumerations.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusResolved   = "RESOLVED"
	StatusClosed     = "CLOSED"
)

const (
	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// WorkItem is a ticket or a report; both tables share this shape.
type WorkItem struct {
	ID          string `json:"id"`
	HumanID     string `json:"humanId"` // day-scoped sequential id, e.g. R26090100012
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CategoryID  string `json:"categoryId,omitempty"`
	LocationID  string `json:"locationId,omitempty"`
	CreatedBy   string `json:"createdBy"`
	AssigneeID  string `json:"assigneeId,omitempty"`

	AssigneeName  string `json:"assigneeName,omitempty"`
	AssigneeEmail string `json:"assigneeEmail,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Comments    []Comment    `json:"comments,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Comment struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"itemId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Attachment struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	FileName  string    `json:"fileName"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}
