package models

import "time"

type Notification struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	RelatedEntityID string    `json:"relatedEntityId,omitempty"`
	Read            bool      `json:"read"`
	CreatedAt       time.Time `json:"createdAt"`
}
