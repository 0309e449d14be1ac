package service

import (
	"context"
	"encoding/json"

	"reportdesk/internal/models"
	"reportdesk/internal/queue"
	"reportdesk/internal/repository"

	"github.com/rs/zerolog"
)

// Notifier writes notification rows and, when a broker is configured,
// publishes a matching event. The write is the contract; the event is
// fire-and-forget and a publish failure is only logged.
type Notifier struct {
	repo     repository.NotificationRepository
	producer *queue.Producer
	log      zerolog.Logger
}

func NewNotifier(repo repository.NotificationRepository, producer *queue.Producer, log zerolog.Logger) *Notifier {
	return &Notifier{repo: repo, producer: producer, log: log}
}

type notificationEvent struct {
	UserID          string `json:"userId"`
	Title           string `json:"title"`
	Message         string `json:"message"`
	RelatedEntityID string `json:"relatedEntityId,omitempty"`
}

func (n *Notifier) Notify(ctx context.Context, userID, title, message, relatedEntityID string) (*models.Notification, error) {
	created, err := n.repo.Create(ctx, userID, title, message, relatedEntityID)
	if err != nil {
		return nil, err
	}

	if n.producer != nil {
		payload, _ := json.Marshal(notificationEvent{
			UserID:          userID,
			Title:           title,
			Message:         message,
			RelatedEntityID: relatedEntityID,
		})
		if err := n.producer.Publish(ctx, []byte(userID), payload); err != nil {
			n.log.Warn().Err(err).Str("user", userID).Msg("notification event publish failed")
		}
	}
	return created, nil
}

// NotifyAssignment tells a user a work item landed on them.
func (n *Notifier) NotifyAssignment(ctx context.Context, assigneeID string, it *models.WorkItem) error {
	if assigneeID == "" {
		return nil
	}
	_, err := n.Notify(ctx, assigneeID, "Assigned to you", it.HumanID+": "+it.Title, it.ID)
	return err
}

// NotifyStatusChange tells the creator their item moved.
func (n *Notifier) NotifyStatusChange(ctx context.Context, it *models.WorkItem) error {
	if it.CreatedBy == "" {
		return nil
	}
	_, err := n.Notify(ctx, it.CreatedBy, "Status changed", it.HumanID+" is now "+it.Status, it.ID)
	return err
}
