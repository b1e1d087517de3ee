package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"chat-notify-backend/internal/broadcast/domain"
)

const notificationsCollection = "notifications"

// NotificationRepository defines write access to per-user inbox records.
type NotificationRepository interface {
	// ExistsForChat reports whether any notification record was already
	// written for the given chat message id.
	ExistsForChat(ctx context.Context, chatID string) (bool, error)
	// CreateAll writes all records in one atomic batch: either every record
	// becomes visible or none does.
	CreateAll(ctx context.Context, records []domain.NotificationRecord) error
}

// notificationRepository implements NotificationRepository on Firestore
type notificationRepository struct {
	client *firestore.Client
}

// NewNotificationRepository creates a new instance of notificationRepository
func NewNotificationRepository(client *firestore.Client) NotificationRepository {
	return &notificationRepository{
		client: client,
	}
}

func (r *notificationRepository) ExistsForChat(ctx context.Context, chatID string) (bool, error) {
	iter := r.client.Collection(notificationsCollection).
		Where("chatId", "==", chatID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *notificationRepository) CreateAll(ctx context.Context, records []domain.NotificationRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := r.client.Batch()
	for _, record := range records {
		ref := r.client.Collection(notificationsCollection).Doc(record.ID)
		batch.Set(ref, record)
	}

	_, err := batch.Commit(ctx)
	return err
}
