package usecase

import (
	"context"

	"chat-notify-backend/internal/broadcast/domain"
	"chat-notify-backend/pkg/fcm"
)

// FanoutUsecase reacts to newly created chat messages. Invocations are
// at-least-once: redelivery of the same message short-circuits on the
// records already written for its id.
type FanoutUsecase interface {
	// HandleMessageCreated always settles: no-op conditions return a
	// successful result with a skip reason, and only a failed notification
	// record write surfaces as the returned error.
	HandleMessageCreated(ctx context.Context, msg *domain.Message) (*domain.FanoutResult, error)
}

// PushSender is the slice of the FCM client the fan-out engine needs.
type PushSender interface {
	SendToDevices(ctx context.Context, tokens []string, notification fcm.NotificationData) (*fcm.MulticastResult, error)
}
