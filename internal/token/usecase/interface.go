package usecase

import (
	"context"

	"chat-notify-backend/internal/token/domain"
	"chat-notify-backend/pkg/fcm"
)

// SweeperUsecase prunes registry tokens that are no longer deliverable.
type SweeperUsecase interface {
	// Sweep probes every registered token in bounded batches and deletes the
	// dead ones from both storage locations. It always settles: per-batch
	// probe failures are logged and skipped, never abort the sweep.
	Sweep(ctx context.Context) (*domain.SweepResult, error)
}

// ProbeSender is the slice of the FCM client the sweeper needs.
type ProbeSender interface {
	SendDataToDevices(ctx context.Context, tokens []string, data map[string]string) (*fcm.MulticastResult, error)
}
