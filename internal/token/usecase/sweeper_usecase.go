package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	auditdomain "chat-notify-backend/internal/audit/domain"
	auditrepo "chat-notify-backend/internal/audit/repository"
	"chat-notify-backend/internal/token/domain"
	"chat-notify-backend/internal/token/repository"
	"chat-notify-backend/pkg/batch"
	"chat-notify-backend/pkg/fcm"
)

// sweeperUsecase implements SweeperUsecase interface
type sweeperUsecase struct {
	tokenRepo repository.TokenRepository
	sender    ProbeSender
	auditRepo auditrepo.RunRepository // optional, nil disables audit rows
}

// NewSweeperUsecase creates a new instance of sweeperUsecase
func NewSweeperUsecase(tokenRepo repository.TokenRepository, sender ProbeSender, auditRepo auditrepo.RunRepository) SweeperUsecase {
	return &sweeperUsecase{
		tokenRepo: tokenRepo,
		sender:    sender,
		auditRepo: auditRepo,
	}
}

func (u *sweeperUsecase) Sweep(ctx context.Context) (*domain.SweepResult, error) {
	registered, err := u.tokenRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered tokens: %w", err)
	}
	if len(registered) == 0 {
		log.Println("[Sweeper] No tokens to clean up")
		return &domain.SweepResult{Success: true}, nil
	}

	result := &domain.SweepResult{Success: true, Checked: len(registered)}

	// Batches run one after another; only deletions inside a batch fan out
	// concurrently. 500 is the FCM multicast limit.
	for _, chunk := range batch.Chunk(registered, fcm.MaxMulticastTokens) {
		result.Batches++

		owners := make(map[string]string, len(chunk))
		tokens := make([]string, 0, len(chunk))
		for _, t := range chunk {
			tokens = append(tokens, t.Token)
			owners[t.Token] = t.UserID
		}

		res, err := u.sender.SendDataToDevices(ctx, tokens, map[string]string{"test": "true"})
		if err != nil {
			// A transport or quota failure says nothing about individual
			// tokens, so none are deleted for this batch.
			log.Printf("[Sweeper] Error probing token batch of %d: %v", len(tokens), err)
			result.FailedBatches++
			continue
		}

		result.Deleted += u.deleteDeadTokens(ctx, res.FailedTokens, owners)
	}

	log.Printf("[Sweeper] Sweep complete: %d checked, %d deleted, %d/%d batches failed",
		result.Checked, result.Deleted, result.FailedBatches, result.Batches)

	u.recordRun(result)
	return result, nil
}

// deleteDeadTokens removes each failed token from the primary collection and,
// when the owner is known, from the user's mirrored sub-collection. The two
// deletions are independent and idempotent.
func (u *sweeperUsecase) deleteDeadTokens(ctx context.Context, failed []string, owners map[string]string) int {
	if len(failed) == 0 {
		return 0
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	deleted := 0

	for _, token := range failed {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()

			if err := u.tokenRepo.Delete(ctx, token); err != nil {
				log.Printf("[Sweeper] Error deleting token %s: %v", token, err)
				return
			}
			if userID := owners[token]; userID != "" {
				if err := u.tokenRepo.DeleteUserMirror(ctx, userID, token); err != nil {
					log.Printf("[Sweeper] Error deleting mirrored token %s for user %s: %v", token, userID, err)
				}
			}

			mu.Lock()
			deleted++
			mu.Unlock()
		}(token)
	}
	wg.Wait()

	if deleted > 0 {
		log.Printf("[Sweeper] Deleted %d invalid tokens", deleted)
	}
	return deleted
}

func (u *sweeperUsecase) recordRun(result *domain.SweepResult) {
	if u.auditRepo == nil {
		return
	}
	run := &auditdomain.SweepRun{
		Checked:       result.Checked,
		Deleted:       result.Deleted,
		Batches:       result.Batches,
		FailedBatches: result.FailedBatches,
	}
	if err := u.auditRepo.RecordSweep(run); err != nil {
		log.Printf("[Sweeper] Error recording sweep run: %v", err)
	}
}
