package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	auditdomain "chat-notify-backend/internal/audit/domain"
	auditrepo "chat-notify-backend/internal/audit/repository"
	"chat-notify-backend/internal/broadcast/domain"
	"chat-notify-backend/internal/broadcast/repository"
	tokenrepo "chat-notify-backend/internal/token/repository"
	"chat-notify-backend/pkg/batch"
	"chat-notify-backend/pkg/fcm"
)

const (
	defaultSenderName = "Admin"
	defaultBody       = "You have a new message"
	notificationType  = "chat"
	clickAction       = "FLUTTER_NOTIFICATION_CLICK"
)

// fanoutUsecase implements FanoutUsecase interface
type fanoutUsecase struct {
	userRepo  repository.UserRepository
	notifRepo repository.NotificationRepository
	tokenRepo tokenrepo.TokenRepository
	sender    PushSender
	auditRepo auditrepo.RunRepository // optional, nil disables audit rows
}

// NewFanoutUsecase creates a new instance of fanoutUsecase
func NewFanoutUsecase(
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	tokenRepo tokenrepo.TokenRepository,
	sender PushSender,
	auditRepo auditrepo.RunRepository,
) FanoutUsecase {
	return &fanoutUsecase{
		userRepo:  userRepo,
		notifRepo: notifRepo,
		tokenRepo: tokenRepo,
		sender:    sender,
		auditRepo: auditRepo,
	}
}

func (u *fanoutUsecase) HandleMessageCreated(ctx context.Context, msg *domain.Message) (*domain.FanoutResult, error) {
	if msg == nil || msg.SenderID == "" {
		log.Println("[Fanout] No sender ID found in message, skipping")
		return &domain.FanoutResult{Success: true, Skipped: "no sender"}, nil
	}

	sender, err := u.userRepo.GetByID(ctx, msg.SenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sender %s: %w", msg.SenderID, err)
	}
	// A sender absent from users (e.g. deleted) is treated as non-admin.
	if sender == nil || sender.Role != domain.RoleAdmin {
		log.Printf("[Fanout] Sender %s is not an admin, skipping notification", msg.SenderID)
		return &domain.FanoutResult{Success: true, Skipped: "sender is not an admin"}, nil
	}

	registered, err := u.tokenRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered tokens: %w", err)
	}

	// The sender's own devices never receive the broadcast. Filtering
	// in-process avoids an inequality query against the token store.
	var tokens []string
	var recipientIDs []string
	seen := make(map[string]bool)
	for _, t := range registered {
		if t.UserID == msg.SenderID {
			continue
		}
		if t.Token != "" {
			tokens = append(tokens, t.Token)
		}
		if t.UserID != "" && !seen[t.UserID] {
			seen[t.UserID] = true
			recipientIDs = append(recipientIDs, t.UserID)
		}
	}
	if len(tokens) == 0 && len(recipientIDs) == 0 {
		log.Println("[Fanout] No recipient tokens found, skipping notification")
		return &domain.FanoutResult{Success: true, Skipped: "no recipient tokens"}, nil
	}

	// Idempotency gate for at-least-once trigger redelivery.
	exists, err := u.notifRepo.ExistsForChat(ctx, msg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing records for message %s: %w", msg.ID, err)
	}
	if exists {
		log.Printf("[Fanout] Records already exist for message %s, skipping redelivery", msg.ID)
		return &domain.FanoutResult{Success: true, Skipped: "already delivered"}, nil
	}

	senderName := msg.SenderName
	if senderName == "" {
		senderName = defaultSenderName
	}
	body := msg.Text
	if body == "" {
		body = defaultBody
	}
	title := fmt.Sprintf("New message from %s", senderName)

	// One inbox record per distinct recipient user, written atomically:
	// all records for a broadcast become visible together or not at all.
	records := make([]domain.NotificationRecord, 0, len(recipientIDs))
	for _, userID := range recipientIDs {
		records = append(records, domain.NotificationRecord{
			ID:         uuid.New().String(),
			UserID:     userID,
			Title:      title,
			Body:       body,
			Type:       notificationType,
			ChatID:     msg.ID,
			SenderID:   msg.SenderID,
			SenderName: senderName,
			Read:       false,
		})
	}
	if err := u.notifRepo.CreateAll(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to write notification records: %w", err)
	}
	log.Printf("[Fanout] Created %d notification records for message %s", len(records), msg.ID)

	result := &domain.FanoutResult{Success: true, Notified: len(records)}
	if len(tokens) > 0 {
		// The push is a separate delivery channel: its failures are logged,
		// never rolled back into the record write above.
		sent, failed := u.dispatch(ctx, msg, tokens, title, body, senderName)
		result.SentCount = sent
		result.FailureCount = failed
	}

	u.recordRun(msg.ID, result)
	return result, nil
}

func (u *fanoutUsecase) dispatch(ctx context.Context, msg *domain.Message, tokens []string, title, body, senderName string) (sent, failed int) {
	notification := fcm.NotificationData{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":         notificationType,
			"chatId":       msg.ID,
			"senderId":     msg.SenderID,
			"senderName":   senderName,
			"click_action": clickAction,
		},
	}

	var failedTokens []string
	for _, chunk := range batch.Chunk(tokens, fcm.MaxMulticastTokens) {
		res, err := u.sender.SendToDevices(ctx, chunk, notification)
		if err != nil {
			log.Printf("[Fanout] Error sending multicast for message %s: %v", msg.ID, err)
			failed += len(chunk)
			continue
		}
		sent += res.SuccessCount
		failed += res.FailureCount
		failedTokens = append(failedTokens, res.FailedTokens...)
	}

	log.Printf("[Fanout] Successfully sent message %s: %d successful, %d failed", msg.ID, sent, failed)
	if len(failedTokens) > 0 {
		log.Printf("[Fanout] List of tokens that caused failures: %v", failedTokens)
	}
	return sent, failed
}

func (u *fanoutUsecase) recordRun(messageID string, result *domain.FanoutResult) {
	if u.auditRepo == nil {
		return
	}
	run := &auditdomain.BroadcastRun{
		MessageID:    messageID,
		Notified:     result.Notified,
		SentCount:    result.SentCount,
		FailureCount: result.FailureCount,
	}
	if err := u.auditRepo.RecordBroadcast(run); err != nil {
		log.Printf("[Fanout] Error recording broadcast run for message %s: %v", messageID, err)
	}
}
