package domain

import "time"

// RoleAdmin is the user role whose messages are broadcast to everyone.
const RoleAdmin = "admin"

// Message is a chat message document. Only admin-authored messages fan out.
type Message struct {
	ID         string `json:"messageId" firestore:"-"`
	SenderID   string `json:"userId" firestore:"userId"`
	SenderName string `json:"sender" firestore:"sender"`
	Text       string `json:"text" firestore:"text"`
}

// User is the slice of an app account the fan-out engine cares about.
type User struct {
	ID   string `firestore:"-"`
	Role string `firestore:"role"`
}

// NotificationRecord is a per-recipient inbox entry for one broadcast.
// ChatID is the originating message id and doubles as the idempotency key
// for at-least-once trigger redelivery.
type NotificationRecord struct {
	ID         string    `firestore:"-"`
	UserID     string    `firestore:"userId"`
	Title      string    `firestore:"title"`
	Body       string    `firestore:"body"`
	Type       string    `firestore:"type"`
	ChatID     string    `firestore:"chatId"`
	SenderID   string    `firestore:"senderId"`
	SenderName string    `firestore:"senderName"`
	Timestamp  time.Time `firestore:"timestamp,serverTimestamp"`
	Read       bool      `firestore:"read"`
}

// FanoutResult is the settled outcome of one message-created invocation.
type FanoutResult struct {
	Success      bool   `json:"success"`
	Skipped      string `json:"skipped,omitempty"`
	Notified     int    `json:"notified"`
	SentCount    int    `json:"sentCount"`
	FailureCount int    `json:"failureCount"`
}
