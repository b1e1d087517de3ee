package fcm

import (
	"context"
	"errors"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// MaxMulticastTokens is the hard FCM protocol limit on the number of tokens
// one multicast call may address. Callers must chunk larger sets.
const MaxMulticastTokens = 500

// ErrTooManyTokens is returned when a caller passes more than
// MaxMulticastTokens tokens to a single multicast call.
var ErrTooManyTokens = errors.New("fcm: multicast limited to 500 tokens per call")

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
}

// NewClient creates a new FCM client using the provided credentials file
func NewClient(credentialsFile string) (*Client, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[FCM] Client initialized successfully")
	return &Client{
		messagingClient: messagingClient,
	}, nil
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title string
	Body  string
	Data  map[string]string // Custom data payload
}

// MulticastResult holds the per-call outcome of one multicast send.
type MulticastResult struct {
	SuccessCount int
	FailureCount int
	FailedTokens []string
}

// SendToDevices sends a push notification to up to MaxMulticastTokens device
// tokens and reports per-token outcomes.
func (c *Client) SendToDevices(ctx context.Context, tokens []string, notification NotificationData) (*MulticastResult, error) {
	if len(tokens) == 0 {
		return &MulticastResult{}, nil
	}
	if len(tokens) > MaxMulticastTokens {
		return nil, ErrTooManyTokens
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
	}

	return c.send(ctx, tokens, message)
}

// SendDataToDevices sends a data-only message (no visible notification) to up
// to MaxMulticastTokens device tokens. Used to probe token liveness.
func (c *Client) SendDataToDevices(ctx context.Context, tokens []string, data map[string]string) (*MulticastResult, error) {
	if len(tokens) == 0 {
		return &MulticastResult{}, nil
	}
	if len(tokens) > MaxMulticastTokens {
		return nil, ErrTooManyTokens
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   data,
	}

	return c.send(ctx, tokens, message)
}

func (c *Client) send(ctx context.Context, tokens []string, message *messaging.MulticastMessage) (*MulticastResult, error) {
	response, err := c.messagingClient.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	log.Printf("[FCM] Multicast sent: %d success, %d failures", response.SuccessCount, response.FailureCount)

	result := &MulticastResult{
		SuccessCount: response.SuccessCount,
		FailureCount: response.FailureCount,
	}
	for i, resp := range response.Responses {
		if !resp.Success {
			result.FailedTokens = append(result.FailedTokens, tokens[i])
		}
	}

	return result, nil
}
