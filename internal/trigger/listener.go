package trigger

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	broadcastdomain "chat-notify-backend/internal/broadcast/domain"
	broadcastusecase "chat-notify-backend/internal/broadcast/usecase"
	tokenusecase "chat-notify-backend/internal/token/usecase"
)

// Listener consumes document-store trigger events from Pub/Sub: one
// subscription delivers message-created events, another delivers scheduled
// sweep ticks. Delivery is at-least-once; every event is acked because the
// engines settle internally and redelivery on fault would duplicate sends.
type Listener struct {
	pubsubClient *pubsub.Client
	fanout       broadcastusecase.FanoutUsecase
	sweeper      tokenusecase.SweeperUsecase
	messageTopic string
	sweepTopic   string
}

// NewListener creates a new Listener for the given project and topics.
func NewListener(projectID, messageTopic, sweepTopic, credentialsFile string, fanout broadcastusecase.FanoutUsecase, sweeper tokenusecase.SweeperUsecase) (*Listener, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Listener{
		pubsubClient: client,
		fanout:       fanout,
		sweeper:      sweeper,
		messageTopic: messageTopic,
		sweepTopic:   sweepTopic,
	}, nil
}

// Start begins receiving on both subscriptions until ctx is cancelled.
func (l *Listener) Start(ctx context.Context) {
	go l.receive(ctx, l.messageTopic, l.handleMessageEvent)
	go l.receive(ctx, l.sweepTopic, l.handleSweepTick)
}

func (l *Listener) receive(ctx context.Context, topicName string, handle func(ctx context.Context, msg *pubsub.Message)) {
	sub, err := l.ensureSubscription(ctx, topicName)
	if err != nil {
		log.Printf("[PubSub] Error setting up subscription for topic %s: %v", topicName, err)
		return
	}

	log.Printf("[PubSub] Listening for messages on subscription: %s", sub.ID())
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		handle(ctx, msg)
		msg.Ack()
	})
	if err != nil {
		log.Printf("[PubSub] Error receiving messages on %s: %v", sub.ID(), err)
	}
}

func (l *Listener) ensureSubscription(ctx context.Context, topicName string) (*pubsub.Subscription, error) {
	subName := topicName + "-sub" // Convention: topic-sub

	sub := l.pubsubClient.Subscription(subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription %s: %w", subName, err)
	}
	if exists {
		return sub, nil
	}

	topic := l.pubsubClient.Topic(topicName)
	topicExists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic %s: %w", topicName, err)
	}
	if !topicExists {
		return nil, fmt.Errorf("topic %s does not exist", topicName)
	}

	sub, err = l.pubsubClient.CreateSubscription(ctx, subName, pubsub.SubscriptionConfig{
		Topic:       topic,
		AckDeadline: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription %s: %w", subName, err)
	}
	log.Printf("[PubSub] Created subscription: %s", subName)
	return sub, nil
}

func (l *Listener) handleMessageEvent(ctx context.Context, msg *pubsub.Message) {
	var message broadcastdomain.Message
	if err := json.Unmarshal(msg.Data, &message); err != nil {
		log.Printf("[PubSub] Failed to unmarshal message event: %v", err)
		return
	}

	log.Printf("[PubSub] Received message-created event: %s", message.ID)
	result, err := l.fanout.HandleMessageCreated(ctx, &message)
	if err != nil {
		log.Printf("[PubSub] Error handling message %s: %v", message.ID, err)
		return
	}
	if result.Skipped != "" {
		log.Printf("[PubSub] Fan-out for message %s skipped: %s", message.ID, result.Skipped)
	}
}

func (l *Listener) handleSweepTick(ctx context.Context, _ *pubsub.Message) {
	log.Println("[PubSub] Received sweep tick")
	if _, err := l.sweeper.Sweep(ctx); err != nil {
		log.Printf("[PubSub] Error running token sweep: %v", err)
	}
}
