package firestore

import (
	"context"
	"fmt"
	"log"

	cf "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// NewClient creates a Firestore client through the Firebase app, using the
// provided credentials file when set (ambient credentials otherwise).
func NewClient(ctx context.Context, credentialsFile string) (*cf.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	log.Println("[Firestore] Client initialized successfully")
	return client, nil
}
