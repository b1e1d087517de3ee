package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"chat-notify-backend/internal/token/domain"
)

const (
	tokensCollection      = "user_tokens"
	usersCollection       = "users"
	userTokensSubcollName = "tokens"
)

// TokenRepository defines access to the device token registry. The registry
// is denormalized: the primary copy is keyed by token, and each user document
// carries a mirrored sub-collection of their own tokens.
type TokenRepository interface {
	ListAll(ctx context.Context) ([]domain.RegisteredToken, error)
	// Delete removes the primary copy. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error
	// DeleteUserMirror removes the mirrored copy under the owning user.
	// Deleting a missing mirror is not an error.
	DeleteUserMirror(ctx context.Context, userID, token string) error
}

// tokenRepository implements TokenRepository on Firestore
type tokenRepository struct {
	client *firestore.Client
}

// NewTokenRepository creates a new instance of tokenRepository
func NewTokenRepository(client *firestore.Client) TokenRepository {
	return &tokenRepository{
		client: client,
	}
}

func (r *tokenRepository) ListAll(ctx context.Context) ([]domain.RegisteredToken, error) {
	iter := r.client.Collection(tokensCollection).Documents(ctx)
	defer iter.Stop()

	var tokens []domain.RegisteredToken
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var token domain.RegisteredToken
		if err := snap.DataTo(&token); err != nil {
			return nil, err
		}
		token.Token = snap.Ref.ID
		tokens = append(tokens, token)
	}

	return tokens, nil
}

func (r *tokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.client.Collection(tokensCollection).Doc(token).Delete(ctx)
	return err
}

func (r *tokenRepository) DeleteUserMirror(ctx context.Context, userID, token string) error {
	_, err := r.client.Collection(usersCollection).
		Doc(userID).
		Collection(userTokensSubcollName).
		Doc(token).
		Delete(ctx)
	return err
}
