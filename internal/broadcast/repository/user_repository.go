package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chat-notify-backend/internal/broadcast/domain"
)

const usersCollection = "users"

// UserRepository defines read access to user accounts.
type UserRepository interface {
	// GetByID returns the user, or (nil, nil) when no such user exists.
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// userRepository implements UserRepository on Firestore
type userRepository struct {
	client *firestore.Client
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(client *firestore.Client) UserRepository {
	return &userRepository{
		client: client,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	snap, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user domain.User
	if err := snap.DataTo(&user); err != nil {
		return nil, err
	}
	user.ID = snap.Ref.ID
	return &user, nil
}
