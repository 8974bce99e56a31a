package repository

import (
	"context"

	"github.com/magiskboy/blog-backend/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// SetProviderLink marks the user's account as linked to the provider.
	SetProviderLink(ctx context.Context, userID int64, provider domain.Provider) error
}
