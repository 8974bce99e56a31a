package repository

import (
	"context"

	"github.com/magiskboy/blog-backend/internal/domain"
)

type PostFilter struct {
	AuthorID *int64
	Page     int
	PerPage  int
}

type PostRepository interface {
	// List returns posts newest first, with AuthorName populated.
	List(ctx context.Context, filter PostFilter) ([]*domain.Post, error)
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
}

type LikeRepository interface {
	// UsersForPost returns users who liked the post. limit <= 0 means no limit.
	UsersForPost(ctx context.Context, postID int64, limit int) ([]*domain.User, error)
}
