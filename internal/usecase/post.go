package usecase

import (
	"context"
	"fmt"

	"github.com/magiskboy/blog-backend/internal/domain"
	"github.com/magiskboy/blog-backend/internal/repository"
)

const (
	defaultPerPage = 10
	maxPerPage     = 50
	summaryLength  = 200
)

type PostUsecase struct {
	posts repository.PostRepository
	likes repository.LikeRepository
}

func NewPostUsecase(posts repository.PostRepository, likes repository.LikeRepository) *PostUsecase {
	return &PostUsecase{posts: posts, likes: likes}
}

type ListPostsInput struct {
	AuthorID *int64
	Page     int
	PerPage  int
}

// PostSummary is a list-view row with the rendered like string.
type PostSummary struct {
	ID         int64
	Title      string
	Summary    string
	LikeString string
	AuthorID   int64
	AuthorName string
}

func (u *PostUsecase) List(ctx context.Context, input ListPostsInput) ([]PostSummary, error) {
	if input.Page < 0 {
		input.Page = 0
	}
	if input.PerPage <= 0 {
		input.PerPage = defaultPerPage
	}
	if input.PerPage > maxPerPage {
		input.PerPage = maxPerPage
	}

	posts, err := u.posts.List(ctx, repository.PostFilter{
		AuthorID: input.AuthorID,
		Page:     input.Page,
		PerPage:  input.PerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	summaries := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		likeString, err := u.likeString(ctx, p)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, PostSummary{
			ID:         p.ID,
			Title:      p.Title,
			Summary:    p.Summary,
			LikeString: likeString,
			AuthorID:   p.AuthorID,
			AuthorName: p.AuthorName,
		})
	}
	return summaries, nil
}

// PostDetail is the full post plus the rendered like string.
type PostDetail struct {
	Post       *domain.Post
	LikeString string
}

func (u *PostUsecase) GetByID(ctx context.Context, id int64) (*PostDetail, error) {
	post, err := u.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	likeString, err := u.likeString(ctx, post)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, LikeString: likeString}, nil
}

func (u *PostUsecase) Create(ctx context.Context, authorID int64, title, body string) (*domain.Post, error) {
	summary := body
	if len(body) > summaryLength {
		summary = body[:summaryLength] + "..."
	}

	post := &domain.Post{
		Title:    title,
		Summary:  summary,
		Body:     body,
		AuthorID: authorID,
	}
	created, err := u.posts.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

func (u *PostUsecase) LikedBy(ctx context.Context, postID int64) ([]*domain.User, error) {
	users, err := u.likes.UsersForPost(ctx, postID, 0)
	if err != nil {
		return nil, fmt.Errorf("liked by: %w", err)
	}
	return users, nil
}

// likeString renders "<A> liked this post.", "<A>, <B> liked this post." or
// "<A>, <B>, and <N-2> other people liked this post." depending on the count.
func (u *PostUsecase) likeString(ctx context.Context, post *domain.Post) (string, error) {
	if post.NLikes == 0 {
		return "", nil
	}

	users, err := u.likes.UsersForPost(ctx, post.ID, 2)
	if err != nil {
		return "", fmt.Errorf("like string: %w", err)
	}
	if len(users) == 0 {
		return "", nil
	}

	s := users[0].Name
	if post.NLikes > 1 && len(users) > 1 {
		s = fmt.Sprintf("%s, %s", users[0].Name, users[1].Name)
	}
	if post.NLikes > 2 {
		s += fmt.Sprintf(", and %d other people", post.NLikes-2)
	}
	return s + " liked this post.", nil
}
