package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/magiskboy/blog-backend/internal/domain"
	"github.com/magiskboy/blog-backend/internal/repository"
	"github.com/magiskboy/blog-backend/internal/usecase"
)

// ---- fakes ----

type fakePostRepo struct {
	list     func(ctx context.Context, filter repository.PostFilter) ([]*domain.Post, error)
	findByID func(ctx context.Context, id int64) (*domain.Post, error)
	create   func(ctx context.Context, post *domain.Post) (*domain.Post, error)
}

func (r *fakePostRepo) List(ctx context.Context, filter repository.PostFilter) ([]*domain.Post, error) {
	return r.list(ctx, filter)
}

func (r *fakePostRepo) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	return r.findByID(ctx, id)
}

func (r *fakePostRepo) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	return r.create(ctx, post)
}

type fakeLikeRepo struct {
	usersForPost func(ctx context.Context, postID int64, limit int) ([]*domain.User, error)
}

func (r *fakeLikeRepo) UsersForPost(ctx context.Context, postID int64, limit int) ([]*domain.User, error) {
	return r.usersForPost(ctx, postID, limit)
}

func likers(names ...string) *fakeLikeRepo {
	return &fakeLikeRepo{
		usersForPost: func(_ context.Context, _ int64, limit int) ([]*domain.User, error) {
			users := make([]*domain.User, 0, len(names))
			for i, name := range names {
				if limit > 0 && i == limit {
					break
				}
				users = append(users, &domain.User{ID: int64(i + 1), Name: name})
			}
			return users, nil
		},
	}
}

func postWithLikes(n int) *fakePostRepo {
	return &fakePostRepo{
		findByID: func(_ context.Context, id int64) (*domain.Post, error) {
			return &domain.Post{ID: id, Title: "t", Body: "b", NLikes: n}, nil
		},
	}
}

// ---- like strings ----

func TestLikeString_NoLikes(t *testing.T) {
	uc := usecase.NewPostUsecase(postWithLikes(0), likers())

	detail, err := uc.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.LikeString != "" {
		t.Errorf("like string = %q, want empty", detail.LikeString)
	}
}

func TestLikeString_OneLike(t *testing.T) {
	uc := usecase.NewPostUsecase(postWithLikes(1), likers("Alice"))

	detail, _ := uc.GetByID(context.Background(), 1)
	if detail.LikeString != "Alice liked this post." {
		t.Errorf("like string = %q", detail.LikeString)
	}
}

func TestLikeString_TwoLikes(t *testing.T) {
	uc := usecase.NewPostUsecase(postWithLikes(2), likers("Alice", "Bob"))

	detail, _ := uc.GetByID(context.Background(), 1)
	if detail.LikeString != "Alice, Bob liked this post." {
		t.Errorf("like string = %q", detail.LikeString)
	}
}

func TestLikeString_ManyLikes(t *testing.T) {
	uc := usecase.NewPostUsecase(postWithLikes(5), likers("Alice", "Bob", "Carol", "Dan", "Eve"))

	detail, _ := uc.GetByID(context.Background(), 1)
	if detail.LikeString != "Alice, Bob, and 3 other people liked this post." {
		t.Errorf("like string = %q", detail.LikeString)
	}
}

// ---- GetByID ----

func TestGetByID_NotFound(t *testing.T) {
	repo := &fakePostRepo{
		findByID: func(_ context.Context, _ int64) (*domain.Post, error) {
			return nil, domain.ErrPostNotFound
		},
	}
	uc := usecase.NewPostUsecase(repo, likers())

	if _, err := uc.GetByID(context.Background(), 99); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("want ErrPostNotFound, got %v", err)
	}
}

// ---- List ----

func TestList_ClampsPagination(t *testing.T) {
	var captured repository.PostFilter
	repo := &fakePostRepo{
		list: func(_ context.Context, filter repository.PostFilter) ([]*domain.Post, error) {
			captured = filter
			return nil, nil
		},
	}
	uc := usecase.NewPostUsecase(repo, likers())

	_, err := uc.List(context.Background(), usecase.ListPostsInput{Page: -3, PerPage: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Page != 0 {
		t.Errorf("page = %d, want 0", captured.Page)
	}
	if captured.PerPage != 50 {
		t.Errorf("per_page = %d, want 50", captured.PerPage)
	}
}

// ---- Create ----

func TestCreate_TruncatesSummary(t *testing.T) {
	var created *domain.Post
	repo := &fakePostRepo{
		create: func(_ context.Context, post *domain.Post) (*domain.Post, error) {
			created = post
			post.ID = 1
			return post, nil
		},
	}
	uc := usecase.NewPostUsecase(repo, likers())

	body := strings.Repeat("x", 300)
	if _, err := uc.Create(context.Background(), 1, "title", body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created.Summary) != 203 || !strings.HasSuffix(created.Summary, "...") {
		t.Errorf("summary length = %d, want 200 chars plus ellipsis", len(created.Summary))
	}
}

func TestCreate_ShortBodyKeptVerbatim(t *testing.T) {
	var created *domain.Post
	repo := &fakePostRepo{
		create: func(_ context.Context, post *domain.Post) (*domain.Post, error) {
			created = post
			return post, nil
		},
	}
	uc := usecase.NewPostUsecase(repo, likers())

	if _, err := uc.Create(context.Background(), 1, "title", "short body"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Summary != "short body" {
		t.Errorf("summary = %q", created.Summary)
	}
}
