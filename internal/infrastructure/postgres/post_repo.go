package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/magiskboy/blog-backend/internal/domain"
	"github.com/magiskboy/blog-backend/internal/repository"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) List(ctx context.Context, filter repository.PostFilter) ([]*domain.Post, error) {
	query := `
		SELECT p.id, p.title, p.summary, p.n_likes, p.author_id, u.name
		FROM posts p
		JOIN users u ON u.id = p.author_id`
	args := []any{}
	if filter.AuthorID != nil {
		query += ` WHERE p.author_id = $1`
		args = append(args, *filter.AuthorID)
	}
	query += fmt.Sprintf(` ORDER BY p.created_at DESC OFFSET %d LIMIT %d`,
		filter.Page*filter.PerPage, filter.PerPage)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Summary, &p.NLikes, &p.AuthorID, &p.AuthorName); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT p.id, p.title, p.summary, p.body, p.n_likes,
		       p.author_id, u.name, p.created_at, p.updated_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1`, id)

	var p domain.Post
	err := row.Scan(&p.ID, &p.Title, &p.Summary, &p.Body, &p.NLikes,
		&p.AuthorID, &p.AuthorName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &p, nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (title, summary, body, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		post.Title, post.Summary, post.Body, post.AuthorID,
	)
	if err := row.Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}
