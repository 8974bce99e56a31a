package domain

import "time"

type Post struct {
	ID         int64
	Title      string
	Summary    string
	Body       string
	AuthorID   int64
	AuthorName string
	NLikes     int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Like struct {
	ID        int64
	UserID    int64
	PostID    int64
	CreatedAt time.Time
}
