package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/magiskboy/blog-backend/internal/domain"
	"github.com/magiskboy/blog-backend/internal/transport/http/middleware"
	"github.com/magiskboy/blog-backend/internal/usecase"
)

type postUsecaser interface {
	List(ctx context.Context, input usecase.ListPostsInput) ([]usecase.PostSummary, error)
	GetByID(ctx context.Context, id int64) (*usecase.PostDetail, error)
	Create(ctx context.Context, authorID int64, title, body string) (*domain.Post, error)
	LikedBy(ctx context.Context, postID int64) ([]*domain.User, error)
}

type PostHandler struct {
	postUsecase postUsecaser
	logger      *slog.Logger
}

func NewPostHandler(postUsecase postUsecaser, logger *slog.Logger) *PostHandler {
	return &PostHandler{postUsecase: postUsecase, logger: logger.With("component", "post_handler")}
}

type postSummaryResponse struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	LikeString string `json:"like_string"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
}

// GET /posts?page=&per_page=&author_id=
func (h *PostHandler) List(c *gin.Context) {
	input := usecase.ListPostsInput{}
	input.Page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	input.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if raw := c.Query("author_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			input.AuthorID = &id
		}
	}

	summaries, err := h.postUsecase.List(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("list posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	posts := make([]postSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		posts = append(posts, postSummaryResponse{
			ID:         s.ID,
			Title:      s.Title,
			Summary:    s.Summary,
			LikeString: s.LikeString,
			AuthorID:   s.AuthorID,
			AuthorName: s.AuthorName,
		})
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GET /posts/:id
func (h *PostHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	detail, err := h.postUsecase.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": errPostNotFound})
			return
		}
		h.logger.Error("get post", "post_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	post := detail.Post
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":          post.ID,
			"title":       post.Title,
			"summary":     post.Summary,
			"body":        post.Body,
			"author_id":   post.AuthorID,
			"author_name": post.AuthorName,
			"like_string": detail.LikeString,
			"created_at":  post.CreatedAt,
			"updated_at":  post.UpdatedAt,
		},
	})
}

type createPostRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// POST /posts (authenticated)
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	post, err := h.postUsecase.Create(c.Request.Context(), user.ID, req.Title, req.Body)
	if err != nil {
		h.logger.Error("create post", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post is created",
		"data":    gin.H{"id": post.ID},
	})
}

// GET /posts/:id/likes
func (h *PostHandler) Likes(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	users, err := h.postUsecase.LikedBy(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("list likes", "post_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	likes := make([]gin.H, 0, len(users))
	for _, u := range users {
		likes = append(likes, gin.H{"id": u.ID, "name": u.Name})
	}

	c.JSON(http.StatusOK, gin.H{"users": likes})
}
