package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magiskboy/blog-backend/internal/domain"
	"github.com/magiskboy/blog-backend/internal/oauth"
)

const (
	errInternalServer = "Internal server error"
	errUpstream       = "Authorization exchange with provider failed"
	errPostNotFound   = "Post not found"
)

// respondError maps a usecase error onto the HTTP surface: business-rule
// failures carry their message as a 400, provider exchange failures are a
// 502, everything else is a logged 500.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var flowErr *domain.FlowError
	switch {
	case errors.As(err, &flowErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": flowErr.Message})
	case errors.Is(err, oauth.ErrExchange), errors.Is(err, oauth.ErrUserInfo):
		logger.Error("provider exchange", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errUpstream})
	default:
		logger.Error("unhandled usecase error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
