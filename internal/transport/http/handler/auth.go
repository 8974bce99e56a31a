package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magiskboy/blog-backend/internal/domain"
	"github.com/magiskboy/blog-backend/internal/transport/http/middleware"
	"github.com/magiskboy/blog-backend/internal/usecase"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Begin(state domain.AuthState) (string, error)
	Callback(ctx context.Context, rawState, code string) (*usecase.CallbackResult, error)
	LinkAccount(ctx context.Context, user *domain.User, provider string) (string, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

// GET /auth/
// Every query parameter becomes part of the round-tripped state payload.
func (h *AuthHandler) Begin(c *gin.Context) {
	state := domain.AuthState{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			state[key] = values[0]
		}
	}

	redirectURL, err := h.authUsecase.Begin(state)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Redirect(http.StatusFound, redirectURL)
}

// GET /auth/callback?state=<json>&code=<code>
func (h *AuthHandler) Callback(c *gin.Context) {
	result, err := h.authUsecase.Callback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	switch {
	case result.AccessToken != "":
		c.JSON(http.StatusOK, gin.H{"access_token": result.AccessToken})
	case result.Link != "":
		c.JSON(http.StatusOK, gin.H{
			"message": result.Message,
			"data":    gin.H{"link": result.Link},
		})
	default:
		c.JSON(http.StatusOK, gin.H{"message": result.Message})
	}
}

// GET /auth/link_account?provider=<provider> (authenticated)
func (h *AuthHandler) LinkAccount(c *gin.Context) {
	user := middleware.CurrentUser(c)

	message, err := h.authUsecase.LinkAccount(c.Request.Context(), user, c.Query("provider"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// GET /auth/logout (authenticated)
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUsecase.Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
