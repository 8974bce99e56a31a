package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/magiskboy/blog-backend/internal/domain"
	"github.com/magiskboy/blog-backend/internal/token"
)

const (
	errUnauthorized = "Unauthorized"

	userKey         = "currentUser"
	sessionTokenKey = "sessionToken"
)

// tokenValidator is the subset of token.Service the middleware needs.
type tokenValidator interface {
	Validate(ctx context.Context, tok string) (*token.Claims, error)
}

// userFinder is the subset of the user repository the middleware needs.
type userFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// Auth resolves the presented session token to a user and stores both in the
// gin context. The Authorization header wins when it carries a non-empty
// bearer token; otherwise the access_token query parameter is used.
func Auth(tokens tokenValidator, users userFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearerToken(c)
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		claims, err := tokens.Validate(c.Request.Context(), tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(userKey, user)
		c.Set(sessionTokenKey, tok)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer"))
	if header != "" {
		return header
	}
	return strings.TrimSpace(c.Query("access_token"))
}

// CurrentUser returns the authenticated user set by Auth, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	user, _ := c.Get(userKey)
	u, _ := user.(*domain.User)
	return u
}

// SessionToken returns the raw token the request authenticated with.
func SessionToken(c *gin.Context) string {
	return c.GetString(sessionTokenKey)
}
