package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magiskboy/blog-backend/internal/transport/http/handler"
	"github.com/magiskboy/blog-backend/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, postHandler *handler.PostHandler, authMW gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	auth := r.Group("/auth")
	auth.GET("/", authHandler.Begin)
	auth.GET("/callback", authHandler.Callback)
	auth.GET("/link_account", authMW, authHandler.LinkAccount)
	auth.GET("/logout", authMW, authHandler.Logout)

	posts := r.Group("/posts")
	posts.GET("", postHandler.List)
	posts.POST("", authMW, postHandler.Create)
	posts.GET("/:id", postHandler.GetByID)
	posts.GET("/:id/likes", postHandler.Likes)

	return r
}
