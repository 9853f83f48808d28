package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/blog_backend/internal/handlers"
	"github.com/Skotchmaster/blog_backend/internal/middleware/auth"
)

type Deps struct {
	DB             *gorm.DB
	Guard          *auth.Guard
	AuthHandler    *handlers.AuthHandler
	PostHandler    *handlers.PostHandler
	CommentHandler *handlers.CommentHandler
	AdminHandler   *handlers.AdminHandler

	// PostCreatePolicy is "admin" or "authenticated".
	PostCreatePolicy string
}

func Register(e *echo.Echo, d *Deps) {
	api := e.Group("/api")

	api.GET("/health", handlers.Health)

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)

	createGuard := d.Guard.Admin
	if d.PostCreatePolicy == "authenticated" {
		createGuard = d.Guard.Authenticated
	}

	api.GET("/posts", d.PostHandler.GetPosts)
	api.GET("/posts/search", d.PostHandler.SearchPosts)
	api.GET("/posts/:id", d.PostHandler.GetPost)
	api.POST("/posts", createGuard(d.PostHandler.CreatePost))
	api.PUT("/posts/:id", d.Guard.Authenticated(d.PostHandler.UpdatePost))
	api.DELETE("/posts/:id", d.Guard.Authenticated(d.PostHandler.DeletePost))

	api.GET("/posts/:id/comments", d.CommentHandler.GetComments)
	api.POST("/posts/:id/comments", d.CommentHandler.CreateComment)
	api.DELETE("/comments/:id", d.Guard.Authenticated(d.CommentHandler.DeleteComment))

	api.GET("/admin/users", d.Guard.Admin(d.AdminHandler.ListUsers))
}
