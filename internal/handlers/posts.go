package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/blog_backend/internal/events"
	"github.com/Skotchmaster/blog_backend/internal/logging"
	"github.com/Skotchmaster/blog_backend/internal/models"
	"github.com/Skotchmaster/blog_backend/internal/search"
	"github.com/Skotchmaster/blog_backend/internal/util"
)

type PostHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
	Search   *search.Service
}

func (h *PostHandler) GetPosts(c echo.Context) error {
	var posts []models.Post
	if err := h.DB.Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	out := make([]echo.Map, 0, len(posts))
	for _, p := range posts {
		out = append(out, echo.Map{
			"id":        p.ID,
			"title":     p.Title,
			"content":   p.Content,
			"excerpt":   p.Excerpt(),
			"author_id": p.AuthorID,
			"timestamp": p.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, out)
}

func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid post id")
	}

	var post models.Post
	if err := h.DB.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("Post with id %d not found", id))
		}
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) CreatePost(c echo.Context, user *models.User) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}

	if err := c.Bind(&req); err != nil {
		return messageResponse(c, http.StatusBadRequest, "Invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		return messageResponse(c, http.StatusBadRequest, "Title and content are required")
	}

	post := models.Post{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: user.ID,
	}
	if err := h.DB.Create(&post).Error; err != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	h.index(c, post)
	publish(c, h.Producer, fmt.Sprint(post.ID), map[string]interface{}{
		"type":      "post_created",
		"post_id":   post.ID,
		"author_id": user.ID,
	})

	return c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) UpdatePost(c echo.Context, user *models.User) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid post id")
	}

	var post models.Post
	if err := h.DB.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("Post with id %d not found", id))
		}
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	if post.AuthorID != user.ID && user.Role != models.RoleAdmin {
		return messageResponse(c, http.StatusForbidden, "You do not have permission to edit this post")
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return messageResponse(c, http.StatusBadRequest, "Invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		return messageResponse(c, http.StatusBadRequest, "Title and content are required")
	}

	post.Title = req.Title
	post.Content = req.Content
	if err := h.DB.Save(&post).Error; err != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	h.index(c, post)
	publish(c, h.Producer, fmt.Sprint(post.ID), map[string]interface{}{
		"type":      "post_updated",
		"post_id":   post.ID,
		"editor_id": user.ID,
	})

	return c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c echo.Context, user *models.User) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid post id")
	}

	var post models.Post
	if err := h.DB.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("Post with id %d not found", id))
		}
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	if post.AuthorID != user.ID && user.Role != models.RoleAdmin {
		return messageResponse(c, http.StatusForbidden, "You do not have permission to delete this post")
	}

	// Comments go with the post, in one transaction.
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if txErr != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	h.deindex(c, post.ID)
	publish(c, h.Producer, fmt.Sprint(post.ID), map[string]interface{}{
		"type":       "post_deleted",
		"post_id":    post.ID,
		"deleted_by": user.ID,
	})

	return messageResponse(c, http.StatusOK, "Post deleted successfully")
}

func (h *PostHandler) SearchPosts(c echo.Context) error {
	if h.Search == nil {
		return messageResponse(c, http.StatusServiceUnavailable, "Search is not configured")
	}

	q := c.QueryParam("q")
	if q == "" {
		return messageResponse(c, http.StatusBadRequest, "Query parameter q is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, posts, err := h.Search.Search(c.Request().Context(), q, from, size)
	if err != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "posts": posts})
}

func (h *PostHandler) index(c echo.Context, post models.Post) {
	if err := h.Search.IndexPost(c.Request().Context(), post); err != nil {
		logging.FromContext(c.Request().Context()).Error("search index error", "error", err)
	}
}

func (h *PostHandler) deindex(c echo.Context, id uint) {
	if err := h.Search.DeletePost(c.Request().Context(), id); err != nil {
		logging.FromContext(c.Request().Context()).Error("search deindex error", "error", err)
	}
}
