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
	"github.com/Skotchmaster/blog_backend/internal/models"
)

type CommentHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid post id")
	}

	var post models.Post
	if err := h.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("Post with id %d not found", postID))
		}
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	var comments []models.Comment
	if err := h.DB.Where("post_id = ?", postID).Order("id ASC").Find(&comments).Error; err != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid post id")
	}

	var post models.Post
	if err := h.DB.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("Post with id %d not found", postID))
		}
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return messageResponse(c, http.StatusBadRequest, "Invalid request body")
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return messageResponse(c, http.StatusBadRequest, "Comment content is required")
	}

	comment := models.Comment{
		PostID:  post.ID,
		Content: req.Content,
	}
	if err := h.DB.Create(&comment).Error; err != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	publish(c, h.Producer, fmt.Sprint(post.ID), map[string]interface{}{
		"type":       "comment_created",
		"comment_id": comment.ID,
		"post_id":    post.ID,
	})

	return c.JSON(http.StatusCreated, comment)
}

// DeleteComment is wired behind the authenticated guard. Comments carry
// no author, so there is no ownership rule here, only authentication.
func (h *CommentHandler) DeleteComment(c echo.Context, user *models.User) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid comment id")
	}

	var comment models.Comment
	if err := h.DB.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("Comment with id %d not found", id))
		}
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	if err := h.DB.Delete(&comment).Error; err != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	publish(c, h.Producer, fmt.Sprint(comment.PostID), map[string]interface{}{
		"type":       "comment_deleted",
		"comment_id": comment.ID,
		"post_id":    comment.PostID,
		"deleted_by": user.ID,
	})

	return messageResponse(c, http.StatusOK, "Comment deleted successfully")
}
