package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/blog_backend/internal/models"
)

type AdminHandler struct {
	DB *gorm.DB
}

func (h *AdminHandler) ListUsers(c echo.Context, _ *models.User) error {
	var users []models.User
	if err := h.DB.Order("id ASC").Find(&users).Error; err != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	var counts []struct {
		AuthorID uint
		Total    int64
	}
	if err := h.DB.Model(&models.Post{}).
		Select("author_id, COUNT(*) AS total").
		Group("author_id").
		Scan(&counts).Error; err != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	byAuthor := make(map[uint]int64, len(counts))
	for _, cnt := range counts {
		byAuthor[cnt.AuthorID] = cnt.Total
	}

	out := make([]echo.Map, 0, len(users))
	for _, u := range users {
		out = append(out, echo.Map{
			"id":         u.ID,
			"username":   u.Username,
			"role":       u.Role,
			"timestamp":  u.CreatedAt,
			"post_count": byAuthor[u.ID],
		})
	}

	return c.JSON(http.StatusOK, out)
}
