package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/blog_backend/internal/events"
	"github.com/Skotchmaster/blog_backend/internal/hash"
	"github.com/Skotchmaster/blog_backend/internal/models"
	"github.com/Skotchmaster/blog_backend/internal/tokens"
)

type AuthHandler struct {
	DB       *gorm.DB
	Tokens   *tokens.Service
	Producer *events.Producer
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		return messageResponse(c, http.StatusBadRequest, "Invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return messageResponse(c, http.StatusBadRequest, "Username and password are required")
	}

	var existing models.User
	err := h.DB.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return messageResponse(c, http.StatusConflict, "Username already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	publish(c, h.Producer, fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return messageResponse(c, http.StatusCreated, "User registered successfully")
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		return messageResponse(c, http.StatusBadRequest, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return messageResponse(c, http.StatusBadRequest, "Username and password are required")
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return messageResponse(c, http.StatusUnauthorized, "Invalid username or password")
		}
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return messageResponse(c, http.StatusUnauthorized, "Invalid username or password")
	}

	token, err := h.Tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return messageResponse(c, http.StatusInternalServerError, "internal server error")
	}

	publish(c, h.Producer, fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}
