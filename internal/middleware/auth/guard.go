package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/blog_backend/internal/models"
	"github.com/Skotchmaster/blog_backend/internal/tokens"
)

// Handler is a route handler that receives the resolved caller explicitly
// instead of digging it out of the request context.
type Handler func(c echo.Context, user *models.User) error

type Guard struct {
	DB     *gorm.DB
	Tokens *tokens.Service
}

func NewGuard(db *gorm.DB, ts *tokens.Service) *Guard {
	return &Guard{DB: db, Tokens: ts}
}

// Authenticated wraps next so it only runs for a valid bearer token whose
// user still exists in the store.
func (g *Guard) Authenticated(next Handler) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := g.resolve(c)
		if err != nil {
			return err
		}
		return next(c, user)
	}
}

// Admin runs the full Authenticated check and then gates on the admin role.
func (g *Guard) Admin(next Handler) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := g.resolve(c)
		if err != nil {
			return err
		}
		if user.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Admin privileges required")
		}
		return next(c, user)
	}
}

func (g *Guard) resolve(c echo.Context) (*models.User, error) {
	raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	var claims *tokens.Claims
	if err == nil {
		claims, err = g.Tokens.Parse(raw)
	}
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrMissing):
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Token is missing")
		case errors.Is(err, tokens.ErrMalformed):
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
		case errors.Is(err, tokens.ErrExpired):
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Token has expired")
		default:
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid")
		}
	}

	// A valid token for a user deleted since issuance must not pass.
	var user models.User
	if err := g.DB.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return &user, nil
}

// bearerToken expects exactly "Bearer <token>". A present header in any
// other shape is malformed, which is reported differently from missing.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", tokens.ErrMissing
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", tokens.ErrMalformed
	}
	return parts[1], nil
}
