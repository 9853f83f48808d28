package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog_backend/internal/events"
	"github.com/Skotchmaster/blog_backend/internal/logging"
)

func messageResponse(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"message": msg})
}

func errorResponse(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"error": msg})
}

// publish sends a domain event without failing the request; event delivery
// is best effort.
func publish(c echo.Context, p *events.Producer, key string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("event publish error", "error", err)
	}
}
