package content

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const serviceName = "AI Music Suno API"

func HandleHomePage() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "running",
			"service": serviceName,
		})
	}
}

func HandleHealth() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
