package common

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSONPassthrough writes a provider body to the client unchanged.
func JSONPassthrough(c echo.Context, body json.RawMessage) error {
	return c.JSONBlob(http.StatusOK, body)
}

// Truncate returns s cut to max bytes with a "..." suffix.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
