// package callback_api receives provider completion webhooks.
package callback_api

import (
	"context"
	"io"
	"log/slog"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/songforge/cmd/web/handlers/common"
	"thirdcoast.systems/songforge/internal/callback"
)

type Processor interface {
	Handle(ctx context.Context, body []byte) callback.Result
}

// HandleCallback always answers with a JSON status body. The HTTP status is
// 200 unless the processor asks for a redelivery.
func HandleCallback(proc Processor) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return common.ErrBadRequest("unreadable body")
		}
		slog.Info("callback received", "body", common.Truncate(string(body), 2048))

		res := proc.Handle(c.Request().Context(), body)
		return c.JSON(res.HTTPStatus, res)
	}
}
