package generation_api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/songforge/cmd/web/handlers/common"
)

type boostStyleRequest struct {
	Content string `json:"content" validate:"required"`
}

func HandleBoostStyle(provider Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req boostStyleRequest
		if err := common.BindAndValidate(c, &req); err != nil {
			return err
		}

		body, err := provider.BoostStyle(c.Request().Context(), req.Content)
		if err != nil {
			slog.Error("boost style failed", "error", err)
			return common.ErrFromDependency(err, "style boost failed")
		}
		return common.JSONPassthrough(c, body)
	}
}
