package generation_api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/songforge/cmd/web/handlers/common"
)

// HandleRecordInfo returns the provider's task status as-is, whatever its
// success flag says.
func HandleRecordInfo(provider Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		taskID, err := common.RequireStringParam(c, "task_id")
		if err != nil {
			return err
		}

		body, err := provider.RecordInfo(c.Request().Context(), taskID)
		if err != nil {
			slog.Error("record info failed", "task_id", taskID, "error", err)
			return common.ErrFromDependency(err, "record info failed")
		}
		return common.JSONPassthrough(c, body)
	}
}
