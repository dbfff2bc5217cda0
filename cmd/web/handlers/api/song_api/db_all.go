// package song_api exposes persisted songs.
package song_api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/songforge/cmd/web/handlers/common"
	"thirdcoast.systems/songforge/internal/db"
)

type Lister interface {
	ListSongs(ctx context.Context) ([]*db.Song, error)
}

// HandleDBAll dumps every row of the songs table. Debug surface, unpaginated.
func HandleDBAll(store Lister) echo.HandlerFunc {
	return func(c echo.Context) error {
		songs, err := store.ListSongs(c.Request().Context())
		if err != nil {
			slog.Error("failed to list songs", "error", err)
			return common.ErrFromDependency(err, "failed to list songs")
		}
		return c.JSON(http.StatusOK, songs)
	}
}
