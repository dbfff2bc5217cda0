package generation_api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/songforge/cmd/web/handlers/common"
	"thirdcoast.systems/songforge/internal/suno"
)

type generateMusicRequest struct {
	Prompt       string  `json:"prompt" validate:"required"`
	Style        *string `json:"style"`
	Title        *string `json:"title"`
	Instrumental bool    `json:"instrumental"`
	CustomMode   bool    `json:"customMode"`
	Model        string  `json:"model"`
}

func (r generateMusicRequest) params() suno.GenerateMusicParams {
	p := suno.GenerateMusicParams{
		Prompt:       r.Prompt,
		Instrumental: r.Instrumental,
		CustomMode:   r.CustomMode,
		Model:        r.Model,
	}
	if r.Style != nil {
		p.Style = *r.Style
	}
	if r.Title != nil {
		p.Title = *r.Title
	}
	return p
}

func HandleGenerateMusic(provider Provider) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := generateMusicRequest{Model: suno.DefaultModel}
		if err := common.BindAndValidate(c, &req); err != nil {
			return err
		}

		body, err := provider.GenerateMusic(c.Request().Context(), req.params())
		if err != nil {
			slog.Error("music generation failed", "error", err)
			return common.ErrFromDependency(err, "music generation failed")
		}
		return common.JSONPassthrough(c, body)
	}
}
