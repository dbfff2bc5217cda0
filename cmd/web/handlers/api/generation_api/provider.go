// package generation_api forwards generation requests to the provider.
package generation_api

import (
	"context"
	"encoding/json"

	"thirdcoast.systems/songforge/internal/suno"
)

type Provider interface {
	BoostStyle(ctx context.Context, content string) (json.RawMessage, error)
	GenerateMusic(ctx context.Context, params suno.GenerateMusicParams) (json.RawMessage, error)
	RecordInfo(ctx context.Context, taskID string) (json.RawMessage, error)
}
