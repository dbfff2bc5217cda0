package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrDatabaseNotConfigured is returned by every Gateway call when the
// server was started without DATABASE_URL.
var ErrDatabaseNotConfigured = errors.New("DATABASE_URL not set")

// Gateway is the song persistence surface used by the HTTP handlers and
// the callback processor. A Gateway with a nil connection is valid and
// fails each call with ErrDatabaseNotConfigured.
type Gateway struct {
	dbc *DatabaseConnection
}

func NewGateway(dbc *DatabaseConnection) *Gateway {
	return &Gateway{dbc: dbc}
}

func (g *Gateway) queries(ctx context.Context) (*Queries, error) {
	if g == nil || g.dbc == nil {
		return nil, ErrDatabaseNotConfigured
	}
	return g.dbc.Queries(ctx), nil
}

// SongStatus returns the persisted status for taskID. found is false when
// no row exists yet.
func (g *Gateway) SongStatus(ctx context.Context, taskID string) (status SongStatus, found bool, err error) {
	q, err := g.queries(ctx)
	if err != nil {
		return "", false, err
	}
	status, err = q.SelectSongStatus(ctx, taskID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select song status: %w", err)
	}
	return status, true, nil
}

// UpsertAudioStage writes the audio stage unless the task already passed it.
// The status check and the write share one transaction holding the row
// lock, so concurrent writers from any process apply at most once. applied
// is false when the row was already audio_done or done.
func (g *Gateway) UpsertAudioStage(ctx context.Context, params *UpsertAudioStageParams) (applied bool, err error) {
	if g == nil || g.dbc == nil {
		return false, ErrDatabaseNotConfigured
	}
	if params.Title == "" {
		params.Title = DefaultSongTitle
	}

	q, tx, err := g.dbc.NewWithTX(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	status, err := q.SelectSongStatusForUpdate(ctx, params.TaskID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		err = nil
	case err != nil:
		return false, fmt.Errorf("lock song row: %w", err)
	case status.AudioStageComplete():
		_ = tx.Rollback(ctx)
		return false, nil
	}

	n, err := q.UpsertAudioStage(ctx, params)
	if err != nil {
		return false, fmt.Errorf("upsert audio stage: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit audio stage: %w", err)
	}
	return n > 0, nil
}

// UpdateVideoStage marks the task done. A task with no row is not an error;
// the returned count is zero.
func (g *Gateway) UpdateVideoStage(ctx context.Context, taskID, videoURL string) (int64, error) {
	q, err := g.queries(ctx)
	if err != nil {
		return 0, err
	}
	n, err := q.UpdateVideoStage(ctx, taskID, videoURL)
	if err != nil {
		return 0, fmt.Errorf("update video stage: %w", err)
	}
	return n, nil
}

func (g *Gateway) ListSongs(ctx context.Context) ([]*Song, error) {
	q, err := g.queries(ctx)
	if err != nil {
		return nil, err
	}
	songs, err := q.SelectAllSongs(ctx)
	if err != nil {
		return nil, fmt.Errorf("select all songs: %w", err)
	}
	return songs, nil
}
