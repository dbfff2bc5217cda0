package db

import (
	"context"
)

// Queries over the songs table. Every statement is keyed by task_id.

const selectSongStatus = `
SELECT status FROM songs WHERE task_id = $1
`

func (q *Queries) SelectSongStatus(ctx context.Context, taskID string) (SongStatus, error) {
	row := q.db.QueryRow(ctx, selectSongStatus, taskID)
	var status SongStatus
	err := row.Scan(&status)
	return status, err
}

const selectSongStatusForUpdate = `
SELECT status FROM songs WHERE task_id = $1 FOR UPDATE
`

// SelectSongStatusForUpdate locks the task's row until the surrounding
// transaction ends. Only meaningful on Queries from NewWithTX.
func (q *Queries) SelectSongStatusForUpdate(ctx context.Context, taskID string) (SongStatus, error) {
	row := q.db.QueryRow(ctx, selectSongStatusForUpdate, taskID)
	var status SongStatus
	err := row.Scan(&status)
	return status, err
}

// The update branch only fires for rows still pending, so an audio_done or
// done row is never rewritten by a late duplicate.
const upsertAudioStage = `
INSERT INTO songs
    (task_id, title, audio_url, cover_url, lyrics, audio_id, video_task_id, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, 'audio_done')
ON CONFLICT (task_id) DO UPDATE SET
    audio_url     = EXCLUDED.audio_url,
    lyrics        = EXCLUDED.lyrics,
    audio_id      = EXCLUDED.audio_id,
    video_task_id = EXCLUDED.video_task_id,
    status        = 'audio_done',
    updated_at    = now()
WHERE songs.status = 'pending'
`

type UpsertAudioStageParams struct {
	TaskID      string
	Title       string
	AudioURL    string
	CoverURL    *string
	Lyrics      string
	AudioID     *string
	VideoTaskID string
}

// UpsertAudioStage leaves title and cover_url untouched on the update
// branch. It returns the number of rows written: zero when the row had
// already left pending.
func (q *Queries) UpsertAudioStage(ctx context.Context, arg *UpsertAudioStageParams) (int64, error) {
	result, err := q.db.Exec(ctx, upsertAudioStage,
		arg.TaskID,
		arg.Title,
		arg.AudioURL,
		arg.CoverURL,
		arg.Lyrics,
		arg.AudioID,
		arg.VideoTaskID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const updateVideoStage = `
UPDATE songs
SET video_url  = $2,
    status     = 'done',
    updated_at = now()
WHERE task_id = $1
`

func (q *Queries) UpdateVideoStage(ctx context.Context, taskID string, videoURL string) (int64, error) {
	result, err := q.db.Exec(ctx, updateVideoStage, taskID, videoURL)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const selectAllSongs = `
SELECT task_id, title, audio_url, cover_url, video_url, lyrics, audio_id, video_task_id, status, created_at, updated_at
FROM songs
ORDER BY created_at, task_id
`

func (q *Queries) SelectAllSongs(ctx context.Context) ([]*Song, error) {
	rows, err := q.db.Query(ctx, selectAllSongs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Song{}
	for rows.Next() {
		var i Song
		if err := rows.Scan(
			&i.TaskID,
			&i.Title,
			&i.AudioURL,
			&i.CoverURL,
			&i.VideoURL,
			&i.Lyrics,
			&i.AudioID,
			&i.VideoTaskID,
			&i.Status,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
