package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// SongStatus is the persisted lifecycle of a generation task.
type SongStatus string

const (
	SongStatusPending   SongStatus = "pending"
	SongStatusAudioDone SongStatus = "audio_done"
	SongStatusDone      SongStatus = "done"
)

// AudioStageComplete reports whether the audio stage has already been persisted.
func (s SongStatus) AudioStageComplete() bool {
	return s == SongStatusAudioDone || s == SongStatusDone
}

const DefaultSongTitle = "Untitled"

type Song struct {
	TaskID      string             `json:"task_id"`
	Title       string             `json:"title"`
	AudioURL    *string            `json:"audio_url"`
	CoverURL    *string            `json:"cover_url"`
	VideoURL    *string            `json:"video_url"`
	Lyrics      *string            `json:"lyrics"`
	AudioID     *string            `json:"audio_id"`
	VideoTaskID *string            `json:"video_task_id"`
	Status      SongStatus         `json:"status"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}
