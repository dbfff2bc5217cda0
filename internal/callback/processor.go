// Package callback interprets provider webhooks and drives a task through
// its audio and video stages.
package callback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/singleflight"
	"thirdcoast.systems/songforge/internal/db"
	"thirdcoast.systems/songforge/internal/mediafetch"
)

type Store interface {
	SongStatus(ctx context.Context, taskID string) (db.SongStatus, bool, error)
	// UpsertAudioStage reports applied=false when another writer completed
	// the audio stage first.
	UpsertAudioStage(ctx context.Context, params *db.UpsertAudioStageParams) (applied bool, err error)
	UpdateVideoStage(ctx context.Context, taskID, videoURL string) (int64, error)
}

type Provider interface {
	TimestampedLyrics(ctx context.Context, taskID, audioID string) (json.RawMessage, error)
	GenerateVideo(ctx context.Context, taskID, audioID string) (string, error)
}

type Downloader interface {
	Fetch(ctx context.Context, url, dest string) (int64, error)
}

// Recorder receives callback and download outcomes. Optional.
type Recorder interface {
	ObserveCallback(status string)
	ObserveDownload(kind string, err error)
}

type Options struct {
	// ReportFailed answers a failed provider item with "failed" instead of
	// "processing".
	ReportFailed bool
	// RetryTransient answers transient processing errors with 503 so the
	// provider redelivers the callback.
	RetryTransient bool
}

// Result is the response body for a callback plus the HTTP status to send.
type Result struct {
	Status     Status `json:"status"`
	Error      string `json:"error,omitempty"`
	HTTPStatus int    `json:"-"`
}

type Processor struct {
	store    Store
	provider Provider
	fetcher  Downloader
	media    *mediafetch.Root
	recorder Recorder
	opts     Options

	audio singleflight.Group
}

func NewProcessor(store Store, provider Provider, fetcher Downloader, media *mediafetch.Root, recorder Recorder, opts Options) *Processor {
	return &Processor{
		store:    store,
		provider: provider,
		fetcher:  fetcher,
		media:    media,
		recorder: recorder,
		opts:     opts,
	}
}

// Handle processes one raw callback body. It never returns an error: every
// failure is folded into a Result with StatusError.
func (p *Processor) Handle(ctx context.Context, body []byte) Result {
	// Stage work outlives the provider's connection; each outbound call
	// carries its own timeout.
	ctx = context.WithoutCancel(ctx)

	status, err := p.process(ctx, body)
	res := Result{Status: status, HTTPStatus: http.StatusOK}
	if err != nil {
		res.Status = StatusError
		res.Error = err.Error()
		if p.opts.RetryTransient && IsTransient(err) {
			res.HTTPStatus = http.StatusServiceUnavailable
		}
		slog.Error("callback processing failed", "error", err, "transient", IsTransient(err))
	}

	if p.recorder != nil {
		p.recorder.ObserveCallback(string(res.Status))
	}
	return res
}

func (p *Processor) process(ctx context.Context, body []byte) (Status, error) {
	payload, err := ParsePayload(body)
	if err != nil {
		return "", err
	}
	if len(payload.Items) == 0 {
		return StatusIgnored, nil
	}

	item := payload.Items[0]
	log := slog.With("task_id", payload.TaskID, "state", item.RawState)

	if item.State != TaskSucceeded {
		if item.State == TaskFailed && p.opts.ReportFailed {
			log.Warn("provider reported task failure")
			return StatusFailed, nil
		}
		log.Debug("callback for unfinished task")
		return StatusProcessing, nil
	}

	stage := item.Stage()
	if stage != StageUnknown && payload.TaskID != "" && !mediafetch.ValidTaskID(payload.TaskID) {
		return "", &PayloadError{Cause: fmt.Errorf("task id %q cannot name a media file", payload.TaskID)}
	}
	switch stage {
	case StageAudioSucceeded:
		if payload.TaskID == "" {
			return "", &PayloadError{Cause: errors.New("missing task id")}
		}
		v, err, shared := p.audio.Do(payload.TaskID, func() (any, error) {
			return p.handleAudio(ctx, payload.TaskID, item)
		})
		if shared {
			log.Info("coalesced duplicate audio callback")
		}
		if err != nil {
			return "", err
		}
		return v.(Status), nil
	case StageVideoSucceeded:
		if payload.TaskID == "" {
			return "", &PayloadError{Cause: errors.New("missing task id")}
		}
		return p.handleVideo(ctx, payload.TaskID, item)
	default:
		log.Warn("succeeded callback without media url")
		return StatusUnknownCallback, nil
	}
}

func (p *Processor) handleAudio(ctx context.Context, taskID string, item Item) (Status, error) {
	log := slog.With("task_id", taskID, "stage", StageAudioSucceeded.String())

	current, found, err := p.store.SongStatus(ctx, taskID)
	if err != nil {
		return "", err
	}
	if found && current.AudioStageComplete() {
		log.Info("audio stage already processed", "status", current)
		return StatusAlreadyProcessed, nil
	}

	dest := p.media.Path(taskID, mediafetch.KindAudio)
	if err := p.download(ctx, mediafetch.KindAudio, item.AudioURL, dest); err != nil {
		return "", err
	}

	lyrics, err := p.provider.TimestampedLyrics(ctx, taskID, item.AudioID)
	if err != nil {
		return "", fmt.Errorf("fetch lyrics: %w", err)
	}

	videoTaskID, err := p.provider.GenerateVideo(ctx, taskID, item.AudioID)
	if err != nil {
		return "", fmt.Errorf("start video generation: %w", err)
	}

	title := item.Title
	if title == "" {
		title = db.DefaultSongTitle
	}
	applied, err := p.store.UpsertAudioStage(ctx, &db.UpsertAudioStageParams{
		TaskID:      taskID,
		Title:       title,
		AudioURL:    p.media.PublicURL(taskID, mediafetch.KindAudio),
		CoverURL:    optional(item.ImageURL),
		Lyrics:      string(lyrics),
		AudioID:     optional(item.AudioID),
		VideoTaskID: videoTaskID,
	})
	if err != nil {
		return "", err
	}
	if !applied {
		log.Info("audio stage completed by another delivery", "video_task_id", videoTaskID)
		return StatusAlreadyProcessed, nil
	}

	log.Info("audio stage saved", "video_task_id", videoTaskID)
	return StatusAudioSavedVideoStarted, nil
}

func (p *Processor) handleVideo(ctx context.Context, taskID string, item Item) (Status, error) {
	log := slog.With("task_id", taskID, "stage", StageVideoSucceeded.String())

	dest := p.media.Path(taskID, mediafetch.KindVideo)
	if err := p.download(ctx, mediafetch.KindVideo, item.VideoURL, dest); err != nil {
		return "", err
	}

	n, err := p.store.UpdateVideoStage(ctx, taskID, p.media.PublicURL(taskID, mediafetch.KindVideo))
	if err != nil {
		return "", err
	}
	if n == 0 {
		log.Warn("video saved for task with no song row")
	}

	log.Info("video stage saved")
	return StatusVideoSaved, nil
}

func (p *Processor) download(ctx context.Context, kind mediafetch.Kind, url, dest string) error {
	_, err := p.fetcher.Fetch(ctx, url, dest)
	if p.recorder != nil {
		p.recorder.ObserveDownload(string(kind), err)
	}
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
