package callback

import "strings"

// TaskState is the provider-reported state of a callback item.
type TaskState string

const (
	TaskQueued     TaskState = "queued"
	TaskProcessing TaskState = "processing"
	TaskFailed     TaskState = "failed"
	TaskSucceeded  TaskState = "succeeded"
	TaskUnknown    TaskState = "unknown"
)

// ParseTaskState maps a raw provider state onto a TaskState. Only the exact
// sentinel "succeeded" counts as success.
func ParseTaskState(raw string) TaskState {
	if raw == string(TaskSucceeded) {
		return TaskSucceeded
	}
	switch s := strings.ToLower(strings.TrimSpace(raw)); {
	case s == "queued" || s == "pending" || s == "waiting":
		return TaskQueued
	case s == "processing" || s == "running" || s == "generating" ||
		s == "text_success" || s == "first_success":
		return TaskProcessing
	case s == "failed" || s == "error" || strings.HasSuffix(s, "_failed") || strings.HasSuffix(s, "_error"):
		return TaskFailed
	default:
		return TaskUnknown
	}
}

// Stage is the step of the task lifecycle a callback item represents.
type Stage int

const (
	StageUnknown Stage = iota
	StageAudioSucceeded
	StageVideoSucceeded
)

func (s Stage) String() string {
	switch s {
	case StageAudioSucceeded:
		return "audio_succeeded"
	case StageVideoSucceeded:
		return "video_succeeded"
	default:
		return "unknown"
	}
}

// Status is the terse result reported back to the provider.
type Status string

const (
	StatusIgnored                Status = "ignored"
	StatusProcessing             Status = "processing"
	StatusFailed                 Status = "failed"
	StatusAlreadyProcessed       Status = "already_processed"
	StatusAudioSavedVideoStarted Status = "audio_saved_video_started"
	StatusVideoSaved             Status = "video_saved"
	StatusUnknownCallback        Status = "unknown_callback"
	StatusError                  Status = "error"
)
