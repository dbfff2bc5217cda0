package callback

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is a decoded provider callback.
type Payload struct {
	TaskID string
	Items  []Item
}

// Item is one element of the callback result list.
type Item struct {
	State    TaskState
	RawState string
	AudioURL string
	VideoURL string
	AudioID  string
	ImageURL string
	Title    string
}

// Stage reports which lifecycle step the item completes. Audio wins when
// both URLs are present.
func (it Item) Stage() Stage {
	switch {
	case it.AudioURL != "":
		return StageAudioSucceeded
	case it.VideoURL != "":
		return StageVideoSucceeded
	default:
		return StageUnknown
	}
}

// looseString accepts any JSON scalar. Numbers and booleans keep their
// literal text; null, objects and arrays decode to "".
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case 'n', '{', '[':
		*s = ""
	default:
		*s = looseString(b)
	}
	return nil
}

type wireItem struct {
	State          looseString `json:"state"`
	Status         looseString `json:"status"`
	AudioURL       looseString `json:"audioUrl"`
	AudioURLSnake  looseString `json:"audio_url"`
	StreamAudioURL looseString `json:"streamAudioUrl"`
	VideoURL       looseString `json:"videoUrl"`
	VideoURLSnake  looseString `json:"video_url"`
	ResultURL      looseString `json:"resultUrl"`
	AudioID        looseString `json:"audioId"`
	ImageURL       looseString `json:"imageUrl"`
	Title          looseString `json:"title"`
}

type wirePayload struct {
	TaskID      looseString `json:"taskId"`
	TaskIDSnake looseString `json:"task_id"`
	Data        []wireItem  `json:"data"`
}

// PayloadError marks a callback body that cannot be interpreted.
type PayloadError struct {
	Cause error
}

func (e *PayloadError) Error() string { return fmt.Sprintf("invalid callback payload: %v", e.Cause) }

func (e *PayloadError) Unwrap() error { return e.Cause }

func firstNonEmpty(values ...looseString) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// ParsePayload decodes a callback body, accepting both the camelCase and
// snake_case spellings the provider uses.
func ParsePayload(body []byte) (*Payload, error) {
	var w wirePayload
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, &PayloadError{Cause: err}
	}

	p := &Payload{
		TaskID: firstNonEmpty(w.TaskID, w.TaskIDSnake),
		Items:  make([]Item, 0, len(w.Data)),
	}
	for _, wi := range w.Data {
		raw := firstNonEmpty(wi.State, wi.Status)
		p.Items = append(p.Items, Item{
			State:    ParseTaskState(raw),
			RawState: raw,
			AudioURL: firstNonEmpty(wi.AudioURL, wi.AudioURLSnake, wi.StreamAudioURL),
			VideoURL: firstNonEmpty(wi.VideoURL, wi.VideoURLSnake, wi.ResultURL),
			AudioID:  string(wi.AudioID),
			ImageURL: string(wi.ImageURL),
			Title:    string(wi.Title),
		})
	}
	return p, nil
}
