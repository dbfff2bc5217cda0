// Package suno is a client for the kie.ai Suno generation API.
package suno

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"thirdcoast.systems/songforge/internal/config"
)

type Operation string

const (
	OpBoostStyle        Operation = "boost_style"
	OpGenerateMusic     Operation = "generate_music"
	OpRecordInfo        Operation = "record_info"
	OpTimestampedLyrics Operation = "timestamped_lyrics"
	OpGenerateVideo     Operation = "generate_video"
)

const (
	pathStyleGenerate = "/style/generate"
	pathGenerate      = "/generate"
	pathRecordInfo    = "/generate/record-info"
	pathLyrics        = "/generate/get-timestamped-lyrics"
	pathVideoGenerate = "/mp4/generate"

	generateTimeout = 60 * time.Second
	statusTimeout   = 30 * time.Second

	videoAuthor = "AI Artist"
)

// Observer receives one call per provider request.
type Observer interface {
	ObserveUpstream(op string, outcome string, elapsed time.Duration)
}

type Client struct {
	baseURL     string
	apiKey      string
	callbackURL string
	domainName  string
	http        *http.Client
	observer    Observer
}

// NewClient builds a client from the process configuration. httpClient may
// be nil. Timeouts are applied per operation, not on the http.Client.
func NewClient(conf config.Config, httpClient *http.Client, observer Observer) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(conf.SunoBaseAPI), "/")
	if baseURL == "" {
		baseURL = config.DefaultSunoBaseAPI
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      conf.SunoAPIKey,
		callbackURL: conf.CallbackURL(),
		domainName:  conf.BaseURL,
		http:        httpClient,
		observer:    observer,
	}
}

// BoostStyle forwards content to the style generator and returns the body verbatim.
func (c *Client) BoostStyle(ctx context.Context, content string) (json.RawMessage, error) {
	_, body, err := c.do(ctx, OpBoostStyle, http.MethodPost, pathStyleGenerate, nil,
		map[string]any{"content": content}, generateTimeout)
	return body, err
}

type GenerateMusicParams struct {
	Prompt       string
	Style        string
	Title        string
	Instrumental bool
	CustomMode   bool
	Model        string
}

// Payload is the request body sent to /generate.
func (p GenerateMusicParams) Payload(callbackURL string) map[string]any {
	model := p.Model
	if model == "" {
		model = DefaultModel
	}
	body := map[string]any{
		"prompt":       p.Prompt,
		"customMode":   p.CustomMode,
		"instrumental": p.Instrumental,
		"model":        NormalizeModel(model),
		"callBackUrl":  callbackURL,
	}
	if p.Style != "" {
		body["style"] = p.Style
	}
	if p.Title != "" {
		body["title"] = p.Title
	}
	return body
}

// GenerateMusic starts a generation task. Any status other than 200 is an
// *UpstreamError.
func (c *Client) GenerateMusic(ctx context.Context, params GenerateMusicParams) (json.RawMessage, error) {
	status, body, err := c.do(ctx, OpGenerateMusic, http.MethodPost, pathGenerate, nil,
		params.Payload(c.callbackURL), generateTimeout)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &UpstreamError{Operation: OpGenerateMusic, StatusCode: status, Body: string(body)}
	}
	return body, nil
}

// RecordInfo returns the provider's task status body verbatim.
func (c *Client) RecordInfo(ctx context.Context, taskID string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("taskId", taskID)
	_, body, err := c.do(ctx, OpRecordInfo, http.MethodGet, pathRecordInfo, q, nil, statusTimeout)
	return body, err
}

// TimestampedLyrics returns the provider's lyrics body verbatim.
func (c *Client) TimestampedLyrics(ctx context.Context, taskID, audioID string) (json.RawMessage, error) {
	_, body, err := c.do(ctx, OpTimestampedLyrics, http.MethodPost, pathLyrics, nil,
		map[string]any{"taskId": taskID, "audioId": audioID}, generateTimeout)
	return body, err
}

type videoResponse struct {
	Data *struct {
		TaskID string `json:"taskId"`
	} `json:"data"`
}

// GenerateVideo asks the provider to render a video for an audio track and
// returns the follow-up task id. The provider reports completion to the
// same callback URL as the audio stage.
func (c *Client) GenerateVideo(ctx context.Context, taskID, audioID string) (string, error) {
	status, body, err := c.do(ctx, OpGenerateVideo, http.MethodPost, pathVideoGenerate, nil,
		map[string]any{
			"taskId":      taskID,
			"audioId":     audioID,
			"callBackUrl": c.callbackURL,
			"author":      videoAuthor,
			"domainName":  c.domainName,
		}, generateTimeout)
	if err != nil {
		return "", err
	}

	var out videoResponse
	if err := json.Unmarshal(body, &out); err != nil || out.Data == nil || out.Data.TaskID == "" {
		return "", &UpstreamError{Operation: OpGenerateVideo, StatusCode: status, Body: string(body), Reason: "response has no data.taskId"}
	}
	return out.Data.TaskID, nil
}

func (c *Client) do(ctx context.Context, op Operation, method, path string, query url.Values, payload any, timeout time.Duration) (status int, body json.RawMessage, err error) {
	if c.apiKey == "" {
		return 0, nil, ErrMissingAPIKey
	}

	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveUpstream(string(op), outcome(status, err), time.Since(start))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("suno %s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return 0, nil, &TransportError{Operation: op, Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Operation: op, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Operation: op, Cause: err}
	}
	if !json.Valid(raw) {
		return resp.StatusCode, nil, &UpstreamError{Operation: op, StatusCode: resp.StatusCode, Body: string(raw), Reason: "response is not JSON"}
	}
	return resp.StatusCode, raw, nil
}

func outcome(status int, err error) string {
	switch {
	case err != nil && status == 0:
		return "transport_error"
	case err != nil:
		return "invalid_response"
	case status >= 200 && status < 300:
		return "ok"
	default:
		return "http_" + strconv.Itoa(status)
	}
}
