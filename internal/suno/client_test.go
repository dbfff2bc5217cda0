package suno

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"thirdcoast.systems/songforge/internal/config"
)

const testBase = "https://suno.test/api/v1"

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveUpstream(op, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, op+":"+outcome)
}

func newTestClient(t *testing.T, apiKey string) (*Client, *httpmock.MockTransport, *recordingObserver) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	obs := &recordingObserver{}
	conf := config.Config{
		SunoAPIKey:  apiKey,
		SunoBaseAPI: testBase,
		BaseURL:     "https://songs.example.test",
	}
	return NewClient(conf, &http.Client{Transport: mt}, obs), mt, obs
}

func decodeBody(t *testing.T, req *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
	return body
}

func TestNormalizeModel(t *testing.T) {
	tests := map[string]string{
		"v4":    "V4_5",
		"V4":    "V4_5",
		"v4_5":  "V4_5",
		"V4_5":  "V4_5",
		"v45":   "V4_5",
		"V45":   "V4_5",
		"V5":    "V5",
		"chirp": "chirp",
		"":      "",
		"v4_5x": "v4_5x",
		"V3_5":  "V3_5",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeModel(in), "input %q", in)
	}
}

func TestGenerateMusicParams_Payload(t *testing.T) {
	body := GenerateMusicParams{Prompt: "lofi", Model: "v45"}.Payload("https://x/callback")
	require.Equal(t, "lofi", body["prompt"])
	require.Equal(t, "V4_5", body["model"])
	require.Equal(t, false, body["customMode"])
	require.Equal(t, false, body["instrumental"])
	require.Equal(t, "https://x/callback", body["callBackUrl"])
	require.NotContains(t, body, "style")
	require.NotContains(t, body, "title")

	body = GenerateMusicParams{Prompt: "p", Style: "jazz", Title: "T", Model: "custom"}.Payload("cb")
	require.Equal(t, "jazz", body["style"])
	require.Equal(t, "T", body["title"])
	require.Equal(t, "custom", body["model"])

	body = GenerateMusicParams{Prompt: "p"}.Payload("cb")
	require.Equal(t, DefaultModel, body["model"])
}

func TestClient_MissingAPIKey(t *testing.T) {
	c, mt, _ := newTestClient(t, "")
	ctx := context.Background()

	_, err := c.BoostStyle(ctx, "x")
	require.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = c.GenerateMusic(ctx, GenerateMusicParams{Prompt: "x"})
	require.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = c.RecordInfo(ctx, "T1")
	require.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = c.TimestampedLyrics(ctx, "T1", "A1")
	require.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = c.GenerateVideo(ctx, "T1", "A1")
	require.ErrorIs(t, err, ErrMissingAPIKey)

	require.Zero(t, mt.GetTotalCallCount())
}

func TestClient_BoostStyle(t *testing.T) {
	c, mt, obs := newTestClient(t, "secret")

	mt.RegisterResponder(http.MethodPost, testBase+"/style/generate",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			assert.Equal(t, map[string]any{"content": "dreamy pop"}, decodeBody(t, req))
			return httpmock.NewStringResponse(http.StatusOK, `{"code":200,"data":{"result":"boosted"}}`), nil
		})

	body, err := c.BoostStyle(context.Background(), "dreamy pop")
	require.NoError(t, err)
	require.JSONEq(t, `{"code":200,"data":{"result":"boosted"}}`, string(body))
	require.Equal(t, []string{"boost_style:ok"}, obs.calls)
}

func TestClient_GenerateMusic(t *testing.T) {
	c, mt, _ := newTestClient(t, "secret")

	var sent map[string]any
	mt.RegisterResponder(http.MethodPost, testBase+"/generate",
		func(req *http.Request) (*http.Response, error) {
			sent = decodeBody(t, req)
			return httpmock.NewStringResponse(http.StatusOK, `{"code":200,"data":{"taskId":"T1"}}`), nil
		})

	body, err := c.GenerateMusic(context.Background(), GenerateMusicParams{
		Prompt: "a song", Title: "Hello", Model: "V4", Instrumental: true,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"code":200,"data":{"taskId":"T1"}}`, string(body))

	require.Equal(t, "V4_5", sent["model"])
	require.Equal(t, "Hello", sent["title"])
	require.Equal(t, true, sent["instrumental"])
	require.Equal(t, "https://songs.example.test/callback", sent["callBackUrl"])
	require.NotContains(t, sent, "style")
}

func TestClient_GenerateMusic_UpstreamFailure(t *testing.T) {
	c, mt, obs := newTestClient(t, "secret")
	mt.RegisterResponder(http.MethodPost, testBase+"/generate",
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"code":401,"msg":"bad key"}`))

	_, err := c.GenerateMusic(context.Background(), GenerateMusicParams{Prompt: "p"})
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, http.StatusUnauthorized, ue.StatusCode)
	require.Contains(t, ue.Error(), "bad key")
	require.Equal(t, []string{"generate_music:http_401"}, obs.calls)
}

func TestClient_RecordInfo_PassesThroughNon200(t *testing.T) {
	c, mt, _ := newTestClient(t, "secret")
	mt.RegisterResponder(http.MethodGet, testBase+"/generate/record-info?taskId=T1",
		httpmock.NewStringResponder(http.StatusNotFound, `{"code":404,"msg":"no task"}`))

	body, err := c.RecordInfo(context.Background(), "T1")
	require.NoError(t, err)
	require.JSONEq(t, `{"code":404,"msg":"no task"}`, string(body))
}

func TestClient_NonJSONResponse(t *testing.T) {
	c, mt, _ := newTestClient(t, "secret")
	mt.RegisterResponder(http.MethodGet, testBase+"/generate/record-info?taskId=T1",
		httpmock.NewStringResponder(http.StatusBadGateway, `<html>bad gateway</html>`))

	_, err := c.RecordInfo(context.Background(), "T1")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, http.StatusBadGateway, ue.StatusCode)
}

func TestClient_TransportError(t *testing.T) {
	c, mt, obs := newTestClient(t, "secret")
	mt.RegisterResponder(http.MethodPost, testBase+"/generate/get-timestamped-lyrics",
		httpmock.NewErrorResponder(errors.New("connection reset")))

	_, err := c.TimestampedLyrics(context.Background(), "T1", "A1")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, OpTimestampedLyrics, te.Operation)
	require.Equal(t, []string{"timestamped_lyrics:transport_error"}, obs.calls)
}

func TestClient_TimestampedLyrics(t *testing.T) {
	c, mt, _ := newTestClient(t, "secret")
	mt.RegisterResponder(http.MethodPost, testBase+"/generate/get-timestamped-lyrics",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, map[string]any{"taskId": "T1", "audioId": "A1"}, decodeBody(t, req))
			return httpmock.NewStringResponse(http.StatusOK, `{"code":200,"data":{"alignedWords":[]}}`), nil
		})

	body, err := c.TimestampedLyrics(context.Background(), "T1", "A1")
	require.NoError(t, err)
	require.JSONEq(t, `{"code":200,"data":{"alignedWords":[]}}`, string(body))
}

func TestClient_GenerateVideo(t *testing.T) {
	c, mt, _ := newTestClient(t, "secret")
	mt.RegisterResponder(http.MethodPost, testBase+"/mp4/generate",
		func(req *http.Request) (*http.Response, error) {
			body := decodeBody(t, req)
			assert.Equal(t, "T1", body["taskId"])
			assert.Equal(t, "A1", body["audioId"])
			assert.Equal(t, "https://songs.example.test/callback", body["callBackUrl"])
			assert.Equal(t, "AI Artist", body["author"])
			assert.Equal(t, "https://songs.example.test", body["domainName"])
			return httpmock.NewStringResponse(http.StatusOK, `{"code":200,"data":{"taskId":"V1"}}`), nil
		})

	videoTaskID, err := c.GenerateVideo(context.Background(), "T1", "A1")
	require.NoError(t, err)
	require.Equal(t, "V1", videoTaskID)
}

func TestClient_GenerateVideo_MissingTaskID(t *testing.T) {
	c, mt, _ := newTestClient(t, "secret")
	mt.RegisterResponder(http.MethodPost, testBase+"/mp4/generate",
		httpmock.NewStringResponder(http.StatusOK, `{"code":400,"msg":"audio not ready","data":null}`))

	_, err := c.GenerateVideo(context.Background(), "T1", "A1")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Contains(t, err.Error(), "data.taskId")
}
