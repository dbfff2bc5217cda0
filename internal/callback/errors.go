package callback

import (
	"context"
	"errors"
	"net/http"

	"thirdcoast.systems/songforge/internal/db"
	"thirdcoast.systems/songforge/internal/mediafetch"
	"thirdcoast.systems/songforge/internal/suno"
)

// IsTransient reports whether redelivering the same callback could succeed:
// network and timeout failures, provider or media host 5xx and 429
// responses, and lost database connections. Malformed payloads and missing
// configuration are permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var payloadErr *PayloadError
	if errors.As(err, &payloadErr) ||
		errors.Is(err, suno.ErrMissingAPIKey) ||
		errors.Is(err, db.ErrDatabaseNotConfigured) {
		return false
	}

	var downloadErr *mediafetch.DownloadError
	if errors.As(err, &downloadErr) {
		return downloadErr.StatusCode == 0 || retryableStatus(downloadErr.StatusCode)
	}

	var upstreamErr *suno.UpstreamError
	if errors.As(err, &upstreamErr) {
		return retryableStatus(upstreamErr.StatusCode)
	}

	var transportErr *suno.TransportError
	if errors.As(err, &transportErr) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return db.IsConnectionErr(err)
}

func retryableStatus(code int) bool {
	return code >= http.StatusInternalServerError ||
		code == http.StatusTooManyRequests ||
		code == http.StatusRequestTimeout
}
