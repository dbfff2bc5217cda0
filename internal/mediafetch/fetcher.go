// Package mediafetch downloads provider media into the public media root.
package mediafetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

const DefaultTimeout = 120 * time.Second

// DownloadError wraps any failure to fetch or store a media file.
type DownloadError struct {
	URL        string
	Dest       string
	StatusCode int
	Cause      error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s to %s: %v", e.URL, e.Dest, e.Cause)
}

func (e *DownloadError) Unwrap() error { return e.Cause }

type Fetcher struct {
	http    *http.Client
	timeout time.Duration
}

// NewFetcher returns a Fetcher using httpClient, or a default client when nil.
func NewFetcher(httpClient *http.Client, timeout time.Duration) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{http: httpClient, timeout: timeout}
}

// Fetch downloads url into dest, replacing any existing file. The body is
// staged in a temp file next to dest so a failed download leaves nothing
// behind.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	fail := func(status int, err error) (int64, error) {
		return 0, &DownloadError{URL: url, Dest: dest, StatusCode: status, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fail(0, err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(resp.StatusCode, errors.New(resp.Status))
	}

	tmp := filepath.Join(filepath.Dir(dest), ".download-"+uuid.NewString())
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fail(0, err)
	}

	n, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(tmp)
		return fail(0, copyErr)
	}

	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return fail(0, err)
	}

	slog.Info("media saved", "url", url, "path", dest, "size", humanize.Bytes(uint64(n)))
	return n, nil
}
