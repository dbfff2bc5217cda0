package mediafetch

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

func (k Kind) Extension() string {
	if k == KindVideo {
		return ".mp4"
	}
	return ".mp3"
}

// PublicPrefix is the URL path the media root is served under.
const PublicPrefix = "/media/"

var (
	invalidCharsRe = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	validTaskIDRe  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// ValidTaskID reports whether taskID can name a media file unchanged:
// letters, digits, '.', '_' and '-', not starting with a dot or dash.
func ValidTaskID(taskID string) bool {
	return len(taskID) <= 200 && validTaskIDRe.MatchString(taskID)
}

// Root maps task ids onto files under a media directory and onto the
// public URLs those files are served at.
type Root struct {
	dir     string
	baseURL string
}

// NewRoot creates dir if needed.
func NewRoot(dir, baseURL string) (*Root, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Root{dir: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (r *Root) Dir() string { return r.dir }

// FileName returns the on-disk name for a task's media of the given kind.
// A task id passing ValidTaskID is used as is. Anything else is rewritten so
// it cannot escape the media root; such ids may collide, so callers reject
// them with ValidTaskID first.
func FileName(taskID string, kind Kind) string {
	name := invalidCharsRe.ReplaceAllString(strings.TrimSpace(taskID), "_")
	name = strings.Trim(name, ".")
	if name == "" {
		name = "_"
	}
	return name + kind.Extension()
}

func (r *Root) Path(taskID string, kind Kind) string {
	return filepath.Join(r.dir, FileName(taskID, kind))
}

func (r *Root) PublicURL(taskID string, kind Kind) string {
	return r.baseURL + PublicPrefix + FileName(taskID, kind)
}

// Resolve maps a request path below PublicPrefix back onto the media root.
// ok is false for names that would leave the root.
func (r *Root) Resolve(name string) (string, bool) {
	clean := filepath.Clean("/" + name)
	if clean == "/" || strings.Contains(clean[1:], "/") || strings.HasPrefix(clean[1:], ".") {
		return "", false
	}
	return filepath.Join(r.dir, clean[1:]), true
}
