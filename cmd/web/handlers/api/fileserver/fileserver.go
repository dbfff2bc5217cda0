// Package fileserver serves saved media files with conditional request support.
package fileserver

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/songforge/cmd/web/handlers/common"
	"thirdcoast.systems/songforge/internal/mediafetch"
)

// etagEntry is invalidated when the file's size or modtime changes.
type etagEntry struct {
	size    int64
	modTime time.Time
	etag    string
}

// FileServer serves files from the media root, memoizing weak ETags.
type FileServer struct {
	mu      sync.RWMutex
	entries map[string]etagEntry
}

func NewFileServer() *FileServer {
	return &FileServer{entries: make(map[string]etagEntry)}
}

func (fs *FileServer) etag(path string, info os.FileInfo) string {
	fs.mu.RLock()
	if e, ok := fs.entries[path]; ok && e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
		fs.mu.RUnlock()
		return e.etag
	}
	fs.mu.RUnlock()

	etag := fmt.Sprintf(`W/"%x-%x"`, info.ModTime().UnixNano(), info.Size())

	fs.mu.Lock()
	fs.entries[path] = etagEntry{size: info.Size(), modTime: info.ModTime(), etag: etag}
	fs.mu.Unlock()
	return etag
}

var contentTypes = map[string]string{
	".mp3": "audio/mpeg",
	".mp4": "video/mp4",
}

// ServeDiskFile serves absPath with ETag/Last-Modified headers. Range
// requests are handled by http.ServeContent.
func (fs *FileServer) ServeDiskFile(c echo.Context, absPath string, cacheControl string) error {
	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		return echo.ErrNotFound
	}

	etag := fs.etag(absPath, info)
	if inm := c.Request().Header.Get("If-None-Match"); inm != "" && strings.TrimSpace(inm) == etag {
		return c.NoContent(http.StatusNotModified)
	}

	h := c.Response().Header()
	h.Set(echo.HeaderCacheControl, cacheControl)
	h.Set("ETag", etag)
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(absPath))]; ok {
		h.Set(echo.HeaderContentType, ct)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return echo.ErrNotFound
	}
	defer f.Close()

	http.ServeContent(c.Response(), c.Request(), filepath.Base(absPath), info.ModTime(), f)
	return nil
}

// HandleMedia serves GET /media/* from the media root.
func HandleMedia(root *mediafetch.Root, fs *FileServer) echo.HandlerFunc {
	return func(c echo.Context) error {
		name := c.Param("*")
		if name == "" {
			return common.ErrNotFound("media file name required")
		}
		path, ok := root.Resolve(name)
		if !ok {
			return common.ErrNotFound("media file not found")
		}
		// Files are overwritten in place on redelivered callbacks.
		return fs.ServeDiskFile(c, path, "public, max-age=300")
	}
}
