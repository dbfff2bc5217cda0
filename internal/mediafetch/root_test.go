package mediafetch

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	require.Equal(t, "T1.mp3", FileName("T1", KindAudio))
	require.Equal(t, "T1.mp4", FileName("T1", KindVideo))
	require.Equal(t, "abc-123_x.mp3", FileName("abc-123_x", KindAudio))
	require.Equal(t, "_.._etc_passwd.mp3", FileName("/../etc/passwd", KindAudio))
	require.Equal(t, "_.mp4", FileName("", KindVideo))
}

func TestValidTaskID(t *testing.T) {
	for _, id := range []string{"T1", "5c79cb1a6a7f4f0b9d1f0e2f3a4b5c6d", "abc-123_x", "a.b"} {
		require.True(t, ValidTaskID(id), id)
	}
	for _, id := range []string{"", "a/b", "a_b/", "../x", ".hidden", "-x", "a b", "ä", strings.Repeat("a", 201)} {
		require.False(t, ValidTaskID(id), id)
	}

	// Distinct valid ids never share a file.
	require.NotEqual(t, FileName("a_b", KindAudio), FileName("a-b", KindAudio))
	require.Equal(t, "a_b.mp3", FileName("a_b", KindAudio))
}

func TestRoot_PathsAndURLs(t *testing.T) {
	dir := t.TempDir()
	root, err := NewRoot(filepath.Join(dir, "media"), "https://example.test/")
	require.NoError(t, err)
	require.DirExists(t, root.Dir())

	require.Equal(t, filepath.Join(dir, "media", "T1.mp3"), root.Path("T1", KindAudio))
	require.Equal(t, "https://example.test/media/T1.mp4", root.PublicURL("T1", KindVideo))
}

func TestRoot_Resolve(t *testing.T) {
	root, err := NewRoot(t.TempDir(), "https://example.test")
	require.NoError(t, err)

	p, ok := root.Resolve("T1.mp3")
	require.True(t, ok)
	require.Equal(t, filepath.Join(root.Dir(), "T1.mp3"), p)

	p, ok = root.Resolve("../T1.mp3")
	require.True(t, ok)
	require.Equal(t, filepath.Join(root.Dir(), "T1.mp3"), p)

	for _, name := range []string{"", "/", "a/b.mp3", ".download-123"} {
		_, ok := root.Resolve(name)
		require.False(t, ok, name)
	}
}
