package imagehost

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func TestParseDataURI(t *testing.T) {
	t.Parallel()

	data, mediaType, err := ParseDataURI("data:image/png;base64," + tinyPNG)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mediaType)
	assert.NotEmpty(t, data)
}

func TestParseDataURIRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
	}{
		{"not a data uri", "https://example.com/a.png"},
		{"no comma", "data:image/png;base64"},
		{"not base64", "data:image/png;utf8,hello"},
		{"not an image", "data:text/plain;base64,aGVsbG8="},
		{"bad payload", "data:image/png;base64,!!!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseDataURI(tc.in)
			assert.Error(t, err)
		})
	}
}

func TestLocalStoreUpload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/static/chatpic")
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "data:image/png;base64,"+tinyPNG)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/static/chatpic/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	// The file behind the URL must exist on disk.
	fname := strings.TrimPrefix(url, "/static/chatpic/")
	_, err = os.Stat(filepath.Join(dir, fname))
	assert.NoError(t, err)
}

func TestLocalStoreUploadRejectsGarbage(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir(), "/static/chatpic")
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "data:image/png;base64,aGVsbG8=")
	assert.Error(t, err)
}

func TestNoopStore(t *testing.T) {
	t.Parallel()

	_, err := Noop{}.Upload(context.Background(), "data:image/png;base64,"+tinyPNG)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
