package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndServePath(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	url, err := store.Save(strings.NewReader("fake image bytes"), "avatar.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(store.Dir(), filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))

	// Names are unique per save.
	url2, err := store.Save(strings.NewReader("x"), "avatar.png")
	require.NoError(t, err)
	assert.NotEqual(t, url, url2)
}

func TestSaveRejectsBadTypes(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	for _, name := range []string{"doc.pdf", "script.sh", "noext", "image.png.exe"} {
		_, err := store.Save(strings.NewReader("x"), name)
		assert.ErrorIs(t, err, ErrInvalidFileType, "name %q", name)
	}
}
