package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	info, err := l.Put(ctx, "images/a.txt", strings.NewReader("hello"), PutObjectOptions{Size: 5, ContentType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "images/a.txt", info.Key)

	ok, err := l.Exists(ctx, "images/a.txt")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, got, err := l.Get(ctx, "images/a.txt")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, int64(5), got.Size)

	require.NoError(t, l.Delete(ctx, "images/a.txt"))
	ok, err = l.Exists(ctx, "images/a.txt")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is a no-op.
	assert.NoError(t, l.Delete(ctx, "images/a.txt"))

	_, _, err = l.Get(ctx, "images/a.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocal_LeavesNoTempFiles(t *testing.T) {
	root := t.TempDir()
	l, err := NewLocal(root)
	require.NoError(t, err)

	_, err = l.Put(context.Background(), "images/b.bin", strings.NewReader("x"), PutObjectOptions{Size: 1})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "images"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.bin", entries[0].Name())
}

func TestLocal_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../escape.txt", "images/../../escape.txt", "/etc/passwd", "", "."} {
		_, err := l.Put(ctx, key, strings.NewReader("x"), PutObjectOptions{})
		assert.Error(t, err, key)
		assert.Error(t, l.Delete(ctx, key), key)
	}
}
