package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	ref, err := store.UploadImage(context.Background(), strings.NewReader("png-bytes"), "", "photo.png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, PublicUploadPrefix+"/"))

	name := strings.TrimPrefix(ref, PublicUploadPrefix+"/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.DeleteImage(context.Background(), ref))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageDeleteIsIdempotent(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ref, err := store.UploadImage(context.Background(), strings.NewReader("x"), "", "a.png")
	require.NoError(t, err)

	require.NoError(t, store.DeleteImage(context.Background(), ref))
	require.NoError(t, store.DeleteImage(context.Background(), ref), "deleting a missing reference is not an error")
}

func TestLocalStorageRejectsForeignReference(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = store.DeleteImage(context.Background(), "https://elsewhere.example/img.png")
	require.Error(t, err)
}

func TestLocalStorageGeneratesUniqueNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	refA, err := store.UploadImage(context.Background(), strings.NewReader("a"), "", "same.png")
	require.NoError(t, err)
	refB, err := store.UploadImage(context.Background(), strings.NewReader("b"), "", "same.png")
	require.NoError(t, err)

	assert.NotEqual(t, refA, refB)
}

func TestLocalStorageSanitizesFileName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	ref, err := store.UploadImage(context.Background(), strings.NewReader("x"), "", "../../etc/passwd")
	require.NoError(t, err)
	assert.NotContains(t, ref, "..")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
