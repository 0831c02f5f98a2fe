package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveAndOpen(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	projectID := uuid.New()
	content := []byte("plan content")

	storedPath, size, err := store.Save(projectID, ".pdf", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
	assert.True(t, strings.HasPrefix(storedPath, projectID.String()+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(storedPath, ".pdf"))

	f, err := store.Open(storedPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestFileStore_SaveGeneratesUniqueNames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	projectID := uuid.New()

	first, _, err := store.Save(projectID, ".pdf", strings.NewReader("a"))
	require.NoError(t, err)
	second, _, err := store.Save(projectID, ".pdf", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestFileStore_Remove(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)

	projectID := uuid.New()
	storedPath, _, err := store.Save(projectID, ".pdf", strings.NewReader("x"))
	require.NoError(t, err)

	err = store.Remove(storedPath)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, storedPath))
	assert.True(t, os.IsNotExist(err))

	// Removing a missing file is not an error
	err = store.Remove(storedPath)
	assert.NoError(t, err)
}

func TestFileStore_RemoveProject(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)

	projectID := uuid.New()
	_, _, err = store.Save(projectID, ".pdf", strings.NewReader("a"))
	require.NoError(t, err)
	_, _, err = store.Save(projectID, ".dwg", strings.NewReader("b"))
	require.NoError(t, err)

	err = store.RemoveProject(projectID)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, projectID.String()))
	assert.True(t, os.IsNotExist(err))
}
