package fsx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_SuccessAndNoTempLeft(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteFileAtomic(dir, "state.json", []byte("hello"), 0o644))

	b, err := os.ReadFile(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".state.json.tmp-"), "temp file left behind: %q", e.Name())
	}
}

func TestWriteFileAtomic_Overwrites(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFileAtomic(dir, "state.json", []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(dir, "state.json", []byte("second"), 0o644))

	b, err := os.ReadFile(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
}

func TestWriteFileAtomic_RenameFailKeepsOldContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFileAtomic(dir, "state.json", []byte("old"), 0o644))

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error { return os.ErrPermission }
	defer func() { renameFunc = old }()

	require.Error(t, WriteFileAtomic(dir, "state.json", []byte("new"), 0o644))

	b, err := os.ReadFile(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReplace_OverwritesDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4_x265.mp4")
	dst := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(src, []byte("small"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("much larger original"), 0o644))

	require.NoError(t, Replace(src, dst))

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "small", string(b))
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestReplace_MissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(dst, []byte("original"), 0o644))

	require.Error(t, Replace(filepath.Join(dir, "absent.mp4"), dst))

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "original", string(b))
}
