package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedStamp returns a StampFunc that always yields at.
func fixedStamp(at uint64) StampFunc {
	return func(string) (uint64, error) { return at, nil }
}

type recordingDebugger struct{ lines []string }

func (r *recordingDebugger) Debug(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	dbg := &recordingDebugger{}
	l := Load(t.TempDir(), WithDebug(dbg))
	assert.Equal(t, 0, l.Len())
	require.Len(t, dbg.lines, 1)
	assert.Contains(t, dbg.lines[0], "No ledger")
}

func TestLoad_UnparsableFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFile), []byte("{not json"), 0o644))

	dbg := &recordingDebugger{}
	l := Load(dir, WithDebug(dbg))
	assert.Equal(t, 0, l.Len())
	require.Len(t, dbg.lines, 1)
	assert.Contains(t, dbg.lines[0], "unparsable")

	// The broken file is replaced on the next persist.
	require.NoError(t, l.MarkProcessed(filepath.Join(dir, "a.mp4"), 10, 5))
	require.NoError(t, l.Persist())
	assert.Equal(t, 1, Load(dir).Len())
}

func TestLoad_NullDocumentIsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFile), []byte("null"), 0o644))

	l := Load(dir)
	require.NoError(t, l.MarkProcessed(filepath.Join(dir, "a.mp4"), 10, 5))
	assert.Equal(t, 1, l.Len())
}

func TestPersist_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "sub", "clip.mp4")

	l := Load(dir, WithStamp(fixedStamp(1700000000)))
	require.NoError(t, l.MarkProcessed(clip, 2048, 1024))
	require.NoError(t, l.Persist())

	raw, err := os.ReadFile(filepath.Join(dir, StateFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sub/clip.mp4"`)
	assert.Contains(t, string(raw), `"size_before": 2048`)
	assert.NotContains(t, string(raw), "added")

	again := Load(dir)
	rec, ok := again.Record(clip)
	require.True(t, ok)
	assert.Equal(t, FileRecord{SizeBefore: 2048, SizeAfter: 1024, MarkedAt: 1700000000}, rec)
}

func TestPersist_UnwritableDirFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	// A regular file where the ledger directory should be.
	l := Load(blocker)
	err := l.Persist()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist ledger")
}

func TestIsProcessed_FreshnessGating(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.mov")

	l := Load(dir, WithStamp(fixedStamp(1000)))
	assert.False(t, l.IsProcessed(clip, 0), "no record yet")

	require.NoError(t, l.MarkProcessed(clip, 100, 50))
	tests := []struct {
		signal uint64
		want   bool
	}{
		{999, true},
		{1000, true},
		{1001, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.IsProcessed(clip, tt.signal), "signal %d", tt.signal)
	}
}

func TestMarkProcessed_OverwritesRecord(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.mp4")
	at := uint64(10)
	l := Load(dir, WithStamp(func(string) (uint64, error) { at += 10; return at, nil }))

	require.NoError(t, l.MarkProcessed(clip, 100, 60))
	require.NoError(t, l.MarkProcessed(clip, 60, 40))

	rec, ok := l.Record(clip)
	require.True(t, ok)
	assert.Equal(t, FileRecord{SizeBefore: 60, SizeAfter: 40, MarkedAt: 30}, rec)
	assert.Equal(t, 1, l.Len())
}

func TestMarkProcessed_StampFailureLeavesLedgerUntouched(t *testing.T) {
	dir := t.TempDir()
	l := Load(dir, WithStamp(func(string) (uint64, error) { return 0, ErrClock }))

	err := l.MarkProcessed(filepath.Join(dir, "clip.mp4"), 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClock))
	assert.Equal(t, 0, l.Len())

	var buf bytes.Buffer
	assert.Equal(t, 0, l.DrainAndReport(&buf).Shrunk)
}

func TestWallClock_BeforeEpoch(t *testing.T) {
	old := clock
	clock = func() time.Time { return time.Unix(-5, 0) }
	defer func() { clock = old }()

	_, err := WallClock("")
	assert.True(t, errors.Is(err, ErrClock))
}

func TestModTimeStamp_UsesFileMtime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	mtime := time.Unix(1600000000, 0)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	got, err := ModTimeStamp(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(1600000000), got)
}

func TestKey(t *testing.T) {
	dir := t.TempDir()
	l := Load(dir)

	assert.Equal(t, "a/b.mp4", l.Key(filepath.Join(dir, "a", "b.mp4")))
	assert.Equal(t, "b.mp4", l.Key(filepath.Join(dir, "a", "..", "b.mp4")))

	outside := filepath.Join(filepath.Dir(dir), "elsewhere.mp4")
	assert.Equal(t, filepath.ToSlash(outside), l.Key(outside))
}

func TestFailure(t *testing.T) {
	cause := errors.New("permission denied")
	err := error(Fail(Override, cause))

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, Override, f.Reason)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "failed to override file: permission denied", err.Error())
	assert.Equal(t, "already processed", Fail(AlreadyProcessed, nil).Error())
}
