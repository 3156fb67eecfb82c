package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func startWatcher(t *testing.T, path string, debounce time.Duration) (*Watcher, <-chan string) {
	t.Helper()
	changes := make(chan string, 16)
	w, err := New(path, debounce, func(p string) { changes <- p })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { _ = w.Stop() })
	return w, changes
}

func waitChange(t *testing.T, changes <-chan string) string {
	t.Helper()
	select {
	case p := <-changes:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
		return ""
	}
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rg.json")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))

	w, changes := startWatcher(t, path, 150*time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := f.WriteString("{}\n")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	got := waitChange(t, changes)
	abs, _ := filepath.Abs(path)
	assert.Equal(t, abs, got)

	select {
	case <-changes:
		t.Fatal("burst of writes triggered more than once")
	case <-time.After(400 * time.Millisecond):
	}

	stats := w.Stats()
	assert.Equal(t, int64(1), stats.Triggers)
	assert.GreaterOrEqual(t, stats.EventsSeen, int64(1))
	assert.True(t, stats.IsActive)
}

func TestWatcher_ReplacedByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rg.json")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0644))

	_, changes := startWatcher(t, path, 20*time.Millisecond)

	tmp := filepath.Join(dir, "rg.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("new\n"), 0644))
	require.NoError(t, os.Rename(tmp, path))

	waitChange(t, changes)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rg.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	w, changes := startWatcher(t, path, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("x"), 0644))

	select {
	case p := <-changes:
		t.Fatalf("unexpected change for %s", p)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, int64(0), w.Stats().EventsSeen)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rg.json")

	w, err := New(path, 0, func(string) {})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
	require.NoError(t, w.Start())

	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
	assert.False(t, w.Stats().IsActive)
}

func TestNew_NilHandler(t *testing.T) {
	_, err := New("x.json", time.Second, nil)
	assert.Error(t, err)
}

func TestStart_MissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing", "rg.json"), time.Second, func(string) {})
	require.NoError(t, err)
	assert.Error(t, w.Start())
	assert.False(t, w.Stats().IsActive)
	require.NoError(t, w.Stop())
}

func TestStart_FailureReleasesWatcher(t *testing.T) {
	// no Stop; a failed Start releases the fsnotify watcher itself
	w, err := New(filepath.Join(t.TempDir(), "missing", "rg.json"), time.Second, func(string) {})
	require.NoError(t, err)
	require.Error(t, w.Start())
	assert.False(t, w.Stats().IsActive)
}
