package filelock

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockAndWriteCreatesParentsAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")

	require.NoError(t, LockAndWrite(path, []byte("first")))
	require.NoError(t, LockAndWrite(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"out.txt", "out.txt" + LockSuffix}, names, "temp files must not be left behind")
}

func TestLockAndWriteReleasesLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.txt")

	require.NoError(t, LockAndWrite(path, []byte("result\n")))

	other := flock.New(path + LockSuffix)
	ok, err := other.TryLock()
	require.NoError(t, err)
	assert.True(t, ok, "lock must be released after the write")
	require.NoError(t, other.Unlock())
}

func TestLockAndWriteWaitsForHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.txt")
	holder := flock.New(path + LockSuffix)
	require.NoError(t, holder.Lock())

	done := make(chan error, 1)
	go func() {
		done <- LockAndWrite(path, []byte("late\n"))
	}()

	select {
	case err := <-done:
		t.Fatalf("write finished while the lock was held: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, holder.Unlock())
	require.NoError(t, <-done)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "late\n", string(data))
}

func TestLockAndWriteFailsWhenTargetIsDirectory(t *testing.T) {
	path := t.TempDir()

	err := LockAndWrite(path, []byte("x"))
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "."+filepath.Base(path)+".", "temp file must be removed on failure")
	}
}
