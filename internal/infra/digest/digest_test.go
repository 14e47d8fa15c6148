package digest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumIsStableAndContentSensitive(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	c := filepath.Join(dir, "c.txt")
	require.NoError(t, os.WriteFile(a, []byte("payload"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("payload"), 0o644))
	require.NoError(t, os.WriteFile(c, []byte("different"), 0o644))

	d := SHA512{}
	sumA, err := d.Sum(context.Background(), a)
	require.NoError(t, err)
	sumB, err := d.Sum(context.Background(), b)
	require.NoError(t, err)
	sumC, err := d.Sum(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, sumA, sumB)
	assert.NotEqual(t, sumA, sumC)
	assert.Len(t, sumA, 128) // hex-encoded SHA-512
}

func TestIndexTreeSkipsLockFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kept.txt"), []byte("kept"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".extidy.lock"), []byte("run=x pid=1"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "deep.txt"), []byte("deep"), 0o644))

	seen, err := SHA512{}.IndexTree(context.Background(), dir, ".extidy.lock")
	require.NoError(t, err)
	assert.Len(t, seen, 2)

	lockSum, err := SHA512{}.Sum(context.Background(), filepath.Join(dir, ".extidy.lock"))
	require.NoError(t, err)
	_, indexed := seen[lockSum]
	assert.False(t, indexed)
}

func TestIndexTreeHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SHA512{}.IndexTree(ctx, dir, "")
	assert.ErrorIs(t, err, context.Canceled)
}
