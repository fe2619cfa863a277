package image_list

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, nil, 0644))

	return path
}

func TestScanFiltersAndSorts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "b.png")
	touch(t, dir, "a.jpg")
	touch(t, dir, "notes.txt")
	touch(t, dir, "d.gif")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))

	s := New(zap.NewNop())
	require.NoError(t, s.Scan(dir))
	require.Equal(t, 3, s.Len())
}

func TestNeighbors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := touch(t, dir, "a.jpg")
	b := touch(t, dir, "b.png")
	d := touch(t, dir, "d.gif")
	touch(t, dir, "c.txt")

	s := New(zap.NewNop())

	prev, next := s.Neighbors(b)
	require.Equal(t, a, prev)
	require.Equal(t, d, next)

	prev, next = s.Neighbors(a)
	require.Empty(t, prev)
	require.Equal(t, b, next)

	prev, next = s.Neighbors(d)
	require.Equal(t, b, prev)
	require.Empty(t, next)
}

func TestNeighborsOfUnknownPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "a.jpg")

	s := New(zap.NewNop())

	prev, next := s.Neighbors(filepath.Join(dir, "zzz.png"))
	require.Empty(t, prev)
	require.Empty(t, next)
}

func TestNeighborsRescansOnDirectoryChange(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	second := t.TempDir()
	a := touch(t, first, "a.png")
	x := touch(t, second, "x.png")
	y := touch(t, second, "y.png")

	s := New(zap.NewNop())

	_, next := s.Neighbors(a)
	require.Empty(t, next)

	prev, next := s.Neighbors(x)
	require.Empty(t, prev)
	require.Equal(t, y, next)
}

func TestNeighborsUnreadableDirectory(t *testing.T) {
	t.Parallel()

	s := New(zap.NewNop())

	prev, next := s.Neighbors("/definitely/not/here/img.png")
	require.Empty(t, prev)
	require.Empty(t, next)
}
