package fsstat_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lessweb/pkg/fsstat"
)

func TestStat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.less")
	require.NoError(t, os.WriteFile(file, []byte("a{}"), 0o644))

	t.Run("regular file", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, fsstat.RegularFile, fsstat.Stat(file))
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, fsstat.Directory, fsstat.Stat(dir))
		require.True(t, fsstat.IsDir(dir))
		require.False(t, fsstat.IsDir(file))
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, fsstat.Absent, fsstat.Stat(filepath.Join(dir, "missing.less")))
	})

	t.Run("broken symlink", func(t *testing.T) {
		t.Parallel()

		link := filepath.Join(t.TempDir(), "broken.less")
		require.NoError(t, os.Symlink(filepath.Join(dir, "nowhere.less"), link))
		require.Equal(t, fsstat.Absent, fsstat.Stat(link))
	})

	t.Run("symlink to file", func(t *testing.T) {
		t.Parallel()

		link := filepath.Join(t.TempDir(), "linked.less")
		require.NoError(t, os.Symlink(file, link))
		require.Equal(t, fsstat.RegularFile, fsstat.Stat(link))
	})
}

func TestKindString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "absent", fsstat.Absent.String())
	require.Equal(t, "file", fsstat.RegularFile.String())
	require.Equal(t, "directory", fsstat.Directory.String())
}
