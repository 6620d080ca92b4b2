package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPackage(t *testing.T) {
	cases := map[string]bool{
		"foo-1.0-1-x86_64.pkg.tar.zst":     true,
		"foo-1.0-1-x86_64.pkg.tar.xz":      true,
		"foo-1.0-1-x86_64.pkg.tar.gz":      true,
		"foo-1.0-1-x86_64.pkg.tar":         true,
		"foo-1.0-1-x86_64.pkg.tar.zst.sig": false,
		"foo-1.0-1-x86_64.pkg.tar.sig":     false,
		"README.md":                        false,
		"foo.db.tar.gz":                    false,
	}
	for name, want := range cases {
		require.Equal(t, want, IsPackage(name), name)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()

	names := []string{
		"foo-1.0-1-x86_64.pkg.tar.zst",
		"foo-1.0-1-x86_64.pkg.tar.zst.sig",
		"bar-2.0-1-x86_64.pkg.tar.xz",
		"not-a-package.txt",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))

	got, err := ScanDir(dir)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(dir, "foo-1.0-1-x86_64.pkg.tar.zst"),
		filepath.Join(dir, "bar-2.0-1-x86_64.pkg.tar.xz"),
	}, got)
}
