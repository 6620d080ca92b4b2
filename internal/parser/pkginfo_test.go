package parser

import (
	"archive/tar"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

const testPKGINFO = `# Generated by makepkg
pkgname = foo
pkgver = 1.2.3-1
pkgdesc = a test package
url = https://example.invalid/foo
builddate = 1700000000
size = 2048
packager = Test Packager <test@example.invalid>
arch = x86_64
license = MIT
depend = bar>=1.0
depend = baz
conflict = qux
provides = foo-compat
optdepend = quux: extra stuff
makedepend = build-only-dep
`

// writeTestPackage builds a minimal ".pkg.tar.zst" fixture containing
// .PKGINFO plus a couple of installed files, the shape ParsePackage and
// ExtractFiles expect.
func writeTestPackage(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	require.NoError(t, err)
	tw := tar.NewWriter(zw)

	entries := []struct {
		name string
		body string
	}{
		{".PKGINFO", testPKGINFO},
		{"usr/bin/foo", "#!/bin/sh\n"},
		{"usr/share/doc/foo/README", "hello\n"},
	}
	for _, e := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: e.name,
			Mode: 0644,
			Size: int64(len(e.body)),
		}))
		_, err := tw.Write([]byte(e.body))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())

	return path
}

func TestParsePackage(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPackage(t, dir, "foo-1.2.3-1-x86_64.pkg.tar.zst")

	meta, err := ParsePackage(path)
	require.NoError(t, err)

	require.Equal(t, "foo", meta.Name)
	require.Equal(t, "1.2.3-1", meta.Version)
	require.Equal(t, "a test package", meta.Desc)
	require.Equal(t, "x86_64", meta.Arch)
	require.Equal(t, int64(1700000000), meta.BuildDate)
	require.Equal(t, int64(2048), meta.ISize)
	require.Equal(t, []string{"bar>=1.0", "baz"}, meta.Depends)
	require.Equal(t, []string{"qux"}, meta.Conflicts)
	require.Equal(t, []string{"foo-compat"}, meta.Provides)
	require.Equal(t, []string{"quux: extra stuff"}, meta.OptDepends)
	require.Equal(t, []string{"build-only-dep"}, meta.MakeDepends)
	require.Equal(t, []string{"MIT"}, meta.License)
	require.NotEmpty(t, meta.MD5Sum)
	require.NotEmpty(t, meta.SHA256Sum)
	require.Greater(t, meta.Size, int64(0))
}

func TestExtractFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPackage(t, dir, "foo-1.2.3-1-x86_64.pkg.tar.zst")

	files, err := ExtractFiles(path)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"usr/bin/foo", "usr/share/doc/foo/README"}, files)
}

func TestParsePackageMissingPkgname(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pkg.tar.zst")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw, err := zstd.NewWriter(f)
	require.NoError(t, err)
	tw := tar.NewWriter(zw)
	body := "pkgdesc = oops no name\n"
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: ".PKGINFO", Mode: 0644, Size: int64(len(body))}))
	_, err = tw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = ParsePackage(path)
	require.Error(t, err)
}
