package cli

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

func buildPackage(t *testing.T, dir, name, version string) string {
	t.Helper()

	filename := name + "-" + version + "-x86_64.pkg.tar.zst"
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	require.NoError(t, err)
	tw := tar.NewWriter(zw)

	pkginfo := "pkgname = " + name + "\npkgver = " + version + "\npkgdesc = test\narch = x86_64\n"
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: ".PKGINFO", Mode: 0644, Size: int64(len(pkginfo))}))
	_, err = tw.Write([]byte(pkginfo))
	require.NoError(t, err)

	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())

	return filename
}

func TestRunUpdateThenQuery(t *testing.T) {
	dir := t.TempDir()
	buildPackage(t, dir, "foo", "1.0-1")

	var buf bytes.Buffer
	err := Run(&Config{
		Action: ActionUpdate,
		DBPath: filepath.Join(dir, "test.db.tar.gz"),
		Color:  ColorNever,
	}, &buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "ADDING: foo-1.0-1")
	require.Contains(t, buf.String(), "repo test updated successfully")

	buf.Reset()
	err = Run(&Config{
		Action: ActionQuery,
		DBPath: filepath.Join(dir, "test.db.tar.gz"),
		Color:  ColorNever,
	}, &buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "foo 1.0-1")
	require.Contains(t, buf.String(), "does not need updating")
}

func TestRunVerifyReportsOkay(t *testing.T) {
	dir := t.TempDir()
	buildPackage(t, dir, "foo", "1.0-1")

	var buf bytes.Buffer
	require.NoError(t, Run(&Config{
		Action: ActionUpdate,
		DBPath: filepath.Join(dir, "test.db.tar.gz"),
		Color:  ColorNever,
	}, &buf))

	buf.Reset()
	err := Run(&Config{
		Action: ActionVerify,
		DBPath: filepath.Join(dir, "test.db.tar.gz"),
		Color:  ColorNever,
	}, &buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "repo okay!")
}

func TestRunVerifyFailsOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	buildPackage(t, dir, "foo", "1.0-1")

	var buf bytes.Buffer
	require.NoError(t, Run(&Config{
		Action: ActionUpdate,
		DBPath: filepath.Join(dir, "test.db.tar.gz"),
		Color:  ColorNever,
	}, &buf))

	require.NoError(t, os.Remove(filepath.Join(dir, "foo-1.0-1-x86_64.pkg.tar.zst")))

	buf.Reset()
	err := Run(&Config{
		Action: ActionVerify,
		DBPath: filepath.Join(dir, "test.db.tar.gz"),
		Color:  ColorNever,
	}, &buf)
	require.Error(t, err)
}

func TestRunRemove(t *testing.T) {
	dir := t.TempDir()
	buildPackage(t, dir, "foo", "1.0-1")

	var buf bytes.Buffer
	require.NoError(t, Run(&Config{
		Action: ActionUpdate,
		DBPath: filepath.Join(dir, "test.db.tar.gz"),
		Color:  ColorNever,
	}, &buf))

	buf.Reset()
	err := Run(&Config{
		Action:   ActionRemove,
		DBPath:   filepath.Join(dir, "test.db.tar.gz"),
		Packages: []string{"foo"},
		Color:    ColorNever,
	}, &buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "REMOVING: foo-1.0-1")
}
