package checksum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pkg.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	sums, err := File(path)
	require.NoError(t, err)

	require.Equal(t, int64(len("hello world")), sums.Size)
	require.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", sums.MD5)
	require.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", sums.SHA256)
}

func TestFileMissing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
