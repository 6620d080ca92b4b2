package signer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/require"
)

// writeTestKey generates a throwaway entity and writes its serialized
// private key (armored) to dir, returning the path.
func writeTestKey(t *testing.T, dir string) string {
	t.Helper()

	entity, err := openpgp.NewEntity("repoman test", "", "repoman-test@example.invalid", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())

	path := filepath.Join(dir, "test.key")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestGPGSignerSignAndVerify(t *testing.T) {
	dir := t.TempDir()
	keyPath := writeTestKey(t, dir)

	s, err := NewGPGSigner(keyPath, "")
	require.NoError(t, err)

	data := []byte("some-package-1.0.0-1-x86_64.pkg.tar.zst")
	sig, err := s.SignDetachedBinary(data)
	require.NoError(t, err)
	require.NotEmpty(t, sig)

	require.NoError(t, s.VerifyDetached(bytes.NewReader(data), sig))
}

func TestGPGSignerVerifyRejectsTamperedData(t *testing.T) {
	dir := t.TempDir()
	keyPath := writeTestKey(t, dir)

	s, err := NewGPGSigner(keyPath, "")
	require.NoError(t, err)

	sig, err := s.SignDetachedBinary([]byte("original"))
	require.NoError(t, err)

	err = s.VerifyDetached(bytes.NewReader([]byte("tampered")), sig)
	require.Error(t, err)
}

func TestGPGSignerSignDetachedBinaryFromFile(t *testing.T) {
	dir := t.TempDir()
	keyPath := writeTestKey(t, dir)

	s, err := NewGPGSigner(keyPath, "")
	require.NoError(t, err)

	pkgPath := filepath.Join(dir, "pkg.tar.zst")
	require.NoError(t, os.WriteFile(pkgPath, []byte("archive contents"), 0644))

	sig, err := s.SignDetachedBinaryFromFile(pkgPath)
	require.NoError(t, err)

	f, err := os.Open(pkgPath)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, s.VerifyDetached(f, sig))
}

func TestGPGSignerGetPublicKey(t *testing.T) {
	dir := t.TempDir()
	keyPath := writeTestKey(t, dir)

	s, err := NewGPGSigner(keyPath, "")
	require.NoError(t, err)

	pub, err := s.GetPublicKey()
	require.NoError(t, err)
	require.Contains(t, string(pub), "BEGIN PGP PUBLIC KEY BLOCK")
}

func TestNewNilSigner(t *testing.T) {
	require.Nil(t, NewNilSigner())
}
