package signer

import (
	"bytes"
	"crypto"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// GPGSigner implements Signer interface using GPG.
//
// The key-loading logic is the teacher's: try armored, fall back to
// binary, decrypt the private key and any subkeys if a passphrase is
// given. What changed is the signing surface itself: repo-add/
// repo-remove never produce APT cleartext signatures or RPM-style
// armored detached signatures, only the raw binary detached signatures
// pacman's own signature sidecars use, and unlike repogen it also has
// to verify signatures it picks up from package files.
type GPGSigner struct {
	entity  *openpgp.Entity
	keyring openpgp.EntityList
}

// NewGPGSigner creates a new GPG signer from a private key file.
func NewGPGSigner(keyPath, passphrase string) (*GPGSigner, error) {
	if keyPath == "" {
		return nil, fmt.Errorf("key path is empty")
	}

	keyFile, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	defer keyFile.Close()

	// Try to parse as armored key first.
	entityList, err := openpgp.ReadArmoredKeyRing(keyFile)
	if err != nil {
		// Try as binary key.
		if _, serr := keyFile.Seek(0, 0); serr != nil {
			return nil, fmt.Errorf("failed to rewind key file: %w", serr)
		}
		entityList, err = openpgp.ReadKeyRing(keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(entityList) == 0 {
		return nil, fmt.Errorf("no keys found in key file")
	}

	entity := entityList[0]

	if passphrase != "" {
		if entity.PrivateKey != nil && entity.PrivateKey.Encrypted {
			if err := entity.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
				return nil, fmt.Errorf("failed to decrypt private key: %w", err)
			}
		}

		for _, subkey := range entity.Subkeys {
			if subkey.PrivateKey != nil && subkey.PrivateKey.Encrypted {
				if err := subkey.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
					return nil, fmt.Errorf("failed to decrypt subkey: %w", err)
				}
			}
		}
	}

	return &GPGSigner{
		entity:  entity,
		keyring: entityList,
	}, nil
}

// SignDetachedBinary returns a raw (non-armored) detached signature
// over data, matching the ".sig" sidecars pacman expects next to
// a package or index archive.
func (s *GPGSigner) SignDetachedBinary(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	err := openpgp.DetachSign(&buf, s.entity, bytes.NewReader(data), &packet.Config{
		DefaultHash: crypto.SHA256,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create detached signature: %w", err)
	}

	return buf.Bytes(), nil
}

// SignDetachedBinaryFromFile streams path through the signer in a
// single pass, so signing a database archive never requires holding
// the whole archive in memory.
func (s *GPGSigner) SignDetachedBinaryFromFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer

	err = openpgp.DetachSign(&buf, s.entity, f, &packet.Config{
		DefaultHash: crypto.SHA256,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign %s: %w", path, err)
	}

	return buf.Bytes(), nil
}

// VerifyDetached checks sig against signed using the signer's own
// keyring: the key that signs a repository's index is the key used to
// check signatures that arrive with new packages.
func (s *GPGSigner) VerifyDetached(signed io.Reader, sig []byte) error {
	_, err := openpgp.CheckDetachedSignature(s.keyring, signed, bytes.NewReader(sig), nil)
	if err != nil {
		return fmt.Errorf("signature check failed: %w", err)
	}
	return nil
}

// GetPublicKey returns the public key in armored format.
func (s *GPGSigner) GetPublicKey() ([]byte, error) {
	var buf bytes.Buffer

	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		return nil, err
	}

	if err := s.entity.Serialize(w); err != nil {
		w.Close()
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// NewNilSigner returns a nil signer, used when no signing key is
// configured. Callers branch on a nil Signer before use.
func NewNilSigner() Signer {
	return nil
}
