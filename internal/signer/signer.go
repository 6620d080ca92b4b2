// Package signer wraps the detached-signature sign/verify primitives the
// repo engine treats as an external collaborator (spec.md §1): callers
// never touch OpenPGP packet structures directly.
package signer

import "io"

// Signer produces and checks the detached binary signatures written
// alongside index archives ("<archive>.sig") and picked up from package
// sidecar files ("<pkg>.sig").
type Signer interface {
	// SignDetachedBinary returns a raw (non-armored) OpenPGP detached
	// signature over data, as written to "<archive>.sig".
	SignDetachedBinary(data []byte) ([]byte, error)

	// SignDetachedBinaryFromFile streams path through the signer in a
	// single pass, avoiding loading large package archives into memory.
	SignDetachedBinaryFromFile(path string) ([]byte, error)

	// VerifyDetached checks that sig is a valid detached signature over
	// the contents of signed, against a known key.
	VerifyDetached(signed io.Reader, sig []byte) error

	// GetPublicKey returns the armored public key, for publishing
	// alongside a signed repository.
	GetPublicKey() ([]byte, error)
}
