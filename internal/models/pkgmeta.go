// Package models holds the plain data types shared across the repo engine:
// package metadata, and the error taxonomy used to report per-entry and
// structural failures.
package models

// PkgMeta describes one package file tracked by a repository. Fields mirror
// the headers written to and read from a repository's desc/depends/files
// blocks (see internal/repo/writer.go and internal/repo/loader.go).
type PkgMeta struct {
	// Filename is the basename of the package archive inside the repo root.
	Filename string
	Name     string
	Version  string

	Desc     string
	URL      string
	Packager string
	Arch     string

	Size      int64
	ISize     int64
	BuildDate int64

	MD5Sum    string
	SHA256Sum string

	// Base64Sig holds the base64-encoded detached signature bytes
	// extracted from "<Filename>.sig", when present.
	Base64Sig string

	Depends     []string
	Conflicts   []string
	Provides    []string
	OptDepends  []string
	MakeDepends []string
	License     []string

	// Files is populated lazily: empty until the files index is written,
	// at which point it is either already populated (re-read from a
	// previous files index) or extracted on the fly from the package
	// archive.
	Files []string
}
