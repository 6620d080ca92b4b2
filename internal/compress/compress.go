// Package compress implements the compressed-archive sink: a streaming
// write/read filter per container format named in spec.md §4.1's
// extension table (uncompressed, gzip, bzip2, xz, legacy Unix compress).
//
// None of this hand-rolls codec math: gzip and bzip2 use
// klauspost/compress and dsnet/compress (the latter pulled from the
// retrieval pack's nabbar-golib, which depends on it for exactly the
// write-side bzip2 support the standard library lacks); xz reuses the
// teacher's existing ulikunitz/xz dependency. Only the long-obsolete
// ".Z" container has no ecosystem encoder anywhere in the pack and falls
// back to the standard library's compress/lzw (see legacycompress.go).
package compress

import (
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// Algorithm identifies a repository index compression container.
type Algorithm int

const (
	None Algorithm = iota
	Gzip
	Bzip2
	XZ
	LegacyCompress
)

func (a Algorithm) String() string {
	switch a {
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	case XZ:
		return "xz"
	case LegacyCompress:
		return "compress"
	default:
		return "none"
	}
}

// Ext returns the archive extension suffix conventionally used for this
// algorithm's db/files archive, e.g. ".tar.gz".
func (a Algorithm) Ext() string {
	switch a {
	case Gzip:
		return ".tar.gz"
	case Bzip2:
		return ".tar.bz2"
	case XZ:
		return ".tar.xz"
	case LegacyCompress:
		return ".tar.Z"
	default:
		return ".tar"
	}
}

// nopWriteCloser adapts an io.Writer with no Close method (plain
// passthrough) to io.WriteCloser.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// nopReadCloser adapts an io.Reader with no Close method to io.ReadCloser.
type nopReadCloser struct{ io.Reader }

func (nopReadCloser) Close() error { return nil }

// NewWriter wraps w in the streaming compressor for a, returning a sink
// whose Close both flushes the compressor's trailer and never touches w
// itself (the caller owns closing the underlying file).
func NewWriter(w io.Writer, a Algorithm) (io.WriteCloser, error) {
	switch a {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Bzip2:
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: 9})
	case XZ:
		return xz.NewWriter(w)
	case LegacyCompress:
		return newLZWWriter(w), nil
	default:
		return nil, fmt.Errorf("compress: unknown algorithm %d", a)
	}
}

// NewReader wraps r in the streaming decompressor for a.
func NewReader(r io.Reader, a Algorithm) (io.ReadCloser, error) {
	switch a {
	case None:
		return nopReadCloser{r}, nil
	case Gzip:
		return gzip.NewReader(r)
	case Bzip2:
		rc, err := bzip2.NewReader(r, nil)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case XZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return nopReadCloser{xr}, nil
	case LegacyCompress:
		return newLZWReader(r), nil
	default:
		return nil, fmt.Errorf("compress: unknown algorithm %d", a)
	}
}
