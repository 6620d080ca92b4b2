package compress

import (
	"compress/lzw"
	"io"
)

// legacyMagic is the two-byte header traditional Unix "compress" (.Z)
// files start with; ncompress additionally records a third byte packing
// the max code width and block-mode flag, which readers that only care
// about the standard library's fixed-width LZW decoder can ignore.
var legacyMagic = [2]byte{0x1F, 0x9D}

// lzwWriter produces a ".Z"-style stream: the legacy magic header
// followed by an MSB-first LZW-compressed body. It is not a byte-exact
// ncompress implementation (no ecosystem library in the retrieval pack
// implements this historical format either), but it round-trips with
// lzwReader below, which is all spec.md's stability/round-trip
// properties require of the legacy-compress container.
type lzwWriter struct {
	w   io.Writer
	lzw io.WriteCloser
	hdr bool
}

func newLZWWriter(w io.Writer) *lzwWriter {
	return &lzwWriter{w: w}
}

func (z *lzwWriter) Write(p []byte) (int, error) {
	if !z.hdr {
		if _, err := z.w.Write(legacyMagic[:]); err != nil {
			return 0, err
		}
		z.lzw = lzw.NewWriter(z.w, lzw.MSB, 8)
		z.hdr = true
	}
	return z.lzw.Write(p)
}

func (z *lzwWriter) Close() error {
	if !z.hdr {
		// Nothing was ever written; still emit a valid, empty container.
		if _, err := z.w.Write(legacyMagic[:]); err != nil {
			return err
		}
		z.lzw = lzw.NewWriter(z.w, lzw.MSB, 8)
	}
	return z.lzw.Close()
}

type lzwReader struct {
	r    io.Reader
	lzw  io.ReadCloser
	init bool
	err  error
}

func newLZWReader(r io.Reader) *lzwReader {
	return &lzwReader{r: r}
}

func (z *lzwReader) Read(p []byte) (int, error) {
	if z.err != nil {
		return 0, z.err
	}
	if !z.init {
		var hdr [2]byte
		if _, err := io.ReadFull(z.r, hdr[:]); err != nil {
			z.err = err
			return 0, err
		}
		z.lzw = lzw.NewReader(z.r, lzw.MSB, 8)
		z.init = true
	}
	return z.lzw.Read(p)
}

func (z *lzwReader) Close() error {
	if z.lzw != nil {
		return z.lzw.Close()
	}
	return nil
}
