package repo

import (
	"archive/tar"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/repomgr/repoman/internal/checksum"
	"github.com/repomgr/repoman/internal/compress"
	"github.com/repomgr/repoman/internal/parser"
)

// dbContents selects which member files writeArchive emits per
// package, mirroring repoman.c's DB_DESC/DB_DEPENDS/DB_FILES bitmask
// (compile_database passes DB_DESC|DB_DEPENDS for the main database and
// DB_FILES alone for the files database).
type dbContents int

const (
	contentDesc dbContents = 1 << iota
	contentDepends
	contentFiles
)

// buildTime returns the mtime stamp new archive entries should carry.
// SOURCE_DATE_EPOCH (https://reproducible-builds.org/specs/source-date-epoch/)
// is honored the way build tooling throughout the retrieval pack
// expects, so two runs over the same package set produce byte-identical
// archives.
func buildTime() time.Time {
	if v := os.Getenv("SOURCE_DATE_EPOCH"); v != "" {
		if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(sec, 0).UTC()
		}
	}
	return time.Now().UTC()
}

// writeArchive renders every package in the cache into db, a pax
// restricted tar compressed with the repo's algorithm, matching
// compile_database + repo_write_new's format setup.
func (r *Repo) writeArchive(db dbFile, contents dbContents) error {
	path := filepath.Join(r.root, db.Name)

	tmp, err := os.CreateTemp(r.root, "."+db.Name+".tmp-*")
	if err != nil {
		return fmt.Errorf("repo: failed to create temp file for %s: %w", db.Name, err)
	}
	tmpPath := tmp.Name()
	// Always reached: writeArchive never leaves tmpPath lying around,
	// matching repo_write_close's close-then-free regardless of how
	// repo_write_pkg's loop above it went.
	defer os.Remove(tmpPath)

	cw, err := compress.NewWriter(tmp, r.compression)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("repo: failed to open compressor for %s: %w", db.Name, err)
	}

	tw := tar.NewWriter(cw)
	mtime := buildTime()

	for _, meta := range r.cache.Iter() {
		dir := meta.Name + "-" + meta.Version

		// desc's MD5SUM/SHA256SUM and files' %FILES% block are both
		// derived from the package archive itself; an entry merged in
		// from a foreign index (loader.go) or left untouched across a
		// no-op update never repopulates them, so recompute here
		// whenever they're missing rather than writing empty headers.
		if contents&contentDesc != 0 && (meta.MD5Sum == "" || meta.SHA256Sum == "") {
			if sums, err := checksum.File(r.PackagePath(meta.Filename)); err == nil {
				meta.MD5Sum = sums.MD5
				meta.SHA256Sum = sums.SHA256
			}
		}
		if contents&contentFiles != 0 && len(meta.Files) == 0 {
			if files, err := parser.ExtractFiles(r.PackagePath(meta.Filename)); err == nil {
				meta.Files = files
			}
		}

		if contents&contentDesc != 0 {
			if err := writeMember(tw, dir+"/desc", renderDesc(meta), mtime); err != nil {
				return closeAndErr(tw, cw, tmp, err)
			}
		}
		if contents&contentDepends != 0 {
			if err := writeMember(tw, dir+"/depends", renderDepends(meta), mtime); err != nil {
				return closeAndErr(tw, cw, tmp, err)
			}
		}
		if contents&contentFiles != 0 {
			if err := writeMember(tw, dir+"/files", renderFiles(meta), mtime); err != nil {
				return closeAndErr(tw, cw, tmp, err)
			}
		}
	}

	// Always close every layer, even on the success path: repoman.c
	// comments out archive_write_close entirely and just frees its
	// writer, relying on the OS to flush on fd close; Go's compressors
	// need an explicit Close to emit their trailer, so this path is
	// mandatory here rather than optional.
	if err := tw.Close(); err != nil {
		cw.Close()
		tmp.Close()
		return fmt.Errorf("repo: failed to finalize tar for %s: %w", db.Name, err)
	}
	if err := cw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("repo: failed to finalize compression for %s: %w", db.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("repo: failed to close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("repo: failed to publish %s: %w", db.Name, err)
	}

	return nil
}

func closeAndErr(tw *tar.Writer, cw interface{ Close() error }, tmp *os.File, err error) error {
	tw.Close()
	cw.Close()
	tmp.Close()
	return err
}

func writeMember(tw *tar.Writer, name, body string, mtime time.Time) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0644,
		Size:     int64(len(body)),
		ModTime:  mtime,
		Typeflag: tar.TypeReg,
		Format:   tar.FormatPAX,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write([]byte(body))
	return err
}
