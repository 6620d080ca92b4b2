// Package parser extracts package metadata from pacman's ".pkg.tar*"
// archives, generalizing the teacher's single-format pacman parser
// (internal/generator/pacman/parser.go) to read the full .PKGINFO field
// set repo-add cares about: provides/optdepend/makedepend, which the
// teacher's parser folded into a generic Metadata map or dropped
// entirely, are first-class fields here because the desc/depends
// archive layout (repoman.c's write_depends_file) writes them as their
// own %HEADER% blocks.
package parser

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/repomgr/repoman/internal/checksum"
	"github.com/repomgr/repoman/internal/models"
)

// pkginfoEntry is the tar member holding a package's build-time
// metadata, written by makepkg into every ".pkg.tar*" archive.
const pkginfoEntry = ".PKGINFO"

// ParsePackage reads path's checksums and .PKGINFO metadata, returning
// a PkgMeta ready to insert into a Cache. It does not populate Files;
// callers that need the file list call ExtractFiles separately, since
// the files database is optional and its extraction is comparatively
// expensive.
func ParsePackage(path string) (*models.PkgMeta, error) {
	sums, err := checksum.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to checksum %s: %w", path, err)
	}

	raw, err := extractEntry(path, pkginfoEntry)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s from %s: %w", pkginfoEntry, path, err)
	}

	meta, err := parsePKGINFO(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s in %s: %w", pkginfoEntry, path, err)
	}

	// Filename is the basename alone: it is the FILENAME header stored in
	// the repo index and later joined back onto r.root by
	// Repo.PackagePath/SigPath, so it must never carry a directory
	// component even when path itself does (an absolute path from a
	// bare directory scan, for instance).
	meta.Filename = filepath.Base(path)
	meta.Size = sums.Size
	meta.MD5Sum = sums.MD5
	meta.SHA256Sum = sums.SHA256

	return meta, nil
}

// ExtractFiles returns the list of paths a package installs, read from
// the package archive itself rather than trusted database state, which
// mirrors repoman.c's alpm_pkg_files call in write_files_file.
func ExtractFiles(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tr, err := openTarStream(f, path)
	if err != nil {
		return nil, err
	}

	var files []string
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		name := strings.TrimPrefix(header.Name, "./")
		if name == "" || name == "." || strings.HasPrefix(name, ".PKGINFO") ||
			strings.HasPrefix(name, ".MTREE") || strings.HasPrefix(name, ".INSTALL") ||
			strings.HasPrefix(name, ".BUILDINFO") || strings.HasPrefix(name, ".CHANGELOG") {
			continue
		}
		if header.Typeflag == tar.TypeDir {
			continue
		}
		files = append(files, name)
	}

	return files, nil
}

// extractEntry reads a single named member out of a (possibly
// compressed) tar archive.
func extractEntry(path, name string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tr, err := openTarStream(f, path)
	if err != nil {
		return nil, err
	}

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.TrimPrefix(header.Name, "./") == name {
			return io.ReadAll(tr)
		}
	}

	return nil, fmt.Errorf("%s not found in package", name)
}

// openTarStream wraps f in the decompressor matching path's extension
// and returns a tar reader over the result. Package archives use
// zstd/xz/gzip/none, the same four pacman has ever shipped; repository
// indices additionally support bzip2 and legacy compress, handled by
// internal/compress.
func openTarStream(f *os.File, path string) (*tar.Reader, error) {
	switch {
	case strings.HasSuffix(path, ".pkg.tar.zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		return tar.NewReader(zr), nil
	case strings.HasSuffix(path, ".pkg.tar.xz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, err
		}
		return tar.NewReader(xr), nil
	case strings.HasSuffix(path, ".pkg.tar.gz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		return tar.NewReader(gr), nil
	case strings.HasSuffix(path, ".pkg.tar"):
		return tar.NewReader(f), nil
	default:
		return nil, fmt.Errorf("unsupported package format: %s", path)
	}
}

// parsePKGINFO parses a ".PKGINFO" file's "key = value" lines into a
// PkgMeta, matching makepkg's writer field-for-field.
func parsePKGINFO(data []byte) (*models.PkgMeta, error) {
	meta := &models.PkgMeta{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "pkgname":
			meta.Name = value
		case "pkgver":
			meta.Version = value
		case "pkgdesc":
			meta.Desc = value
		case "url":
			meta.URL = value
		case "packager":
			meta.Packager = value
		case "arch":
			meta.Arch = value
		case "license":
			meta.License = append(meta.License, value)
		case "depend":
			meta.Depends = append(meta.Depends, value)
		case "conflict":
			meta.Conflicts = append(meta.Conflicts, value)
		case "provides":
			meta.Provides = append(meta.Provides, value)
		case "optdepend":
			meta.OptDepends = append(meta.OptDepends, value)
		case "makedepend":
			meta.MakeDepends = append(meta.MakeDepends, value)
		case "builddate":
			var bd int64
			if _, err := fmt.Sscanf(value, "%d", &bd); err == nil {
				meta.BuildDate = bd
			}
		case "size":
			var isize int64
			if _, err := fmt.Sscanf(value, "%d", &isize); err == nil {
				meta.ISize = isize
			}
		default:
			// Unknown .PKGINFO fields (e.g. "group", "backup", future
			// makepkg additions) are ignored, matching §4.2's amnesty
			// for unrecognized headers.
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if meta.Name == "" {
		return nil, fmt.Errorf("missing pkgname")
	}

	return meta, nil
}
