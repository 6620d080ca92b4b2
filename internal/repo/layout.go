// Package repo implements the reconciliation engine: loading a pacman
// repository's desc/files archives into a Cache, deciding what to add,
// replace, update, or drop as packages come and go, and writing the
// result back out as signed, published archives. It generalizes
// repoman.c's repo_t/find_repo/update_db/remove_db/query_db/verify_db
// into a Go API the cmd/ binaries and internal/cli drive.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/repomgr/repoman/internal/cache"
	"github.com/repomgr/repoman/internal/compress"
)

// dbFile is one half of a repository's published pair: the archive
// itself plus the unversioned symlink clients actually request
// (repoman.c's file_t: name + link).
type dbFile struct {
	Name string
	Link string
}

// Repo is an open pacman repository: its package cache plus the file
// pair names derived from the database path given on the command line.
type Repo struct {
	root string // directory containing the db/files archives and packages
	name string // repo name, e.g. "core" for "core.db.tar.gz"

	db    dbFile
	files dbFile

	compression compress.Algorithm
	dirty       bool

	cache *cache.Cache

	// rootDir is a read-only handle opened once on root, used for
	// relative filesystem operations the way repoman.c keeps repo->dirfd
	// open across openat(2) calls. Go's os.Root (openat-scoped FS
	// access) would be the more literal translation of that pattern,
	// but its method surface isn't settled enough here to depend on
	// blind; a plain directory handle plus filepath.Join keeps the same
	// "resolve once, reuse" shape without that risk.
	rootDir *os.File
}

// extCompression maps a ".db"-family suffix to its archive compression,
// matching find_repo's dot-suffix dispatch table exactly, including the
// bare ".db" legacy alias for gzip.
var extCompression = map[string]compress.Algorithm{
	".db":         compress.Gzip,
	".db.tar":     compress.None,
	".db.tar.gz":  compress.Gzip,
	".db.tar.bz2": compress.Bzip2,
	".db.tar.xz":  compress.XZ,
	".db.tar.Z":   compress.LegacyCompress,
}

// Open resolves path (e.g. "/srv/repo/core.db.tar.gz") into a Repo,
// deriving the files-database sibling name and opening (but not yet
// loading) the containing directory. It does not load any archive;
// call Load to populate the cache.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("repo: failed to resolve %s: %w", path, err)
	}

	root := filepath.Dir(abs)
	base := filepath.Base(abs)

	suffix, alg, name, err := splitDBName(base)
	if err != nil {
		return nil, err
	}

	rootDir, err := os.Open(root)
	if err != nil {
		return nil, fmt.Errorf("repo: failed to open repo directory %s: %w", root, err)
	}

	r := &Repo{
		root:        root,
		name:        name,
		compression: alg,
		cache:       cache.New(),
		rootDir:     rootDir,
		db: dbFile{
			Name: name + ".db" + suffix,
			Link: name + ".db",
		},
		files: dbFile{
			Name: name + ".files" + suffix,
			Link: name + ".files",
		},
	}

	return r, nil
}

// splitDBName splits a database filename like "core.db.tar.gz" into its
// compression suffix (".tar.gz"), algorithm, and repo name ("core"),
// reproducing find_repo's memchr-based dot search: the FIRST dot in the
// basename marks where the repo name ends.
func splitDBName(base string) (suffix string, alg compress.Algorithm, name string, err error) {
	dot := strings.IndexByte(base, '.')
	if dot < 0 {
		return "", 0, "", fmt.Errorf("repo: %s has no file extension", base)
	}

	name = base[:dot]
	ext := base[dot:]

	// The ".db"/".files" prefix itself isn't part of the compression
	// suffix we store; extCompression is keyed by the full ".db*"
	// extension, so look it up directly, then strip the leading ".db".
	a, ok := extCompression[ext]
	if !ok {
		// Accept a bare ".files*" extension the same as ".db*": some
		// callers pass core.files.tar.gz directly.
		if strings.HasPrefix(ext, ".files") {
			dbEquivalent := ".db" + strings.TrimPrefix(ext, ".files")
			if a2, ok2 := extCompression[dbEquivalent]; ok2 {
				return normalizeSuffix(strings.TrimPrefix(ext, ".files")), a2, name, nil
			}
		}
		return "", 0, "", fmt.Errorf("repo: %s invalid repo type", ext)
	}

	return normalizeSuffix(strings.TrimPrefix(ext, ".db")), a, name, nil
}

// normalizeSuffix mirrors find_repo's "skip '.db'; if nothing's left, use
// .tar.gz" step: a bare ".db" (or ".files") database still gets written out
// as a gzip tar archive, it's just aliased under the short name too.
func normalizeSuffix(suffix string) string {
	if suffix == "" {
		return ".tar.gz"
	}
	return suffix
}

// Name returns the repository name, e.g. "core".
func (r *Repo) Name() string { return r.name }

// Root returns the directory containing the repository's archives and
// packages.
func (r *Repo) Root() string { return r.root }

// Compression returns the archive compression algorithm this repo was
// opened with.
func (r *Repo) Compression() compress.Algorithm { return r.compression }

// Dirty reports whether the cache has pending changes not yet written
// to disk.
func (r *Repo) Dirty() bool { return r.dirty }

// Cache exposes the in-memory package cache for read access (query
// operations iterate it directly).
func (r *Repo) Cache() *cache.Cache { return r.cache }

// PackagePath resolves a package's filename to its absolute path inside
// the repo root.
func (r *Repo) PackagePath(filename string) string {
	return filepath.Join(r.root, filename)
}

// SigPath resolves a package's filename to the path of its detached
// signature sidecar.
func (r *Repo) SigPath(filename string) string {
	return r.PackagePath(filename) + ".sig"
}

// Close releases the repository's directory handle.
func (r *Repo) Close() error {
	if r.rootDir == nil {
		return nil
	}
	return r.rootDir.Close()
}
