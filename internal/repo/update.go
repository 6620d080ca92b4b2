package repo

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/repomgr/repoman/internal/models"
	"github.com/repomgr/repoman/internal/output"
	"github.com/repomgr/repoman/internal/parser"
	"github.com/repomgr/repoman/internal/scanner"
	"github.com/repomgr/repoman/internal/signer"
	"github.com/repomgr/repoman/internal/vercmp"
)

// UpdateOptions controls Update's behavior, matching the -U action's
// modifiers.
type UpdateOptions struct {
	// Clean, when >= 1, deletes a replaced package's old files once an
	// UPDATING decision supersedes it; when >= 2, also deletes the old
	// files behind a REPLACING decision and the files of a scanned
	// package rejected as older than the cached one, matching
	// cfg.clean's two-level behavior throughout repoman.c.
	Clean int

	// WithFiles records that the files database is in use. Update itself
	// does not read it; the files archive is written by Write when its
	// writeFiles argument is set.
	WithFiles bool

	// ExtractFiles populates each parsed package's file list from its
	// archive contents, feeding the files database. It is relatively
	// expensive (a full tar scan per package), so it runs only when
	// ExtractFiles is set; the CLI sets it together with WithFiles from
	// -f/--files.
	ExtractFiles bool
}

// Update reconciles the cache against either the explicit set of
// package paths in pkgPaths, or (if empty) every "*.pkg.tar*" file
// found in the repo root, generalizing update_db. It returns the
// number of packages added or changed.
func (r *Repo) Update(pkgPaths []string, opts UpdateOptions, sig signer.Signer, out *output.Writer) (int, error) {
	out.Colon("Scanning for new packages...")

	if r.cache.Len() == 0 {
		out.Warn("repo doesn't exist, creating...")
	} else {
		r.Reduce(sig, out)
	}

	// Explicit package paths on the command line are always a forced
	// add/replace, matching update_db's force flag; a bare directory
	// scan (no paths given) never forces, since it only ever discovers
	// what's already sitting in the repo root.
	force := len(pkgPaths) > 0
	paths := pkgPaths
	if !force {
		scanned, err := scanner.ScanDir(r.root)
		if err != nil {
			return 0, &models.RepoError{Kind: models.IoError, Err: err}
		}
		paths = scanned
	}

	changed := 0
	for _, path := range paths {
		if dir := filepath.Dir(path); dir != "." && dir != r.root {
			out.Warn(fmt.Sprintf("%s is not in the same directory as the database", path))
			continue
		}

		meta, err := parser.ParsePackage(path)
		if err != nil {
			out.Warn(err.Error())
			continue
		}

		if opts.ExtractFiles {
			if files, err := parser.ExtractFiles(path); err == nil {
				meta.Files = files
			}
		}

		if sigData, err := readSidecarSig(r.SigPath(meta.Filename)); err == nil {
			meta.Base64Sig = sigData
		}

		old := r.cache.Find(meta.Name)

		switch {
		case old == nil:
			out.Printf("ADDING: %s-%s\n", meta.Name, meta.Version)
			r.cache.Insert(meta)
			r.dirty = true
			changed++

		case force:
			out.Printf("REPLACING: %s %s => %s\n", meta.Name, old.Version, meta.Version)
			r.cache.Insert(meta)
			if opts.Clean >= 2 {
				r.unlinkPackageFiles(old, out)
			}
			r.dirty = true
			changed++

		default:
			switch vercmp.Compare(meta.Version, old.Version) {
			case 1:
				out.Printf("UPDATING: %s %s => %s\n", meta.Name, old.Version, meta.Version)
				r.cache.Insert(meta)
				if opts.Clean >= 1 {
					r.unlinkPackageFiles(old, out)
				}
				r.dirty = true
				changed++
			case 0:
				if old.Base64Sig == "" && meta.Base64Sig != "" {
					out.Printf("ADD SIG: %s-%s\n", meta.Name, meta.Version)
					old.Base64Sig = meta.Base64Sig
					r.cache.Insert(old)
					r.dirty = true
					changed++
				}
			case -1:
				if opts.Clean >= 2 {
					r.unlinkPackageFiles(meta, out)
				}
			}
		}
	}

	return changed, nil
}

// readSidecarSig reads a ".sig" file next to a package, if present,
// returning its detached signature bytes base64-encoded, the form the
// cache stores in Base64Sig and the desc file carries as %PGPSIG%.
func readSidecarSig(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// unlinkPackageFiles removes a package's backing archive and signature
// sidecar from disk, matching unlink_pkg_files, including its
// unconditional "DELETING:" banner.
func (r *Repo) unlinkPackageFiles(meta *models.PkgMeta, out *output.Writer) {
	out.Printf("DELETING: %s-%s\n", meta.Name, meta.Version)
	os.Remove(r.PackagePath(meta.Filename))
	os.Remove(r.SigPath(meta.Filename))
}
