package repo

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/repomgr/repoman/internal/compress"
	"github.com/repomgr/repoman/internal/models"
	"github.com/repomgr/repoman/internal/signer"
)

// Load reads the repository's db and files archives (if present) into
// the in-memory cache, generalizing load_database: each archive entry
// is "<name>-<version>/<desc|depends|files>", and entries for the same
// package from both archives are merged into one PkgMeta, per Design
// Note iii (the teacher's own generator never needed to reconcile two
// archives describing one package, since it always rewrote both from
// scratch).
//
// If sig is non-nil and a ".sig" sidecar exists next to an archive, its
// signature is checked before the archive is trusted.
func (r *Repo) Load(sig signer.Signer) error {
	if err := r.loadArchive(r.db.Name, sig, true); err != nil {
		return err
	}
	if err := r.loadArchive(r.files.Name, sig, false); err != nil {
		return err
	}
	return nil
}

// loadArchive merges one archive's entries into the cache. withDesc
// controls whether desc/depends blocks populate metadata fields beyond
// Files, since the files archive only ever contributes a Files list.
func (r *Repo) loadArchive(name string, sig signer.Signer, withDesc bool) error {
	path := filepath.Join(r.root, name)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("repo: failed to open %s: %w", name, err)
	}
	defer f.Close()

	if sig != nil {
		sigPath := path + ".sig"
		if sigData, err := os.ReadFile(sigPath); err == nil {
			verifyTarget, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("repo: failed to reopen %s for signature check: %w", name, err)
			}
			defer verifyTarget.Close()
			if err := sig.VerifyDetached(verifyTarget, sigData); err != nil {
				return fmt.Errorf("repo: database signature is invalid or corrupt: %w", err)
			}
		}
	}

	rc, err := compress.NewReader(f, r.compression)
	if err != nil {
		return fmt.Errorf("repo: failed to decompress %s: %w", name, err)
	}
	defer rc.Close()

	tr := tar.NewReader(rc)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("repo: failed to read %s: %w", name, err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		dir, member := splitEntry(header.Name)
		pkgName := nameFromDirEntry(dir)
		if pkgName == "" {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return fmt.Errorf("repo: failed to read %s in %s: %w", header.Name, name, err)
		}

		meta := r.cache.Find(pkgName)
		if meta == nil {
			meta = &models.PkgMeta{Name: pkgName}
		}

		blocks := parseBlocks(data)
		switch member {
		case "desc":
			if withDesc {
				applyDescBlocks(meta, blocks)
			}
		case "depends":
			if withDesc {
				applyDependsBlocks(meta, blocks)
			}
		case "files":
			applyFilesBlocks(meta, blocks)
		}

		r.cache.Insert(meta)
	}

	return nil
}

// splitEntry splits a tar entry name like "foo-1.0-1/desc" into its
// directory ("foo-1.0-1") and member ("desc").
func splitEntry(name string) (dir, member string) {
	name = strings.TrimPrefix(name, "./")
	idx := strings.IndexByte(name, '/')
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// nameFromDirEntry extracts the package name from a "<name>-<version>"
// directory entry, where version is itself "pkgver-pkgrel" (possibly
// with an epoch). The split point is the same one the repo archive
// writer used to construct the entry: the last two hyphen-separated
// components are the version, everything before is the name.
func nameFromDirEntry(dir string) string {
	parts := strings.Split(dir, "-")
	if len(parts) < 3 {
		return dir
	}
	return strings.Join(parts[:len(parts)-2], "-")
}
