package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/repomgr/repoman/internal/signer"
)

// Write rewrites the repository's archives to disk if the cache is
// dirty, publishing the unversioned symlinks and, if sig is non-nil,
// signing both archives. It mirrors main's dirty-check plus
// compile_database calls for the db archive (desc+depends) and,
// optionally, the files archive (files only).
//
// writeFiles controls whether the files database is written alongside
// the main database, matching the -f/--files flag.
func (r *Repo) Write(sig signer.Signer, writeFiles bool) error {
	if !r.dirty {
		return nil
	}

	if err := r.writeArchive(r.db, contentDesc|contentDepends); err != nil {
		return err
	}
	if err := r.publish(r.db, sig); err != nil {
		return err
	}

	if writeFiles {
		if err := r.writeArchive(r.files, contentFiles); err != nil {
			return err
		}
		if err := r.publish(r.files, sig); err != nil {
			return err
		}
	}

	r.dirty = false
	return nil
}

// publish symlinks db's unversioned alias to the freshly written
// archive and, if sig is set, signs it and symlinks the signature
// alias too. Both symlink calls tolerate EEXIST, matching
// symlink_database/sign_database.
func (r *Repo) publish(db dbFile, sig signer.Signer) error {
	linkPath := filepath.Join(r.root, db.Link)
	if err := symlinkReplacing(db.Name, linkPath); err != nil {
		return fmt.Errorf("repo: symlink to %s failed: %w", linkPath, err)
	}

	if sig == nil {
		return nil
	}

	dbPath := filepath.Join(r.root, db.Name)
	sigPath := dbPath + ".sig"

	sigData, err := sig.SignDetachedBinaryFromFile(dbPath)
	if err != nil {
		return fmt.Errorf("repo: failed to sign %s: %w", db.Name, err)
	}
	if err := os.WriteFile(sigPath, sigData, 0644); err != nil {
		return fmt.Errorf("repo: failed to write %s: %w", sigPath, err)
	}

	sigLink := filepath.Join(r.root, db.Link+".sig")
	if err := symlinkReplacing(db.Name+".sig", sigLink); err != nil {
		return fmt.Errorf("repo: symlink to %s failed: %w", sigLink, err)
	}

	return nil
}

// symlinkReplacing creates a symlink at linkPath pointing to target,
// tolerating a pre-existing link the way repoman.c tolerates EEXIST
// from symlink(2) (the unversioned alias persists across updates). A
// link already pointing at target is left alone; otherwise it is
// repointed by creating a temporary symlink and renaming it over
// linkPath, since Go's os.Symlink has no atomic "replace" mode.
func symlinkReplacing(target, linkPath string) error {
	err := os.Symlink(target, linkPath)
	if err == nil {
		return nil
	}
	if !os.IsExist(err) {
		return err
	}

	existing, rerr := os.Readlink(linkPath)
	if rerr == nil && existing == target {
		return nil
	}

	tmp := linkPath + ".tmp-relink"
	os.Remove(tmp)
	if err := os.Symlink(target, tmp); err != nil {
		return err
	}
	return os.Rename(tmp, linkPath)
}
