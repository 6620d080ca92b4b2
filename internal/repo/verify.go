package repo

import (
	"fmt"
	"os"

	"github.com/repomgr/repoman/internal/checksum"
	"github.com/repomgr/repoman/internal/models"
	"github.com/repomgr/repoman/internal/signer"
)

// VerifyPackage checks that meta's backing file still exists and,
// if deep, that its signature (when a ".sig" sidecar is present and sig
// is non-nil) and recorded checksums match, matching verify_pkg.
func (r *Repo) VerifyPackage(meta *models.PkgMeta, sig signer.Signer, deep bool) error {
	pkgPath := r.PackagePath(meta.Filename)

	if _, err := os.Stat(pkgPath); err != nil {
		return &models.RepoError{Kind: models.MissingFile, Package: meta.Name, Err: fmt.Errorf("couldn't find pkg %s at %s", meta.Name, pkgPath)}
	}

	if !deep {
		return nil
	}

	sigPath := r.SigPath(meta.Filename)
	if sig != nil {
		if sigData, err := os.ReadFile(sigPath); err == nil {
			f, err := os.Open(pkgPath)
			if err != nil {
				return &models.RepoError{Kind: models.IoError, Package: meta.Name, Err: err}
			}
			defer f.Close()
			if err := sig.VerifyDetached(f, sigData); err != nil {
				return &models.RepoError{Kind: models.CorruptSignature, Package: meta.Name, Err: fmt.Errorf("package %s, signature is invalid or corrupt: %w", meta.Name, err)}
			}
		}
	}

	if meta.MD5Sum != "" || meta.SHA256Sum != "" {
		sums, err := checksum.File(pkgPath)
		if err != nil {
			return &models.RepoError{Kind: models.IoError, Package: meta.Name, Err: err}
		}
		if meta.MD5Sum != "" && sums.MD5 != meta.MD5Sum {
			return &models.RepoError{Kind: models.ChecksumMismatch, Package: meta.Name, Err: fmt.Errorf("md5 sum for pkg %s is different", meta.Name)}
		}
		if meta.SHA256Sum != "" && sums.SHA256 != meta.SHA256Sum {
			return &models.RepoError{Kind: models.ChecksumMismatch, Package: meta.Name, Err: fmt.Errorf("sha256 sum for pkg %s is different", meta.Name)}
		}
	}

	return nil
}

// VerifyAll checks every cached package with VerifyPackage(deep=true),
// matching verify_db. It returns the first error encountered per
// package but keeps checking the rest, collecting every failure so
// callers (the -V/--verify action) can report them all rather than
// stopping at the first bad package.
func (r *Repo) VerifyAll(sig signer.Signer) []error {
	var errs []error
	for _, meta := range r.cache.Iter() {
		if err := r.VerifyPackage(meta, sig, true); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
