package repo

import (
	"github.com/repomgr/repoman/internal/models"
	"github.com/repomgr/repoman/internal/output"
	"github.com/repomgr/repoman/internal/signer"
)

// Reduce drops cache entries whose backing package file is missing,
// matching reduce_db. It is always run before Update or Remove examine
// an existing cache, so a reconciliation never decides against stale
// data.
func (r *Repo) Reduce(sig signer.Signer, out *output.Writer) {
	if r.cache.Len() == 0 {
		return
	}

	out.Colon("Reading existing database...")

	// Collect names to purge before removing any of them: Iter returns
	// the cache's live backing slice, and Remove reslices it in place,
	// so mutating mid-range would shift later entries under the loop
	// and skip or double-visit them whenever more than one is stale.
	var stale []*models.PkgMeta
	for _, meta := range r.cache.Iter() {
		if err := r.VerifyPackage(meta, sig, false); err != nil {
			stale = append(stale, meta)
		}
	}

	for _, meta := range stale {
		out.Printf("REMOVING: %s-%s\n", meta.Name, meta.Version)
		r.cache.Remove(meta.Name)
		r.dirty = true
	}
}
