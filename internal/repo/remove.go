package repo

import (
	"errors"
	"os"

	"github.com/repomgr/repoman/internal/models"
	"github.com/repomgr/repoman/internal/output"
	"github.com/repomgr/repoman/internal/signer"
)

// errRepoDoesNotExist mirrors remove_db's "repo doesn't exist..." path.
var errRepoDoesNotExist = errors.New("repo doesn't exist")

// RemoveOptions controls Remove's behavior, matching the -R action's
// modifiers.
type RemoveOptions struct {
	// Clean, when >= 1, deletes a removed package's backing files from
	// disk in addition to dropping it from the cache.
	Clean int
}

// Remove drops the named packages from the cache, generalizing
// remove_db. Unlike the original (which only ever warns about an
// unknown name using the wrong loop variable, always argv[0] — see
// DESIGN.md), each unmatched name produces its own warning.
func (r *Repo) Remove(names []string, opts RemoveOptions, sig signer.Signer, out *output.Writer) error {
	if r.cache.Len() == 0 {
		return &models.RepoError{Kind: models.NotFound, Err: errRepoDoesNotExist}
	}

	r.Reduce(sig, out)

	for _, name := range names {
		meta := r.cache.Find(name)
		if meta == nil {
			out.Warn("didn't find entry: " + name)
			continue
		}

		r.cache.Remove(name)
		out.Printf("REMOVING: %s-%s\n", meta.Name, meta.Version)
		if opts.Clean >= 1 {
			os.Remove(r.PackagePath(meta.Filename))
			os.Remove(r.SigPath(meta.Filename))
		}
		r.dirty = true
	}

	return nil
}
