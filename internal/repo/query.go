package repo

import (
	"errors"

	"github.com/repomgr/repoman/internal/models"
	"github.com/repomgr/repoman/internal/output"
)

// QueryOptions controls Query's output format, matching the -Q
// action's -i/--info modifier.
type QueryOptions struct {
	Info bool
}

// Query prints the named packages (or, if names is empty, every cached
// package), generalizing query_db.
func (r *Repo) Query(names []string, opts QueryOptions, out *output.Writer) error {
	if r.cache.Len() == 0 {
		return &models.RepoError{Kind: models.NotFound, Err: errors.New("repo doesn't exist")}
	}

	if len(names) == 0 {
		for _, meta := range r.cache.Iter() {
			printMeta(meta, opts.Info, out)
		}
		return nil
	}

	for _, name := range names {
		meta := r.cache.Find(name)
		if meta == nil {
			return &models.RepoError{Kind: models.NotFound, Package: name, Err: errors.New("pkg not found")}
		}
		printMeta(meta, opts.Info, out)
	}

	return nil
}

func printMeta(meta *models.PkgMeta, info bool, out *output.Writer) {
	if info {
		out.Printf("Filename     : %s\n", meta.Filename)
		out.Printf("Name         : %s\n", meta.Name)
		out.Printf("Version      : %s\n", meta.Version)
		out.Printf("Description  : %s\n", meta.Desc)
		out.Printf("Architecture : %s\n", meta.Arch)
		out.Printf("URL          : %s\n", meta.URL)
		out.Printf("Packager     : %s\n\n", meta.Packager)
		return
	}
	out.Printf("%s %s\n", meta.Name, meta.Version)
}
