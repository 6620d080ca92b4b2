package cli

import (
	"fmt"
	"io"

	"github.com/repomgr/repoman/internal/output"
	"github.com/repomgr/repoman/internal/repo"
	"github.com/repomgr/repoman/internal/signer"
)

// Run opens the repository named by cfg.DBPath, performs cfg.Action,
// and if the cache ended up dirty, rewrites and republishes the
// database, matching main()'s tail: the dirty-check, the
// "Writing database to disk..." banner, and the final
// "repo NAME updated successfully"/"does not need updating" line.
func Run(cfg *Config, w io.Writer) error {
	sig, err := signerFromConfig(cfg)
	if err != nil {
		return err
	}

	r, err := repo.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.Load(sig); err != nil {
		return err
	}

	out := output.New(w, resolveColor(cfg.Color, stdoutIsTerminal()))

	var actionErr error
	switch cfg.Action {
	case ActionVerify:
		errs := r.VerifyAll(sig)
		for _, e := range errs {
			out.Warn(e.Error())
		}
		if len(errs) == 0 {
			out.Printf("repo okay!\n")
		} else {
			actionErr = fmt.Errorf("%d package(s) failed verification", len(errs))
		}

	case ActionUpdate:
		_, actionErr = r.Update(cfg.Packages, repo.UpdateOptions{
			Clean:        cfg.Clean,
			WithFiles:    cfg.Files,
			ExtractFiles: cfg.Files,
		}, sig, out)

	case ActionRemove:
		actionErr = r.Remove(cfg.Packages, repo.RemoveOptions{Clean: cfg.Clean}, sig, out)

	case ActionQuery:
		actionErr = r.Query(cfg.Packages, repo.QueryOptions{Info: cfg.Info}, out)
	}

	if actionErr != nil {
		return actionErr
	}

	if r.Dirty() {
		out.Colon("Writing database to disk...")
		// Only -s/--sign signs the written archives; a key given without
		// it is used for verification alone.
		var writeSig signer.Signer
		if cfg.Sign {
			writeSig = sig
		}
		if err := r.Write(writeSig, cfg.Files); err != nil {
			return err
		}
		out.Printf("repo %s updated successfully\n", r.Name())
	} else {
		out.Printf("repo %s does not need updating\n", r.Name())
	}

	return nil
}
