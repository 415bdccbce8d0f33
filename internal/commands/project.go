package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/partida-dev/partida/internal/config"
	"github.com/partida-dev/partida/internal/gitops"
	"github.com/partida-dev/partida/internal/ledger"
)

// project is a loaded project directory.
type project struct {
	root string
	cfg  *config.Config
}

func loadProject(dir string) (*project, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadOrDefault(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}
	return &project{root: root, cfg: cfg}, nil
}

func (p *project) dataDir() string { return p.resolve(p.cfg.Paths.Data) }

func (p *project) logDir() string { return p.resolve(p.cfg.Paths.Logs) }

func (p *project) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.root, path)
}

// store opens the data directory, validating writes under the given party policy.
func (p *project) store(policy ledger.PartyPolicy) (*ledger.Store, error) {
	allowed, err := p.cfg.CurrencySet()
	if err != nil {
		return nil, err
	}
	return ledger.NewStore(p.dataDir(), ledger.Options{Currencies: allowed, Parties: policy}), nil
}

// commit snapshots the data and log directories when the project is a git
// repository. It returns the short hash, or "" when nothing was committed.
func (p *project) commit(message string) (string, error) {
	if !gitops.IsRepo(p.root) {
		return "", fmt.Errorf("%s is not a git repository", p.root)
	}
	var paths []string
	for _, dir := range []string{p.dataDir(), p.logDir()} {
		rel, err := filepath.Rel(p.root, dir)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", dir, err)
		}
		paths = append(paths, rel)
	}
	author := gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
	hash, err := gitops.CommitPaths(p.root, paths, message, author)
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return "", nil
	}
	return hash, err
}
