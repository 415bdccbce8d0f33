package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/partida-dev/partida/internal/generator"
	"github.com/partida-dev/partida/internal/ledger"
	"github.com/partida-dev/partida/internal/logger"
	"github.com/partida-dev/partida/internal/seed"
)

func newGenerateCommand(g *globalFlags) *cobra.Command {
	var rngSeed int64
	var commit bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic year of ledger data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(g.project)
			if err != nil {
				return err
			}

			var seedPtr *int64
			if cmd.Flags().Changed("seed") {
				seedPtr = &rngSeed
			} else {
				seedPtr = p.cfg.Generator.Seed
			}
			return runGenerate(cmd, p, seedPtr, commit || p.cfg.Git.AutoCommit)
		},
	}

	cmd.Flags().Int64Var(&rngSeed, "seed", 0, "random seed (default: generator.seed from config, else time-based)")
	cmd.Flags().BoolVar(&commit, "commit", false, "commit the data snapshot to git")

	return cmd
}

func runGenerate(cmd *cobra.Command, p *project, seedPtr *int64, commit bool) error {
	log := logger.FromContext(cmd.Context())

	var rngSeed int64
	if seedPtr != nil {
		rngSeed = *seedPtr
	} else {
		rngSeed = time.Now().UnixNano()
		log.Info().Int64("seed", rngSeed).Msg("no seed given, using a time-based seed")
	}

	store, err := p.store(ledger.PartyPerEvent)
	if err != nil {
		return err
	}

	existing, present, err := store.Read(ledger.EntityTable, ledger.AccountTable)
	if err != nil {
		return err
	}
	rows, err := seed.Resolve(existing, present, p.cfg.Seed)
	if err != nil {
		return err
	}
	opts, err := generator.FromConfig(p.cfg.Generator, p.cfg.Seed, rows, rngSeed)
	if err != nil {
		return err
	}
	tables, err := generator.Generate(opts)
	if err != nil {
		return err
	}

	s := newSummary("generate")
	s.processed = flowCount(tables)
	s.addTotals(tables)
	written, werr := store.Write(tables)
	s.addWrite(written, werr)
	return finishRun(cmd, p, s, werr, commit, fmt.Sprintf("generate: seed %d", rngSeed))
}

// finishRun reports a run and snapshots it. The write error, if any, is
// returned after the run has been recorded.
func finishRun(cmd *cobra.Command, p *project, s *summary, werr error, commit bool, message string) error {
	log := s.scope(logger.FromContext(cmd.Context()))

	s.print(cmd.OutOrStdout())
	s.log(log)
	if err := s.record(p.logDir(), time.Now().UTC()); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	if werr != nil {
		return werr
	}

	if commit {
		hash, err := p.commit(message)
		if err != nil {
			return fmt.Errorf("committing snapshot: %w", err)
		}
		if hash != "" {
			log.Info().Str("commit", hash).Msg("snapshot committed")
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", hash)
		}
	}
	return nil
}
