package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/partida-dev/partida/internal/currency"
	"github.com/partida-dev/partida/internal/ledger"
	"github.com/partida-dev/partida/internal/logger"
)

func newValidateCommand(g *globalFlags) *cobra.Command {
	var shared bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the data directory against the ledger invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(g.project)
			if err != nil {
				return err
			}
			policy := ledger.PartyPerEvent
			if shared {
				policy = ledger.SharedParty
			}
			return runValidate(cmd, p, policy)
		},
	}

	cmd.Flags().BoolVar(&shared, "shared-party", false, "allow one party to back many events (imported data)")

	return cmd
}

func runValidate(cmd *cobra.Command, p *project, policy ledger.PartyPolicy) error {
	log := logger.FromContext(cmd.Context())
	out := cmd.OutOrStdout()

	allowed, err := p.cfg.CurrencySet()
	if err != nil {
		return err
	}
	opts := ledger.Options{Currencies: allowed, Parties: policy}
	store := ledger.NewStore(p.dataDir(), opts)
	tables, present, err := store.Read()
	if err != nil {
		return err
	}
	if len(present) == 0 {
		return fmt.Errorf("no tables found in %s", p.dataDir())
	}

	for _, table := range present {
		fmt.Fprintf(out, "%-14s %d rows\n", table, tables.Len(table))
	}

	for _, im := range ledger.Unbalanced(tables) {
		fmt.Fprintf(out, "warning: party %d does not balance in %s (residual %s)\n",
			im.PartyID, im.Currency, currency.Format(im.Residual, im.Currency))
	}

	violations := ledger.Validate(tables, opts)
	for _, v := range violations {
		fmt.Fprintln(out, v.Error())
	}
	log.Info().Int("tables", len(present)).Int("violations", len(violations)).Msg("validation finished")

	if len(violations) > 0 {
		return &ledger.InvariantError{Violations: violations}
	}
	fmt.Fprintln(out, "ok")
	return nil
}
