package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/partida-dev/partida/internal/importer"
	"github.com/partida-dev/partida/internal/ledger"
	"github.com/partida-dev/partida/internal/logger"
	"github.com/partida-dev/partida/internal/seed"
)

// importTables are the tables an import replaces. The fund movement table is
// emptied, since its rows reference parties the import does not keep.
var importTables = []ledger.Table{ledger.PartyTable, ledger.IncomeTable, ledger.ExpenseTable, ledger.FundMovementTable}

func newImportCommand(g *globalFlags) *cobra.Command {
	var layout string
	var commit bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a spreadsheet export into the income, expense and party tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(g.project)
			if err != nil {
				return err
			}
			if layout != "" {
				p.cfg.Importer.Layout = layout
			}
			return runImport(cmd, p, args[0], commit || p.cfg.Git.AutoCommit)
		},
	}

	cmd.Flags().StringVar(&layout, "layout", "", "export layout (default: importer.layout from config)")
	cmd.Flags().BoolVar(&commit, "commit", false, "commit the data snapshot to git")

	return cmd
}

func runImport(cmd *cobra.Command, p *project, file string, commit bool) error {
	log := logger.FromContext(cmd.Context())

	layout, err := importer.LayoutFromConfig(importer.DefaultRegistry(), p.cfg.Importer)
	if err != nil {
		return err
	}
	symbols, err := p.cfg.SymbolTable()
	if err != nil {
		return err
	}
	store, err := p.store(ledger.SharedParty)
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
	if err := ledger.RequireEntity(rows.Entities, p.cfg.Seed.EntityID); err != nil {
		return err
	}

	log.Debug().Str("file", file).Str("layout", layout.Name).Msg("importing export")
	im := importer.New(layout, symbols, importer.WithEntity(p.cfg.Seed.EntityID))
	res, err := im.ImportFile(file)
	if err != nil {
		return err
	}

	tables := res.Tables()
	tables.Entities = rows.Entities

	s := newSummary("import")
	s.processed = res.Processed
	runLog := s.scope(log)
	for _, rerr := range res.Rejected {
		s.rejected = append(s.rejected, rerr.Error())
		runLog.Warn().Int("row", rerr.Row).Str("section", string(rerr.Section)).Str("value", rerr.Value).Err(rerr.Err).Msg("row rejected")
	}
	s.addTotals(tables)
	written, werr := store.Write(tables, importTables...)
	s.addWrite(written, werr)
	return finishRun(cmd, p, s, werr, commit, fmt.Sprintf("import: %s", filepath.Base(file)))
}
