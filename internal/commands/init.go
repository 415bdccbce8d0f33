package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/partida-dev/partida/internal/config"
	"github.com/partida-dev/partida/internal/gitops"
	"github.com/partida-dev/partida/internal/ledger"
	"github.com/partida-dev/partida/internal/seed"
)

func newInitCommand() *cobra.Command {
	var force bool
	var git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new partida project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, force, git)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing partida.yaml")
	cmd.Flags().BoolVar(&git, "git", false, "initialize a git repository for data snapshots")

	return cmd
}

func runInit(out io.Writer, dir string, force, git bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	cfg := config.Default()
	for _, d := range []string{cfg.Paths.Data, cfg.Paths.Logs} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Seed the reference tables so imports validate against them.
	rows, err := seed.Defaults(cfg.Seed)
	if err != nil {
		return err
	}
	allowed, err := cfg.CurrencySet()
	if err != nil {
		return err
	}
	store := ledger.NewStore(filepath.Join(dir, cfg.Paths.Data), ledger.Options{Currencies: allowed})
	seedTables := ledger.Tables{Entities: rows.Entities, Accounts: rows.Accounts}
	if _, err := store.Write(seedTables, ledger.EntityTable, ledger.AccountTable); err != nil {
		return fmt.Errorf("writing seed tables: %w", err)
	}

	if git && !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Initialized partida project at %s\n", dir)
	return nil
}
