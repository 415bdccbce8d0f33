package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/partida-dev/partida/internal/buildinfo"
	"github.com/partida-dev/partida/internal/logger"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	project   string
	logFormat string
	logLevel  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:     "partida",
		Short:   "Personal finance ledger generator and importer",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(cmd.ErrOrStderr(), g.logFormat, g.logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.project, "project", ".", "project directory holding partida.yaml")
	pf.StringVar(&g.logFormat, "log-format", logger.FormatConsole, "log format: console or json")
	pf.StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newInitCommand(),
		newGenerateCommand(&g),
		newImportCommand(&g),
		newValidateCommand(&g),
	)

	return rootCmd
}
