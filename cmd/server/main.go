/*
main.go - Application entry point

PURPOSE:
  Command-line entry for the commission engine. Every subcommand shares
  the same configuration and logger, set up before it runs.

COMMANDS:
  serve               Start the HTTP API (see serve.go)
  project             Print an agency's yearly income projection
  scenario list       List the demo scenarios
  scenario load <id>  Reset the database and load a scenario

CONFIGURATION:
  config.yaml in the working directory and AGENCY_* environment
  variables. See config/config.go for the keys.

EXAMPLES:
  # Run with a file database
  AGENCY_STORE_PATH=./data/agency.db ./server serve

  # Run with in-memory database on another port
  AGENCY_STORE_PATH=":memory:" ./server serve --port 3000

  # Projection for 2025
  ./server project --year 2025

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/commission-engine/config"
	"github.com/warp/commission-engine/store/sqlite"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Commission and agency bookkeeping engine",
	Long:  "Tracks salespeople's commercial and health acts, decides whether their commissions are real, and projects the agency's yearly income.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

// openStore opens the configured SQLite database.
func openStore() (*sqlite.Store, error) {
	store, err := sqlite.New(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "open store %s", cfg.Store.Path)
	}
	return store, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
