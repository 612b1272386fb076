package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/commission-engine/api"
	"github.com/warp/commission-engine/generic"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Inspect and load demo scenarios",
}

// -- scenario list --

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the embedded demo scenarios",
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := api.Scenarios()
		if err != nil {
			return err
		}
		formatScenarioList(os.Stdout, list)
		return nil
	},
}

// -- scenario load --

var scenarioLoadCmd = &cobra.Command{
	Use:   "load <scenario-id>",
	Short: "Reset the database and load a scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := api.LookupScenario(args[0])
		if err != nil {
			return err
		}
		if s == nil {
			return eris.Errorf("unknown scenario %q", args[0])
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		if err := s.Apply(cmd.Context(), store, generic.AgencyID(cfg.Agency.ID)); err != nil {
			return eris.Wrapf(err, "load scenario %s", s.ID)
		}

		zap.L().Info("scenario loaded", zap.String("scenario", s.ID), zap.String("store", cfg.Store.Path))
		return nil
	},
}

func formatScenarioList(w io.Writer, list []*api.Scenario) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tNAME")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Category, s.Name)
	}
	tw.Flush()
}

func init() {
	scenarioCmd.AddCommand(scenarioListCmd, scenarioLoadCmd)
	rootCmd.AddCommand(scenarioCmd)
}
