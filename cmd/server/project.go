package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/warp/commission-engine/finance"
	"github.com/warp/commission-engine/generic"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Print an agency's yearly table and income projection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		flagYear, _ := cmd.Flags().GetInt("year")
		year := projectYear(flagYear, generic.SystemClock{})
		agency, _ := cmd.Flags().GetString("agency")
		if agency == "" {
			agency = cfg.Agency.ID
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close() //nolint:errcheck

		entries, err := store.ListMonthlyEntries(ctx, generic.AgencyID(agency), year)
		if err != nil {
			return eris.Wrap(err, "project")
		}
		if len(entries) == 0 {
			fmt.Fprintf(os.Stderr, "No entries for %s in %d.\n", agency, year)
			return nil
		}

		formatYearSummary(os.Stdout, agency, finance.Summarize(entries, year))
		return nil
	},
}

// projectYear returns the --year flag, or the clock's current year when unset.
func projectYear(flag int, clock generic.Clock) int {
	if flag != 0 {
		return flag
	}
	return generic.CurrentPeriod(clock).Year
}

// formatYearSummary writes the month table followed by totals and the
// projection.
func formatYearSummary(w io.Writer, agency string, s finance.YearSummary) {
	fmt.Fprintf(w, "Agency %s, %d\n\n", agency, s.Year)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSES\tRESULT\tDRAWINGS\tINCLUDED\t")
	for _, m := range s.Months {
		if !m.Present {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t\t\n", m.Period)
			continue
		}
		included := "no"
		if m.Complete {
			included = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			m.Period,
			m.TotalIncome.StringFixed(2),
			m.Expenses.StringFixed(2),
			m.Result.StringFixed(2),
			m.Drawings.StringFixed(2),
			included,
		)
	}
	fmt.Fprintf(tw, "TOTAL\t%s\t%s\t%s\t%s\t\t\n",
		s.TotalIncome.StringFixed(2),
		s.TotalExpenses.StringFixed(2),
		s.TotalResult.StringFixed(2),
		s.TotalDrawings.StringFixed(2),
	)
	tw.Flush()

	p := s.Projection
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Complete months:    %d\n", p.CompleteMonths)
	fmt.Fprintf(w, "Included income:    %s\n", p.IncludedIncome.StringFixed(2))
	fmt.Fprintf(w, "Average income:     %s\n", p.AverageIncome.StringFixed(2))
	fmt.Fprintf(w, "Projected for year: %s\n", p.ExtrapolatedTotal.StringFixed(2))
}

func init() {
	f := projectCmd.Flags()
	f.Int("year", 0, "calendar year (default current year)")
	f.String("agency", "", "agency ID (default from config)")
	rootCmd.AddCommand(projectCmd)
}
