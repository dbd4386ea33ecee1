package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cashbook/internal/cli"
	"cashbook/internal/filter"
)

func newOverviewCommand(rt *runtime) *cobra.Command {
	var win windowFlags

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Balance, category breakdown, monthly trend and statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := win.window(rt.location)
			if err != nil {
				return err
			}
			app, err := rt.openApp(cmd.Context(), cli.AppOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			ov, err := app.Service.Overview(cmd.Context(), w)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Income %s  Expense %s  Balance %s\n",
				ov.Balance.Income.StringFixed(2), ov.Balance.Expense.StringFixed(2), ov.Balance.Balance.StringFixed(2))
			fmt.Fprintf(out, "Transactions %d (income %d, expense %d)  Largest income %s  Largest expense %s\n",
				ov.Stats.Count, ov.Stats.IncomeCount, ov.Stats.ExpenseCount,
				ov.Stats.LargestIncome.StringFixed(2), ov.Stats.LargestExpense.StringFixed(2))

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\nCATEGORY\tEXPENSE\tSHARE")
			for _, s := range ov.Breakdown {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Category, s.Amount.StringFixed(2), s.Percentage)
			}
			fmt.Fprintln(tw, "\nMONTH\tINCOME\tEXPENSE")
			for _, m := range ov.Trend {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Month, m.Income.StringFixed(2), m.Expense.StringFixed(2))
			}
			return tw.Flush()
		},
	}

	win.register(cmd, string(filter.ModeMonth))
	return cmd
}

func newReportCommand(rt *runtime) *cobra.Command {
	var win windowFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Income and expense per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := win.window(rt.location)
			if err != nil {
				return err
			}
			app, err := rt.openApp(cmd.Context(), cli.AppOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			rep, err := app.Service.Report(cmd.Context(), w)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Range: %s\n", rep.Window)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tINCOME\tEXPENSE")
			for _, c := range rep.Categories {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Category, c.Income.StringFixed(2), c.Expense.StringFixed(2))
			}
			fmt.Fprintf(tw, "TOTAL\t%s\t%s\n", rep.Balance.Income.StringFixed(2), rep.Balance.Expense.StringFixed(2))
			return tw.Flush()
		},
	}

	win.register(cmd, string(filter.ModeMonth))
	return cmd
}

func newSuggestCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <note>",
		Short: "Show which categories a note matches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.openApp(cmd.Context(), cli.AppOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			s := app.Service.Suggest(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			switch {
			case s.Selected != "":
				fmt.Fprintf(out, "Selected: %s\n", s.Selected)
			case len(s.Matches) > 0:
				fmt.Fprintf(out, "Matches: %s\n", strings.Join(s.Matches, ", "))
			default:
				fmt.Fprintln(out, "No matching category.")
			}
			return nil
		},
	}
}

func newExportCommand(rt *runtime) *cobra.Command {
	var win windowFlags
	var inline bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the report for a range to CSV or Google Sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := win.window(rt.location)
			if err != nil {
				return err
			}

			var opts cli.AppOptions
			if !inline {
				publisher, closePublisher, err := rt.openPublisher()
				if err != nil {
					return err
				}
				defer closePublisher()
				opts.Publisher = publisher
			}

			app, err := rt.openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Service.RequestExport(cmd.Context(), w)
			if err != nil {
				return err
			}
			if res.Queued {
				fmt.Fprintln(cmd.OutOrStdout(), "Export queued.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", res.Ref)
			return nil
		},
	}

	win.register(cmd, string(filter.ModeMonth))
	cmd.Flags().BoolVar(&inline, "inline", false, "export in this process even when AMQP is configured")
	return cmd
}
