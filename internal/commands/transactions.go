package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cashbook/internal/cli"
	"cashbook/internal/core"
	"cashbook/internal/debounce"
	"cashbook/internal/filter"
	"cashbook/internal/services"
)

// entryFlags are the entry form fields as command flags.
type entryFlags struct {
	amount, kind, category, note, date string
}

func (f *entryFlags) register(cmd *cobra.Command, defaultKind string) {
	cmd.Flags().StringVar(&f.amount, "amount", "", "positive amount, dot or comma decimals")
	cmd.Flags().StringVar(&f.kind, "type", defaultKind, "income or expense")
	cmd.Flags().StringVar(&f.category, "category", "", "expense category")
	cmd.Flags().StringVar(&f.note, "note", "", "free-text note")
	cmd.Flags().StringVar(&f.date, "date", "", "date (YYYY-MM-DD), defaults to today")
}

// apply overlays the flags on form. With onlyChanged set, untouched flags keep
// the form's value.
func (f *entryFlags) apply(cmd *cobra.Command, form core.EntryForm, onlyChanged bool) core.EntryForm {
	set := func(name string) bool { return !onlyChanged || cmd.Flags().Changed(name) }

	if set("amount") {
		form.Amount, _ = core.ParseAmount(f.amount)
	}
	if set("type") {
		if dir, err := core.ParseDirection(f.kind); err == nil {
			form.Type = dir
		} else {
			form.Type = core.Direction(f.kind)
		}
	}
	if set("category") {
		form.Category = f.category
	}
	if set("note") {
		form.Note = f.note
	}
	if set("date") && f.date != "" {
		form.Date = f.date
	}
	return form
}

func newAddCommand(rt *runtime) *cobra.Command {
	var flags entryFlags
	var suggest bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.openApp(cmd.Context(), cli.AppOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			form := flags.apply(cmd, core.EntryForm{Date: rt.now().In(rt.location).Format(core.DateLayout)}, false)
			if form.Type == core.Expense && strings.TrimSpace(form.Category) == "" && suggest {
				s := app.Service.Suggest(form.Note)
				switch {
				case s.Selected != "":
					form.Category = s.Selected
					fmt.Fprintf(cmd.OutOrStdout(), "Category %q suggested from note\n", s.Selected)
				case len(s.Matches) > 1:
					fmt.Fprintf(cmd.OutOrStdout(), "Several categories match the note: %s\n", strings.Join(s.Matches, ", "))
				}
			}

			tx, err := app.Service.Create(cmd.Context(), form)
			if err != nil {
				return describeError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s %s\n", tx.ID, core.FormatAmount(tx.Amount), tx.Date, core.CategoryOrFallback(tx.Category))
			return nil
		},
	}

	flags.register(cmd, string(core.Expense))
	cmd.Flags().BoolVar(&suggest, "suggest", true, "fill an empty expense category from the note when exactly one category matches")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newEditCommand(rt *runtime) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a recorded transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.openApp(cmd.Context(), cli.AppOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			form, err := app.Service.EditForm(cmd.Context(), args[0])
			if err != nil {
				return describeError(err)
			}
			tx, err := app.Service.Update(cmd.Context(), args[0], flags.apply(cmd, form, true))
			if err != nil {
				return describeError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s %s %s\n", tx.ID, core.FormatAmount(tx.Amount), tx.Date, tx.Category)
			return nil
		},
	}

	flags.register(cmd, "")
	return cmd
}

func newListCommand(rt *runtime) *cobra.Command {
	var win windowFlags
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions in a time range",
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

			res, err := app.Service.List(cmd.Context(), filter.Query{Window: w, Text: query})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Range: %s\n", res.Window)
			printTransactions(out, res.Transactions, app.Service.DateLayout())
			fmt.Fprintf(out, "Income %s  Expense %s  Balance %s\n",
				res.Balance.Income.StringFixed(2), res.Balance.Expense.StringFixed(2), res.Balance.Balance.StringFixed(2))
			return nil
		},
	}

	win.register(cmd, string(filter.ModeMonth))
	cmd.Flags().StringVarP(&query, "query", "q", "", "search text over note, category, amount and date")
	return cmd
}

// newSearchCommand reads queries line by line from stdin and prints matches once
// typing pauses for SEARCH_DEBOUNCE.
func newSearchCommand(rt *runtime) *cobra.Command {
	var win windowFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Interactive search; each input line replaces the query",
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

			res, err := app.Service.List(cmd.Context(), filter.Query{Window: w})
			if err != nil {
				return err
			}

			var mu sync.Mutex
			out := cmd.OutOrStdout()
			layout := app.Service.DateLayout()
			live := filter.NewLiveSearch(debounce.New(rt.cfg.SearchDebounce, nil), res.Transactions, layout,
				func(query string, matches []core.Transaction) {
					mu.Lock()
					defer mu.Unlock()
					fmt.Fprintf(out, "%d match(es) for %q\n", len(matches), query)
					printTransactions(out, matches, layout)
				})
			defer live.Stop()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				live.Update(scanner.Text())
			}
			live.Flush()
			return scanner.Err()
		},
	}

	win.register(cmd, string(filter.ModeAll))
	return cmd
}

func newDeleteCommand(rt *runtime) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.openApp(cmd.Context(), cli.AppOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			tx, err := app.Service.Get(cmd.Context(), args[0])
			if err != nil {
				return describeError(err)
			}
			ok := yes || confirm(cmd, fmt.Sprintf("Delete %s %s on %s?", tx.ID, core.FormatAmount(tx.Amount), tx.Date))
			err = app.Service.Delete(cmd.Context(), tx.ID, ok)
			if errors.Is(err, services.ErrConfirmationRequired) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err != nil {
				return describeError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", tx.ID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newClearCommand(rt *runtime) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rt.openApp(cmd.Context(), cli.AppOptions{})
			if err != nil {
				return err
			}
			defer app.Close()

			ok := yes || confirm(cmd, "Delete ALL transactions? This cannot be undone.")
			err = app.Service.Clear(cmd.Context(), ok)
			if errors.Is(err, services.ErrConfirmationRequired) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err != nil {
				return describeError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All transactions deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func printTransactions(out io.Writer, txs []core.Transaction, dateLayout string) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tNOTE\tAMOUNT")
	for _, tx := range txs {
		category := tx.Category
		if tx.IsExpense() {
			category = core.CategoryOrFallback(category)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", tx.ID, filter.DisplayDate(tx, dateLayout), category, tx.Note, core.FormatAmount(tx.Amount))
	}
	_ = tw.Flush()
}

// describeError turns validation failures into a readable per-field message.
func describeError(err error) error {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		msgs := verr.Messages()
		parts := make([]string, 0, len(msgs))
		for _, field := range []string{"amount", "type", "date", "note"} {
			if msg, ok := msgs[field]; ok {
				parts = append(parts, field+": "+msg)
			}
		}
		return fmt.Errorf("invalid entry: %s", strings.Join(parts, "; "))
	}
	return err
}
