package root

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ascend/internal/engine"
	"ascend/internal/ui"
)

func newRatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show or override per-hour stat gains",
		Long: `Show the per-hour stat gains of every activity kind, or override one.

Overrides only apply to activities logged afterwards; undoing an older
activity still removes exactly what it gave.`,
	}
	cmd.AddCommand(newRatesListCmd(), newRatesSetCmd(), newRatesClearCmd())
	return cmd
}

func newRatesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List effective rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			overrides, err := svc.Overrides(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconGear, "Rates per hour"))
			for _, k := range engine.AllKinds {
				row, _ := engine.DefaultRates(k)
				if row.Fixed {
					fmt.Fprintf(out, "%s %-16s %s %s\n", ui.CategoryIcon(row.Category), k,
						ui.FormatDeltas(row.FixedDeltas, "+"),
						ui.Muted.Render(fmt.Sprintf("+%s per entry, duration ignored", ui.FormatExp(row.FixedExp))))
					continue
				}
				// One hour of the kind, overrides included.
				receipt, err := engine.NewCalculator(overrides).Calculate(k, 60)
				if err != nil {
					return err
				}
				line := fmt.Sprintf("%s %-16s %s", ui.CategoryIcon(row.Category), k, ui.FormatDeltas(receipt.StatDeltas, "+"))
				if len(overrides[k]) > 0 {
					line += " " + ui.Warn.Render("(custom)")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newRatesSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <kind> <stat> <per-hour>",
		Short: "Override one stat's per-hour gain for a kind",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := engine.ParseActivityKind(args[0])
			if err != nil {
				return err
			}
			stat, err := engine.ParseStat(args[1])
			if err != nil {
				return err
			}
			perHour, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return engine.ValidationError{Field: "per-hour", Value: args[2], Reason: "not a number"}
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.SetOverride(ctx, kind, stat, perHour); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s = %g/h\n", ui.Good.Render(ui.IconGear+" Set"), kind, stat.Abbrev(), perHour)
			return nil
		},
	}
}

func newRatesClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <kind> <stat>",
		Short: "Remove an override and go back to the default rate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := engine.ParseActivityKind(args[0])
			if err != nil {
				return err
			}
			stat, err := engine.ParseStat(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			existed, err := svc.ClearOverride(ctx, kind, stat)
			if err != nil {
				return err
			}
			if !existed {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No override for "+string(kind)+" "+stat.Abbrev()+"."))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconGear+" Cleared"), kind, stat.Abbrev())
			return nil
		},
	}
}
