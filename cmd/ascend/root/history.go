package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ascend/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List logged activities, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			subj, err := svc.Subject(ctx)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "History"))
			if len(subj.History) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}

			shown := 0
			for i := len(subj.History) - 1; i >= 0; i-- {
				if limit > 0 && shown == limit {
					break
				}
				rec := subj.History[i]
				gains := ui.Muted.Render("receipt pending backfill")
				if rec.Receipt != nil {
					gains = ui.FormatDeltas(rec.Receipt.StatDeltas, "+") + " " + ui.Gold.Render("+"+ui.FormatExp(rec.Receipt.ExpDelta))
				}
				fmt.Fprintf(out, "%s %s %-16s %4d min  %s\n",
					ui.Muted.Render(rec.Timestamp.In(loc).Format("2006-01-02 15:04")),
					ui.CategoryIcon(rec.Kind.Category()),
					rec.Kind,
					rec.DurationMinutes,
					gains,
				)
				line := "  " + ui.Muted.Render(rec.ID)
				if rec.Notes != "" {
					line += "  " + rec.Notes
				}
				fmt.Fprintln(out, line)
				shown++
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Show at most this many entries (0 = all)")

	return cmd
}
