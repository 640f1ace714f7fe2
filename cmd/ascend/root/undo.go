package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ascend/internal/ui"
)

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo [id]",
		Short: "Delete a logged activity and take back what it gave",
		Long: `Delete an activity and reverse its effect.

This will:
- Subtract the stat gains recorded when it was logged (never below 1.0)
- Remove its EXP, dropping levels if needed
- Remove it from the history

Without an id the most recent activity is undone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			var id string
			if len(args) == 1 {
				id = args[0]
			} else {
				subj, err := svc.Subject(ctx)
				if err != nil {
					return err
				}
				if len(subj.History) == 0 {
					return errors.New("nothing to undo")
				}
				id = subj.History[len(subj.History)-1].ID
			}

			res, err := svc.DeleteActivity(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s %s\n",
				ui.Warn.Render(ui.IconUndo+" Undone"),
				res.Record.Kind,
				ui.Muted.Render(fmt.Sprintf("(%d min)", res.Record.DurationMinutes)),
				ui.Muted.Render(fmt.Sprintf("(-%s)", ui.FormatExp(res.Receipt.ExpDelta))),
			)
			fmt.Fprintln(out, ui.FormatDeltas(res.Receipt.StatDeltas, "-"))
			fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d → %d", res.LevelBefore, res.LevelAfter)))
			if res.LevelDown {
				fmt.Fprintln(out, ui.BadgeLevelDown)
			}
			if res.Migrated {
				fmt.Fprintln(out, ui.Muted.Render(ui.IconInfo+" No stored receipt; gains recomputed from the default rates."))
			}
			if len(res.Clamped) > 0 {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("%s Already decayed, stopped at 1.0: %v", ui.IconInfo, res.Clamped)))
			}
			return nil
		},
	}

	return cmd
}
