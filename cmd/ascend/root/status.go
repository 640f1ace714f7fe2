package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ascend/internal/engine"
	"ascend/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show stats, level and decay outlook",
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

			_, rollover := engine.LevelFor(subj.TotalExp)
			need := engine.ThresholdFor(subj.Level)
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Status"))
			fmt.Fprintln(out, ui.LabelValue("Level", subj.Level))
			fmt.Fprintln(out, ui.LabelValue("EXP", fmt.Sprintf("%s %s / %s to level %d",
				ui.Bar(rollover, need, 20),
				ui.FormatExp(rollover),
				ui.FormatExp(need),
				subj.Level+1,
			)))
			fmt.Fprintln(out, "")

			stats, warn := engine.Sanitize(subj.Stats)
			ceiling := engine.RecommendedCeiling(stats)
			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("📊 Stats %s", ui.Muted.Render(fmt.Sprintf("(scale 0-%g)", ceiling)))))
			for _, s := range engine.AllStats {
				fmt.Fprintln(out, "  "+ui.StatBar(s, stats.Get(s), ceiling, 24))
			}
			if warn != nil {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" "+warn.Error()))
			}
			fmt.Fprintln(out, "")

			now := time.Now().In(loc)
			fmt.Fprintln(out, ui.H2.Render(ui.IconDecay+" Decay"))
			for _, c := range engine.DecayingCategories {
				last, ok := subj.LastActivity(c)
				if !ok {
					last = subj.CreatedAt
				}
				missed := engine.MissedDays(last.In(loc), now, subj.RelaxedWeekends)
				owed := engine.DecayFor(missed)
				line := fmt.Sprintf("  %s %-8s %s", ui.CategoryIcon(c), c, ui.Muted.Render(fmt.Sprintf("%d missed day(s)", missed)))
				switch {
				case owed > 0:
					line += " " + ui.Bad.Render(fmt.Sprintf("-%s per stat so far", ui.FormatStat(owed)))
				case missed > 0:
					line += " " + ui.Warn.Render(fmt.Sprintf("decay after %d", engine.DecayBlockDays))
				default:
					line += " " + ui.Good.Render("on track")
				}
				fmt.Fprintln(out, line)
			}
			if subj.RelaxedWeekends {
				fmt.Fprintln(out, ui.Muted.Render("  weekends do not count"))
			}
			return nil
		},
	}

	return cmd
}
