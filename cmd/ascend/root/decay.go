package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ascend/internal/engine"
	"ascend/internal/ui"
)

func newDecayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decay",
		Short: "Run the decay pass now and show what changed",
		Long: `Apply stat decay for categories without recent activity.

Every 3 missed days cost 0.01 on each stat of the category, up to 0.05 per
streak. Running this more than once a day changes nothing; other commands run
it automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := svc.RunDegradation(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconDecay, "Decay"))
			for _, c := range report.Categories {
				head := fmt.Sprintf("%s %-8s", ui.CategoryIcon(c.Category), c.Category)
				switch {
				case c.Skipped:
					fmt.Fprintln(out, head+" "+ui.Muted.Render("skipped"))
				case c.Applied > 0:
					stats := make([]string, 0, len(c.Category.DecayStats()))
					for _, s := range c.Category.DecayStats() {
						stats = append(stats, s.Abbrev())
					}
					fmt.Fprintf(out, "%s %s %s\n", head,
						ui.Bad.Render(fmt.Sprintf("-%s %s", ui.FormatStat(c.Applied), strings.Join(stats, " "))),
						ui.Muted.Render(fmt.Sprintf("(%d missed day(s))", c.MissedDays)))
				default:
					fmt.Fprintln(out, head+" "+ui.Good.Render("nothing new"))
				}
			}
			if !report.Changed() {
				return nil
			}
			for _, s := range engine.AllStats {
				if report.Before.Get(s) != report.After.Get(s) {
					fmt.Fprintf(out, "  %s %s → %s\n", s.Abbrev(), ui.FormatStat(report.Before.Get(s)), ui.FormatStat(report.After.Get(s)))
				}
			}
			return nil
		},
	}
}

func newWeekendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "weekends <on|off>",
		Short:     "Choose whether weekends count as missed days",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var relaxed bool
			switch strings.ToLower(args[0]) {
			case "off", "relaxed":
				relaxed = true
			case "on", "strict":
				relaxed = false
			default:
				return engine.ValidationError{Field: "weekends", Value: args[0], Reason: "expected on or off"}
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.SetRelaxedWeekends(ctx, relaxed); err != nil {
				return err
			}
			if relaxed {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconGear+" Weekends no longer count toward decay."))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconGear+" Weekends count toward decay."))
			}
			return nil
		},
	}
}
