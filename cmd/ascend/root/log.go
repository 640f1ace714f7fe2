package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ascend/internal/engine"
	"ascend/internal/tracker"
	"ascend/internal/ui"
)

func newLogCmd() *cobra.Command {
	var notes string
	var at string

	cmd := &cobra.Command{
		Use:   "log <kind> <duration>",
		Short: "Log an activity (e.g. ascend log weights 45)",
		Long: `Log a real-life activity and gain stats and EXP.

Kinds: workout-weights, workout-cardio, workout-yoga, sports, study-reading,
study-course, meditation, socializing, creative, quit-habit. Short aliases such
as weights, run, read or meditate also work.

Duration is whole minutes (45) or a Go duration (1h30m), between 1 minute and
24 hours.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("kind and duration are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := engine.ParseActivityKind(args[0])
			if err != nil {
				return err
			}
			minutes, err := parseMinutes(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			svc, cleanup, err := openService(ctx, true)
			if err != nil {
				return err
			}
			defer cleanup()

			in := tracker.LogInput{Kind: kind, DurationMinutes: minutes, Notes: notes}
			if at != "" {
				loc, err := cfg.Location()
				if err != nil {
					return err
				}
				in.At, err = parseWhen(at, loc)
				if err != nil {
					return err
				}
			}

			res, err := svc.LogActivity(ctx, in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rec := res.Record
			fmt.Fprintf(out, "%s %s %s %s\n",
				ui.Good.Render(ui.IconPlus+" Logged"),
				ui.CategoryIcon(rec.Kind.Category()),
				rec.Kind,
				ui.Muted.Render(fmt.Sprintf("(%d min)", rec.DurationMinutes)),
			)
			fmt.Fprintf(out, "%s %s\n", ui.Good.Render(ui.FormatDeltas(rec.Receipt.StatDeltas, "+")), ui.Gold.Render("+"+ui.FormatExp(rec.Receipt.ExpDelta)))
			fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d → %d", res.LevelBefore, res.LevelAfter)))
			if res.LevelUp {
				fmt.Fprintln(out, ui.BadgeLevelUp+" "+ui.IconTrophy)
			}
			fmt.Fprintln(out, ui.Muted.Render("id "+rec.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Free-form note")
	cmd.Flags().StringVar(&at, "at", "", `When it happened ("2006-01-02 15:04" or RFC 3339); default now`)

	return cmd
}

// parseMinutes accepts "45" or a duration like "1h30m". Range checks are left
// to the engine so the error names the field.
func parseMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, engine.ValidationError{Field: "duration", Value: s, Reason: "expected minutes or a duration like 1h30m"}
	}
	if d%time.Minute != 0 {
		return 0, engine.ValidationError{Field: "duration", Value: s, Reason: "must be whole minutes"}
	}
	return int(d / time.Minute), nil
}

func parseWhen(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, engine.ValidationError{Field: "at", Value: s, Reason: `expected "2006-01-02 15:04" or RFC 3339`}
}
