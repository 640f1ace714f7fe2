package root

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ascend/internal/engine"
	"ascend/internal/tracker"
	"ascend/internal/ui"
)

var questions = map[engine.Stat]string{
	engine.StatStrength:     "How strong do you feel (lifting, carrying)?",
	engine.StatAgility:      "How agile and coordinated are you?",
	engine.StatEndurance:    "How long can you keep going (running, hiking)?",
	engine.StatIntelligence: "How much do you read or learn?",
	engine.StatFocus:        "How well can you concentrate?",
	engine.StatCharisma:     "How at ease are you with people?",
}

func newInitCmd() *cobra.Command {
	answers := map[engine.Stat]*int{}
	var relaxed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create your profile from a short self-assessment",
		Long: `Create your profile. Each stat is rated 0-10 and mapped onto a
starting value between 1 and 5.

Pass answers as flags (--str 6 --int 8 ...) or answer the prompts for any
stat not given. This can only be done once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := svc.Subject(ctx); err == nil {
				return tracker.ErrAlreadyOnboarded
			} else if !errors.Is(err, tracker.ErrNotOnboarded) {
				return err
			}

			in := bufio.NewReader(cmd.InOrStdin())
			final := make(map[engine.Stat]int, len(engine.AllStats))
			for _, s := range engine.AllStats {
				if cmd.Flags().Changed(flagName(s)) {
					final[s] = *answers[s]
					continue
				}
				a, err := ask(cmd.OutOrStdout(), in, s)
				if err != nil {
					return err
				}
				final[s] = a
			}
			if !cmd.Flags().Changed("relaxed-weekends") {
				relaxed = cfg.RelaxedWeekends
			}

			subj, err := svc.Onboard(ctx, final, relaxed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Profile created"))
			ceiling := engine.RecommendedCeiling(subj.Stats)
			for _, s := range engine.AllStats {
				fmt.Fprintln(out, ui.StatBar(s, subj.Stats.Get(s), ceiling, 20))
			}
			return nil
		},
	}

	for _, s := range engine.AllStats {
		v := new(int)
		answers[s] = v
		cmd.Flags().IntVar(v, flagName(s), 0, fmt.Sprintf("Self-assessed %s (0-%d)", s, engine.MaxAnswer))
	}
	cmd.Flags().BoolVar(&relaxed, "relaxed-weekends", false, "Do not count weekends as missed days for decay")

	return cmd
}

func ask(out io.Writer, in *bufio.Reader, s engine.Stat) (int, error) {
	for {
		fmt.Fprintf(out, "%s %s %s ", ui.StatIcon(s), questions[s], ui.Muted.Render(fmt.Sprintf("[0-%d]", engine.MaxAnswer)))
		line, err := in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			if err == io.EOF {
				return 0, fmt.Errorf("no answer for %s", s)
			}
			return 0, err
		}
		a, convErr := strconv.Atoi(line)
		if convErr == nil && a >= 0 && a <= engine.MaxAnswer {
			return a, nil
		}
		fmt.Fprintln(out, ui.Warn.Render(fmt.Sprintf("%s Enter a whole number from 0 to %d.", ui.IconWarn, engine.MaxAnswer)))
		if err != nil {
			return 0, fmt.Errorf("no valid answer for %s", s)
		}
	}
}

func flagName(s engine.Stat) string {
	return strings.ToLower(s.Abbrev())
}
