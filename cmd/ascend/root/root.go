package root

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ascend/internal/config"
	"ascend/internal/engine"
	"ascend/internal/logging"
	"ascend/internal/ui"
)

const Version = "0.1.0"

var (
	flagDB      string
	flagEnvFile string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "ascend",
	Short:         "Ascend: local-first life stats with RPG progression",
	Long:          "Ascend turns logged real-life activities into character stats, EXP and levels. Neglected stats decay.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(flagEnvFile)
		if err != nil {
			return err
		}
		if flagDB != "" {
			cfg.DBPath = flagDB
		}
		logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default ~/.ascend.db)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Optional .env file with ASCEND_* settings")

	rootCmd.AddCommand(
		newInitCmd(),
		newLogCmd(),
		newUndoCmd(),
		newHistoryCmd(),
		newStatusCmd(),
		newDecayCmd(),
		newWeekendsCmd(),
		newRatesCmd(),
		newDBCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+describeError(err)))
		os.Exit(1)
	}
}

func describeError(err error) string {
	var verr engine.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("%s: %s (got %v)", verr.Field, verr.Reason, verr.Value)
	}
	var nf engine.ReversalNotFoundError
	if errors.As(err, &nf) {
		return fmt.Sprintf("no activity with id %s (already undone?)", nf.RecordID)
	}
	return err.Error()
}
