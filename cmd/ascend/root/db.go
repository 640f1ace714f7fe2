package root

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"ascend/internal/storage"
	"ascend/internal/tracker"
	"ascend/internal/ui"
)

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// openService opens the tracker. With catchUp set it first runs the decay
// pass, so every command sees stats as of today.
func openService(ctx context.Context, catchUp bool) (*tracker.Service, func(), error) {
	db, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	svc := tracker.NewService(db, tracker.WithLogger(slog.Default()), tracker.WithLocation(loc))
	if catchUp {
		if _, err := svc.RunDegradation(ctx); err != nil && !errors.Is(err, tracker.ErrNotOnboarded) {
			cleanup()
			return nil, nil, err
		}
	}
	return svc, cleanup, nil
}

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}
	cmd.AddCommand(newBackfillCmd())
	return cmd
}

func newBackfillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Store receipts on activities logged before receipts existed",
		Long: `Compute and store a receipt for every activity that has none.

Receipts are computed from the default rate table, exactly as an undo of such
an activity would. Activities that already carry a receipt are left alone, so
running this twice is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, false)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := svc.BackfillReceipts(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Nothing to backfill."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("%s Backfilled %d receipt(s).", ui.IconScroll, n)))
			return nil
		},
	}
}
