package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Repos groups the repositories bound to one connection or transaction.
type Repos struct {
	Subjects   *SubjectRepo
	Activities *ActivityRepo
	Overrides  *OverrideRepo
	Checks     *CheckRepo
}

func NewRepos(db DBTX) Repos {
	return Repos{
		Subjects:   NewSubjectRepo(db),
		Activities: NewActivityRepo(db),
		Overrides:  NewOverrideRepo(db),
		Checks:     NewCheckRepo(db),
	}
}

// WithTx runs fn with repos bound to a single SQL transaction. Nothing is
// committed unless fn returns nil.
func WithTx(ctx context.Context, db *sql.DB, fn func(r Repos) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
