package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS subject (
			key TEXT PRIMARY KEY,
			strength REAL NOT NULL DEFAULT 1.0,
			agility REAL NOT NULL DEFAULT 1.0,
			endurance REAL NOT NULL DEFAULT 1.0,
			intelligence REAL NOT NULL DEFAULT 1.0,
			focus REAL NOT NULL DEFAULT 1.0,
			charisma REAL NOT NULL DEFAULT 1.0,
			total_exp REAL NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			last_active DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			subject_key TEXT NOT NULL,
			kind TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			logged_at DATETIME NOT NULL,
			notes TEXT,
			FOREIGN KEY(subject_key) REFERENCES subject(key)
		);`,
		`CREATE TABLE IF NOT EXISTS rate_overrides (
			kind TEXT NOT NULL,
			stat TEXT NOT NULL,
			per_hour REAL NOT NULL,
			PRIMARY KEY(kind, stat)
		);`,
		`CREATE TABLE IF NOT EXISTS degradation_checks (
			subject_key TEXT NOT NULL,
			category TEXT NOT NULL,
			checked_at DATETIME NOT NULL,
			PRIMARY KEY(subject_key, category),
			FOREIGN KEY(subject_key) REFERENCES subject(key)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_subject_logged_at ON activities(subject_key, logged_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Columns added after the first release. Rows written before receipts
	// existed keep receipt NULL and are reversed by recomputation.
	alterStmts := []string{
		`ALTER TABLE activities ADD COLUMN receipt TEXT;`,
		`ALTER TABLE subject ADD COLUMN relaxed_weekends INTEGER NOT NULL DEFAULT 0;`,
		`ALTER TABLE degradation_checks ADD COLUMN decay_taken REAL;`,
	}
	for _, stmt := range alterStmts {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate alter: %w", err)
		}
	}

	return nil
}
