package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type CheckRepo struct {
	db DBTX
}

func NewCheckRepo(db DBTX) *CheckRepo {
	return &CheckRepo{db: db}
}

func (r *CheckRepo) Upsert(ctx context.Context, c DegradationCheck) error {
	var taken any
	if c.DecayTaken != nil {
		taken = *c.DecayTaken
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO degradation_checks (subject_key, category, checked_at, decay_taken) VALUES (?, ?, ?, ?)
		ON CONFLICT(subject_key, category) DO UPDATE SET
			checked_at = excluded.checked_at,
			decay_taken = excluded.decay_taken
	`, c.SubjectKey, c.Category, c.CheckedAt, taken)
	if err != nil {
		return fmt.Errorf("degradation check upsert: %w", err)
	}
	return nil
}

// ListBySubject returns the last check per category.
func (r *CheckRepo) ListBySubject(ctx context.Context, subjectKey string) ([]DegradationCheck, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT subject_key, category, checked_at, decay_taken
		FROM degradation_checks
		WHERE subject_key = ?
		ORDER BY category
	`, subjectKey)
	if err != nil {
		return nil, fmt.Errorf("degradation check list: %w", err)
	}
	defer rows.Close()

	var out []DegradationCheck
	for rows.Next() {
		var (
			c     DegradationCheck
			taken sql.NullFloat64
		)
		if err := rows.Scan(&c.SubjectKey, &c.Category, &c.CheckedAt, &taken); err != nil {
			return nil, fmt.Errorf("degradation check scan: %w", err)
		}
		if taken.Valid {
			v := taken.Float64
			c.DecayTaken = &v
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("degradation check rows: %w", err)
	}
	return out, nil
}
