package storage

import (
	"context"
	"fmt"
)

type OverrideRepo struct {
	db DBTX
}

func NewOverrideRepo(db DBTX) *OverrideRepo {
	return &OverrideRepo{db: db}
}

func (r *OverrideRepo) Upsert(ctx context.Context, o RateOverride) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rate_overrides (kind, stat, per_hour) VALUES (?, ?, ?)
		ON CONFLICT(kind, stat) DO UPDATE SET per_hour = excluded.per_hour
	`, o.Kind, o.Stat, o.PerHour)
	if err != nil {
		return fmt.Errorf("override upsert: %w", err)
	}
	return nil
}

// Delete removes one override and reports whether it existed.
func (r *OverrideRepo) Delete(ctx context.Context, kind, stat string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rate_overrides WHERE kind = ? AND stat = ?`, kind, stat)
	if err != nil {
		return false, fmt.Errorf("override delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("override delete rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *OverrideRepo) ListAll(ctx context.Context) ([]RateOverride, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, stat, per_hour FROM rate_overrides ORDER BY kind ASC, stat ASC`)
	if err != nil {
		return nil, fmt.Errorf("override list: %w", err)
	}
	defer rows.Close()

	var out []RateOverride
	for rows.Next() {
		var o RateOverride
		if err := rows.Scan(&o.Kind, &o.Stat, &o.PerHour); err != nil {
			return nil, fmt.Errorf("override scan: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("override rows: %w", err)
	}
	return out, nil
}
