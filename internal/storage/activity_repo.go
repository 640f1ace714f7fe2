package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type ActivityRepo struct {
	db DBTX
}

func NewActivityRepo(db DBTX) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// Insert stores a new activity. The receipt is written verbatim and is never
// recomputed by this package.
func (r *ActivityRepo) Insert(ctx context.Context, a Activity) error {
	receiptJSON, err := marshalReceipt(a.Receipt)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO activities (id, subject_key, kind, duration_minutes, logged_at, notes, receipt)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.SubjectKey, a.Kind, a.DurationMinutes, a.LoggedAt, a.Notes, receiptJSON)
	if err != nil {
		return fmt.Errorf("activity insert: %w", err)
	}
	return nil
}

func (r *ActivityRepo) Get(ctx context.Context, id string) (*Activity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, subject_key, kind, duration_minutes, logged_at, notes, receipt
		FROM activities
		WHERE id = ?
	`, id)
	return scanActivityRow(row)
}

// ListBySubject returns the subject's activities, oldest first.
func (r *ActivityRepo) ListBySubject(ctx context.Context, subjectKey string) ([]Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, subject_key, kind, duration_minutes, logged_at, notes, receipt
		FROM activities
		WHERE subject_key = ?
		ORDER BY logged_at ASC, id ASC
	`, subjectKey)
	if err != nil {
		return nil, fmt.Errorf("activity list: %w", err)
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		a, err := scanActivityRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity list rows: %w", err)
	}
	return out, nil
}

// Delete removes the activity and reports whether a row existed.
func (r *ActivityRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("activity delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("activity delete rows affected: %w", err)
	}
	return n > 0, nil
}

// SetReceipt fills the receipt of a legacy row. Rows that already carry a
// receipt are left alone; the return value reports whether a row changed.
func (r *ActivityRepo) SetReceipt(ctx context.Context, id string, receipt Receipt) (bool, error) {
	receiptJSON, err := marshalReceipt(&receipt)
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE activities SET receipt = ? WHERE id = ? AND receipt IS NULL`, receiptJSON, id)
	if err != nil {
		return false, fmt.Errorf("activity set receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("activity set receipt rows affected: %w", err)
	}
	return n > 0, nil
}

func marshalReceipt(r *Receipt) (*string, error) {
	if r == nil {
		return nil, nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal receipt: %w", err)
	}
	s := string(data)
	return &s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActivityRow(row scanner) (*Activity, error) {
	var (
		a          Activity
		loggedAt   time.Time
		notes      sql.NullString
		receiptRaw sql.NullString
	)
	if err := row.Scan(&a.ID, &a.SubjectKey, &a.Kind, &a.DurationMinutes, &loggedAt, &notes, &receiptRaw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("activity scan: %w", err)
	}
	a.LoggedAt = loggedAt
	if notes.Valid {
		v := notes.String
		a.Notes = &v
	}
	if receiptRaw.Valid && receiptRaw.String != "" {
		var rc Receipt
		if err := json.Unmarshal([]byte(receiptRaw.String), &rc); err != nil {
			return nil, fmt.Errorf("unmarshal receipt: %w", err)
		}
		a.Receipt = &rc
	}
	return &a, nil
}
