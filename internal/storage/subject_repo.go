package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const MainSubjectKey = "main_user"

// StatColumns are the stat names in column order.
var StatColumns = []string{"strength", "agility", "endurance", "intelligence", "focus", "charisma"}

type SubjectRepo struct {
	db DBTX
}

func NewSubjectRepo(db DBTX) *SubjectRepo {
	return &SubjectRepo{db: db}
}

func (r *SubjectRepo) Get(ctx context.Context, key string) (*Subject, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT key, strength, agility, endurance, intelligence, focus, charisma,
			total_exp, level, created_at, last_active, relaxed_weekends
		FROM subject
		WHERE key = ?
	`, key)

	var (
		s          Subject
		vals       [6]float64
		lastActive sql.NullTime
		relaxed    int
	)
	if err := row.Scan(&s.Key, &vals[0], &vals[1], &vals[2], &vals[3], &vals[4], &vals[5],
		&s.TotalExp, &s.Level, &s.CreatedAt, &lastActive, &relaxed); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("subject get: %w", err)
	}

	s.Stats = make(map[string]float64, len(StatColumns))
	for i, name := range StatColumns {
		s.Stats[name] = vals[i]
	}
	if lastActive.Valid {
		v := lastActive.Time
		s.LastActive = &v
	}
	s.RelaxedWeekends = relaxed != 0
	return &s, nil
}

func (r *SubjectRepo) Insert(ctx context.Context, s *Subject) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subject (
			key, strength, agility, endurance, intelligence, focus, charisma,
			total_exp, level, created_at, last_active, relaxed_weekends
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.Key, stat(s, 0), stat(s, 1), stat(s, 2), stat(s, 3), stat(s, 4), stat(s, 5),
		s.TotalExp, s.Level, s.CreatedAt, nullTime(s.LastActive), boolToInt(s.RelaxedWeekends))
	if err != nil {
		return fmt.Errorf("subject insert: %w", err)
	}
	return nil
}

func (r *SubjectRepo) Update(ctx context.Context, s *Subject) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subject
		SET strength = ?, agility = ?, endurance = ?, intelligence = ?, focus = ?, charisma = ?,
			total_exp = ?, level = ?, last_active = ?, relaxed_weekends = ?
		WHERE key = ?
	`, stat(s, 0), stat(s, 1), stat(s, 2), stat(s, 3), stat(s, 4), stat(s, 5),
		s.TotalExp, s.Level, nullTime(s.LastActive), boolToInt(s.RelaxedWeekends), s.Key)
	if err != nil {
		return fmt.Errorf("subject update: %w", err)
	}
	return nil
}

func stat(s *Subject, i int) float64 {
	if v, ok := s.Stats[StatColumns[i]]; ok {
		return v
	}
	return 1.0
}

func nullTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
