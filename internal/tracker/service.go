// Package tracker persists a subject's progression and runs the engine on it.
// It is the single writer: every mutation is serialized and committed in one
// SQLite transaction.
package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ascend/internal/engine"
	"ascend/internal/storage"
)

var (
	// ErrNotOnboarded is returned before the subject has been created.
	ErrNotOnboarded = errors.New("no profile yet; run `ascend init` first")
	// ErrAlreadyOnboarded is returned when onboarding runs a second time.
	ErrAlreadyOnboarded = errors.New("profile already exists")
)

type Service struct {
	db  *sql.DB
	key string
	log *slog.Logger
	loc *time.Location
	now func() time.Time

	mu sync.Mutex
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock replaces the time source; tests use it to walk through days.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets where calendar days start for decay.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func NewService(db *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:  db,
		key: storage.MainSubjectKey,
		log: slog.Default(),
		loc: time.Local,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

// newEngine builds an engine with the stored rate overrides.
func (s *Service) newEngine(ctx context.Context, r storage.Repos) (*engine.Engine, error) {
	rows, err := r.Overrides.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return engine.New(overridesFromRows(rows), engine.WithClock(func() time.Time { return s.now().UTC() })), nil
}

func (s *Service) load(ctx context.Context, r storage.Repos) (*engine.Subject, error) {
	row, err := r.Subjects.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotOnboarded
	}
	activities, err := r.Activities.ListBySubject(ctx, s.key)
	if err != nil {
		return nil, err
	}
	checks, err := r.Checks.ListBySubject(ctx, s.key)
	if err != nil {
		return nil, err
	}

	subj := subjectFromRows(row, activities, checks)
	if clean, warn := engine.Sanitize(subj.Stats); warn != nil {
		s.log.Warn("stored stats sanitized", "stats", warn.Stats)
		subj.Stats = clean
	}
	if raised := engine.ClampFloor(subj.Stats); len(raised) > 0 {
		s.log.Warn("stored stats below floor raised", "stats", raised, "floor", engine.StatFloor)
	}
	if subj.HealLevel() {
		s.log.Warn("cached level out of date, recomputed", "level", subj.Level, "total_exp", subj.TotalExp)
	}
	return subj, nil
}

// save writes the subject row and its degradation checks. A subject that
// fails its invariant check is never written.
func (s *Service) save(ctx context.Context, r storage.Repos, subj *engine.Subject) error {
	if err := subj.Check(); err != nil {
		s.log.Error("refusing to persist inconsistent subject", "err", err)
		return err
	}
	if err := r.Subjects.Update(ctx, subjectToRow(subj)); err != nil {
		return err
	}
	for _, c := range checksToRows(subj) {
		if err := r.Checks.Upsert(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Onboard creates the subject from questionnaire answers (0..10 per stat).
// It may only run once.
func (s *Service) Onboard(ctx context.Context, answers map[engine.Stat]int, relaxedWeekends bool) (*engine.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subj *engine.Subject
	err := storage.WithTx(ctx, s.db, func(r storage.Repos) error {
		existing, err := r.Subjects.Get(ctx, s.key)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyOnboarded
		}
		subj, err = engine.NewSubject(s.key, answers, s.now().UTC())
		if err != nil {
			return err
		}
		subj.RelaxedWeekends = relaxedWeekends
		return r.Subjects.Insert(ctx, subjectToRow(subj))
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("subject onboarded", "stats", subj.Stats)
	return subj, nil
}

// Subject returns the current state including history.
func (s *Service) Subject(ctx context.Context) (*engine.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subj *engine.Subject
	err := storage.WithTx(ctx, s.db, func(r storage.Repos) error {
		var err error
		subj, err = s.load(ctx, r)
		return err
	})
	return subj, err
}

type LogInput struct {
	Kind            engine.ActivityKind
	DurationMinutes int
	Notes           string
	// At backdates the activity; zero means now.
	At time.Time
}

// LogActivity applies an activity and stores it together with its receipt.
func (s *Service) LogActivity(ctx context.Context, in LogInput) (*engine.ApplyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res *engine.ApplyResult
	err := storage.WithTx(ctx, s.db, func(r storage.Repos) error {
		subj, err := s.load(ctx, r)
		if err != nil {
			return err
		}
		eng, err := s.newEngine(ctx, r)
		if err != nil {
			return err
		}

		at := in.At
		if at.IsZero() {
			at = s.now()
		}
		res, err = eng.ApplyAt(subj, in.Kind, in.DurationMinutes, in.Notes, at.UTC())
		if err != nil {
			return err
		}
		if err := r.Activities.Insert(ctx, activityToRow(subj.ID, res.Record)); err != nil {
			return err
		}
		return s.save(ctx, r, subj)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("activity applied",
		"id", res.Record.ID,
		"kind", res.Record.Kind,
		"minutes", res.Record.DurationMinutes,
		"exp", res.Record.Receipt.ExpDelta,
		"level", res.LevelAfter,
	)
	if res.LevelUp {
		s.log.Info("level up", "from", res.LevelBefore, "to", res.LevelAfter)
	}
	return res, nil
}

// DeleteActivity reverses a logged activity and removes it. Deleting an id
// that no longer exists returns engine.ReversalNotFoundError.
func (s *Service) DeleteActivity(ctx context.Context, id string) (*engine.ReversalResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res *engine.ReversalResult
	err := storage.WithTx(ctx, s.db, func(r storage.Repos) error {
		row, err := r.Activities.Get(ctx, id)
		if err != nil {
			return err
		}
		if row == nil || row.SubjectKey != s.key {
			return engine.ReversalNotFoundError{RecordID: id}
		}
		subj, err := s.load(ctx, r)
		if err != nil {
			return err
		}
		eng, err := s.newEngine(ctx, r)
		if err != nil {
			return err
		}
		res, err = eng.Reverse(subj, id)
		if err != nil {
			return err
		}
		deleted, err := r.Activities.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return engine.ReversalNotFoundError{RecordID: id}
		}
		return s.save(ctx, r, subj)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("activity reversed",
		"id", id,
		"kind", res.Record.Kind,
		"migrated", res.Migrated,
		"level", res.LevelAfter,
	)
	if len(res.Clamped) > 0 {
		s.log.Info("reversal clamped at floor", "stats", res.Clamped)
	}
	return res, nil
}

// RunDegradation applies the decay pass as of the service clock.
func (s *Service) RunDegradation(ctx context.Context) (*engine.DegradationReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report *engine.DegradationReport
	err := storage.WithTx(ctx, s.db, func(r storage.Repos) error {
		subj, err := s.load(ctx, r)
		if err != nil {
			return err
		}
		eng, err := s.newEngine(ctx, r)
		if err != nil {
			return err
		}
		report = eng.ApplyDegradation(subj, s.clock())
		return s.save(ctx, r, subj)
	})
	if err != nil {
		return nil, err
	}

	for _, c := range report.Categories {
		if c.Applied > 0 {
			s.log.Info("stats decayed", "category", c.Category, "missed_days", c.MissedDays, "decay", c.Applied)
		}
	}
	return report, nil
}

// SetRelaxedWeekends toggles whether weekends count as missed days.
func (s *Service) SetRelaxedWeekends(ctx context.Context, relaxed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return storage.WithTx(ctx, s.db, func(r storage.Repos) error {
		subj, err := s.load(ctx, r)
		if err != nil {
			return err
		}
		subj.RelaxedWeekends = relaxed
		return s.save(ctx, r, subj)
	})
}

// Overrides returns the stored rate overrides.
func (s *Service) Overrides(ctx context.Context) (engine.Overrides, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := storage.NewOverrideRepo(s.db).ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return overridesFromRows(rows), nil
}

// SetOverride replaces the hourly rate of one stat for one kind. It only
// affects activities logged afterwards.
func (s *Service) SetOverride(ctx context.Context, kind engine.ActivityKind, stat engine.Stat, perHour float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := (engine.Overrides{}).Set(kind, stat, perHour); err != nil {
		return err
	}
	err := storage.NewOverrideRepo(s.db).Upsert(ctx, storage.RateOverride{Kind: string(kind), Stat: string(stat), PerHour: perHour})
	if err != nil {
		return err
	}
	s.log.Info("rate override set", "kind", kind, "stat", stat, "per_hour", perHour)
	return nil
}

// ClearOverride removes an override and reports whether it existed.
func (s *Service) ClearOverride(ctx context.Context, kind engine.ActivityKind, stat engine.Stat) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return storage.NewOverrideRepo(s.db).Delete(ctx, string(kind), string(stat))
}

// BackfillReceipts stores recomputed receipts on activities logged before
// receipts existed. It returns how many rows were filled.
func (s *Service) BackfillReceipts(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filled := 0
	err := storage.WithTx(ctx, s.db, func(r storage.Repos) error {
		subj, err := s.load(ctx, r)
		if err != nil {
			return err
		}
		eng, err := s.newEngine(ctx, r)
		if err != nil {
			return err
		}
		for _, rec := range subj.History {
			if rec.Receipt != nil {
				continue
			}
			receipt, err := eng.LegacyReceipt(rec)
			if err != nil {
				return fmt.Errorf("backfill %s: %w", rec.ID, err)
			}
			ok, err := r.Activities.SetReceipt(ctx, rec.ID, receiptToRow(receipt))
			if err != nil {
				return err
			}
			if ok {
				filled++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if filled > 0 {
		s.log.Info("legacy receipts backfilled", "count", filled)
	}
	return filled, nil
}
