package engine

import (
	"strings"
	"time"
)

type ApplyResult struct {
	Record       ActivityRecord
	LevelBefore  int
	LevelAfter   int
	LevelUp      bool
	LevelsGained int
}

// Apply logs one activity on s, stamped with the engine clock.
func (e *Engine) Apply(s *Subject, kind ActivityKind, durationMinutes int, notes string) (*ApplyResult, error) {
	return e.ApplyAt(s, kind, durationMinutes, notes, e.now())
}

// ApplyAt logs one activity on s that took place at the given time: it
// computes the receipt, adds it to the ledger, advances the level and appends
// the record to the history. On error s is left untouched.
func (e *Engine) ApplyAt(s *Subject, kind ActivityKind, durationMinutes int, notes string, at time.Time) (*ApplyResult, error) {
	if err := validateDuration(durationMinutes); err != nil {
		return nil, err
	}
	receipt, err := e.calc.Calculate(kind, durationMinutes)
	if err != nil {
		return nil, err
	}

	ledger := s.Ledger()
	ledger.AddDeltas(receipt.StatDeltas)
	change := ledger.AddExp(receipt.ExpDelta)

	rec := ActivityRecord{
		ID:              e.newID(),
		Kind:            kind,
		DurationMinutes: durationMinutes,
		Timestamp:       at,
		Notes:           strings.TrimSpace(notes),
		Receipt:         &receipt,
	}

	s.commit(ledger)
	s.History = append(s.History, rec)
	if at.After(s.LastActive) {
		s.LastActive = at
	}
	// The streak anchor may have moved; the next decay pass recomputes.
	delete(s.DecayTaken, kind.Category())

	return &ApplyResult{
		Record:       rec.Clone(),
		LevelBefore:  change.LevelBefore,
		LevelAfter:   change.Level,
		LevelUp:      change.Changed(),
		LevelsGained: change.Steps,
	}, nil
}
