package engine

import (
	"fmt"
	"time"
)

const (
	// MaxAnswer is the top of the onboarding questionnaire scale (0..MaxAnswer).
	MaxAnswer = 10

	// OnboardingCeiling is the stat value a maximal answer seeds.
	OnboardingCeiling = 5.0
)

// Subject is the whole progression state of one person. The engine reads and
// mutates it; persisting it is the caller's job.
type Subject struct {
	ID        string
	Stats     StatMap
	TotalExp  float64
	Level     int
	CreatedAt time.Time
	// LastActive is the timestamp of the latest applied activity.
	LastActive           time.Time
	LastDegradationCheck map[Category]time.Time
	RelaxedWeekends      bool
	History              []ActivityRecord

	// DecayTaken is the decay already subtracted in the streak that was
	// current at LastDegradationCheck. A missing entry is recomputed.
	DecayTaken map[Category]float64
}

// NewSubject seeds a subject from questionnaire answers (0..10 per stat),
// scaled linearly into [1, 5]. Unanswered stats start at the floor.
func NewSubject(id string, answers map[Stat]int, now time.Time) (*Subject, error) {
	stats := NewStatMap()
	for s, a := range answers {
		if !s.IsValid() {
			return nil, ValidationError{Field: "stat", Value: s, Reason: "unknown stat"}
		}
		if a < 0 || a > MaxAnswer {
			return nil, ValidationError{Field: string(s), Value: a, Reason: fmt.Sprintf("answer must be between 0 and %d", MaxAnswer)}
		}
		stats[s] = ScaleAnswer(a)
	}
	return &Subject{
		ID:                   id,
		Stats:                stats,
		Level:                1,
		CreatedAt:            now,
		LastDegradationCheck: map[Category]time.Time{},
		DecayTaken:           map[Category]float64{},
	}, nil
}

// ScaleAnswer maps a questionnaire answer onto the initial stat range.
func ScaleAnswer(answer int) float64 {
	if answer < 0 {
		answer = 0
	}
	if answer > MaxAnswer {
		answer = MaxAnswer
	}
	return roundValue(StatFloor + float64(answer)*(OnboardingCeiling-StatFloor)/MaxAnswer)
}

func (s *Subject) Clone() *Subject {
	out := *s
	out.Stats = s.Stats.Clone()
	out.LastDegradationCheck = make(map[Category]time.Time, len(s.LastDegradationCheck))
	for k, v := range s.LastDegradationCheck {
		out.LastDegradationCheck[k] = v
	}
	out.DecayTaken = make(map[Category]float64, len(s.DecayTaken))
	for k, v := range s.DecayTaken {
		out.DecayTaken[k] = v
	}
	out.History = make([]ActivityRecord, len(s.History))
	for i := range s.History {
		out.History[i] = s.History[i].Clone()
	}
	return &out
}

// Ledger returns a ledger over a copy of the subject's stats and EXP.
func (s *Subject) Ledger() *Ledger {
	return NewLedger(s.Stats, s.TotalExp)
}

func (s *Subject) commit(l *Ledger) {
	s.Stats = l.Stats()
	s.TotalExp = l.CurrentExp()
	s.Level = l.CurrentLevel()
}

// HealLevel recomputes the cached level from EXP and reports whether it was stale.
func (s *Subject) HealLevel() bool {
	level, _ := LevelFor(s.TotalExp)
	if s.Level == level {
		return false
	}
	s.Level = level
	return true
}

// FindRecord returns the index of the record with id in History.
func (s *Subject) FindRecord(id string) (int, bool) {
	for i := range s.History {
		if s.History[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// LastActivity returns the timestamp of the most recent record counting toward c.
func (s *Subject) LastActivity(c Category) (time.Time, bool) {
	var last time.Time
	found := false
	for i := range s.History {
		r := &s.History[i]
		if r.Kind.Category() != c {
			continue
		}
		if !found || r.Timestamp.After(last) {
			last = r.Timestamp
			found = true
		}
	}
	return last, found
}

// Check verifies the stat floor and the EXP/level projection.
func (s *Subject) Check() error {
	var problems []string
	for _, st := range AllStats {
		v, ok := s.Stats[st]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s missing", st))
		case !isFinite(v) || v < StatFloor:
			problems = append(problems, fmt.Sprintf("%s=%v below floor", st, v))
		}
	}
	if !isFinite(s.TotalExp) || s.TotalExp < 0 {
		problems = append(problems, fmt.Sprintf("total exp %v is negative", s.TotalExp))
	}
	if level, _ := LevelFor(s.TotalExp); level != s.Level {
		problems = append(problems, fmt.Sprintf("level %d does not match exp %v (want %d)", s.Level, s.TotalExp, level))
	}
	if len(problems) == 0 {
		return nil
	}
	return InvariantError{Problems: problems}
}
