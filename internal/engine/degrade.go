package engine

import (
	"math"
	"time"
)

const (
	// DecayBlockDays is the number of missed days per decay step.
	DecayBlockDays = 3
	// DecayPerBlock is subtracted from each stat of a category per block.
	DecayPerBlock = 0.01
	// MaxDecay caps the total decay of one inactivity streak.
	MaxDecay = 0.05
)

// CategoryDecay is the outcome of one category in a degradation pass.
type CategoryDecay struct {
	Category   Category
	MissedDays int
	// Owed is the total decay of the current inactivity streak.
	Owed float64
	// Applied is what this pass subtracted; earlier passes took the rest.
	Applied float64
	Clamped []Stat
	Skipped bool
}

type DegradationReport struct {
	At         time.Time
	Categories []CategoryDecay
	Before     StatMap
	After      StatMap
}

// Changed reports whether any stat moved.
func (r *DegradationReport) Changed() bool {
	for _, s := range AllStats {
		if r.Before.Get(s) != r.After.Get(s) {
			return true
		}
	}
	return false
}

// DecayFor returns the total decay owed after missedDays without a qualifying activity.
func DecayFor(missedDays int) float64 {
	if missedDays < DecayBlockDays {
		return 0
	}
	d := DecayPerBlock * math.Floor(float64(missedDays)/DecayBlockDays)
	return roundValue(math.Min(d, MaxDecay))
}

// MissedDays counts the whole calendar days strictly between the day of last
// and the day of now, in now's location. Saturdays and Sundays are skipped
// when relaxedWeekends is set.
func MissedDays(last, now time.Time, relaxedWeekends bool) int {
	loc := now.Location()
	from := startOfDay(last.In(loc))
	to := startOfDay(now)
	if !to.After(from) {
		return 0
	}
	missed := 0
	for d := from.AddDate(0, 0, 1); d.Before(to); d = d.AddDate(0, 0, 1) {
		if relaxedWeekends && isWeekend(d) {
			continue
		}
		missed++
	}
	return missed
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ApplyDegradation decays the stats of every category without a recent
// qualifying activity. Each pass only subtracts the part of the streak's decay
// not yet taken by earlier passes, so calling it again with the same now does
// nothing and one late call equals a call per elapsed day. EXP and level are
// never touched.
func (e *Engine) ApplyDegradation(s *Subject, now time.Time) *DegradationReport {
	report := &DegradationReport{At: now, Before: s.Stats.Clone()}

	ledger := s.Ledger()
	checks := make(map[Category]time.Time, len(DecayingCategories))
	takenByCat := make(map[Category]float64, len(DecayingCategories))
	for _, c := range DecayingCategories {
		cd := CategoryDecay{Category: c}

		anchor, ok := s.LastActivity(c)
		if !ok {
			anchor = s.CreatedAt
		}
		last := s.LastDegradationCheck[c]
		if anchor.IsZero() || now.Before(last) {
			cd.Skipped = true
			report.Categories = append(report.Categories, cd)
			continue
		}

		cd.MissedDays = MissedDays(anchor, now, s.RelaxedWeekends)
		cd.Owed = DecayFor(cd.MissedDays)

		taken := 0.0
		if last.After(anchor) {
			if t, ok := s.DecayTaken[c]; ok {
				taken = t
			} else {
				taken = DecayFor(MissedDays(anchor, last.In(now.Location()), s.RelaxedWeekends))
			}
		}
		if step := roundValue(cd.Owed - taken); step > 0 {
			deltas := Deltas{}
			for _, st := range c.DecayStats() {
				deltas[st] = step
			}
			cd.Clamped = ledger.SubtractDeltas(deltas)
			cd.Applied = step
		}

		checks[c] = now
		taken = math.Max(taken, cd.Owed)
		takenByCat[c] = taken
		report.Categories = append(report.Categories, cd)
	}

	// Decay never moves EXP, so the level is committed unchanged.
	s.commit(ledger)
	if s.LastDegradationCheck == nil {
		s.LastDegradationCheck = map[Category]time.Time{}
	}
	if s.DecayTaken == nil {
		s.DecayTaken = map[Category]float64{}
	}
	for c, t := range checks {
		s.LastDegradationCheck[c] = t
		s.DecayTaken[c] = takenByCat[c]
	}
	report.After = s.Stats.Clone()
	return report
}
