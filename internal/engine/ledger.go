package engine

// Ledger is the mutable stat and EXP aggregate of one subject. Level is never
// stored; it is always derived from EXP.
type Ledger struct {
	stats StatMap
	exp   float64
}

// NewLedger copies stats (sanitized) and exp into a new ledger.
func NewLedger(stats StatMap, exp float64) *Ledger {
	clean, _ := Sanitize(stats)
	return &Ledger{stats: clean, exp: sanitizeExp(exp)}
}

// AddDeltas adds every delta, keeping the floor. There is no ceiling.
func (l *Ledger) AddDeltas(d Deltas) {
	for s, v := range d {
		if !s.IsValid() {
			continue
		}
		l.stats[s], _ = clampStat(l.stats.Get(s) + v)
	}
}

// SubtractDeltas subtracts every delta, keeping the floor, and returns the
// stats whose value had to be raised back to it.
func (l *Ledger) SubtractDeltas(d Deltas) []Stat {
	var clamped []Stat
	for _, s := range d.Stats() {
		if !s.IsValid() {
			continue
		}
		v, hit := clampStat(l.stats.Get(s) - d[s])
		if hit {
			clamped = append(clamped, s)
		}
		l.stats[s] = v
	}
	return clamped
}

func (l *Ledger) AddExp(amount float64) LevelChange {
	c := ApplyExp(l.exp, amount)
	l.exp = c.TotalExp
	return c
}

func (l *Ledger) RemoveExp(amount float64) LevelChange {
	c := ReverseExp(l.exp, amount)
	l.exp = c.TotalExp
	return c
}

func (l *Ledger) Stat(s Stat) float64 { return l.stats.Get(s) }

// Stats returns a copy of the stat values.
func (l *Ledger) Stats() StatMap { return l.stats.Clone() }

func (l *Ledger) CurrentExp() float64 { return l.exp }

func (l *Ledger) CurrentLevel() int {
	level, _ := LevelFor(l.exp)
	return level
}

// Rollover is the EXP earned inside the current level.
func (l *Ledger) Rollover() float64 {
	_, r := LevelFor(l.exp)
	return r
}

func (l *Ledger) ProgressToNextLevel() float64 {
	return ProgressToNextLevel(l.exp)
}
