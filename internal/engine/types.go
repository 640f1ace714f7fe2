package engine

import (
	"math"
	"sort"
)

type Stat string

const (
	StatStrength     Stat = "strength"
	StatAgility      Stat = "agility"
	StatEndurance    Stat = "endurance"
	StatIntelligence Stat = "intelligence"
	StatFocus        Stat = "focus"
	StatCharisma     Stat = "charisma"
)

// AllStats lists every stat in display order.
var AllStats = []Stat{
	StatStrength,
	StatAgility,
	StatEndurance,
	StatIntelligence,
	StatFocus,
	StatCharisma,
}

func (s Stat) IsValid() bool {
	switch s {
	case StatStrength, StatAgility, StatEndurance, StatIntelligence, StatFocus, StatCharisma:
		return true
	default:
		return false
	}
}

const (
	// StatFloor is the minimum value any stat may hold.
	StatFloor = 1.0

	// Resolution is the granularity of every stat value and receipt delta.
	// Splitting one activity into n parts may differ from the whole by up to
	// n*Resolution per stat.
	Resolution = 1e-6

	valuePrecision = 1 / Resolution
)

// roundValue rounds to 6 decimal places so add/subtract round trips land on
// the same float64 as the decimal literal.
func roundValue(v float64) float64 {
	return math.Round(v*valuePrecision) / valuePrecision
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// clampStat enforces the floor on a freshly computed stat value. It reports
// whether the raw value had to be raised.
func clampStat(v float64) (float64, bool) {
	if !isFinite(v) || v < StatFloor {
		return StatFloor, true
	}
	return roundValue(v), false
}

// StatMap holds a value for every stat.
type StatMap map[Stat]float64

// NewStatMap returns a map with every stat at the floor.
func NewStatMap() StatMap {
	m := make(StatMap, len(AllStats))
	for _, s := range AllStats {
		m[s] = StatFloor
	}
	return m
}

func (m StatMap) Clone() StatMap {
	out := make(StatMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Get returns the value for s, or the floor if it is missing.
func (m StatMap) Get(s Stat) float64 {
	if v, ok := m[s]; ok {
		return v
	}
	return StatFloor
}

// Max returns the largest value in the map.
func (m StatMap) Max() float64 {
	max := 0.0
	for _, s := range AllStats {
		if v := m.Get(s); v > max {
			max = v
		}
	}
	return max
}

// Deltas is a sparse set of per-stat changes. Only affected stats are present.
type Deltas map[Stat]float64

func (d Deltas) Clone() Deltas {
	if d == nil {
		return nil
	}
	out := make(Deltas, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Stats returns the affected stats in display order.
func (d Deltas) Stats() []Stat {
	out := make([]Stat, 0, len(d))
	for s := range d {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return statOrder(out[i]) < statOrder(out[j]) })
	return out
}

func statOrder(s Stat) int {
	for i, v := range AllStats {
		if v == s {
			return i
		}
	}
	return len(AllStats)
}
