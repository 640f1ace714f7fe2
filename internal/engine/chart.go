package engine

import "math"

const (
	// DefaultChartCeiling is the display ceiling used while every stat is within the onboarding range.
	DefaultChartCeiling = 5.0
	chartCeilingStep    = 5.0
)

// Sanitize returns a fully populated copy of m in which NaN, infinite,
// negative and missing entries are replaced by the floor. The warning is nil
// when nothing had to change. m itself is never modified.
func Sanitize(m StatMap) (StatMap, *SanitizationWarning) {
	out := make(StatMap, len(AllStats))
	var bad []Stat
	for _, s := range AllStats {
		v, ok := m[s]
		if !ok || !isFinite(v) || v < 0 {
			out[s] = StatFloor
			bad = append(bad, s)
			continue
		}
		out[s] = v
	}
	if len(bad) == 0 {
		return out, nil
	}
	return out, &SanitizationWarning{Stats: bad}
}

// RecommendedCeiling returns the y-axis maximum for charting m: 5 while all
// stats are at most 5, otherwise the smallest multiple of 5 not below the max.
func RecommendedCeiling(m StatMap) float64 {
	clean, _ := Sanitize(m)
	max := clean.Max()
	if max <= DefaultChartCeiling {
		return DefaultChartCeiling
	}
	return math.Ceil(max/chartCeilingStep) * chartCeilingStep
}

// ClampFloor raises every entry of m below the floor to the floor, in place,
// and returns the stats it changed. Run it after Sanitize on loaded state.
func ClampFloor(m StatMap) []Stat {
	var raised []Stat
	for _, s := range AllStats {
		v, ok := m[s]
		if ok && isFinite(v) && v >= StatFloor {
			continue
		}
		m[s] = StatFloor
		raised = append(raised, s)
	}
	return raised
}
