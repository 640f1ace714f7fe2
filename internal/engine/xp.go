package engine

import "math"

const (
	// BaseLevelThreshold is the EXP needed to go from level 1 to level 2.
	BaseLevelThreshold = 1000.0

	// LevelGrowth is the factor each following threshold grows by.
	LevelGrowth = 1.2

	// maxLevel bounds the ladder walk; thresholds overflow float64 long before it.
	maxLevel = 5000
)

// ThresholdFor returns the EXP needed to advance from level to level+1.
// Levels below 1 are treated as 1.
func ThresholdFor(level int) float64 {
	if level < 1 {
		level = 1
	}
	return roundValue(BaseLevelThreshold * math.Pow(LevelGrowth, float64(level-1)))
}

// LevelFor returns the level reached with totalExp and the EXP carried into
// that level. EXP rolls over: each level consumes its own threshold.
func LevelFor(totalExp float64) (level int, rollover float64) {
	totalExp = sanitizeExp(totalExp)

	level = 1
	rest := totalExp
	for level < maxLevel {
		need := ThresholdFor(level)
		if math.IsInf(need, 0) || rest < need {
			break
		}
		rest = roundValue(rest - need)
		level++
	}
	return level, rest
}

// ProgressToNextLevel returns the fraction of the current level's threshold
// already earned, in [0, 1).
func ProgressToNextLevel(totalExp float64) float64 {
	level, rollover := LevelFor(totalExp)
	return rollover / ThresholdFor(level)
}

// LevelChange describes the ladder after adding or removing EXP.
type LevelChange struct {
	TotalExp    float64
	LevelBefore int
	Level       int
	Rollover    float64
	// Steps is the number of levels gained (ApplyExp) or lost (ReverseExp).
	Steps int
}

// Changed reports whether the level moved.
func (c LevelChange) Changed() bool { return c.Steps > 0 }

// ApplyExp adds gained (negative treated as zero) to totalExp.
func ApplyExp(totalExp, gained float64) LevelChange {
	totalExp = sanitizeExp(totalExp)
	before, _ := LevelFor(totalExp)
	next := roundValue(totalExp + sanitizeExp(gained))
	level, rollover := LevelFor(next)
	return LevelChange{
		TotalExp:    next,
		LevelBefore: before,
		Level:       level,
		Rollover:    rollover,
		Steps:       level - before,
	}
}

// ReverseExp removes amount from totalExp, never going below zero, and may
// drop any number of levels.
func ReverseExp(totalExp, amount float64) LevelChange {
	totalExp = sanitizeExp(totalExp)
	before, _ := LevelFor(totalExp)
	next := roundValue(totalExp - sanitizeExp(amount))
	if next < 0 {
		next = 0
	}
	level, rollover := LevelFor(next)
	return LevelChange{
		TotalExp:    next,
		LevelBefore: before,
		Level:       level,
		Rollover:    rollover,
		Steps:       before - level,
	}
}

func sanitizeExp(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	return v
}
