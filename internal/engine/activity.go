package engine

import "time"

type ActivityKind string

const (
	KindWorkoutWeights ActivityKind = "workout-weights"
	KindWorkoutCardio  ActivityKind = "workout-cardio"
	KindWorkoutYoga    ActivityKind = "workout-yoga"
	KindSports         ActivityKind = "sports"
	KindStudyReading   ActivityKind = "study-reading"
	KindStudyCourse    ActivityKind = "study-course"
	KindMeditation     ActivityKind = "meditation"
	KindSocializing    ActivityKind = "socializing"
	KindCreative       ActivityKind = "creative"
	KindQuitHabit      ActivityKind = "quit-habit"
)

// AllKinds lists every activity kind in display order.
var AllKinds = []ActivityKind{
	KindWorkoutWeights,
	KindWorkoutCardio,
	KindWorkoutYoga,
	KindSports,
	KindStudyReading,
	KindStudyCourse,
	KindMeditation,
	KindSocializing,
	KindCreative,
	KindQuitHabit,
}

func (k ActivityKind) IsValid() bool {
	_, ok := defaultRates[k]
	return ok
}

// Category returns the degradation category the kind counts toward.
func (k ActivityKind) Category() Category {
	if r, ok := defaultRates[k]; ok {
		return r.Category
	}
	return CategoryNone
}

type Category string

const (
	CategoryWorkout Category = "workout"
	CategoryStudy   Category = "study"
	CategoryNone    Category = "none"
)

// DecayingCategories are the categories tracked by the degradation pass.
var DecayingCategories = []Category{CategoryWorkout, CategoryStudy}

// DecayStats returns the stats that lose value when the category is neglected.
func (c Category) DecayStats() []Stat {
	switch c {
	case CategoryWorkout:
		return []Stat{StatStrength, StatAgility, StatEndurance}
	case CategoryStudy:
		return []Stat{StatIntelligence, StatFocus}
	default:
		return nil
	}
}

// StatRate is an hourly growth rate for one stat.
type StatRate struct {
	Stat    Stat
	PerHour float64
}

// KindRates is one row of the rate table.
type KindRates struct {
	Category Category
	Rates    []StatRate

	// Fixed marks a kind whose reward does not depend on duration.
	Fixed       bool
	FixedDeltas Deltas
	FixedExp    float64
}

// ExpPerMinute is the EXP granted per logged minute for duration-based kinds.
const ExpPerMinute = 1.0

// defaultRates must not change for a released kind: legacy records without a
// receipt are reversed by recomputing against it.
var defaultRates = map[ActivityKind]KindRates{
	KindWorkoutWeights: {
		Category: CategoryWorkout,
		Rates:    []StatRate{{StatStrength, 0.06}, {StatEndurance, 0.04}},
	},
	KindWorkoutCardio: {
		Category: CategoryWorkout,
		Rates:    []StatRate{{StatEndurance, 0.06}, {StatAgility, 0.04}},
	},
	KindWorkoutYoga: {
		Category: CategoryWorkout,
		Rates:    []StatRate{{StatAgility, 0.05}, {StatFocus, 0.02}},
	},
	KindSports: {
		Category: CategoryWorkout,
		Rates:    []StatRate{{StatAgility, 0.05}, {StatStrength, 0.03}},
	},
	KindStudyReading: {
		Category: CategoryStudy,
		Rates:    []StatRate{{StatIntelligence, 0.05}, {StatFocus, 0.03}},
	},
	KindStudyCourse: {
		Category: CategoryStudy,
		Rates:    []StatRate{{StatIntelligence, 0.06}, {StatFocus, 0.04}},
	},
	KindMeditation: {
		Category: CategoryStudy,
		Rates:    []StatRate{{StatFocus, 0.06}},
	},
	KindSocializing: {
		Category: CategoryNone,
		Rates:    []StatRate{{StatCharisma, 0.06}},
	},
	KindCreative: {
		Category: CategoryNone,
		Rates:    []StatRate{{StatIntelligence, 0.02}, {StatCharisma, 0.03}},
	},
	KindQuitHabit: {
		Category:    CategoryNone,
		Fixed:       true,
		FixedDeltas: Deltas{StatFocus: 0.10},
		FixedExp:    50,
	},
}

// DefaultRates returns a copy of the built-in rate row for k.
func DefaultRates(k ActivityKind) (KindRates, bool) {
	r, ok := defaultRates[k]
	if !ok {
		return KindRates{}, false
	}
	r.Rates = append([]StatRate(nil), r.Rates...)
	r.FixedDeltas = r.FixedDeltas.Clone()
	return r, true
}

const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 24 * 60
)

// Receipt is exactly what one application changed. It is stored with the
// record and reused verbatim on reversal.
type Receipt struct {
	StatDeltas Deltas  `json:"stat_deltas"`
	ExpDelta   float64 `json:"exp_delta"`
}

func (r Receipt) Clone() Receipt {
	return Receipt{StatDeltas: r.StatDeltas.Clone(), ExpDelta: r.ExpDelta}
}

// ActivityRecord is one logged activity. Receipt is nil on records written
// before receipts were stored.
type ActivityRecord struct {
	ID              string
	Kind            ActivityKind
	DurationMinutes int
	Timestamp       time.Time
	Notes           string
	Receipt         *Receipt
}

func (r ActivityRecord) Clone() ActivityRecord {
	out := r
	if r.Receipt != nil {
		rc := r.Receipt.Clone()
		out.Receipt = &rc
	}
	return out
}

func validateDuration(minutes int) error {
	if minutes < MinDurationMinutes || minutes > MaxDurationMinutes {
		return ValidationError{
			Field:  "duration",
			Value:  minutes,
			Reason: "must be between 1 and 1440 minutes",
		}
	}
	return nil
}
