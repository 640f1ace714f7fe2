package storage

import "time"

type Subject struct {
	Key string
	// Stats is keyed by stat name (strength, agility, ...).
	Stats           map[string]float64
	TotalExp        float64
	Level           int
	CreatedAt       time.Time
	LastActive      *time.Time
	RelaxedWeekends bool
}

// Receipt is the persisted form of what one activity changed.
type Receipt struct {
	StatDeltas map[string]float64 `json:"stat_deltas"`
	ExpDelta   float64            `json:"exp_delta"`
}

type Activity struct {
	ID              string
	SubjectKey      string
	Kind            string
	DurationMinutes int
	LoggedAt        time.Time
	Notes           *string
	// Receipt is nil for rows logged before receipts were stored.
	Receipt *Receipt
}

type RateOverride struct {
	Kind    string
	Stat    string
	PerHour float64
}

type DegradationCheck struct {
	SubjectKey string
	Category   string
	CheckedAt  time.Time
	// DecayTaken is nil for rows written before it was tracked.
	DecayTaken *float64
}
