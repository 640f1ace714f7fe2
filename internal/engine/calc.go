package engine

// Overrides replaces default hourly rates per (kind, stat) pair.
type Overrides map[ActivityKind]map[Stat]float64

func (o Overrides) Clone() Overrides {
	out := make(Overrides, len(o))
	for k, rates := range o {
		m := make(map[Stat]float64, len(rates))
		for s, v := range rates {
			m[s] = v
		}
		out[k] = m
	}
	return out
}

// Set records an override, validating both keys and the rate.
func (o Overrides) Set(kind ActivityKind, stat Stat, perHour float64) error {
	if !kind.IsValid() {
		return ValidationError{Field: "kind", Value: kind, Reason: "unknown activity kind"}
	}
	if !stat.IsValid() {
		return ValidationError{Field: "stat", Value: stat, Reason: "unknown stat"}
	}
	if !isFinite(perHour) || perHour < 0 {
		return ValidationError{Field: "rate", Value: perHour, Reason: "must be a finite number >= 0"}
	}
	if o[kind] == nil {
		o[kind] = map[Stat]float64{}
	}
	o[kind][stat] = perHour
	return nil
}

// Calculator turns an activity into stat and EXP deltas.
type Calculator struct {
	overrides Overrides
}

// NewCalculator returns a calculator using the default table plus overrides.
// A nil Overrides means defaults only.
func NewCalculator(overrides Overrides) *Calculator {
	return &Calculator{overrides: overrides.Clone()}
}

// Calculate is total for every known kind and any duration >= 0. Deltas are
// never negative and zero deltas are left out.
func (c *Calculator) Calculate(kind ActivityKind, durationMinutes int) (Receipt, error) {
	row, ok := defaultRates[kind]
	if !ok {
		return Receipt{}, ValidationError{Field: "kind", Value: kind, Reason: "unknown activity kind"}
	}
	if durationMinutes < 0 {
		durationMinutes = 0
	}

	if row.Fixed {
		return Receipt{StatDeltas: row.FixedDeltas.Clone(), ExpDelta: row.FixedExp}, nil
	}

	rates := make(map[Stat]float64, len(row.Rates))
	for _, r := range row.Rates {
		rates[r.Stat] = r.PerHour
	}
	for s, v := range c.overrides[kind] {
		if !s.IsValid() || !isFinite(v) || v < 0 {
			continue
		}
		rates[s] = v
	}

	hours := float64(durationMinutes) / 60.0
	deltas := Deltas{}
	for s, perHour := range rates {
		d := roundValue(perHour * hours)
		if d > 0 {
			deltas[s] = d
		}
	}
	return Receipt{
		StatDeltas: deltas,
		ExpDelta:   float64(durationMinutes) * ExpPerMinute,
	}, nil
}
