package engine

import "strings"

// ParseActivityKind parses user input to an ActivityKind.
// Accepts the canonical names plus a few short aliases (weights, run, read, ...).
func ParseActivityKind(input string) (ActivityKind, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	s = strings.ReplaceAll(s, "_", "-")
	switch s {
	case "weights", "lifting", "gym":
		return KindWorkoutWeights, nil
	case "cardio", "run", "running", "cycling":
		return KindWorkoutCardio, nil
	case "yoga", "stretching":
		return KindWorkoutYoga, nil
	case "sport":
		return KindSports, nil
	case "read", "reading":
		return KindStudyReading, nil
	case "course", "study", "learning":
		return KindStudyCourse, nil
	case "meditate":
		return KindMeditation, nil
	case "social", "friends":
		return KindSocializing, nil
	case "art", "music", "writing":
		return KindCreative, nil
	case "quit", "quitting":
		return KindQuitHabit, nil
	}
	k := ActivityKind(s)
	if !k.IsValid() {
		return "", ValidationError{Field: "kind", Value: input, Reason: "unknown activity kind"}
	}
	return k, nil
}

// ParseStat parses a stat name or its three-letter abbreviation.
func ParseStat(input string) (Stat, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "str":
		return StatStrength, nil
	case "agi":
		return StatAgility, nil
	case "end":
		return StatEndurance, nil
	case "int":
		return StatIntelligence, nil
	case "foc":
		return StatFocus, nil
	case "cha":
		return StatCharisma, nil
	}
	st := Stat(s)
	if !st.IsValid() {
		return "", ValidationError{Field: "stat", Value: input, Reason: "unknown stat"}
	}
	return st, nil
}

// Abbrev returns the three-letter label used in compact output.
func (s Stat) Abbrev() string {
	if len(s) < 3 {
		return strings.ToUpper(string(s))
	}
	return strings.ToUpper(string(s[:3]))
}
