package engine

import (
	"fmt"
	"strings"
)

// ValidationError indicates caller input the engine refuses to act on.
// Nothing is mutated when it is returned.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// ReversalNotFoundError is returned when a record to reverse is not in the
// subject's history, including when it was already reversed.
type ReversalNotFoundError struct {
	RecordID string
}

func (e ReversalNotFoundError) Error() string {
	return fmt.Sprintf("activity %s not found (already deleted?)", e.RecordID)
}

// SanitizationWarning reports stats that held NaN, infinite, negative or
// missing values and were replaced by the floor. It is never fatal.
type SanitizationWarning struct {
	Stats []Stat
}

func (w SanitizationWarning) Error() string {
	names := make([]string, len(w.Stats))
	for i, s := range w.Stats {
		names[i] = string(s)
	}
	return fmt.Sprintf("sanitized stats: %s", strings.Join(names, ", "))
}

// InvariantError describes a state no sequence of engine operations should
// produce. It indicates a defect, not a recoverable condition.
type InvariantError struct {
	Problems []string
}

func (e InvariantError) Error() string {
	return "invariant violation: " + strings.Join(e.Problems, "; ")
}
