package engine

import (
	"time"

	"github.com/google/uuid"
)

// Engine applies, reverses and decays progression on a Subject passed in by
// the caller. It keeps no subject state and does no I/O; callers must
// serialize mutating calls for the same subject.
type Engine struct {
	calc     *Calculator
	defaults *Calculator

	now   func() time.Time
	newID func() string
}

type Option func(*Engine)

// WithClock sets the time source used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the record id source.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New returns an engine that computes new receipts with the default rate
// table plus overrides.
func New(overrides Overrides, opts ...Option) *Engine {
	e := &Engine{
		calc:     NewCalculator(overrides),
		defaults: NewCalculator(nil),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
