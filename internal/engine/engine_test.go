package engine

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"
)

var testStart = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC) // a Monday

func newTestEngine(t *testing.T, overrides Overrides) *Engine {
	t.Helper()
	n := 0
	return New(overrides,
		WithClock(func() time.Time { return testStart }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("rec-%d", n)
		}),
	)
}

func newTestSubject(t *testing.T, answers map[Stat]int) *Subject {
	t.Helper()
	s, err := NewSubject("test", answers, testStart)
	if err != nil {
		t.Fatalf("NewSubject: %v", err)
	}
	return s
}

func mustApply(t *testing.T, e *Engine, s *Subject, kind ActivityKind, minutes int) *ApplyResult {
	t.Helper()
	res, err := e.Apply(s, kind, minutes, "")
	if err != nil {
		t.Fatalf("Apply(%s, %d): %v", kind, minutes, err)
	}
	if err := s.Check(); err != nil {
		t.Fatalf("after Apply: %v", err)
	}
	return res
}

func assertStat(t *testing.T, s *Subject, st Stat, want float64) {
	t.Helper()
	if got := s.Stats[st]; got != want {
		t.Fatalf("%s=%v, want %v", st, got, want)
	}
}

func TestLevelLadder(t *testing.T) {
	if got := ThresholdFor(1); got != 1000 {
		t.Fatalf("ThresholdFor(1)=%v, want 1000", got)
	}
	if got := ThresholdFor(2); got != 1200 {
		t.Fatalf("ThresholdFor(2)=%v, want 1200", got)
	}
	if got := ThresholdFor(3); got != 1440 {
		t.Fatalf("ThresholdFor(3)=%v, want 1440", got)
	}

	cases := []struct {
		exp          float64
		wantLevel    int
		wantRollover float64
	}{
		{0, 1, 0},
		{999, 1, 999},
		{1000, 2, 0},
		{2199, 2, 1199},
		{2500, 3, 300},
		{-50, 1, 0},
		{math.NaN(), 1, 0},
	}
	for _, c := range cases {
		level, rollover := LevelFor(c.exp)
		if level != c.wantLevel || rollover != c.wantRollover {
			t.Fatalf("LevelFor(%v)=(%d, %v), want (%d, %v)", c.exp, level, rollover, c.wantLevel, c.wantRollover)
		}
	}

	up := ApplyExp(900, 1700)
	if up.Level != 3 || up.Steps != 2 || !up.Changed() || up.Rollover != 400 {
		t.Fatalf("ApplyExp(900, 1700)=%+v", up)
	}
	down := ReverseExp(300, 1000)
	if down.TotalExp != 0 || down.Level != 1 || down.Changed() {
		t.Fatalf("ReverseExp(300, 1000)=%+v, want clamped at 0 on level 1", down)
	}
	if p := ProgressToNextLevel(1600); p != 0.5 {
		t.Fatalf("ProgressToNextLevel(1600)=%v, want 0.5", p)
	}
}

func TestLogAndDeleteWorkoutWeights(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, nil)

	first := mustApply(t, e, s, KindWorkoutWeights, 60)
	assertStat(t, s, StatStrength, 1.06)
	assertStat(t, s, StatEndurance, 1.04)
	if s.TotalExp != 60 || s.Level != 1 {
		t.Fatalf("exp=%v level=%d, want 60 / 1", s.TotalExp, s.Level)
	}

	mustApply(t, e, s, KindWorkoutWeights, 60)
	assertStat(t, s, StatStrength, 1.12)
	assertStat(t, s, StatEndurance, 1.08)
	if s.TotalExp != 120 {
		t.Fatalf("exp=%v, want 120", s.TotalExp)
	}

	res, err := e.Reverse(s, first.Record.ID)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if res.Migrated || len(res.Clamped) != 0 {
		t.Fatalf("unexpected reversal result: %+v", res)
	}
	assertStat(t, s, StatStrength, 1.06)
	assertStat(t, s, StatEndurance, 1.04)
	if s.TotalExp != 60 || s.Level != 1 {
		t.Fatalf("exp=%v level=%d, want 60 / 1", s.TotalExp, s.Level)
	}
	if len(s.History) != 1 {
		t.Fatalf("history len=%d, want 1", len(s.History))
	}
}

func TestApplyThenReverseRestoresState(t *testing.T) {
	e := newTestEngine(t, nil)
	for _, kind := range AllKinds {
		for _, minutes := range []int{1, 37, 60, 95, 1440} {
			s := newTestSubject(t, map[Stat]int{StatStrength: 6, StatFocus: 3, StatCharisma: 9})
			s.TotalExp = 950
			s.Level = 1
			before := s.Clone()

			res := mustApply(t, e, s, kind, minutes)
			if _, err := e.Reverse(s, res.Record.ID); err != nil {
				t.Fatalf("Reverse(%s, %d): %v", kind, minutes, err)
			}
			for _, st := range AllStats {
				if s.Stats[st] != before.Stats[st] {
					t.Fatalf("%s/%d: %s=%v, want %v", kind, minutes, st, s.Stats[st], before.Stats[st])
				}
			}
			if s.TotalExp != before.TotalExp || s.Level != before.Level {
				t.Fatalf("%s/%d: exp=%v level=%d, want %v / %d", kind, minutes, s.TotalExp, s.Level, before.TotalExp, before.Level)
			}
			if len(s.History) != 0 {
				t.Fatalf("%s/%d: history not emptied", kind, minutes)
			}
		}
	}
}

func TestReceiptLinearityWithinResolution(t *testing.T) {
	c := NewCalculator(nil)
	for _, kind := range AllKinds {
		if row, _ := DefaultRates(kind); row.Fixed {
			continue
		}
		a, _ := c.Calculate(kind, 25)
		b, _ := c.Calculate(kind, 50)
		whole, _ := c.Calculate(kind, 75)
		if whole.ExpDelta != a.ExpDelta+b.ExpDelta {
			t.Fatalf("%s exp: %v != %v + %v", kind, whole.ExpDelta, a.ExpDelta, b.ExpDelta)
		}
		for st, v := range whole.StatDeltas {
			// Two parts, each rounded once.
			if diff := math.Abs(v - (a.StatDeltas[st] + b.StatDeltas[st])); diff > 2*Resolution+1e-12 {
				t.Fatalf("%s %s: %v vs %v + %v", kind, st, v, a.StatDeltas[st], b.StatDeltas[st])
			}
		}
	}

	// One-minute pieces are where the rounding shows.
	one, _ := c.Calculate(KindStudyReading, 1)
	two, _ := c.Calculate(KindStudyReading, 2)
	if diff := math.Abs(two.StatDeltas[StatIntelligence] - 2*one.StatDeltas[StatIntelligence]); diff > 2*Resolution+1e-12 {
		t.Fatalf("study-reading 2m=%v vs 2x1m=%v", two.StatDeltas[StatIntelligence], 2*one.StatDeltas[StatIntelligence])
	}

	short, _ := c.Calculate(KindQuitHabit, 5)
	long, _ := c.Calculate(KindQuitHabit, 500)
	if short.ExpDelta != 50 || long.ExpDelta != 50 || short.StatDeltas[StatFocus] != long.StatDeltas[StatFocus] {
		t.Fatalf("fixed reward depends on duration: %+v vs %+v", short, long)
	}
}

func TestCalculatorOverrides(t *testing.T) {
	o := Overrides{}
	if err := o.Set(KindWorkoutWeights, StatStrength, 0.12); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := o.Set(KindWorkoutWeights, StatCharisma, 0.01); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := o.Set(KindWorkoutWeights, StatStrength, -1); err == nil {
		t.Fatalf("expected error for negative rate")
	}

	r, err := NewCalculator(o).Calculate(KindWorkoutWeights, 30)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if r.StatDeltas[StatStrength] != 0.06 || r.StatDeltas[StatEndurance] != 0.02 || r.StatDeltas[StatCharisma] != 0.005 {
		t.Fatalf("deltas=%v", r.StatDeltas)
	}

	if _, err := NewCalculator(nil).Calculate("juggling", 30); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	zero, _ := NewCalculator(nil).Calculate(KindMeditation, 0)
	if len(zero.StatDeltas) != 0 || zero.ExpDelta != 0 {
		t.Fatalf("zero duration gave %+v", zero)
	}
}

func TestOverrideChangeDoesNotAlterPastReversal(t *testing.T) {
	s := newTestSubject(t, nil)
	res := mustApply(t, newTestEngine(t, nil), s, KindStudyReading, 120)

	o := Overrides{}
	_ = o.Set(KindStudyReading, StatIntelligence, 1.0)
	later := newTestEngine(t, o)
	rev, err := later.Reverse(s, res.Record.ID)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if rev.Receipt.StatDeltas[StatIntelligence] != 0.1 {
		t.Fatalf("reversal used %v, want stored 0.1", rev.Receipt.StatDeltas[StatIntelligence])
	}
	assertStat(t, s, StatIntelligence, 1.0)
}

func TestApplyValidation(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, nil)
	before := s.Clone()

	for _, minutes := range []int{0, -5, 1441} {
		_, err := e.Apply(s, KindWorkoutCardio, minutes, "")
		var verr ValidationError
		if !errors.As(err, &verr) || verr.Field != "duration" {
			t.Fatalf("Apply(%d) err=%v, want duration ValidationError", minutes, err)
		}
	}
	if _, err := e.Apply(s, "juggling", 30, ""); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if len(s.History) != 0 || s.TotalExp != before.TotalExp || s.Stats[StatEndurance] != before.Stats[StatEndurance] {
		t.Fatalf("subject mutated by rejected apply")
	}
}

func TestReverseDropsMultipleLevels(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, nil)
	s.TotalExp = 800

	res := mustApply(t, e, s, KindStudyCourse, 1440)
	if s.Level != 3 || !res.LevelUp || res.LevelsGained != 2 {
		t.Fatalf("level=%d result=%+v, want level 3 after 2 steps", s.Level, res)
	}

	rev, err := e.Reverse(s, res.Record.ID)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if !rev.LevelDown || rev.LevelsLost != 2 || rev.LevelAfter != 1 {
		t.Fatalf("reversal=%+v, want 2 levels lost", rev)
	}
	level, rollover := LevelFor(s.TotalExp)
	if s.TotalExp != 800 || s.Level != level || level != 1 || rollover != 800 {
		t.Fatalf("exp=%v level=%d rollover=%v", s.TotalExp, s.Level, rollover)
	}
}

func TestReverseTwiceFails(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, nil)
	res := mustApply(t, e, s, KindSocializing, 90)
	mustApply(t, e, s, KindSocializing, 30)

	if _, err := e.Reverse(s, res.Record.ID); err != nil {
		t.Fatalf("first Reverse: %v", err)
	}
	snapshot := s.Clone()

	_, err := e.Reverse(s, res.Record.ID)
	var nf ReversalNotFoundError
	if !errors.As(err, &nf) || nf.RecordID != res.Record.ID {
		t.Fatalf("second Reverse err=%v, want ReversalNotFoundError", err)
	}
	if s.Stats[StatCharisma] != snapshot.Stats[StatCharisma] || s.TotalExp != snapshot.TotalExp || len(s.History) != 1 {
		t.Fatalf("failed reversal mutated the subject")
	}
}

func TestLegacyRecordReversal(t *testing.T) {
	s := newTestSubject(t, map[Stat]int{StatIntelligence: 5, StatFocus: 5})
	s.Stats[StatIntelligence] = 3.5
	s.Stats[StatFocus] = 3.3
	s.TotalExp = 45
	s.History = []ActivityRecord{{
		ID:              "legacy-1",
		Kind:            KindStudyReading,
		DurationMinutes: 45,
		Timestamp:       testStart,
	}}

	o := Overrides{}
	_ = o.Set(KindStudyReading, StatIntelligence, 3)
	e := newTestEngine(t, o)

	want, _ := NewCalculator(nil).Calculate(KindStudyReading, 45)
	rev, err := e.Reverse(s, "legacy-1")
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if !rev.Migrated {
		t.Fatalf("expected Migrated")
	}
	if rev.Receipt.ExpDelta != want.ExpDelta || len(rev.Receipt.StatDeltas) != len(want.StatDeltas) {
		t.Fatalf("receipt=%+v, want %+v", rev.Receipt, want)
	}
	for st, v := range want.StatDeltas {
		if rev.Receipt.StatDeltas[st] != v {
			t.Fatalf("%s delta=%v, want %v", st, rev.Receipt.StatDeltas[st], v)
		}
	}
	assertStat(t, s, StatIntelligence, 3.4625)
	if s.TotalExp != 0 {
		t.Fatalf("exp=%v, want 0", s.TotalExp)
	}
}

func TestReverseAfterDecayClampsAtFloor(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, nil)
	res := mustApply(t, e, s, KindWorkoutWeights, 60)

	// Twenty idle days take the full streak decay.
	e.ApplyDegradation(s, testStart.AddDate(0, 0, 20))
	assertStat(t, s, StatStrength, 1.01)

	rev, err := e.Reverse(s, res.Record.ID)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if len(rev.Clamped) != 2 {
		t.Fatalf("clamped=%v, want strength and endurance", rev.Clamped)
	}
	assertStat(t, s, StatStrength, StatFloor)
	assertStat(t, s, StatEndurance, StatFloor)
}

func TestFloorHoldsUnderRandomOperations(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, nil)
	rng := rand.New(rand.NewSource(7))
	now := testStart

	for i := 0; i < 500; i++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(s.History) == 0:
			kind := AllKinds[rng.Intn(len(AllKinds))]
			if _, err := e.ApplyAt(s, kind, 1+rng.Intn(MaxDurationMinutes), "", now); err != nil {
				t.Fatalf("ApplyAt: %v", err)
			}
		case op == 1:
			id := s.History[rng.Intn(len(s.History))].ID
			if _, err := e.Reverse(s, id); err != nil {
				t.Fatalf("Reverse: %v", err)
			}
		default:
			now = now.Add(time.Duration(rng.Intn(96)) * time.Hour)
			e.ApplyDegradation(s, now)
		}
		if err := s.Check(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func TestDegradationIsIdempotent(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, map[Stat]int{StatStrength: 5, StatIntelligence: 5, StatCharisma: 5})
	s.TotalExp = 500
	now := testStart.AddDate(0, 0, 10)

	first := e.ApplyDegradation(s, now)
	if !first.Changed() {
		t.Fatalf("expected decay after 9 missed days")
	}
	assertStat(t, s, StatStrength, 2.97)
	assertStat(t, s, StatIntelligence, 2.97)
	assertStat(t, s, StatCharisma, 3.0)

	second := e.ApplyDegradation(s, now)
	if second.Changed() {
		t.Fatalf("second pass with same now changed stats: %+v", second)
	}
	later := e.ApplyDegradation(s, now.Add(10*time.Hour))
	if later.Changed() {
		t.Fatalf("same-day pass changed stats")
	}
	assertStat(t, s, StatStrength, 2.97)
	if s.TotalExp != 500 || s.Level != 1 {
		t.Fatalf("decay touched exp/level: %v / %d", s.TotalExp, s.Level)
	}
}

func TestDegradationCatchUpMatchesDailyPasses(t *testing.T) {
	e := newTestEngine(t, nil)
	answers := map[Stat]int{StatStrength: 5, StatAgility: 5, StatEndurance: 5, StatIntelligence: 5, StatFocus: 5}
	daily := newTestSubject(t, answers)
	once := newTestSubject(t, answers)

	end := testStart.AddDate(0, 0, 29).Add(-time.Hour)
	for d := testStart.AddDate(0, 0, 1).Add(-time.Hour); !d.After(end); d = d.AddDate(0, 0, 1) {
		e.ApplyDegradation(daily, d)
	}
	report := e.ApplyDegradation(once, end)

	for _, st := range AllStats {
		if daily.Stats[st] != once.Stats[st] {
			t.Fatalf("%s daily=%v once=%v", st, daily.Stats[st], once.Stats[st])
		}
	}
	assertStat(t, once, StatStrength, 2.95)
	assertStat(t, once, StatFocus, 2.95)
	for _, c := range report.Categories {
		if c.Owed != MaxDecay {
			t.Fatalf("%s owed=%v, want cap %v", c.Category, c.Owed, MaxDecay)
		}
	}
}

func TestDegradationStreakResetsOnActivity(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, map[Stat]int{StatStrength: 5, StatIntelligence: 5})

	e.ApplyDegradation(s, testStart.AddDate(0, 0, 7))
	assertStat(t, s, StatStrength, 2.98)

	if _, err := e.ApplyAt(s, KindWorkoutCardio, 30, "", testStart.AddDate(0, 0, 7)); err != nil {
		t.Fatalf("ApplyAt: %v", err)
	}
	strength := s.Stats[StatStrength]

	e.ApplyDegradation(s, testStart.AddDate(0, 0, 9))
	if s.Stats[StatStrength] != strength {
		t.Fatalf("physical decayed within a fresh streak")
	}
	// No study activity yet: the mental streak keeps going from creation.
	assertStat(t, s, StatIntelligence, 2.98)

	e.ApplyDegradation(s, testStart.AddDate(0, 0, 11))
	assertStat(t, s, StatStrength, roundValue(strength-0.01))
	assertStat(t, s, StatIntelligence, 2.97)
}

func TestMissedDaysRelaxedWeekends(t *testing.T) {
	last := testStart
	now := testStart.AddDate(0, 0, 14)
	if got := MissedDays(last, now, false); got != 13 {
		t.Fatalf("MissedDays=%d, want 13", got)
	}
	if got := MissedDays(last, now, true); got != 9 {
		t.Fatalf("MissedDays relaxed=%d, want 9", got)
	}
	if got := MissedDays(now, last, false); got != 0 {
		t.Fatalf("MissedDays backwards=%d, want 0", got)
	}
	if got := DecayFor(2); got != 0 {
		t.Fatalf("DecayFor(2)=%v", got)
	}
	if got := DecayFor(9); got != 0.03 {
		t.Fatalf("DecayFor(9)=%v", got)
	}
	if got := DecayFor(300); got != MaxDecay {
		t.Fatalf("DecayFor(300)=%v", got)
	}
}

func TestSanitizeAndCeiling(t *testing.T) {
	m := NewStatMap()
	m[StatFocus] = math.NaN()
	m[StatStrength] = 2.5

	clean, warn := Sanitize(m)
	if warn == nil || len(warn.Stats) != 1 || warn.Stats[0] != StatFocus {
		t.Fatalf("warning=%v, want focus only", warn)
	}
	if clean[StatFocus] != StatFloor || clean[StatStrength] != 2.5 {
		t.Fatalf("clean=%v", clean)
	}
	if !math.IsNaN(m[StatFocus]) {
		t.Fatalf("Sanitize modified its input")
	}
	if _, w := Sanitize(NewStatMap()); w != nil {
		t.Fatalf("unexpected warning for clean map")
	}

	for _, c := range []struct {
		max  float64
		want float64
	}{{7.23, 10}, {4.9, 5}, {123.8, 125}, {5, 5}, {10, 10}} {
		m := NewStatMap()
		m[StatCharisma] = c.max
		if got := RecommendedCeiling(m); got != c.want {
			t.Fatalf("RecommendedCeiling(%v)=%v, want %v", c.max, got, c.want)
		}
	}
}

func TestStatsGrowPastOnboardingRange(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, map[Stat]int{StatCharisma: MaxAnswer})
	for i := 0; i < 10; i++ {
		mustApply(t, e, s, KindSocializing, 1440)
	}
	if got := s.Stats[StatCharisma]; got != 19.4 {
		t.Fatalf("charisma=%v, want 19.4", got)
	}
}

func TestNewSubjectScalesAnswers(t *testing.T) {
	s := newTestSubject(t, map[Stat]int{StatStrength: 0, StatAgility: 10, StatFocus: 5})
	assertStat(t, s, StatStrength, 1.0)
	assertStat(t, s, StatAgility, 5.0)
	assertStat(t, s, StatFocus, 3.0)
	assertStat(t, s, StatCharisma, 1.0)
	if s.Level != 1 || s.TotalExp != 0 {
		t.Fatalf("fresh subject level=%d exp=%v", s.Level, s.TotalExp)
	}

	if _, err := NewSubject("x", map[Stat]int{StatFocus: 11}, testStart); err == nil {
		t.Fatalf("expected error for answer out of range")
	}
	if _, err := NewSubject("x", map[Stat]int{"luck": 3}, testStart); err == nil {
		t.Fatalf("expected error for unknown stat")
	}
}

func TestCheckReportsInvariantViolations(t *testing.T) {
	s := newTestSubject(t, nil)
	s.Stats[StatAgility] = 0.5
	s.TotalExp = 1500

	var inv InvariantError
	if err := s.Check(); !errors.As(err, &inv) || len(inv.Problems) != 2 {
		t.Fatalf("Check()=%v, want 2 problems", err)
	}
	if !s.HealLevel() || s.Level != 2 {
		t.Fatalf("HealLevel did not fix level: %d", s.Level)
	}
}

func TestParseActivityKind(t *testing.T) {
	cases := map[string]ActivityKind{
		"workout-weights": KindWorkoutWeights,
		"Weights":         KindWorkoutWeights,
		"study_reading":   KindStudyReading,
		" quit ":          KindQuitHabit,
		"meditation":      KindMeditation,
	}
	for in, want := range cases {
		got, err := ParseActivityKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseActivityKind(%q)=%q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseActivityKind("napping"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if st, err := ParseStat("INT"); err != nil || st != StatIntelligence {
		t.Fatalf("ParseStat(INT)=%q, %v", st, err)
	}
}

func TestDegradationRelaxedWeekends(t *testing.T) {
	e := newTestEngine(t, nil)
	strict := newTestSubject(t, map[Stat]int{StatStrength: 5})
	relaxed := newTestSubject(t, map[Stat]int{StatStrength: 5})
	relaxed.RelaxedWeekends = true

	// Saturday: Tue..Fri missed either way.
	e.ApplyDegradation(relaxed, testStart.AddDate(0, 0, 5))
	assertStat(t, relaxed, StatStrength, 2.99)
	// Monday: the weekend in between adds nothing.
	e.ApplyDegradation(relaxed, testStart.AddDate(0, 0, 7))
	assertStat(t, relaxed, StatStrength, 2.99)

	e.ApplyDegradation(strict, testStart.AddDate(0, 0, 14))
	e.ApplyDegradation(relaxed, testStart.AddDate(0, 0, 14))
	assertStat(t, strict, StatStrength, 2.96)
	assertStat(t, relaxed, StatStrength, 2.97)
}

func TestDegradationModeSwitchKeepsOwedDecay(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, map[Stat]int{StatStrength: 5})
	s.RelaxedWeekends = true

	e.ApplyDegradation(s, testStart.AddDate(0, 0, 14))
	assertStat(t, s, StatStrength, 2.97)
	if got := s.DecayTaken[CategoryWorkout]; got != 0.03 {
		t.Fatalf("DecayTaken=%v, want 0.03", got)
	}

	// 14 strict missed days owe 0.04, of which 0.03 is already gone.
	s.RelaxedWeekends = false
	e.ApplyDegradation(s, testStart.AddDate(0, 0, 15))
	assertStat(t, s, StatStrength, 2.96)

	// Going back to relaxed owes less than was taken; nothing is refunded.
	s.RelaxedWeekends = true
	e.ApplyDegradation(s, testStart.AddDate(0, 0, 16))
	assertStat(t, s, StatStrength, 2.96)
}

func TestDegradationWithoutStoredDecayRecomputes(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, map[Stat]int{StatStrength: 5})

	e.ApplyDegradation(s, testStart.AddDate(0, 0, 7))
	assertStat(t, s, StatStrength, 2.98)

	// State saved before the amount was tracked.
	s.DecayTaken = nil
	e.ApplyDegradation(s, testStart.AddDate(0, 0, 7))
	assertStat(t, s, StatStrength, 2.98)
	e.ApplyDegradation(s, testStart.AddDate(0, 0, 10))
	assertStat(t, s, StatStrength, 2.97)
}

func TestReverseRecomputesLastActive(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, nil)

	early := testStart.Add(time.Hour)
	late := testStart.AddDate(0, 0, 2)
	first, err := e.ApplyAt(s, KindMeditation, 20, "", early)
	if err != nil {
		t.Fatalf("ApplyAt: %v", err)
	}
	second, err := e.ApplyAt(s, KindSports, 40, "", late)
	if err != nil {
		t.Fatalf("ApplyAt: %v", err)
	}
	if !s.LastActive.Equal(late) {
		t.Fatalf("LastActive=%v, want %v", s.LastActive, late)
	}

	if _, err := e.Reverse(s, second.Record.ID); err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if !s.LastActive.Equal(early) {
		t.Fatalf("LastActive after reversing latest=%v, want %v", s.LastActive, early)
	}
	if _, err := e.Reverse(s, first.Record.ID); err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if !s.LastActive.IsZero() {
		t.Fatalf("LastActive with empty history=%v, want zero", s.LastActive)
	}
}

func TestClampFloorRecoversSubFloorStats(t *testing.T) {
	e := newTestEngine(t, nil)
	s := newTestSubject(t, map[Stat]int{StatStrength: 3})
	s.Stats[StatCharisma] = 0.5

	if _, warn := Sanitize(s.Stats); warn != nil {
		t.Fatalf("Sanitize flagged a finite positive value: %v", warn)
	}
	if err := s.Check(); err == nil {
		t.Fatalf("Check accepted charisma=0.5")
	}

	raised := ClampFloor(s.Stats)
	if len(raised) != 1 || raised[0] != StatCharisma {
		t.Fatalf("ClampFloor raised %v, want [charisma]", raised)
	}
	assertStat(t, s, StatCharisma, StatFloor)
	assertStat(t, s, StatStrength, 2.2)

	e.ApplyDegradation(s, testStart.AddDate(0, 0, 1))
	mustApply(t, e, s, KindMeditation, 30)
	if err := s.Check(); err != nil {
		t.Fatalf("Check after clamp: %v", err)
	}
	if raised := ClampFloor(s.Stats); len(raised) != 0 {
		t.Fatalf("second ClampFloor raised %v", raised)
	}
}
