package tracker

import (
	"time"

	"ascend/internal/engine"
	"ascend/internal/storage"
)

func subjectFromRows(row *storage.Subject, activities []storage.Activity, checks []storage.DegradationCheck) *engine.Subject {
	stats := engine.NewStatMap()
	for name, v := range row.Stats {
		stats[engine.Stat(name)] = v
	}

	subj := &engine.Subject{
		ID:                   row.Key,
		Stats:                stats,
		TotalExp:             row.TotalExp,
		Level:                row.Level,
		CreatedAt:            row.CreatedAt,
		RelaxedWeekends:      row.RelaxedWeekends,
		LastDegradationCheck: make(map[engine.Category]time.Time, len(checks)),
		DecayTaken:           make(map[engine.Category]float64, len(checks)),
		History:              make([]engine.ActivityRecord, 0, len(activities)),
	}
	if row.LastActive != nil {
		subj.LastActive = *row.LastActive
	}
	for _, c := range checks {
		cat := engine.Category(c.Category)
		subj.LastDegradationCheck[cat] = c.CheckedAt
		if c.DecayTaken != nil {
			subj.DecayTaken[cat] = *c.DecayTaken
		}
	}
	for i := range activities {
		subj.History = append(subj.History, recordFromRow(activities[i]))
	}
	return subj
}

func recordFromRow(a storage.Activity) engine.ActivityRecord {
	rec := engine.ActivityRecord{
		ID:              a.ID,
		Kind:            engine.ActivityKind(a.Kind),
		DurationMinutes: a.DurationMinutes,
		Timestamp:       a.LoggedAt,
	}
	if a.Notes != nil {
		rec.Notes = *a.Notes
	}
	if a.Receipt != nil {
		rc := receiptFromRow(*a.Receipt)
		rec.Receipt = &rc
	}
	return rec
}

func receiptFromRow(r storage.Receipt) engine.Receipt {
	deltas := make(engine.Deltas, len(r.StatDeltas))
	for name, v := range r.StatDeltas {
		deltas[engine.Stat(name)] = v
	}
	return engine.Receipt{StatDeltas: deltas, ExpDelta: r.ExpDelta}
}

func receiptToRow(r engine.Receipt) storage.Receipt {
	deltas := make(map[string]float64, len(r.StatDeltas))
	for s, v := range r.StatDeltas {
		deltas[string(s)] = v
	}
	return storage.Receipt{StatDeltas: deltas, ExpDelta: r.ExpDelta}
}

func subjectToRow(s *engine.Subject) *storage.Subject {
	stats := make(map[string]float64, len(engine.AllStats))
	for _, st := range engine.AllStats {
		stats[string(st)] = s.Stats.Get(st)
	}
	row := &storage.Subject{
		Key:             s.ID,
		Stats:           stats,
		TotalExp:        s.TotalExp,
		Level:           s.Level,
		CreatedAt:       s.CreatedAt.UTC(),
		RelaxedWeekends: s.RelaxedWeekends,
	}
	if !s.LastActive.IsZero() {
		t := s.LastActive.UTC()
		row.LastActive = &t
	}
	return row
}

func checksToRows(s *engine.Subject) []storage.DegradationCheck {
	out := make([]storage.DegradationCheck, 0, len(s.LastDegradationCheck))
	for c, t := range s.LastDegradationCheck {
		row := storage.DegradationCheck{SubjectKey: s.ID, Category: string(c), CheckedAt: t.UTC()}
		if taken, ok := s.DecayTaken[c]; ok {
			row.DecayTaken = &taken
		}
		out = append(out, row)
	}
	return out
}

func activityToRow(subjectKey string, rec engine.ActivityRecord) storage.Activity {
	a := storage.Activity{
		ID:              rec.ID,
		SubjectKey:      subjectKey,
		Kind:            string(rec.Kind),
		DurationMinutes: rec.DurationMinutes,
		LoggedAt:        rec.Timestamp.UTC(),
	}
	if rec.Notes != "" {
		n := rec.Notes
		a.Notes = &n
	}
	if rec.Receipt != nil {
		rc := receiptToRow(*rec.Receipt)
		a.Receipt = &rc
	}
	return a
}

func overridesFromRows(rows []storage.RateOverride) engine.Overrides {
	out := engine.Overrides{}
	for _, r := range rows {
		// Rows for kinds or stats this build does not know are skipped.
		_ = out.Set(engine.ActivityKind(r.Kind), engine.Stat(r.Stat), r.PerHour)
	}
	return out
}
