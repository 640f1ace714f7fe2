package engine

import "time"

// ReversalResult describes the undo of one record.
type ReversalResult struct {
	Record  ActivityRecord
	Receipt Receipt
	// Migrated is true when the record had no stored receipt and it was
	// recomputed from kind and duration.
	Migrated bool
	// Clamped lists stats that hit the floor, so less was removed than the
	// receipt says. This is expected after decay, not an error.
	Clamped     []Stat
	LevelBefore int
	LevelAfter  int
	LevelDown   bool
	LevelsLost  int
}

// LegacyReceipt recomputes the receipt of a record written before receipts
// were stored. It always uses the default rate table.
func (e *Engine) LegacyReceipt(rec ActivityRecord) (Receipt, error) {
	return e.defaults.Calculate(rec.Kind, rec.DurationMinutes)
}

// Reverse undoes the record with the given id and removes it from the
// history. Everything is staged first, so on error s is unchanged.
func (e *Engine) Reverse(s *Subject, recordID string) (*ReversalResult, error) {
	idx, ok := s.FindRecord(recordID)
	if !ok {
		return nil, ReversalNotFoundError{RecordID: recordID}
	}
	rec := s.History[idx].Clone()

	res := &ReversalResult{Record: rec}
	if rec.Receipt != nil {
		res.Receipt = rec.Receipt.Clone()
	} else {
		receipt, err := e.LegacyReceipt(rec)
		if err != nil {
			return nil, err
		}
		res.Receipt = receipt
		res.Migrated = true
	}

	ledger := s.Ledger()
	res.Clamped = ledger.SubtractDeltas(res.Receipt.StatDeltas)
	change := ledger.RemoveExp(res.Receipt.ExpDelta)
	res.LevelBefore = change.LevelBefore
	res.LevelAfter = change.Level
	res.LevelDown = change.Changed()
	res.LevelsLost = change.Steps

	history := make([]ActivityRecord, 0, len(s.History)-1)
	history = append(history, s.History[:idx]...)
	history = append(history, s.History[idx+1:]...)

	s.commit(ledger)
	s.History = history
	s.LastActive = latestTimestamp(history)
	delete(s.DecayTaken, rec.Kind.Category())
	return res, nil
}

func latestTimestamp(history []ActivityRecord) (last time.Time) {
	for i := range history {
		if history[i].Timestamp.After(last) {
			last = history[i].Timestamp
		}
	}
	return last
}
