// Package pipeline holds the pure status-transition logic for application
// records. Nothing here touches the database: callers get a new record value
// back and persist it (or not) themselves.
package pipeline

import (
	"fmt"
	"time"

	"github.com/jibbitats/jibbit-ats/internal/models"
)

// NoHistoryError reports a point-in-time lookup for a moment before the
// record had any recorded status.
type NoHistoryError struct {
	ApplicationID string
	At            time.Time
}

func (e *NoHistoryError) Error() string {
	return fmt.Sprintf("application %s has no status history at or before %s",
		e.ApplicationID, e.At.Format(time.RFC3339))
}

// InitialEntry builds the creation entry for a record entering the pipeline
// (previous status is nil).
func InitialEntry(rec models.Application, at time.Time) (models.StatusHistoryEntry, error) {
	if !rec.Status.Valid() {
		return models.StatusHistoryEntry{}, &models.UnknownStatusError{Status: rec.Status}
	}
	return models.StatusHistoryEntry{
		ApplicationID: rec.ID,
		NewStatus:     rec.Status,
		ChangedAt:     at,
	}, nil
}

// AppendTransition moves rec to newStatus, recording the change in the
// history log. The input is not mutated; the returned record carries an
// extended copy of the history.
//
// A transition to the record's current status is a no-op: the record comes
// back unchanged with no duplicate history entry.
func AppendTransition(rec models.Application, newStatus models.Status, note string, at time.Time) (models.Application, error) {
	if !newStatus.Valid() {
		return models.Application{}, &models.UnknownStatusError{Status: newStatus}
	}
	if newStatus == rec.Status {
		return rec, nil
	}

	entry := models.StatusHistoryEntry{
		ApplicationID: rec.ID,
		NewStatus:     newStatus,
		ChangedAt:     at,
		Note:          note,
	}
	if rec.Status != "" {
		if !rec.Status.Valid() {
			return models.Application{}, &models.UnknownStatusError{Status: rec.Status}
		}
		prev := rec.Status
		entry.PreviousStatus = &prev
	}

	history := make([]models.StatusHistoryEntry, len(rec.History), len(rec.History)+1)
	copy(history, rec.History)
	rec.History = append(history, entry)
	rec.Status = newStatus
	return rec, nil
}

// HistoryAt reconstructs what the record's status was at the given moment:
// the last history entry whose ChangedAt is at or before the timestamp.
func HistoryAt(rec models.Application, at time.Time) (models.Status, error) {
	var status models.Status
	found := false
	for _, e := range rec.History {
		if e.ChangedAt.After(at) {
			break
		}
		status = e.NewStatus
		found = true
	}
	if !found {
		return "", &NoHistoryError{ApplicationID: rec.ID, At: at}
	}
	return status, nil
}

// LastEntry returns the most recent history entry, or nil for a record that
// has never transitioned.
func LastEntry(rec models.Application) *models.StatusHistoryEntry {
	if len(rec.History) == 0 {
		return nil
	}
	return &rec.History[len(rec.History)-1]
}
