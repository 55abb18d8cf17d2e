package models

import "fmt"

// Status is one stage of the application pipeline. Values are exchanged as
// plain strings with the persistence layer and the UI; anything outside the
// canonical set is an error, never coerced to a default stage.
type Status string

const (
	StatusInterested  Status = "INTERESTED"
	StatusApplied     Status = "APPLIED"
	StatusPhoneScreen Status = "PHONE_SCREEN"
	StatusInterview   Status = "INTERVIEW"
	StatusOffer       Status = "OFFER"
	StatusRejected    Status = "REJECTED"
)

// Stage pairs a status with its display label.
type Stage struct {
	ID    Status `json:"id"`
	Label string `json:"label"`
}

// pipelineStages defines the canonical pipeline order. Adding or removing a
// stage is a single change here.
var pipelineStages = []Stage{
	{StatusInterested, "Interested"},
	{StatusApplied, "Applied"},
	{StatusPhoneScreen, "Phone Screen"},
	{StatusInterview, "Interview"},
	{StatusOffer, "Offer"},
	{StatusRejected, "Rejected"},
}

var stageRank = func() map[Status]int {
	m := make(map[Status]int, len(pipelineStages))
	for i, st := range pipelineStages {
		m[st.ID] = i
	}
	return m
}()

// Pipeline returns the stages in canonical display order.
func Pipeline() []Stage {
	out := make([]Stage, len(pipelineStages))
	copy(out, pipelineStages)
	return out
}

// Valid reports whether s is a member of the canonical enumeration.
func (s Status) Valid() bool {
	_, ok := stageRank[s]
	return ok
}

// Label returns the display label for s.
func (s Status) Label() (string, error) {
	idx, ok := stageRank[s]
	if !ok {
		return "", &UnknownStatusError{Status: s}
	}
	return pipelineStages[idx].Label, nil
}

// Rank returns the position of s in the canonical pipeline order.
func (s Status) Rank() (int, error) {
	idx, ok := stageRank[s]
	if !ok {
		return 0, &UnknownStatusError{Status: s}
	}
	return idx, nil
}

// Terminal reports whether s is a resolved outcome.
func (s Status) Terminal() bool {
	return s == StatusOffer || s == StatusRejected
}

// UnknownStatusError reports a status value outside the canonical
// enumeration, usually a stale or externally injected string.
type UnknownStatusError struct {
	Status Status
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown pipeline status %q", string(e.Status))
}
