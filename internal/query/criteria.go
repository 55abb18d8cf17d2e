package query

import (
	"fmt"
	"time"

	"github.com/jibbitats/jibbit-ats/internal/models"
)

// Sort keys accepted by FilterCriteria.SortBy.
const (
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
	SortByTitle     = "title"
	SortByCompany   = "company"
	SortByDeadline  = "application_deadline"
	SortBySalary    = "salary_max"
	SortByStatus    = "status"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

var validSortKeys = map[string]bool{
	SortByCreatedAt: true,
	SortByUpdatedAt: true,
	SortByTitle:     true,
	SortByCompany:   true,
	SortByDeadline:  true,
	SortBySalary:    true,
	SortByStatus:    true,
}

// FilterCriteria describes the active view over a record set. A nil/zero
// field means "no constraint on that dimension". The value is transient:
// rebuilt from UI or query-string state on every interaction, never stored.
type FilterCriteria struct {
	Search       string         `json:"search,omitempty"`
	Status       *models.Status `json:"status,omitempty"`
	SalaryMin    *int           `json:"salary_min,omitempty"`
	SalaryMax    *int           `json:"salary_max,omitempty"`
	DeadlineFrom *time.Time     `json:"deadline_from,omitempty"`
	DeadlineTo   *time.Time     `json:"deadline_to,omitempty"`
	SortBy       string         `json:"sort_by,omitempty"`
	SortOrder    string         `json:"sort_order,omitempty"`

	// Archived selects which side of the archive flag the view shows:
	// false (the default) is the active pipeline, true the archive.
	Archived bool `json:"archived,omitempty"`
}

// InvalidCriteriaError reports internally contradictory filter bounds,
// caught before any record is scanned.
type InvalidCriteriaError struct {
	Reason string
}

func (e *InvalidCriteriaError) Error() string {
	return fmt.Sprintf("invalid filter criteria: %s", e.Reason)
}

// Validate checks the criteria for contradictions and unknown values.
func (c FilterCriteria) Validate() error {
	if c.SalaryMin != nil && c.SalaryMax != nil && *c.SalaryMin > *c.SalaryMax {
		return &InvalidCriteriaError{
			Reason: fmt.Sprintf("salary_min %d exceeds salary_max %d", *c.SalaryMin, *c.SalaryMax),
		}
	}
	if c.DeadlineFrom != nil && c.DeadlineTo != nil && c.DeadlineFrom.After(*c.DeadlineTo) {
		return &InvalidCriteriaError{Reason: "deadline_from is after deadline_to"}
	}
	if c.Status != nil && !c.Status.Valid() {
		return &models.UnknownStatusError{Status: *c.Status}
	}
	if c.SortBy != "" && !validSortKeys[c.SortBy] {
		return &InvalidCriteriaError{Reason: fmt.Sprintf("unknown sort key %q", c.SortBy)}
	}
	if c.SortOrder != "" && c.SortOrder != SortAsc && c.SortOrder != SortDesc {
		return &InvalidCriteriaError{Reason: fmt.Sprintf("unknown sort order %q", c.SortOrder)}
	}
	return nil
}
