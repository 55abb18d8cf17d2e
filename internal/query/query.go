// Package query implements the pure collection operations behind the jobs
// list, pipeline board, and stage badges: filtering, sorting, partitioning,
// and counting over in-memory application records. Inputs are never mutated.
package query

import (
	"sort"
	"strings"

	"github.com/jibbitats/jibbit-ats/internal/models"
)

// Filter returns the records for which every supplied criterion holds
// (logical AND). The criteria are validated up front so contradictory bounds
// surface as one clear error instead of a silently empty result. Relative
// order is preserved unless SortBy is set.
func Filter(records []models.Application, c FilterCriteria) ([]models.Application, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := make([]models.Application, 0, len(records))
	for _, r := range records {
		if !r.Status.Valid() {
			return nil, &models.UnknownStatusError{Status: r.Status}
		}
		if matches(r, c) {
			out = append(out, r)
		}
	}

	if c.SortBy != "" {
		return Sort(out, c.SortBy, c.SortOrder)
	}
	return out, nil
}

func matches(r models.Application, c FilterCriteria) bool {
	if r.IsArchived != c.Archived {
		return false
	}

	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(r.Title), needle) &&
			!strings.Contains(strings.ToLower(r.CompanyName), needle) &&
			!strings.Contains(strings.ToLower(r.Location), needle) {
			return false
		}
	}

	if c.Status != nil && r.Status != *c.Status {
		return false
	}

	// Salary: ranges must overlap. A record missing a bound is open on that
	// side and cannot be excluded by the corresponding criterion.
	if c.SalaryMin != nil && r.SalaryMax != nil && *r.SalaryMax < *c.SalaryMin {
		return false
	}
	if c.SalaryMax != nil && r.SalaryMin != nil && *r.SalaryMin > *c.SalaryMax {
		return false
	}

	// Deadline: a bounded query only sees records that have a deadline.
	if c.DeadlineFrom != nil || c.DeadlineTo != nil {
		if r.ApplicationDeadline == nil {
			return false
		}
		if c.DeadlineFrom != nil && r.ApplicationDeadline.Before(*c.DeadlineFrom) {
			return false
		}
		if c.DeadlineTo != nil && r.ApplicationDeadline.After(*c.DeadlineTo) {
			return false
		}
	}

	return true
}

// Sort returns a new slice ordered by the named field. The sort is stable:
// records comparing equal keep their input order, so re-filtering does not
// visibly reorder ties.
func Sort(records []models.Application, sortBy, sortOrder string) ([]models.Application, error) {
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}
	if !validSortKeys[sortBy] {
		return nil, &InvalidCriteriaError{Reason: "unknown sort key " + sortBy}
	}
	if sortOrder == "" {
		sortOrder = SortAsc
	}
	if sortOrder != SortAsc && sortOrder != SortDesc {
		return nil, &InvalidCriteriaError{Reason: "unknown sort order " + sortOrder}
	}

	if sortBy == SortByStatus {
		for _, r := range records {
			if !r.Status.Valid() {
				return nil, &models.UnknownStatusError{Status: r.Status}
			}
		}
	}

	out := make([]models.Application, len(records))
	copy(out, records)

	less := lessFunc(sortBy)
	desc := sortOrder == SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

func lessFunc(sortBy string) func(a, b models.Application) bool {
	switch sortBy {
	case SortByUpdatedAt:
		return func(a, b models.Application) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case SortByTitle:
		return func(a, b models.Application) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortByCompany:
		return func(a, b models.Application) bool {
			return strings.ToLower(a.CompanyName) < strings.ToLower(b.CompanyName)
		}
	case SortByDeadline:
		// Records without a deadline sort last.
		return func(a, b models.Application) bool {
			switch {
			case a.ApplicationDeadline == nil:
				return false
			case b.ApplicationDeadline == nil:
				return true
			default:
				return a.ApplicationDeadline.Before(*b.ApplicationDeadline)
			}
		}
	case SortBySalary:
		return func(a, b models.Application) bool {
			switch {
			case a.SalaryMax == nil:
				return false
			case b.SalaryMax == nil:
				return true
			default:
				return *a.SalaryMax < *b.SalaryMax
			}
		}
	case SortByStatus:
		return func(a, b models.Application) bool {
			ra, _ := a.Status.Rank()
			rb, _ := b.Status.Rank()
			return ra < rb
		}
	default: // SortByCreatedAt
		return func(a, b models.Application) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

// PartitionByStatus groups records by current status, preserving input order
// within each group. Every canonical stage is present as a key even when its
// group is empty, so pipeline columns render stably.
func PartitionByStatus(records []models.Application) (map[models.Status][]models.Application, error) {
	groups := make(map[models.Status][]models.Application, len(models.Pipeline()))
	for _, st := range models.Pipeline() {
		groups[st.ID] = []models.Application{}
	}
	for _, r := range records {
		if _, ok := groups[r.Status]; !ok {
			return nil, &models.UnknownStatusError{Status: r.Status}
		}
		groups[r.Status] = append(groups[r.Status], r)
	}
	return groups, nil
}

// CountByStatus returns the record count per stage, zero-counts included.
func CountByStatus(records []models.Application) (map[models.Status]int, error) {
	counts := make(map[models.Status]int, len(models.Pipeline()))
	for _, st := range models.Pipeline() {
		counts[st.ID] = 0
	}
	for _, r := range records {
		if _, ok := counts[r.Status]; !ok {
			return nil, &models.UnknownStatusError{Status: r.Status}
		}
		counts[r.Status]++
	}
	return counts, nil
}
