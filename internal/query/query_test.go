package query

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jibbitats/jibbit-ats/internal/models"
)

func intp(v int) *int { return &v }

func datep(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func statusp(s models.Status) *models.Status { return &s }

func app(id string, status models.Status, mutate ...func(*models.Application)) models.Application {
	a := models.Application{
		ID:          id,
		Title:       "Backend Engineer",
		CompanyName: "Acme",
		Status:      status,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, f := range mutate {
		f(&a)
	}
	return a
}

func TestFilterConjunction(t *testing.T) {
	records := []models.Application{
		app("a", models.StatusApplied, func(a *models.Application) {
			a.Title = "Senior Go Engineer"
			a.CompanyName = "Stripe"
			a.Location = "Remote"
			a.SalaryMin = intp(90000)
			a.SalaryMax = intp(120000)
			a.ApplicationDeadline = datep(2025, 1, 15)
		}),
		app("b", models.StatusOffer, func(a *models.Application) {
			a.Title = "Data Analyst"
			a.CompanyName = "Globex"
			a.SalaryMin = intp(200000)
			a.SalaryMax = intp(250000)
		}),
		app("c", models.StatusApplied, func(a *models.Application) {
			a.Title = "Go Developer"
			a.IsArchived = true
		}),
	}

	tests := []struct {
		name     string
		criteria FilterCriteria
		wantIDs  []string
	}{
		{"no constraints excludes archived", FilterCriteria{}, []string{"a", "b"}},
		{"archived view", FilterCriteria{Archived: true}, []string{"c"}},
		{"search title case-insensitive", FilterCriteria{Search: "go engineer"}, []string{"a"}},
		{"search company", FilterCriteria{Search: "stripe"}, []string{"a"}},
		{"search location", FilterCriteria{Search: "remote"}, []string{"a"}},
		{"search no match", FilterCriteria{Search: "rustacean"}, []string{}},
		{"status filter", FilterCriteria{Status: statusp(models.StatusOffer)}, []string{"b"}},
		{"salary overlap includes partial", FilterCriteria{SalaryMin: intp(100000), SalaryMax: intp(150000)}, []string{"a"}},
		{"salary no overlap", FilterCriteria{SalaryMin: intp(180000), SalaryMax: intp(260000)}, []string{"b"}},
		{"deadline bounded excludes records without deadline", FilterCriteria{DeadlineFrom: datep(2025, 1, 1), DeadlineTo: datep(2025, 1, 31)}, []string{"a"}},
		{"deadline bounds exclude out-of-range", FilterCriteria{DeadlineFrom: datep(2025, 2, 1), DeadlineTo: datep(2025, 2, 28)}, []string{}},
		{"combined search and status", FilterCriteria{Search: "go", Status: statusp(models.StatusApplied)}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(records, tt.criteria)
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilterRecordWithoutSalaryBoundsSurvivesSalaryFilter(t *testing.T) {
	records := []models.Application{app("open", models.StatusApplied)}

	got, err := Filter(records, FilterCriteria{SalaryMin: intp(100000), SalaryMax: intp(150000)})
	require.NoError(t, err)
	require.Len(t, got, 1) // missing bounds cannot exclude
}

func TestFilterInvalidCriteriaFailsBeforeScan(t *testing.T) {
	records := []models.Application{
		app("bad", models.Status("CORRUPT")), // would error if scanned
	}

	_, err := Filter(records, FilterCriteria{SalaryMin: intp(200000), SalaryMax: intp(100000)})
	var invalid *InvalidCriteriaError
	require.True(t, errors.As(err, &invalid))
}

func TestFilterContradictoryDeadlines(t *testing.T) {
	_, err := Filter(nil, FilterCriteria{DeadlineFrom: datep(2025, 2, 1), DeadlineTo: datep(2025, 1, 1)})
	var invalid *InvalidCriteriaError
	assert.True(t, errors.As(err, &invalid))
}

func TestFilterUnknownCriteriaStatus(t *testing.T) {
	_, err := Filter(nil, FilterCriteria{Status: statusp("GHOSTED")})
	var unknown *models.UnknownStatusError
	assert.True(t, errors.As(err, &unknown))
}

func TestFilterMalformedRecordStatusPropagates(t *testing.T) {
	records := []models.Application{app("bad", models.Status("CORRUPT"))}

	_, err := Filter(records, FilterCriteria{})
	var unknown *models.UnknownStatusError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, models.Status("CORRUPT"), unknown.Status)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := []models.Application{
		app("b", models.StatusApplied, func(a *models.Application) { a.Title = "B" }),
		app("a", models.StatusApplied, func(a *models.Application) { a.Title = "A" }),
	}

	_, err := Filter(records, FilterCriteria{SortBy: SortByTitle})
	require.NoError(t, err)
	assert.Equal(t, "b", records[0].ID) // input order untouched
}

func TestSortStable(t *testing.T) {
	// all created at the same instant: sorting by created_at must keep
	// the input order of ties
	records := []models.Application{
		app("first", models.StatusApplied),
		app("second", models.StatusOffer),
		app("third", models.StatusInterview),
	}

	got, err := Sort(records, SortByCreatedAt, SortAsc)
	require.NoError(t, err)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "third", got[2].ID)

	got, err = Sort(records, SortByCreatedAt, SortDesc)
	require.NoError(t, err)
	assert.Equal(t, "first", got[0].ID) // ties keep input order even descending
}

func TestSortByFields(t *testing.T) {
	d1 := datep(2025, 1, 10)
	d2 := datep(2025, 3, 1)
	records := []models.Application{
		app("z", models.StatusOffer, func(a *models.Application) {
			a.Title = "Zookeeper"
			a.SalaryMax = intp(150000)
		}),
		app("m", models.StatusInterested, func(a *models.Application) {
			a.Title = "Mechanic"
			a.ApplicationDeadline = d2
			a.SalaryMax = intp(90000)
		}),
		app("a", models.StatusApplied, func(a *models.Application) {
			a.Title = "Analyst"
			a.ApplicationDeadline = d1
		}),
	}

	got, err := Sort(records, SortByTitle, SortAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "m", "z"}, idsOf(got))

	got, err = Sort(records, SortByStatus, SortAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"m", "a", "z"}, idsOf(got)) // pipeline order

	got, err = Sort(records, SortByDeadline, SortAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "m", "z"}, idsOf(got)) // nil deadline last

	got, err = Sort(records, SortBySalary, SortAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"m", "z", "a"}, idsOf(got)) // nil salary last
}

func idsOf(records []models.Application) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestSortUnknownKey(t *testing.T) {
	_, err := Sort(nil, "shoe_size", SortAsc)
	var invalid *InvalidCriteriaError
	assert.True(t, errors.As(err, &invalid))
}

func TestPartitionByStatusCompleteness(t *testing.T) {
	records := []models.Application{
		app("a", models.StatusApplied),
		app("b", models.StatusOffer),
		app("c", models.StatusApplied),
	}

	groups, err := PartitionByStatus(records)
	require.NoError(t, err)

	// every canonical stage is a key, even empty ones
	require.Len(t, groups, len(models.Pipeline()))
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	assert.Equal(t, len(records), total)

	// input order preserved within a group
	applied := groups[models.StatusApplied]
	require.Len(t, applied, 2)
	assert.Equal(t, "a", applied[0].ID)
	assert.Equal(t, "c", applied[1].ID)
	assert.Empty(t, groups[models.StatusRejected])
}

func TestPartitionByStatusMalformed(t *testing.T) {
	_, err := PartitionByStatus([]models.Application{app("bad", "CORRUPT")})
	var unknown *models.UnknownStatusError
	assert.True(t, errors.As(err, &unknown))
}

func TestCountByStatus(t *testing.T) {
	records := []models.Application{
		app("a", models.StatusApplied),
		app("b", models.StatusOffer),
		app("c", models.StatusApplied),
	}

	counts, err := CountByStatus(records)
	require.NoError(t, err)

	assert.Equal(t, map[models.Status]int{
		models.StatusInterested:  0,
		models.StatusApplied:     2,
		models.StatusPhoneScreen: 0,
		models.StatusInterview:   0,
		models.StatusOffer:       1,
		models.StatusRejected:    0,
	}, counts)
}

func TestCountMatchesPartitionCardinality(t *testing.T) {
	records := []models.Application{
		app("a", models.StatusInterview),
		app("b", models.StatusInterview),
		app("c", models.StatusRejected),
	}

	counts, err := CountByStatus(records)
	require.NoError(t, err)
	groups, err := PartitionByStatus(records)
	require.NoError(t, err)

	for st, n := range counts {
		assert.Len(t, groups[st], n)
	}
}
