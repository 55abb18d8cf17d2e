// Package analytics computes read-only aggregates over application records:
// conversion rate, time-in-stage averages, and success-rate breakdowns.
// Callers pass an already-filtered record set (normally archived records
// excluded); nothing here performs I/O or mutates its input.
package analytics

import (
	"sort"

	"github.com/jibbitats/jibbit-ats/internal/models"
)

// ConversionRate returns offers as a percentage of completed interviews. A
// completed interview is a record whose history reached the Interview stage
// and whose current status is a resolved outcome. With zero completed
// interviews the rate is 0, never NaN: callers do not special-case division.
func ConversionRate(records []models.Application) (float64, error) {
	completed, offers := 0, 0
	for _, r := range records {
		if !r.Status.Valid() {
			return 0, &models.UnknownStatusError{Status: r.Status}
		}
		if !reachedStage(r, models.StatusInterview) || !r.Status.Terminal() {
			continue
		}
		completed++
		if r.Status == models.StatusOffer {
			offers++
		}
	}
	if completed == 0 {
		return 0, nil
	}
	return float64(offers) / float64(completed) * 100, nil
}

func reachedStage(r models.Application, stage models.Status) bool {
	if r.Status == stage {
		return true
	}
	for _, e := range r.History {
		if e.NewStatus == stage {
			return true
		}
	}
	return false
}

// entryInto finds the first history entry at or after index `from` whose
// NewStatus is the given stage, or -1.
func entryInto(r models.Application, stage models.Status, from int) int {
	for i := from; i < len(r.History); i++ {
		if r.History[i].NewStatus == stage {
			return i
		}
	}
	return -1
}

// AverageTimeInStage averages, across records whose history entered
// fromStatus and later entered toStatus, the elapsed days between those two
// transitions. It returns nil when no record has both transitions — "no
// data" is distinct from "zero elapsed time".
func AverageTimeInStage(records []models.Application, fromStatus, toStatus models.Status) (*float64, error) {
	if !fromStatus.Valid() {
		return nil, &models.UnknownStatusError{Status: fromStatus}
	}
	if !toStatus.Valid() {
		return nil, &models.UnknownStatusError{Status: toStatus}
	}

	var total float64
	n := 0
	for _, r := range records {
		i := entryInto(r, fromStatus, 0)
		if i < 0 {
			continue
		}
		j := entryInto(r, toStatus, i+1)
		if j < 0 {
			continue
		}
		total += r.History[j].ChangedAt.Sub(r.History[i].ChangedAt).Hours() / 24
		n++
	}
	if n == 0 {
		return nil, nil
	}
	avg := total / float64(n)
	return &avg, nil
}

// AverageTimeToResponse averages the days between a record entering Applied
// and its next status change of any kind. Nil when no record has responded.
func AverageTimeToResponse(records []models.Application) *float64 {
	var total float64
	n := 0
	for _, r := range records {
		i := entryInto(r, models.StatusApplied, 0)
		if i < 0 || i+1 >= len(r.History) {
			continue
		}
		total += r.History[i+1].ChangedAt.Sub(r.History[i].ChangedAt).Hours() / 24
		n++
	}
	if n == 0 {
		return nil
	}
	avg := total / float64(n)
	return &avg
}

// BucketRate is one row of a success-rate breakdown.
type BucketRate struct {
	Key        string  `json:"key"`
	Total      int     `json:"total"`
	Successful int     `json:"successful"`
	Rate       float64 `json:"rate"`
}

// SuccessRateBy buckets records by the classification key and reports each
// bucket's offer rate, sorted by rate descending (key ascending on ties, so
// output is deterministic). Records the key function maps to "" are skipped;
// empty buckets never appear. Small buckets are reported as-is with their
// Total, leaving sample-size caveats to the caller.
func SuccessRateBy(records []models.Application, keyFn func(models.Application) string) ([]BucketRate, error) {
	type agg struct {
		total      int
		successful int
	}
	byKey := make(map[string]*agg)
	for _, r := range records {
		if !r.Status.Valid() {
			return nil, &models.UnknownStatusError{Status: r.Status}
		}
		key := keyFn(r)
		if key == "" {
			continue
		}
		a := byKey[key]
		if a == nil {
			a = &agg{}
			byKey[key] = a
		}
		a.total++
		if r.Status == models.StatusOffer {
			a.successful++
		}
	}

	out := make([]BucketRate, 0, len(byKey))
	for key, a := range byKey {
		out = append(out, BucketRate{
			Key:        key,
			Total:      a.total,
			Successful: a.successful,
			Rate:       float64(a.successful) / float64(a.total) * 100,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rate != out[j].Rate {
			return out[i].Rate > out[j].Rate
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// SuccessRateByIndustry breaks success rate down by company industry.
func SuccessRateByIndustry(records []models.Application) ([]BucketRate, error) {
	return SuccessRateBy(records, func(r models.Application) string {
		if r.Company == nil {
			return ""
		}
		return r.Company.Industry
	})
}

// SuccessRateBySource breaks success rate down by application source.
func SuccessRateBySource(records []models.Application) ([]BucketRate, error) {
	return SuccessRateBy(records, func(r models.Application) string {
		return r.Source
	})
}

// SuccessRateByWeekday breaks success rate down by the weekday the
// application was created.
func SuccessRateByWeekday(records []models.Application) ([]BucketRate, error) {
	return SuccessRateBy(records, func(r models.Application) string {
		return r.CreatedAt.Weekday().String()
	})
}
