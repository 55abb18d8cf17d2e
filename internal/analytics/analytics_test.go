package analytics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jibbitats/jibbit-ats/internal/models"
)

var day0 = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func day(n int) time.Time { return day0.AddDate(0, 0, n) }

// journey builds a record that walked the given stages on the given days.
func journey(id string, statuses []models.Status, days []int) models.Application {
	rec := models.Application{ID: id, CreatedAt: day(days[0])}
	for i, st := range statuses {
		entry := models.StatusHistoryEntry{
			ApplicationID: id,
			NewStatus:     st,
			ChangedAt:     day(days[i]),
		}
		if i > 0 {
			prev := statuses[i-1]
			entry.PreviousStatus = &prev
		}
		rec.History = append(rec.History, entry)
		rec.Status = st
	}
	return rec
}

func TestConversionRateEmpty(t *testing.T) {
	rate, err := ConversionRate(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)

	rate, err = ConversionRate([]models.Application{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate)
}

func TestConversionRateZeroCompletedInterviews(t *testing.T) {
	records := []models.Application{
		journey("pending", []models.Status{models.StatusApplied, models.StatusInterview}, []int{0, 5}),
		journey("no-interview", []models.Status{models.StatusApplied, models.StatusRejected}, []int{0, 3}),
	}

	rate, err := ConversionRate(records)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rate) // no exception, no NaN
}

func TestConversionRate(t *testing.T) {
	records := []models.Application{
		journey("won", []models.Status{models.StatusApplied, models.StatusInterview, models.StatusOffer}, []int{0, 5, 12}),
		journey("lost", []models.Status{models.StatusApplied, models.StatusInterview, models.StatusRejected}, []int{0, 4, 9}),
		journey("in-flight", []models.Status{models.StatusApplied, models.StatusInterview}, []int{0, 2}),
		journey("never-interviewed", []models.Status{models.StatusApplied, models.StatusRejected}, []int{0, 1}),
	}

	rate, err := ConversionRate(records)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, rate, 1e-9) // 1 offer / 2 completed interviews
}

func TestConversionRateMalformedStatus(t *testing.T) {
	records := []models.Application{{ID: "bad", Status: "CORRUPT"}}

	_, err := ConversionRate(records)
	var unknown *models.UnknownStatusError
	require.True(t, errors.As(err, &unknown))
}

func TestAverageTimeInStage(t *testing.T) {
	records := []models.Application{
		journey("r", []models.Status{models.StatusApplied, models.StatusInterview, models.StatusOffer}, []int{0, 5, 12}),
	}

	avg, err := AverageTimeInStage(records, models.StatusApplied, models.StatusInterview)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 5.0, *avg, 1e-9)

	avg, err = AverageTimeInStage(records, models.StatusInterview, models.StatusOffer)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 7.0, *avg, 1e-9)
}

func TestAverageTimeInStageAveragesAcrossRecords(t *testing.T) {
	records := []models.Application{
		journey("fast", []models.Status{models.StatusApplied, models.StatusInterview}, []int{0, 2}),
		journey("slow", []models.Status{models.StatusApplied, models.StatusInterview}, []int{0, 10}),
		journey("never", []models.Status{models.StatusApplied, models.StatusRejected}, []int{0, 4}),
	}

	avg, err := AverageTimeInStage(records, models.StatusApplied, models.StatusInterview)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.InDelta(t, 6.0, *avg, 1e-9)
}

func TestAverageTimeInStageNoData(t *testing.T) {
	records := []models.Application{
		journey("r", []models.Status{models.StatusApplied}, []int{0}),
	}

	avg, err := AverageTimeInStage(records, models.StatusApplied, models.StatusOffer)
	require.NoError(t, err)
	assert.Nil(t, avg) // nil, not zero: "no data" is not "zero days"
}

func TestAverageTimeInStageUnknownStatus(t *testing.T) {
	_, err := AverageTimeInStage(nil, models.Status("NOPE"), models.StatusOffer)
	var unknown *models.UnknownStatusError
	require.True(t, errors.As(err, &unknown))

	_, err = AverageTimeInStage(nil, models.StatusApplied, models.Status("NOPE"))
	assert.True(t, errors.As(err, &unknown))
}

func TestAverageTimeToResponse(t *testing.T) {
	records := []models.Application{
		journey("quick", []models.Status{models.StatusApplied, models.StatusPhoneScreen}, []int{0, 3}),
		journey("silent", []models.Status{models.StatusApplied}, []int{0}),
	}

	avg := AverageTimeToResponse(records)
	require.NotNil(t, avg)
	assert.InDelta(t, 3.0, *avg, 1e-9)

	assert.Nil(t, AverageTimeToResponse(nil))
}

func TestSuccessRateBy(t *testing.T) {
	records := []models.Application{
		journey("a1", []models.Status{models.StatusApplied, models.StatusOffer}, []int{0, 10}),
		journey("a2", []models.Status{models.StatusApplied, models.StatusRejected}, []int{0, 7}),
		journey("b1", []models.Status{models.StatusApplied, models.StatusOffer}, []int{0, 8}),
		journey("unkeyed", []models.Status{models.StatusApplied}, []int{0}),
	}
	records[0].Source = "referral"
	records[1].Source = "referral"
	records[2].Source = "job board"
	// records[3] has no source and is skipped

	rates, err := SuccessRateBySource(records)
	require.NoError(t, err)
	require.Len(t, rates, 2) // empty-key bucket omitted

	// sorted by rate descending
	assert.Equal(t, BucketRate{Key: "job board", Total: 1, Successful: 1, Rate: 100.0}, rates[0])
	assert.Equal(t, BucketRate{Key: "referral", Total: 2, Successful: 1, Rate: 50.0}, rates[1])
}

func TestSuccessRateByTiesSortedByKey(t *testing.T) {
	records := []models.Application{
		journey("x", []models.Status{models.StatusApplied, models.StatusRejected}, []int{0, 1}),
		journey("y", []models.Status{models.StatusApplied, models.StatusRejected}, []int{0, 1}),
	}
	records[0].Source = "zeta"
	records[1].Source = "alpha"

	rates, err := SuccessRateBySource(records)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "alpha", rates[0].Key)
	assert.Equal(t, "zeta", rates[1].Key)
}

func TestSuccessRateByIndustry(t *testing.T) {
	withIndustry := journey("fin", []models.Status{models.StatusApplied, models.StatusOffer}, []int{0, 5})
	withIndustry.Company = &models.CompanyInfo{Industry: "Fintech"}
	plainName := journey("plain", []models.Status{models.StatusApplied}, []int{0})

	rates, err := SuccessRateByIndustry([]models.Application{withIndustry, plainName})
	require.NoError(t, err)
	require.Len(t, rates, 1) // records without CompanyInfo are skipped
	assert.Equal(t, "Fintech", rates[0].Key)
	assert.Equal(t, 100.0, rates[0].Rate)
}

func TestSuccessRateByWeekday(t *testing.T) {
	rec := journey("w", []models.Status{models.StatusApplied}, []int{0})
	rec.CreatedAt = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC) // a Monday

	rates, err := SuccessRateByWeekday([]models.Application{rec})
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "Monday", rates[0].Key)
}

func TestSuccessRateByMalformedStatus(t *testing.T) {
	records := []models.Application{{ID: "bad", Status: "CORRUPT", Source: "x"}}

	_, err := SuccessRateBySource(records)
	var unknown *models.UnknownStatusError
	assert.True(t, errors.As(err, &unknown))
}
