package services

import (
	"context"

	"github.com/jibbitats/jibbit-ats/internal/analytics"
	"github.com/jibbitats/jibbit-ats/internal/dtos"
	"github.com/jibbitats/jibbit-ats/internal/logger"
	"github.com/jibbitats/jibbit-ats/internal/models"
	"github.com/jibbitats/jibbit-ats/internal/query"
)

// StatsService builds the pipeline board and the analytics summary. It reads
// through JobService and layers the pure query/analytics packages on top.
type StatsService struct {
	Jobs *JobService
	Log  *logger.Logger
}

func NewStatsService(jobs *JobService, log *logger.Logger) *StatsService {
	return &StatsService{Jobs: jobs, Log: log}
}

// Pipeline returns the board view: one column per canonical stage, archived
// records excluded, with per-stage counts.
func (s *StatsService) Pipeline(ctx context.Context, userID uint) (*dtos.PipelineResponse, error) {
	active, err := s.activeRecords(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups, err := query.PartitionByStatus(active)
	if err != nil {
		return nil, err
	}

	resp := &dtos.PipelineResponse{Total: len(active)}
	for _, st := range models.Pipeline() {
		jobs := groups[st.ID]
		resp.Stages = append(resp.Stages, dtos.StageColumn{
			Status: st.ID,
			Label:  st.Label,
			Count:  len(jobs),
			Jobs:   jobs,
		})
	}
	return resp, nil
}

// Summary computes the analytics dashboard over the owner's active records.
func (s *StatsService) Summary(ctx context.Context, userID uint) (*dtos.StatsResponse, error) {
	active, err := s.activeRecords(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts, err := query.CountByStatus(active)
	if err != nil {
		return nil, err
	}
	conversion, err := analytics.ConversionRate(active)
	if err != nil {
		return nil, err
	}
	appliedToInterview, err := analytics.AverageTimeInStage(active, models.StatusApplied, models.StatusInterview)
	if err != nil {
		return nil, err
	}
	byIndustry, err := analytics.SuccessRateByIndustry(active)
	if err != nil {
		return nil, err
	}
	bySource, err := analytics.SuccessRateBySource(active)
	if err != nil {
		return nil, err
	}
	byWeekday, err := analytics.SuccessRateByWeekday(active)
	if err != nil {
		return nil, err
	}

	return &dtos.StatsResponse{
		TotalActive:               len(active),
		CountsByStatus:            counts,
		ConversionRate:            conversion,
		AvgDaysAppliedToInterview: appliedToInterview,
		AvgDaysToFirstResponse:    analytics.AverageTimeToResponse(active),
		SuccessByIndustry:         byIndustry,
		SuccessBySource:           bySource,
		SuccessByWeekday:          byWeekday,
	}, nil
}

func (s *StatsService) activeRecords(ctx context.Context, userID uint) ([]models.Application, error) {
	return s.Jobs.List(ctx, userID, query.FilterCriteria{Archived: false})
}
