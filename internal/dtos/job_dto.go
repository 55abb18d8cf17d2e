package dtos

import (
	"time"

	"github.com/jibbitats/jibbit-ats/internal/analytics"
	"github.com/jibbitats/jibbit-ats/internal/models"
)

type JobExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url"`
}

type CompanyInfoRequest struct {
	Industry    string `json:"industry"`
	Location    string `json:"location"`
	Size        string `json:"size"`
	Description string `json:"description"`
}

type ContactRequest struct {
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type JobCreationRequest struct {
	Title       string `json:"title" binding:"required"`
	CompanyName string `json:"company_name" binding:"required"`

	// Optional fields
	Company             *CompanyInfoRequest `json:"company"`
	Status              string              `json:"status"` // defaults to INTERESTED
	SalaryMin           *int                `json:"salary_min"`
	SalaryMax           *int                `json:"salary_max"`
	ApplicationDeadline *time.Time          `json:"application_deadline"`
	Location            string              `json:"location"`
	Source              string              `json:"source"`
	JobLink             string              `json:"job_link"`
	ResumeID            *string             `json:"resume_id"`
	CoverLetterID       *string             `json:"cover_letter_id"`
	Contacts            []ContactRequest    `json:"contacts"`
	Notes               string              `json:"notes"`
}

// JobUpdateRequest edits record fields. Nil means "leave unchanged". Status
// is deliberately absent: status changes go through the transition endpoint
// so the history log stays complete.
type JobUpdateRequest struct {
	Title                  *string             `json:"title"`
	CompanyName            *string             `json:"company_name"`
	Company                *CompanyInfoRequest `json:"company"`
	SalaryMin              *int                `json:"salary_min"`
	SalaryMax              *int                `json:"salary_max"`
	ApplicationDeadline    *time.Time          `json:"application_deadline"`
	Location               *string             `json:"location"`
	Source                 *string             `json:"source"`
	JobLink                *string             `json:"job_link"`
	ResumeID               *string             `json:"resume_id"`
	CoverLetterID          *string             `json:"cover_letter_id"`
	Notes                  *string             `json:"notes"`
	InterviewNotes         *string             `json:"interview_notes"`
	SalaryNegotiationNotes *string             `json:"salary_negotiation_notes"`
}

type StatusTransitionRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// StageColumn is one column of the pipeline board.
type StageColumn struct {
	Status models.Status        `json:"status"`
	Label  string               `json:"label"`
	Count  int                  `json:"count"`
	Jobs   []models.Application `json:"jobs"`
}

type PipelineResponse struct {
	Stages []StageColumn `json:"stages"`
	Total  int           `json:"total"`
}

type StatsResponse struct {
	TotalActive               int                    `json:"total_active"`
	CountsByStatus            map[models.Status]int  `json:"counts_by_status"`
	ConversionRate            float64                `json:"conversion_rate"`
	AvgDaysAppliedToInterview *float64               `json:"avg_days_applied_to_interview"`
	AvgDaysToFirstResponse    *float64               `json:"avg_days_to_first_response"`
	SuccessByIndustry         []analytics.BucketRate `json:"success_by_industry"`
	SuccessBySource           []analytics.BucketRate `json:"success_by_source"`
	SuccessByWeekday          []analytics.BucketRate `json:"success_by_weekday"`
}

type StatusAtResponse struct {
	ApplicationID string        `json:"application_id"`
	At            time.Time     `json:"at"`
	Status        models.Status `json:"status"`
}
