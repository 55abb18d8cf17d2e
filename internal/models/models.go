package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email string `gorm:"uniqueIndex;not null" json:"email"`
}

// CompanyInfo is the richer company shape attached to an application when
// the user has more than a plain name. It hangs off the application so a
// record can carry either a bare CompanyName or the full row.
type CompanyInfo struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ApplicationID string    `gorm:"index;not null" json:"-"`

	Industry    string `json:"industry"`
	Location    string `json:"location"`
	Size        string `json:"size"`
	Description string `gorm:"type:text" json:"description"`
}

// Contact is a person linked to one application (recruiter, hiring manager).
type Contact struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	ApplicationID string    `gorm:"index;not null" json:"-"`

	Name  string `gorm:"not null" json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `gorm:"type:text" json:"notes"`
}

// StatusHistoryEntry is one recorded status transition. Rows are append-only:
// once written they are never updated or deleted, so the sequence is the
// audit trail for "what happened when".
type StatusHistoryEntry struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ApplicationID string `gorm:"index;not null" json:"-"`

	PreviousStatus *Status   `json:"previous_status"`
	NewStatus      Status    `gorm:"not null" json:"new_status"`
	ChangedAt      time.Time `gorm:"index;not null" json:"changed_at"`
	Note           string    `json:"note,omitempty"`
}

// Application is the central entity: one tracked job application.
//
// Invariants maintained by the pipeline and service layers: History is
// ordered by ChangedAt ascending, and the NewStatus of its last entry equals
// Status.
type Application struct {
	ID        string    `gorm:"primaryKey" json:"id"` // uuid
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"index;not null" json:"user_id"`

	Title       string       `gorm:"not null" json:"title"`
	CompanyName string       `gorm:"not null" json:"company_name"`
	Company     *CompanyInfo `gorm:"foreignKey:ApplicationID" json:"company,omitempty"`

	Status  Status               `gorm:"not null;default:'INTERESTED'" json:"status"`
	History []StatusHistoryEntry `gorm:"foreignKey:ApplicationID" json:"status_history,omitempty"`

	SalaryMin           *int       `json:"salary_min"`
	SalaryMax           *int       `json:"salary_max"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	Location            string     `json:"location"`
	Source              string     `json:"source"` // job board, referral, direct, ...
	JobLink             string     `json:"job_link"`

	IsArchived bool `gorm:"index;not null;default:false" json:"is_archived"`

	ResumeID      *string `json:"resume_id"`
	CoverLetterID *string `json:"cover_letter_id"`

	Contacts []Contact `gorm:"foreignKey:ApplicationID" json:"contacts,omitempty"`

	Notes                  string `gorm:"type:text" json:"notes"`
	InterviewNotes         string `gorm:"type:text" json:"interview_notes"`
	SalaryNegotiationNotes string `gorm:"type:text" json:"salary_negotiation_notes"`
}
