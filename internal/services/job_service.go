package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jibbitats/jibbit-ats/internal/dtos"
	"github.com/jibbitats/jibbit-ats/internal/logger"
	"github.com/jibbitats/jibbit-ats/internal/models"
	"github.com/jibbitats/jibbit-ats/internal/pipeline"
	"github.com/jibbitats/jibbit-ats/internal/query"
)

// JobService owns application record persistence. The list and pipeline
// reads fetch the owner's records and hand them to the pure query/analytics
// packages; the user ID is always an explicit parameter, never ambient
// state.
type JobService struct {
	DB  *gorm.DB
	Log *logger.Logger
}

func NewJobService(db *gorm.DB, log *logger.Logger) *JobService {
	return &JobService{DB: db, Log: log}
}

// Create inserts a new application record and seeds its history with the
// creation entry.
func (s *JobService) Create(ctx context.Context, userID uint, req *dtos.JobCreationRequest) (*models.Application, error) {
	status := models.StatusInterested
	if req.Status != "" {
		status = models.Status(req.Status)
		if !status.Valid() {
			return nil, &models.UnknownStatusError{Status: status}
		}
	}

	app := models.Application{
		ID:                  uuid.NewString(),
		UserID:              userID,
		Title:               req.Title,
		CompanyName:         req.CompanyName,
		Status:              status,
		SalaryMin:           req.SalaryMin,
		SalaryMax:           req.SalaryMax,
		ApplicationDeadline: req.ApplicationDeadline,
		Location:            req.Location,
		Source:              req.Source,
		JobLink:             req.JobLink,
		ResumeID:            req.ResumeID,
		CoverLetterID:       req.CoverLetterID,
		Notes:               req.Notes,
	}
	if req.Company != nil {
		app.Company = &models.CompanyInfo{
			ApplicationID: app.ID,
			Industry:      req.Company.Industry,
			Location:      req.Company.Location,
			Size:          req.Company.Size,
			Description:   req.Company.Description,
		}
	}
	for _, c := range req.Contacts {
		app.Contacts = append(app.Contacts, models.Contact{
			ApplicationID: app.ID,
			Name:          c.Name,
			Role:          c.Role,
			Email:         c.Email,
			Phone:         c.Phone,
			Notes:         c.Notes,
		})
	}

	entry, err := pipeline.InitialEntry(app, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	app.History = []models.StatusHistoryEntry{entry}

	if err := s.DB.WithContext(ctx).Create(&app).Error; err != nil {
		return nil, err
	}
	s.Log.WithField("application_id", app.ID).Info("application created")
	return &app, nil
}

// Get loads one record with history (ordered), contacts, and company info.
func (s *JobService) Get(ctx context.Context, userID uint, id string) (*models.Application, error) {
	var app models.Application
	err := s.DB.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("changed_at ASC, id ASC") }).
		Preload("Contacts").
		Preload("Company").
		Where("user_id = ? AND id = ?", userID, id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// List fetches all of the owner's records and applies the filter criteria
// in memory. Criteria are validated before any record is scanned.
func (s *JobService) List(ctx context.Context, userID uint, criteria query.FilterCriteria) ([]models.Application, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	apps, err := s.fetchAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return query.Filter(apps, criteria)
}

func (s *JobService) fetchAll(ctx context.Context, userID uint) ([]models.Application, error) {
	var apps []models.Application
	err := s.DB.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("changed_at ASC, id ASC") }).
		Preload("Contacts").
		Preload("Company").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

// Update applies non-nil field edits. Status is not editable here; use
// Transition so the history log stays complete.
func (s *JobService) Update(ctx context.Context, userID uint, id string, req *dtos.JobUpdateRequest) (*models.Application, error) {
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		app.Title = *req.Title
	}
	if req.CompanyName != nil {
		app.CompanyName = *req.CompanyName
	}
	if req.SalaryMin != nil {
		app.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		app.SalaryMax = req.SalaryMax
	}
	if req.ApplicationDeadline != nil {
		app.ApplicationDeadline = req.ApplicationDeadline
	}
	if req.Location != nil {
		app.Location = *req.Location
	}
	if req.Source != nil {
		app.Source = *req.Source
	}
	if req.JobLink != nil {
		app.JobLink = *req.JobLink
	}
	if req.ResumeID != nil {
		app.ResumeID = req.ResumeID
	}
	if req.CoverLetterID != nil {
		app.CoverLetterID = req.CoverLetterID
	}
	if req.Notes != nil {
		app.Notes = *req.Notes
	}
	if req.InterviewNotes != nil {
		app.InterviewNotes = *req.InterviewNotes
	}
	if req.SalaryNegotiationNotes != nil {
		app.SalaryNegotiationNotes = *req.SalaryNegotiationNotes
	}
	if req.Company != nil {
		if app.Company == nil {
			app.Company = &models.CompanyInfo{ApplicationID: app.ID}
		}
		app.Company.Industry = req.Company.Industry
		app.Company.Location = req.Company.Location
		app.Company.Size = req.Company.Size
		app.Company.Description = req.Company.Description
	}

	// History rows are append-only, so only the record itself (and the
	// company row, if edited) gets saved.
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("History", "Contacts", "Company").Save(app).Error; err != nil {
			return err
		}
		if req.Company != nil {
			return tx.Save(app.Company).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Transition moves the record to newStatus, persisting exactly one new
// history entry. A same-status transition is a no-op.
func (s *JobService) Transition(ctx context.Context, userID uint, id string, newStatus models.Status, note string) (*models.Application, error) {
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated, err := pipeline.AppendTransition(*app, newStatus, note, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if len(updated.History) == len(app.History) {
		return app, nil // no-op transition
	}

	entry := updated.History[len(updated.History)-1]
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Application{}).
			Where("id = ?", app.ID).
			Update("status", updated.Status).Error; err != nil {
			return err
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.Log.WithField("application_id", app.ID).
		WithField("from", app.Status).
		WithField("to", updated.Status).
		Info("status transition")
	updated.History[len(updated.History)-1] = entry
	return &updated, nil
}

// StatusAt reconstructs the record's status at a past moment.
func (s *JobService) StatusAt(ctx context.Context, userID uint, id string, at time.Time) (models.Status, error) {
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	return pipeline.HistoryAt(*app, at)
}

// Archive soft-deletes the record out of active pipeline views.
func (s *JobService) Archive(ctx context.Context, userID uint, id string) error {
	return s.setArchived(ctx, userID, id, true)
}

// Unarchive restores the record to active views.
func (s *JobService) Unarchive(ctx context.Context, userID uint, id string) error {
	return s.setArchived(ctx, userID, id, false)
}

func (s *JobService) setArchived(ctx context.Context, userID uint, id string, archived bool) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Application{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("is_archived", archived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete hard-deletes the record and its owned rows. Archive is the normal
// flow; this is the explicit destructive action.
func (s *JobService) Delete(ctx context.Context, userID uint, id string) error {
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", app.ID).Delete(&models.StatusHistoryEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("application_id = ?", app.ID).Delete(&models.Contact{}).Error; err != nil {
			return err
		}
		if err := tx.Where("application_id = ?", app.ID).Delete(&models.CompanyInfo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Application{}, "id = ?", app.ID).Error
	})
}

// AddContact links a contact to the record.
func (s *JobService) AddContact(ctx context.Context, userID uint, id string, req *dtos.ContactRequest) (*models.Contact, error) {
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	contact := models.Contact{
		ApplicationID: app.ID,
		Name:          req.Name,
		Role:          req.Role,
		Email:         req.Email,
		Phone:         req.Phone,
		Notes:         req.Notes,
	}
	if err := s.DB.WithContext(ctx).Create(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// RemoveContact unlinks a contact from the record.
func (s *JobService) RemoveContact(ctx context.Context, userID uint, id string, contactID uint) error {
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).
		Where("application_id = ? AND id = ?", app.ID, contactID).
		Delete(&models.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
