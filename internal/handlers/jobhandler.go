package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jibbitats/jibbit-ats/internal/dtos"
	"github.com/jibbitats/jibbit-ats/internal/logger"
	"github.com/jibbitats/jibbit-ats/internal/models"
	"github.com/jibbitats/jibbit-ats/internal/pipeline"
	"github.com/jibbitats/jibbit-ats/internal/query"
	"github.com/jibbitats/jibbit-ats/internal/services"
)

type JobHandler struct {
	Jobs *services.JobService
	LLM  *services.LLMService
	Log  *logger.Logger

	// DefaultUserID backs requests without an X-User-ID header.
	DefaultUserID uint
}

func NewJobHandler(jobs *services.JobService, llm *services.LLMService, log *logger.Logger, defaultUserID uint) *JobHandler {
	return &JobHandler{Jobs: jobs, LLM: llm, Log: log, DefaultUserID: defaultUserID}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *JobHandler) userID(c *gin.Context) uint {
	if raw := c.GetHeader("X-User-ID"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			return uint(id)
		}
	}
	return h.DefaultUserID
}

// respondError maps the core's typed errors onto HTTP codes. Every core
// error is recoverable by the caller fixing its input, so they are all 4xx.
func respondError(c *gin.Context, err error) {
	var unknownStatus *models.UnknownStatusError
	var invalidCriteria *query.InvalidCriteriaError
	var noHistory *pipeline.NoHistoryError
	switch {
	case errors.As(err, &unknownStatus),
		errors.As(err, &invalidCriteria),
		errors.As(err, &noHistory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Extract is the POST /jobs/extract endpoint: raw posting HTML in, a
// structured creation draft out.
func (h *JobHandler) Extract(c *gin.Context) {
	var req dtos.JobExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if h.LLM == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "extraction is not configured"})
		return
	}
	extractedJSON, err := h.LLM.ExtractJobDetails(c.Request.Context(), req.RawHTML)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI Extraction failed: " + err.Error()})
		return
	}
	// json.RawMessage keeps the inner JSON from being escaped
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    json.RawMessage(extractedJSON),
	})
}

// Create is the POST /jobs endpoint.
func (h *JobHandler) Create(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	app, err := h.Jobs.Create(c.Request.Context(), h.userID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// List is the GET /jobs endpoint. Filter criteria come from the query
// string, mirroring the UI's URL-synchronized filter state.
func (h *JobHandler) List(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	apps, err := h.Jobs.List(c.Request.Context(), h.userID(c), criteria)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": apps, "count": len(apps)})
}

func criteriaFromQuery(c *gin.Context) (query.FilterCriteria, error) {
	criteria := query.FilterCriteria{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Archived:  c.Query("archived") == "true",
	}
	if raw := c.Query("status"); raw != "" {
		st := models.Status(raw)
		criteria.Status = &st
	}
	if raw := c.Query("salary_min"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, &query.InvalidCriteriaError{Reason: "salary_min is not a number"}
		}
		criteria.SalaryMin = &v
	}
	if raw := c.Query("salary_max"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, &query.InvalidCriteriaError{Reason: "salary_max is not a number"}
		}
		criteria.SalaryMax = &v
	}
	if raw := c.Query("deadline_from"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return criteria, &query.InvalidCriteriaError{Reason: "deadline_from is not a date"}
		}
		criteria.DeadlineFrom = &t
	}
	if raw := c.Query("deadline_to"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return criteria, &query.InvalidCriteriaError{Reason: "deadline_to is not a date"}
		}
		criteria.DeadlineTo = &t
	}
	return criteria, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// Get is the GET /jobs/:id endpoint.
func (h *JobHandler) Get(c *gin.Context) {
	app, err := h.Jobs.Get(c.Request.Context(), h.userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Update is the PUT /jobs/:id endpoint.
func (h *JobHandler) Update(c *gin.Context) {
	var req dtos.JobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	app, err := h.Jobs.Update(c.Request.Context(), h.userID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Transition is the POST /jobs/:id/status endpoint.
func (h *JobHandler) Transition(c *gin.Context) {
	var req dtos.StatusTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	app, err := h.Jobs.Transition(c.Request.Context(), h.userID(c), c.Param("id"), models.Status(req.Status), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// StatusAt is the GET /jobs/:id/status-at endpoint: what was the status at
// time t (RFC3339 or YYYY-MM-DD).
func (h *JobHandler) StatusAt(c *gin.Context) {
	raw := c.Query("t")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter t is required"})
		return
	}
	at, err := parseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "t is not a valid timestamp"})
		return
	}
	status, err := h.Jobs.StatusAt(c.Request.Context(), h.userID(c), c.Param("id"), at)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.StatusAtResponse{
		ApplicationID: c.Param("id"),
		At:            at,
		Status:        status,
	})
}

// Archive is the POST /jobs/:id/archive endpoint.
func (h *JobHandler) Archive(c *gin.Context) {
	if err := h.Jobs.Archive(c.Request.Context(), h.userID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"archived": true})
}

// Unarchive is the POST /jobs/:id/unarchive endpoint.
func (h *JobHandler) Unarchive(c *gin.Context) {
	if err := h.Jobs.Unarchive(c.Request.Context(), h.userID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"archived": false})
}

// Delete is the DELETE /jobs/:id endpoint (hard delete).
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.Jobs.Delete(c.Request.Context(), h.userID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddContact is the POST /jobs/:id/contacts endpoint.
func (h *JobHandler) AddContact(c *gin.Context) {
	var req dtos.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	contact, err := h.Jobs.AddContact(c.Request.Context(), h.userID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// RemoveContact is the DELETE /jobs/:id/contacts/:contactID endpoint.
func (h *JobHandler) RemoveContact(c *gin.Context) {
	contactID, err := strconv.ParseUint(c.Param("contactID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}
	if err := h.Jobs.RemoveContact(c.Request.Context(), h.userID(c), c.Param("id"), uint(contactID)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
