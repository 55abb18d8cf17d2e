package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jibbitats/jibbit-ats/internal/logger"
	"github.com/jibbitats/jibbit-ats/internal/services"
)

type StatsHandler struct {
	Stats *services.StatsService
	Log   *logger.Logger

	DefaultUserID uint
}

func NewStatsHandler(stats *services.StatsService, log *logger.Logger, defaultUserID uint) *StatsHandler {
	return &StatsHandler{Stats: stats, Log: log, DefaultUserID: defaultUserID}
}

func (h *StatsHandler) userID(c *gin.Context) uint {
	if raw := c.GetHeader("X-User-ID"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			return uint(id)
		}
	}
	return h.DefaultUserID
}

// Pipeline is the GET /pipeline endpoint: the board view, one column per
// stage with counts.
func (h *StatsHandler) Pipeline(c *gin.Context) {
	resp, err := h.Stats.Pipeline(c.Request.Context(), h.userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Summary is the GET /stats endpoint: the analytics dashboard numbers.
func (h *StatsHandler) Summary(c *gin.Context) {
	resp, err := h.Stats.Summary(c.Request.Context(), h.userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
