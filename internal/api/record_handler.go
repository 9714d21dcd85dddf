package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/painrelief/internal/service"
)

// RecordHandler saves and summarises a session's pain history.
type RecordHandler struct {
	trackerService service.TrackerService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(trackerService service.TrackerService) *RecordHandler {
	return &RecordHandler{trackerService: trackerService}
}

// SaveRecordRequest carries optional notes for the saved record.
type SaveRecordRequest struct {
	Metadata map[string]string `json:"metadata"`
}

// SaveRecord godoc
// @Summary Save the current selection
// @Description Appends a record for the selected region and resets the selection.
// @Tags Records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SaveRecordRequest false "Optional metadata"
// @Success 201 {object} domain.PainRecord
// @Failure 409 {object} gin.H "Nothing selected"
// @Router /records [post]
func (h *RecordHandler) SaveRecord(c *gin.Context) {
	var req SaveRecordRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	t, ok := sessionTracker(c, h.trackerService)
	if !ok {
		return
	}
	record, err := t.Save(c.Request.Context(), req.Metadata)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListRecords godoc
// @Summary List saved records
// @Description Newest first.
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.PainRecord
// @Router /records [get]
func (h *RecordHandler) ListRecords(c *gin.Context) {
	t, ok := sessionTracker(c, h.trackerService)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, t.History())
}

// ClearRecords godoc
// @Summary Delete all saved records
// @Tags Records
// @Security BearerAuth
// @Success 204
// @Router /records [delete]
func (h *RecordHandler) ClearRecords(c *gin.Context) {
	t, ok := sessionTracker(c, h.trackerService)
	if !ok {
		return
	}
	t.ClearAll(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// GetInsights godoc
// @Summary Summarise saved records
// @Tags Records
// @Produce json
// @Security BearerAuth
// @Param tz query string false "IANA time zone for time-of-day buckets"
// @Success 200 {object} service.Insights
// @Router /records/insights [get]
func (h *RecordHandler) GetInsights(c *gin.Context) {
	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Unknown time zone: "+tz)
			return
		}
		loc = l
	}
	t, ok := sessionTracker(c, h.trackerService)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, t.Insights(loc))
}
