package api

import (
	"errors"
	"net/http"
	"time"

	"fitlink/pt-marketplace/internal/domain"
	"fitlink/pt-marketplace/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleHandler holds the schedule service dependency.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// --- DTOs for API (Data Transfer Objects) ---

// GenerateScheduleRequest defines the expected JSON for generating a schedule.
type GenerateScheduleRequest struct {
	PackageID    string `json:"packageId" binding:"required"`
	StartDate    string `json:"startDate"` // "YYYY-MM-DD", defaults to today
	CarryForward *bool  `json:"carryForward"`
	SpreadWeekly bool   `json:"spreadWeekly"`
}

// ScheduleDraftRequest is the inline package descriptor for draft previews.
type ScheduleDraftRequest struct {
	TotalSessions      int                   `json:"totalSessions" binding:"required"`
	SessionDurationMin int                   `json:"sessionDurationMin" binding:"required"`
	Recurrence         DraftRecurrenceFields `json:"recurrence"`
}

// DraftRecurrenceFields carries the weekday patterns of a draft. The field
// type tolerates both flat and nested daysOfWeek shapes.
type DraftRecurrenceFields struct {
	DaysOfWeek domain.WeekdayPatterns `json:"daysOfWeek"`
}

// PreviewDraftRequest defines the body of a draft preview call.
type PreviewDraftRequest struct {
	StartDate    string               `json:"startDate"`
	Draft        ScheduleDraftRequest `json:"draft" binding:"required"`
	CarryForward *bool                `json:"carryForward"`
	SpreadWeekly bool                 `json:"spreadWeekly"`
}

// parseBaseDate accepts "YYYY-MM-DD" (preferred) or a full RFC3339 timestamp.
// Empty input yields a zero time, which the service treats as "today".
func parseBaseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// Preview responses must never be cached: the slot list depends on "now".
func setNoCacheHeaders(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}

func (h *ScheduleHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPackageNotFound):
		abortWithError(c, http.StatusNotFound, "Package not found.")
	case errors.Is(err, service.ErrTrainerProfileNotFound):
		abortWithError(c, http.StatusBadRequest, "Trainer profile not found.")
	case errors.Is(err, service.ErrNoSlotsGenerated):
		abortWithError(c, http.StatusBadRequest, "No slots generated.")
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to build schedule.")
	}
}

// --- Handler Methods ---

// PreviewSchedule godoc
// @Summary Preview the generated schedule for a package
// @Description Computes the candidate slot list for a package without persisting anything. Carry-forward of expired unclaimed slots is on by default; disable with carryForward=0.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param packageId query string true "Package ID"
// @Param startDate query string false "Base date YYYY-MM-DD (defaults to today)"
// @Param carryForward query string false "Set 0 or false to disable carry-forward"
// @Param spreadWeekly query string false "Set 1 or true to fan carried slots out weekly"
// @Success 200 {object} gin.H "slots"
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Package not found"
// @Router /schedule/preview [get]
func (h *ScheduleHandler) PreviewSchedule(c *gin.Context) {
	packageIDStr := c.Query("packageId")
	if packageIDStr == "" {
		abortWithError(c, http.StatusBadRequest, "Missing packageId.")
		return
	}
	packageID, err := primitive.ObjectIDFromHex(packageIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid packageId format.")
		return
	}

	baseDate, err := parseBaseDate(c.Query("startDate"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid startDate format.")
		return
	}

	carryForward := c.Query("carryForward")
	spreadWeekly := c.Query("spreadWeekly")
	opts := service.ScheduleOptions{
		BaseDate:     baseDate,
		CarryForward: !(carryForward == "0" || carryForward == "false"),
		SpreadWeekly: spreadWeekly == "1" || spreadWeekly == "true",
	}

	slots, err := h.scheduleService.Preview(c.Request.Context(), packageID, opts)
	if err != nil {
		h.respondError(c, err)
		return
	}

	setNoCacheHeaders(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "slots": slots})
}

// GenerateSchedule godoc
// @Summary Generate and persist the schedule for a package
// @Description Materializes the slot list as OPEN slots. Slots already present (same trainer and start time) are skipped, so the call is safe to re-run.
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GenerateScheduleRequest true "Generation parameters"
// @Success 201 {object} gin.H "inserted count"
// @Failure 400 {object} gin.H "Validation error or no slots generated"
// @Failure 404 {object} gin.H "Package not found"
// @Router /schedule/generate [post]
func (h *ScheduleHandler) GenerateSchedule(c *gin.Context) {
	var req GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	packageID, err := primitive.ObjectIDFromHex(req.PackageID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid packageId format.")
		return
	}
	baseDate, err := parseBaseDate(req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid startDate format.")
		return
	}

	opts := service.ScheduleOptions{
		BaseDate:     baseDate,
		CarryForward: req.CarryForward == nil || *req.CarryForward, // default on
		SpreadWeekly: req.SpreadWeekly,
	}

	inserted, err := h.scheduleService.Generate(c.Request.Context(), packageID, opts)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "inserted": inserted})
}

// PreviewScheduleDraft godoc
// @Summary Preview a schedule for a not-yet-saved package draft
// @Description Same as preview, but the package descriptor comes inline and the trainer is taken from the bearer token.
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PreviewDraftRequest true "Draft preview parameters"
// @Success 200 {object} gin.H "slots"
// @Failure 400 {object} gin.H "Validation error"
// @Router /schedule/preview-draft [post]
func (h *ScheduleHandler) PreviewScheduleDraft(c *gin.Context) {
	var req PreviewDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return
	}
	trainerID, err := primitive.ObjectIDFromHex(trainerIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format in token.")
		return
	}

	baseDate, err := parseBaseDate(req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid startDate format.")
		return
	}

	draft := service.ScheduleDraft{
		TotalSessions:      req.Draft.TotalSessions,
		SessionDurationMin: req.Draft.SessionDurationMin,
		DaysOfWeek:         [][]int(req.Draft.Recurrence.DaysOfWeek),
	}
	opts := service.ScheduleOptions{
		BaseDate:     baseDate,
		CarryForward: req.CarryForward == nil || *req.CarryForward,
		SpreadWeekly: req.SpreadWeekly,
	}

	slots, err := h.scheduleService.PreviewDraft(c.Request.Context(), trainerID, draft, opts)
	if err != nil {
		h.respondError(c, err)
		return
	}

	setNoCacheHeaders(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "slots": slots})
}
