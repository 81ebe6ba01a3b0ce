package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fitlink/pt-marketplace/internal/domain"
	"fitlink/pt-marketplace/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerHandler holds the trainer service dependency.
type TrainerHandler struct {
	trainerService service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs for API (Data Transfer Objects) ---

// UpsertProfileRequest defines the trainer-editable profile fields.
type UpsertProfileRequest struct {
	Bio                    string                `json:"bio"`
	Specialties            []string              `json:"specialties"`
	YearsExperience        int                   `json:"yearsExperience" binding:"omitempty,min=0,max=50"`
	GymLocation            string                `json:"gymLocation"`
	WorkingHours           []domain.WorkingDay   `json:"workingHours"`
	DefaultBreakMin        int                   `json:"defaultBreakMin" binding:"omitempty,min=0"`
	DeliveryModes          *domain.DeliveryModes `json:"deliveryModes"`
	AvailableForNewClients *bool                 `json:"availableForNewClients"`
}

// CreateSingleSlotRequest defines the body for opening one ad-hoc slot.
type CreateSingleSlotRequest struct {
	StartTime time.Time             `json:"startTime" binding:"required"`
	EndTime   time.Time             `json:"endTime" binding:"required"`
	Modes     *domain.DeliveryModes `json:"modes"`
	Notes     string                `json:"notes"`
}

// UpdateSessionStatusRequest defines the body for a session status change.
type UpdateSessionStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// parsePatternQuery splits "1,3,5" into weekday ints; non-numeric entries
// are dropped, range filtering happens during normalization downstream.
func parsePatternQuery(raw string) []int {
	var pattern []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if d, err := strconv.Atoi(part); err == nil {
			pattern = append(pattern, d)
		}
	}
	return pattern
}

// --- Handler Methods ---

// GetProfile godoc
// @Summary Get the authenticated trainer's profile
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.TrainerProfile
// @Failure 404 {object} gin.H "Profile not found"
// @Router /trainer/profile [get]
func (h *TrainerHandler) GetProfile(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	profile, err := h.trainerService.GetProfile(c.Request.Context(), trainerID)
	if err != nil {
		if errors.Is(err, service.ErrTrainerProfileNotFound) {
			abortWithError(c, http.StatusNotFound, "Trainer profile not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve profile.")
		}
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpsertProfile godoc
// @Summary Create or update the authenticated trainer's profile
// @Description Working hours drive schedule generation. Malformed or inverted intervals are dropped silently.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpsertProfileRequest true "Profile fields"
// @Success 200 {object} domain.TrainerProfile
// @Router /trainer/profile [put]
func (h *TrainerHandler) UpsertProfile(c *gin.Context) {
	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	profile := &domain.TrainerProfile{
		UserID:          trainerID,
		Bio:             req.Bio,
		Specialties:     req.Specialties,
		YearsExperience: req.YearsExperience,
		GymLocation:     req.GymLocation,
		WorkingHours:    req.WorkingHours,
		DefaultBreakMin: req.DefaultBreakMin,
	}
	if req.DeliveryModes != nil {
		profile.DeliveryModes = *req.DeliveryModes
	}
	if req.AvailableForNewClients != nil {
		profile.AvailableForNewClients = *req.AvailableForNewClients
	} else {
		profile.AvailableForNewClients = true
	}

	updated, err := h.trainerService.UpsertProfile(c.Request.Context(), profile)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, "Profile validation failed.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to save profile.")
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GetSlots godoc
// @Summary List the authenticated trainer's slots
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start YYYY-MM-DD (defaults to today)"
// @Param to query string false "Range end YYYY-MM-DD (defaults to from+30d)"
// @Param status query string false "Filter by slot status"
// @Success 200 {array} domain.Slot
// @Router /trainer/slots [get]
func (h *TrainerHandler) GetSlots(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	from, err := parseBaseDate(c.Query("from"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid from date format.")
		return
	}
	to, err := parseBaseDate(c.Query("to"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid to date format.")
		return
	}

	slots, err := h.trainerService.GetSlots(c.Request.Context(), trainerID, from, to, domain.SlotStatus(c.Query("status")))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve slots.")
		return
	}
	if slots == nil {
		c.JSON(http.StatusOK, []domain.Slot{})
		return
	}
	c.JSON(http.StatusOK, slots)
}

// CreateSingleSlot godoc
// @Summary Open one ad-hoc bookable slot
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slot body CreateSingleSlotRequest true "Slot times"
// @Success 201 {object} domain.Slot
// @Failure 409 {object} gin.H "A slot already exists at this start time"
// @Router /trainer/slots [post]
func (h *TrainerHandler) CreateSingleSlot(c *gin.Context) {
	var req CreateSingleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	var modes domain.DeliveryModes
	if req.Modes != nil {
		modes = *req.Modes
	}

	slot, err := h.trainerService.CreateSingleSlot(c.Request.Context(), trainerID, req.StartTime, req.EndTime, modes, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, "Slot validation failed: end time must be after start time.")
		case errors.Is(err, service.ErrSlotTimeConflict):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create slot.")
		}
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// GetAvailabilityBlocks godoc
// @Summary Candidate session blocks for a trainer, package and weekday pattern
// @Description Slices the trainer's working hours into session-sized blocks and marks blocks already taken by a claimed slot. Public: students use this while picking a schedule.
// @Tags Availability
// @Produce json
// @Param id path string true "Trainer ID"
// @Param packageId query string true "Package ID"
// @Param pattern query string true "Comma-separated weekdays, e.g. 1,3,5"
// @Success 200 {object} gin.H "blocks"
// @Failure 400 {object} gin.H "Validation error"
// @Router /trainers/{id}/availability [get]
func (h *TrainerHandler) GetAvailabilityBlocks(c *gin.Context) {
	trainerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
		return
	}
	packageID, err := primitive.ObjectIDFromHex(c.Query("packageId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid or missing packageId.")
		return
	}
	pattern := parsePatternQuery(c.Query("pattern"))

	blocks, err := h.trainerService.AvailabilityBlocks(c.Request.Context(), trainerID, packageID, pattern)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, "trainer ID, packageId and a non-empty pattern are required")
		case errors.Is(err, service.ErrPackageNotFound):
			abortWithError(c, http.StatusNotFound, "Package not found.")
		case errors.Is(err, service.ErrTrainerProfileNotFound):
			abortWithError(c, http.StatusNotFound, "Trainer profile not found.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to compute availability.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "blocks": blocks})
}

// GetSessions godoc
// @Summary List the authenticated trainer's training sessions
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start YYYY-MM-DD"
// @Param to query string false "Range end YYYY-MM-DD"
// @Success 200 {array} domain.Session
// @Router /trainer/sessions [get]
func (h *TrainerHandler) GetSessions(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	from, err := parseBaseDate(c.Query("from"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid from date format.")
		return
	}
	to, err := parseBaseDate(c.Query("to"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid to date format.")
		return
	}

	sessions, err := h.trainerService.GetSessions(c.Request.Context(), trainerID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve sessions.")
		return
	}
	if sessions == nil {
		c.JSON(http.StatusOK, []domain.Session{})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// UpdateSessionStatus godoc
// @Summary Apply a lifecycle transition to a training session
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param request body UpdateSessionStatusRequest true "New status"
// @Success 200 {object} domain.Session
// @Failure 404 {object} gin.H "Session not found"
// @Failure 422 {object} gin.H "Invalid status transition"
// @Router /trainer/sessions/{id}/status [patch]
func (h *TrainerHandler) UpdateSessionStatus(c *gin.Context) {
	sessionID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format.")
		return
	}

	var req UpdateSessionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	session, err := h.trainerService.UpdateSessionStatus(c.Request.Context(), trainerID, sessionID, domain.SessionStatus(req.Status), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			abortWithError(c, http.StatusNotFound, "Session not found.")
		case errors.Is(err, service.ErrSessionAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidStatusTransition):
			abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update session.")
		}
		return
	}
	c.JSON(http.StatusOK, session)
}
