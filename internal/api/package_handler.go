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

// PackageHandler holds the package service dependency.
type PackageHandler struct {
	packageService service.PackageService
}

// NewPackageHandler creates a new PackageHandler.
func NewPackageHandler(packageService service.PackageService) *PackageHandler {
	return &PackageHandler{packageService: packageService}
}

// --- DTOs for API (Data Transfer Objects) ---

// PackageRequest defines the expected JSON for creating or updating a package.
type PackageRequest struct {
	Name               string                 `json:"name" binding:"required"`
	Description        string                 `json:"description"`
	Price              int64                  `json:"price" binding:"omitempty,min=0"`
	TotalSessions      int                    `json:"totalSessions" binding:"required,min=1"`
	SessionDurationMin int                    `json:"sessionDurationMin" binding:"required,min=15,max=300"`
	DurationDays       int                    `json:"durationDays" binding:"required,min=1"`
	DaysOfWeek         domain.WeekdayPatterns `json:"daysOfWeek"`
	Visibility         string                 `json:"visibility" binding:"omitempty,oneof=private public"`
	Supports           *domain.DeliveryModes  `json:"supports"`
	Tags               []string               `json:"tags"`
}

// PackageResponse is the DTO for returning package details.
type PackageResponse struct {
	ID                 string                 `json:"id"`
	TrainerID          string                 `json:"trainerId"`
	Name               string                 `json:"name"`
	Description        string                 `json:"description,omitempty"`
	Price              int64                  `json:"price"`
	TotalSessions      int                    `json:"totalSessions"`
	SessionDurationMin int                    `json:"sessionDurationMin"`
	DurationDays       int                    `json:"durationDays"`
	DaysOfWeek         domain.WeekdayPatterns `json:"daysOfWeek"`
	IsActive           bool                   `json:"isActive"`
	Visibility         string                 `json:"visibility"`
	Supports           domain.DeliveryModes   `json:"supports"`
	Tags               []string               `json:"tags,omitempty"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// MapPackageToResponse converts a domain.Package to PackageResponse DTO.
func MapPackageToResponse(pkg *domain.Package) PackageResponse {
	if pkg == nil {
		return PackageResponse{}
	}
	return PackageResponse{
		ID:                 pkg.ID.Hex(),
		TrainerID:          pkg.TrainerID.Hex(),
		Name:               pkg.Name,
		Description:        pkg.Description,
		Price:              pkg.Price,
		TotalSessions:      pkg.TotalSessions,
		SessionDurationMin: pkg.SessionDurationMin,
		DurationDays:       pkg.DurationDays,
		DaysOfWeek:         pkg.Recurrence.DaysOfWeek,
		IsActive:           pkg.IsActive,
		Visibility:         string(pkg.Visibility),
		Supports:           pkg.Supports,
		Tags:               pkg.Tags,
		CreatedAt:          pkg.CreatedAt,
		UpdatedAt:          pkg.UpdatedAt,
	}
}

// MapPackagesToResponse converts a slice of domain.Package to response DTOs.
func MapPackagesToResponse(packages []domain.Package) []PackageResponse {
	responses := make([]PackageResponse, len(packages))
	for i := range packages {
		responses[i] = MapPackageToResponse(&packages[i])
	}
	return responses
}

func (r PackageRequest) toInput() service.PackageInput {
	input := service.PackageInput{
		Name:               r.Name,
		Description:        r.Description,
		Price:              r.Price,
		TotalSessions:      r.TotalSessions,
		SessionDurationMin: r.SessionDurationMin,
		DurationDays:       r.DurationDays,
		DaysOfWeek:         r.DaysOfWeek,
		Visibility:         domain.PackageVisibility(r.Visibility),
		Tags:               r.Tags,
	}
	if r.Supports != nil {
		input.Supports = *r.Supports
	}
	return input
}

func trainerIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	trainerIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer from token.")
		return primitive.NilObjectID, false
	}
	trainerID, err := primitive.ObjectIDFromHex(trainerIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format in token.")
		return primitive.NilObjectID, false
	}
	return trainerID, true
}

// --- Handler Methods ---

// CreatePackage godoc
// @Summary Create a new training package
// @Description Creates a new package for the authenticated trainer. Package names are unique per trainer.
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param package body PackageRequest true "Package details"
// @Success 201 {object} PackageResponse "Package created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Package name already taken"
// @Router /packages [post]
func (h *PackageHandler) CreatePackage(c *gin.Context) {
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	pkg, err := h.packageService.CreatePackage(c.Request.Context(), trainerID, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, "Package validation failed.")
		case errors.Is(err, service.ErrPackageNameTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create package.")
		}
		return
	}

	c.JSON(http.StatusCreated, MapPackageToResponse(pkg))
}

// GetTrainerPackages godoc
// @Summary Get packages for the authenticated trainer
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} PackageResponse "List of packages"
// @Router /packages [get]
func (h *PackageHandler) GetTrainerPackages(c *gin.Context) {
	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	packages, err := h.packageService.GetPackagesByTrainer(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve packages.")
		return
	}

	if packages == nil {
		c.JSON(http.StatusOK, []PackageResponse{})
		return
	}
	c.JSON(http.StatusOK, MapPackagesToResponse(packages))
}

// GetPackageByID godoc
// @Summary Get one package
// @Tags Packages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Success 200 {object} PackageResponse
// @Failure 404 {object} gin.H "Package not found"
// @Router /packages/{id} [get]
func (h *PackageHandler) GetPackageByID(c *gin.Context) {
	packageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid package ID format.")
		return
	}

	pkg, err := h.packageService.GetPackageByID(c.Request.Context(), packageID)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			abortWithError(c, http.StatusNotFound, "Package not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve package.")
		}
		return
	}
	c.JSON(http.StatusOK, MapPackageToResponse(pkg))
}

// UpdatePackage godoc
// @Summary Update a package
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Param package body PackageRequest true "Package details"
// @Success 200 {object} PackageResponse
// @Failure 403 {object} gin.H "Not the package owner"
// @Failure 404 {object} gin.H "Package not found"
// @Router /packages/{id} [put]
func (h *PackageHandler) UpdatePackage(c *gin.Context) {
	packageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid package ID format.")
		return
	}

	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	pkg, err := h.packageService.UpdatePackage(c.Request.Context(), trainerID, packageID, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPackageNotFound):
			abortWithError(c, http.StatusNotFound, "Package not found.")
		case errors.Is(err, service.ErrPackageAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrPackageNameTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, "Package validation failed.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update package.")
		}
		return
	}
	c.JSON(http.StatusOK, MapPackageToResponse(pkg))
}

// SetPackageActive godoc
// @Summary Activate or deactivate a package
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Success 200 {object} gin.H
// @Failure 404 {object} gin.H "Package not found"
// @Router /packages/{id}/active [patch]
func (h *PackageHandler) SetPackageActive(c *gin.Context) {
	packageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid package ID format.")
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainerID, ok := trainerIDFromContext(c)
	if !ok {
		return
	}

	if err := h.packageService.SetPackageActive(c.Request.Context(), trainerID, packageID, *req.Active); err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			abortWithError(c, http.StatusNotFound, "Package not found.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update package.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
