package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leasepay/lease_management_app/internal/apperrors"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/middleware"
)

// landlordHandler handles HTTP requests for landlord configuration reads.
type landlordHandler struct {
	landlordService portssvc.LandlordSvcFacade
}

// newLandlordHandler creates a new landlordHandler.
func newLandlordHandler(landlordService portssvc.LandlordSvcFacade) *landlordHandler {
	return &landlordHandler{
		landlordService: landlordService,
	}
}

// getLandlord godoc
// @Summary Get a landlord's configuration
// @Description Retrieves a landlord with its auto-invoice settings and last run outcome
// @Tags landlords
// @Produce  json
// @Param   landlordID path string true "Landlord ID"
// @Success 200 {object} dto.LandlordResponse
// @Failure 404 {object} ErrorResponse "Landlord not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve landlord"
// @Router /landlords/{landlordID} [get]
func (h *landlordHandler) getLandlord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	landlordID := c.Param("landlordID")

	landlord, err := h.landlordService.GetLandlordByID(c.Request.Context(), landlordID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Landlord not found", slog.String("landlord_id", landlordID))
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Landlord not found"})
			return
		}
		logger.Error("Failed to retrieve landlord", slog.String("error", err.Error()), slog.String("landlord_id", landlordID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve landlord"})
		return
	}

	c.JSON(http.StatusOK, landlord)
}

// listLandlords godoc
// @Summary List landlords
// @Description Retrieves all landlords with their auto-invoice settings
// @Tags landlords
// @Produce  json
// @Success 200 {array} dto.LandlordResponse
// @Failure 500 {object} ErrorResponse "Failed to list landlords"
// @Router /landlords [get]
func (h *landlordHandler) listLandlords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	landlords, err := h.landlordService.ListLandlords(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list landlords", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list landlords"})
		return
	}

	c.JSON(http.StatusOK, landlords)
}

// registerLandlordRoutes registers landlord specific routes
func registerLandlordRoutes(group *gin.RouterGroup, landlordService portssvc.LandlordSvcFacade) {
	h := newLandlordHandler(landlordService)

	group.GET("/landlords", h.listLandlords)
	group.GET("/landlords/:landlordID", h.getLandlord)
}
