package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leasepay/lease_management_app/internal/apperrors"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/dto"
	"github.com/leasepay/lease_management_app/internal/middleware"
)

// leaseAccountHandler handles HTTP requests related to lease accounts.
type leaseAccountHandler struct {
	leaseAccountService portssvc.LeaseAccountSvcFacade
}

// newLeaseAccountHandler creates a new leaseAccountHandler.
func newLeaseAccountHandler(leaseAccountService portssvc.LeaseAccountSvcFacade) *leaseAccountHandler {
	return &leaseAccountHandler{
		leaseAccountService: leaseAccountService,
	}
}

// createLeaseAccount godoc
// @Summary Create a lease account
// @Description Creates a new lease account binding a tenant to a unit for a landlord
// @Tags lease-accounts
// @Accept  json
// @Produce  json
// @Param   landlordID path string true "Landlord ID"
// @Param   leaseAccount body dto.CreateLeaseAccountRequest true "Lease Account"
// @Success 201 {object} dto.LeaseAccountResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create lease account"
// @Router /landlords/{landlordID}/lease-accounts [post]
func (h *leaseAccountHandler) createLeaseAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	landlordID := c.Param("landlordID")

	createReq := dto.CreateLeaseAccountRequest{}
	if err := c.ShouldBindJSON(&createReq); err != nil {
		logger.Error("Failed to bind JSON for CreateLeaseAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	createReq.UserID = creatorUserID

	account, err := h.leaseAccountService.CreateLeaseAccount(c.Request.Context(), landlordID, createReq)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating lease account", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create lease account", slog.String("error", err.Error()), slog.String("landlord_id", landlordID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create lease account"})
		return
	}

	logger.Info("Lease account created", slog.String("lease_account_id", account.LeaseAccountID))
	c.JSON(http.StatusCreated, account)
}

// getLeaseAccount godoc
// @Summary Get a lease account
// @Description Retrieves a lease account with its advance-rent state
// @Tags lease-accounts
// @Produce  json
// @Param   leaseAccountID path string true "Lease Account ID"
// @Success 200 {object} dto.LeaseAccountResponse
// @Failure 404 {object} ErrorResponse "Lease account not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve lease account"
// @Router /lease-accounts/{leaseAccountID} [get]
func (h *leaseAccountHandler) getLeaseAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	leaseAccountID := c.Param("leaseAccountID")

	account, err := h.leaseAccountService.GetLeaseAccountByID(c.Request.Context(), leaseAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Lease account not found", slog.String("lease_account_id", leaseAccountID))
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Lease account not found"})
			return
		}
		logger.Error("Failed to get lease account", slog.String("error", err.Error()), slog.String("lease_account_id", leaseAccountID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve lease account"})
		return
	}

	c.JSON(http.StatusOK, account)
}

// listLeaseAccounts godoc
// @Summary List lease accounts for a landlord
// @Description Retrieves the landlord's lease accounts, optionally restricted to active leases
// @Tags lease-accounts
// @Produce  json
// @Param   landlordID path string true "Landlord ID"
// @Param   activeOnly query bool false "Only active leases"
// @Success 200 {array} dto.LeaseAccountResponse
// @Failure 500 {object} ErrorResponse "Failed to list lease accounts"
// @Router /landlords/{landlordID}/lease-accounts [get]
func (h *leaseAccountHandler) listLeaseAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	landlordID := c.Param("landlordID")
	activeOnly := c.Query("activeOnly") == "true"

	accounts, err := h.leaseAccountService.ListLeaseAccountsByLandlord(c.Request.Context(), landlordID, activeOnly)
	if err != nil {
		logger.Error("Failed to list lease accounts", slog.String("error", err.Error()), slog.String("landlord_id", landlordID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list lease accounts"})
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// registerLeaseAccountRoutes registers lease account specific routes
func registerLeaseAccountRoutes(group *gin.RouterGroup, leaseAccountService portssvc.LeaseAccountSvcFacade) {
	h := newLeaseAccountHandler(leaseAccountService)

	group.POST("/landlords/:landlordID/lease-accounts", h.createLeaseAccount)
	group.GET("/landlords/:landlordID/lease-accounts", h.listLeaseAccounts)
	group.GET("/lease-accounts/:leaseAccountID", h.getLeaseAccount)
}
