package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leasepay/lease_management_app/internal/apperrors"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/core/services"
	"github.com/leasepay/lease_management_app/internal/dto"
	"github.com/leasepay/lease_management_app/internal/middleware"
)

// advanceRentHandler handles HTTP requests for advance-rent collection,
// coverage queries and allocation.
type advanceRentHandler struct {
	advanceRentService portssvc.AdvanceRentSvcFacade
}

// newAdvanceRentHandler creates a new advanceRentHandler.
func newAdvanceRentHandler(advanceRentService portssvc.AdvanceRentSvcFacade) *advanceRentHandler {
	return &advanceRentHandler{
		advanceRentService: advanceRentService,
	}
}

// collectAdvanceRent godoc
// @Summary Record an advance-rent collection
// @Description Records a lump-sum advance payment, resets the account's usage and appends a ledger entry
// @Tags advance-rent
// @Accept  json
// @Produce  json
// @Param   leaseAccountID path string true "Lease Account ID"
// @Param   collection body dto.CollectAdvanceRentRequest true "Collection"
// @Success 200 {object} dto.CollectAdvanceRentResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 404 {object} ErrorResponse "Lease account not found"
// @Failure 409 {object} ErrorResponse "Lease is not active"
// @Failure 500 {object} ErrorResponse "Failed to record collection"
// @Router /lease-accounts/{leaseAccountID}/advance-rent [post]
func (h *advanceRentHandler) collectAdvanceRent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	leaseAccountID := c.Param("leaseAccountID")

	collectReq := dto.CollectAdvanceRentRequest{}
	if err := c.ShouldBindJSON(&collectReq); err != nil {
		logger.Error("Failed to bind JSON for CollectAdvanceRent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	collectReq.UserID = userID

	account, entry, err := h.advanceRentService.Collect(c.Request.Context(), leaseAccountID, collectReq)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Lease account not found", slog.String("lease_account_id", leaseAccountID))
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Lease account not found"})
		case errors.Is(err, services.ErrLeaseNotActive):
			logger.Warn("Collection rejected: lease not active", slog.String("lease_account_id", leaseAccountID))
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, services.ErrInvalidCollection), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error collecting advance rent", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to collect advance rent", slog.String("error", err.Error()), slog.String("lease_account_id", leaseAccountID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record collection"})
		}
		return
	}

	logger.Info("Advance rent collected",
		slog.String("lease_account_id", leaseAccountID),
		slog.Int("months", collectReq.Months))
	c.JSON(http.StatusOK, dto.CollectAdvanceRentResponse{
		LeaseAccount: dto.ToLeaseAccountResponse(account),
		LedgerEntry:  dto.ToLedgerEntryResponse(entry),
	})
}

// checkCoverage godoc
// @Summary Check advance-rent coverage for a date
// @Description Reports whether the account's advance balance covers an invoice on the given date
// @Tags advance-rent
// @Produce  json
// @Param   leaseAccountID path string true "Lease Account ID"
// @Param   invoiceDate query string true "Invoice date (YYYY-MM-DD)"
// @Success 200 {object} dto.CoverageResponse
// @Failure 400 {object} ErrorResponse "Invalid invoice date"
// @Failure 404 {object} ErrorResponse "Lease account not found"
// @Failure 500 {object} ErrorResponse "Failed to check coverage"
// @Router /lease-accounts/{leaseAccountID}/advance-rent/coverage [get]
func (h *advanceRentHandler) checkCoverage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	leaseAccountID := c.Param("leaseAccountID")

	invoiceDate, err := time.Parse("2006-01-02", c.Query("invoiceDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invoiceDate must be formatted YYYY-MM-DD"})
		return
	}

	coverage, err := h.advanceRentService.CheckCoverage(c.Request.Context(), leaseAccountID, invoiceDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Lease account not found", slog.String("lease_account_id", leaseAccountID))
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Lease account not found"})
			return
		}
		logger.Error("Failed to check coverage", slog.String("error", err.Error()), slog.String("lease_account_id", leaseAccountID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to check coverage"})
		return
	}

	c.JSON(http.StatusOK, coverage)
}

// applyRetroactively godoc
// @Summary Retroactively apply the advance balance
// @Description Drains the current advance balance across eligible invoices in chronological order
// @Tags advance-rent
// @Produce  json
// @Param   leaseAccountID path string true "Lease Account ID"
// @Success 200 {object} dto.RetroactiveResult
// @Failure 404 {object} ErrorResponse "Lease account not found"
// @Failure 500 {object} ErrorResponse "Failed to apply advance rent"
// @Router /lease-accounts/{leaseAccountID}/advance-rent/apply [post]
func (h *advanceRentHandler) applyRetroactively(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	leaseAccountID := c.Param("leaseAccountID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.advanceRentService.RetroactivelyApply(c.Request.Context(), leaseAccountID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Lease account not found", slog.String("lease_account_id", leaseAccountID))
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Lease account not found"})
			return
		}
		logger.Error("Failed to retroactively apply advance rent", slog.String("error", err.Error()), slog.String("lease_account_id", leaseAccountID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to apply advance rent"})
		return
	}

	logger.Info("Retroactive allocation completed",
		slog.String("lease_account_id", leaseAccountID),
		slog.Int("processed_count", result.ProcessedCount))
	c.JSON(http.StatusOK, result)
}

// applyToInvoice godoc
// @Summary Apply the advance balance to one invoice
// @Description Applies as much of the account's remaining advance balance as the invoice needs
// @Tags advance-rent
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.ApplicationResult
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Invoice is cancelled"
// @Failure 500 {object} ErrorResponse "Failed to apply advance rent"
// @Router /invoices/{invoiceID}/apply-advance [post]
func (h *advanceRentHandler) applyToInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.advanceRentService.ApplyToInvoice(c.Request.Context(), invoiceID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Invoice not found", slog.String("invoice_id", invoiceID))
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Invoice not found"})
		case errors.Is(err, services.ErrInvoiceCancelled):
			logger.Warn("Cannot apply advance rent to cancelled invoice", slog.String("invoice_id", invoiceID))
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to apply advance rent", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to apply advance rent"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// RegisterAdvanceRentRoutes registers advance-rent specific routes
func RegisterAdvanceRentRoutes(group *gin.RouterGroup, advanceRentService portssvc.AdvanceRentSvcFacade) {
	h := newAdvanceRentHandler(advanceRentService)

	group.POST("/lease-accounts/:leaseAccountID/advance-rent", h.collectAdvanceRent)
	group.GET("/lease-accounts/:leaseAccountID/advance-rent/coverage", h.checkCoverage)
	group.POST("/lease-accounts/:leaseAccountID/advance-rent/apply", h.applyRetroactively)
	group.POST("/invoices/:invoiceID/apply-advance", h.applyToInvoice)
}
