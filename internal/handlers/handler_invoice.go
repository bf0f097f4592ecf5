package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/leasepay/lease_management_app/internal/apperrors"
	portssvc "github.com/leasepay/lease_management_app/internal/core/ports/services"
	"github.com/leasepay/lease_management_app/internal/core/services"
	"github.com/leasepay/lease_management_app/internal/dto"
	"github.com/leasepay/lease_management_app/internal/middleware"
)

// invoiceHandler handles HTTP requests related to invoices and generation runs.
type invoiceHandler struct {
	invoiceService   portssvc.InvoiceSvcFacade
	schedulerService portssvc.SchedulerSvcFacade
}

// newInvoiceHandler creates a new invoiceHandler.
func newInvoiceHandler(invoiceService portssvc.InvoiceSvcFacade, schedulerService portssvc.SchedulerSvcFacade) *invoiceHandler {
	return &invoiceHandler{
		invoiceService:   invoiceService,
		schedulerService: schedulerService,
	}
}

// parseOptionalInvoiceDate reads an optional invoiceDate query parameter.
func parseOptionalInvoiceDate(c *gin.Context) (*time.Time, error) {
	raw := c.Query("invoiceDate")
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// getInvoice godoc
// @Summary Get an invoice
// @Description Retrieves an invoice by its ID
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve invoice"
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Invoice not found", slog.String("invoice_id", invoiceID))
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Invoice not found"})
			return
		}
		logger.Error("Failed to get invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve invoice"})
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// listInvoices godoc
// @Summary List invoices for a lease account
// @Description Retrieves a paginated list of invoices, newest first
// @Tags invoices
// @Produce  json
// @Param   leaseAccountID path string true "Lease Account ID"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} map[string]interface{} "invoices and optional nextToken"
// @Failure 400 {object} ErrorResponse "Invalid pagination token"
// @Failure 500 {object} ErrorResponse "Failed to list invoices"
// @Router /lease-accounts/{leaseAccountID}/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	leaseAccountID := c.Param("leaseAccountID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	invoices, newToken, err := h.invoiceService.ListInvoicesByLeaseAccount(c.Request.Context(), leaseAccountID, limit, nextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list invoices", slog.String("error", err.Error()), slog.String("lease_account_id", leaseAccountID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list invoices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "nextToken": newToken})
}

// markInvoicePaid godoc
// @Summary Mark an invoice as paid
// @Description Records an external payment against an invoice
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Param   payment body dto.MarkInvoicePaidRequest true "Payment"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 404 {object} ErrorResponse "Invoice not found"
// @Failure 409 {object} ErrorResponse "Invoice already paid"
// @Failure 500 {object} ErrorResponse "Failed to mark invoice paid"
// @Router /invoices/{invoiceID}/pay [post]
func (h *invoiceHandler) markInvoicePaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	payReq := dto.MarkInvoicePaidRequest{}
	if err := c.ShouldBindJSON(&payReq); err != nil {
		logger.Error("Failed to bind JSON for MarkInvoicePaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	payReq.UserID = userID

	invoice, err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), invoiceID, payReq)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Invoice not found", slog.String("invoice_id", invoiceID))
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Invoice not found"})
		case errors.Is(err, services.ErrInvoiceAlreadyPaid):
			logger.Warn("Invoice already paid", slog.String("invoice_id", invoiceID))
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to mark invoice paid", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to mark invoice paid"})
		}
		return
	}

	logger.Info("Invoice marked paid", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, invoice)
}

// generateInvoices godoc
// @Summary Generate invoices for a landlord
// @Description Idempotently creates the period's invoices for all active lease accounts
// @Tags invoices
// @Produce  json
// @Param   landlordID path string true "Landlord ID"
// @Param   invoiceDate query string false "Invoice date (YYYY-MM-DD), defaults to the first of the current month"
// @Success 200 {object} dto.GenerationResult
// @Failure 400 {object} ErrorResponse "Invalid invoice date"
// @Failure 500 {object} ErrorResponse "Generation failed"
// @Router /landlords/{landlordID}/invoices/generate [post]
func (h *invoiceHandler) generateInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	landlordID := c.Param("landlordID")

	invoiceDate, err := parseOptionalInvoiceDate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invoiceDate must be formatted YYYY-MM-DD"})
		return
	}

	result, err := h.invoiceService.GenerateForLandlord(c.Request.Context(), landlordID, invoiceDate)
	if err != nil {
		logger.Error("Invoice generation failed", slog.String("error", err.Error()), slog.String("landlord_id", landlordID))
		// A partial result still tells the caller which accounts failed.
		if result != nil {
			c.JSON(http.StatusInternalServerError, result)
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Generation failed"})
		return
	}

	logger.Info("Invoice generation completed",
		slog.String("landlord_id", landlordID),
		slog.Int("created_count", result.CreatedCount),
		slog.Int("skipped_count", result.SkippedCount))
	c.JSON(http.StatusOK, result)
}

// generateForAllLandlords godoc
// @Summary Run the scheduled generation sweep now
// @Description Generates invoices for every landlord whose auto-invoice day matches today
// @Tags invoices
// @Produce  json
// @Param   invoiceDate query string false "Invoice date (YYYY-MM-DD)"
// @Success 200 {object} dto.BatchGenerationResult
// @Failure 400 {object} ErrorResponse "Invalid invoice date"
// @Failure 500 {object} ErrorResponse "Batch generation failed"
// @Router /invoices/generation-runs [post]
func (h *invoiceHandler) generateForAllLandlords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invoiceDate, err := parseOptionalInvoiceDate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invoiceDate must be formatted YYYY-MM-DD"})
		return
	}

	result, err := h.schedulerService.GenerateForAllEnabled(c.Request.Context(), invoiceDate)
	if err != nil {
		logger.Error("Batch generation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Batch generation failed"})
		return
	}

	logger.Info("Batch generation completed",
		slog.Int("processed", result.Processed),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed))
	c.JSON(http.StatusOK, result)
}

// registerInvoiceRoutes registers invoice specific routes
func registerInvoiceRoutes(group *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, schedulerService portssvc.SchedulerSvcFacade) {
	h := newInvoiceHandler(invoiceService, schedulerService)

	// Generation is expensive; cap manual triggers per IP.
	rate, _ := limiter.NewRateFromFormatted("10-M")
	generationLimiter := limiter.New(memory.NewStore(), rate)
	limitMiddleware := middleware.RateLimit(generationLimiter)

	group.GET("/invoices/:invoiceID", h.getInvoice)
	group.POST("/invoices/:invoiceID/pay", h.markInvoicePaid)
	group.GET("/lease-accounts/:leaseAccountID/invoices", h.listInvoices)
	group.POST("/landlords/:landlordID/invoices/generate", limitMiddleware, h.generateInvoices)
	group.POST("/invoices/generation-runs", limitMiddleware, h.generateForAllLandlords)
}
