package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portssvc "github.com/falconsoft3d/falconerp/internal/core/ports/services"
	"github.com/falconsoft3d/falconerp/internal/dto"
	"github.com/falconsoft3d/falconerp/internal/middleware"
)

// quoteHandler handles HTTP requests related to quotes.
type quoteHandler struct {
	quoteService portssvc.QuoteSvcFacade
}

// newQuoteHandler creates a new quoteHandler.
func newQuoteHandler(qs portssvc.QuoteSvcFacade) *quoteHandler {
	return &quoteHandler{quoteService: qs}
}

// registerQuoteRoutes registers quote routes nested under a company.
func registerQuoteRoutes(rg *gin.RouterGroup, quoteService portssvc.QuoteSvcFacade) {
	h := newQuoteHandler(quoteService)

	quotes := rg.Group("/quotes")
	{
		quotes.POST("", h.createQuote)
		quotes.GET("", h.listQuotes)
		quotes.GET("/:quote_id", h.getQuote)
		quotes.PUT("/:quote_id/status", h.updateQuoteStatus)
	}
}

// createQuote godoc
// @Summary Create a quote
// @Description Computes item totals and allocates the next year-embedded number (e.g. COT-2025-007).
// @Tags quotes
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   quote body dto.CreateQuoteRequest true "Quote details"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Requires member role"
// @Security BearerAuth
// @Router /companies/{company_id}/quotes [post]
func (h *quoteHandler) createQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createQuote", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create quote")
		return
	}

	c.JSON(http.StatusCreated, dto.ToQuoteResponse(quote))
}

// listQuotes godoc
// @Summary List quotes in a company
// @Tags quotes
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListQuotesResponse
// @Failure 404 {object} map[string]string "Company not found"
// @Security BearerAuth
// @Router /companies/{company_id}/quotes [get]
func (h *quoteHandler) listQuotes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ListQuotesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.quoteService.ListQuotes(c.Request.Context(), companyID, userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list quotes")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getQuote godoc
// @Summary Get a quote with its items
// @Tags quotes
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   quote_id path string true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} map[string]string "Quote not found"
// @Security BearerAuth
// @Router /companies/{company_id}/quotes/{quote_id} [get]
func (h *quoteHandler) getQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	quoteID := c.Param("quote_id")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	quote, err := h.quoteService.GetQuoteByID(c.Request.Context(), companyID, quoteID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve quote")
		return
	}

	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// updateQuoteStatus godoc
// @Summary Transition a quote's status
// @Description DRAFT -> SENT -> ACCEPTED or REJECTED.
// @Tags quotes
// @Accept  json
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   quote_id path string true "Quote ID"
// @Param   status body dto.UpdateQuoteStatusRequest true "Target status"
// @Success 200 {object} dto.QuoteResponse
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Security BearerAuth
// @Router /companies/{company_id}/quotes/{quote_id}/status [put]
func (h *quoteHandler) updateQuoteStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	quoteID := c.Param("quote_id")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateQuoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateQuoteStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	quote, err := h.quoteService.UpdateQuoteStatus(c.Request.Context(), companyID, quoteID, domain.QuoteStatus(req.Status), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update quote status")
		return
	}

	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}
