package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portssvc "github.com/falconsoft3d/falconerp/internal/core/ports/services"
	"github.com/falconsoft3d/falconerp/internal/dto"
	"github.com/falconsoft3d/falconerp/internal/middleware"
)

// sequenceHandler handles HTTP requests for document numbering series.
type sequenceHandler struct {
	sequenceService portssvc.SequenceSvcFacade
}

// newSequenceHandler creates a new sequenceHandler.
func newSequenceHandler(ss portssvc.SequenceSvcFacade) *sequenceHandler {
	return &sequenceHandler{sequenceService: ss}
}

// RegisterSeriesRoutes registers numbering series routes on the company group.
func RegisterSeriesRoutes(rg *gin.RouterGroup, sequenceService portssvc.SequenceSvcFacade) {
	h := newSequenceHandler(sequenceService)

	series := rg.Group("/series")
	{
		series.GET("/:document_type", h.getSeries)
	}
}

// getSeries godoc
// @Summary Inspect a document numbering series
// @Description Returns the series configuration and the counter value the next allocation will receive, without advancing it
// @Tags series
// @Produce  json
// @Param   company_id path string true "Company ID"
// @Param   document_type path string true "Document type" Enums(SALES_INVOICE, PURCHASE_INVOICE, QUOTE, WORK_ORDER, JOURNAL)
// @Success 200 {object} dto.NumberingSeriesResponse
// @Failure 400 {object} map[string]string "Unknown document type"
// @Failure 403 {object} map[string]string "Not a member of the company"
// @Failure 404 {object} map[string]string "Series not found"
// @Security BearerAuth
// @Router /companies/{company_id}/series/{document_type} [get]
func (h *sequenceHandler) getSeries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	docType := domain.DocumentType(c.Param("document_type"))

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	series, err := h.sequenceService.Peek(c.Request.Context(), companyID, docType, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve numbering series")
		return
	}

	c.JSON(http.StatusOK, dto.ToNumberingSeriesResponse(series))
}
