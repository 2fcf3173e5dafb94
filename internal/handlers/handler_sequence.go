package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/SscSPs/finance_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// sequenceHandler hands out document numbers to collaborator modules.
type sequenceHandler struct {
	sequenceService portssvc.SequenceSvc
}

func registerSequenceRoutes(rg *gin.RouterGroup, sequenceService portssvc.SequenceSvc) {
	h := &sequenceHandler{sequenceService: sequenceService}
	rg.POST("/sequences/:documentKind/next", h.next)
}

// next godoc
// @Summary Allocate a document number
// @Description Returns the next PREFIX-PERIOD-NNNN number for a document kind. Numbers are never reused.
// @Tags sequences
// @Accept json
// @Produce json
// @Param documentKind path string true "Document kind or prefix (JOURNAL/JV, PAYMENT_VOUCHER/PV, RECEIPT_VOUCHER/RV, CASH_BOX/CB, STAFF_ADVANCE/SA, BANK_STATEMENT/BS)"
// @Param request body dto.NextNumberRequest true "Period key"
// @Success 200 {object} dto.NextNumberResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown kind or invalid period"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 503 {object} dto.ErrorResponse "Failed to allocate number"
// @Security BearerAuth
// @Router /sequences/{documentKind}/next [post]
func (h *sequenceHandler) next(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.NextNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for NextNumber", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	if _, ok := requireUser(c, logger); !ok {
		return
	}

	kind, err := domain.ParseDocumentKind(c.Param("documentKind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	number, err := h.sequenceService.Next(c.Request.Context(), kind, req.PeriodKey)
	if err != nil {
		respondError(c, logger.With(slog.String("document_kind", string(kind))), err, "Failed to allocate number")
		return
	}

	c.JSON(http.StatusOK, dto.NextNumberResponse{DocumentKind: string(kind), Number: number})
}
