package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/SscSPs/finance_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler exposes the posting engine to collaborating modules.
type postingHandler struct {
	postingService portssvc.PostingWriterSvc
}

func newPostingHandler(ps portssvc.PostingWriterSvc) *postingHandler {
	return &postingHandler{postingService: ps}
}

func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingWriterSvc) {
	h := newPostingHandler(postingService)

	postings := rg.Group("/postings")
	{
		postings.POST("", h.post)
		postings.DELETE("/:sourceModule/:sourceReferenceID", h.unpost)
	}
}

// post godoc
// @Summary Post a business event to the ledger
// @Description Translates a cash box, staff advance or voucher event into one balanced journal entry. Posting the same source reference twice returns the existing entry.
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   event body dto.PostEventRequest true "Source event"
// @Success 201 {object} dto.PostEventResponse "Entry created"
// @Success 200 {object} dto.PostEventResponse "Already posted"
// @Failure 400 {object} dto.ErrorResponse "Invalid event"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Source reference stored twice"
// @Failure 422 {object} dto.ErrorResponse "Account resolution failed or entry not balanced"
// @Failure 503 {object} dto.ErrorResponse "Entry numbering kept losing races"
// @Failure 500 {object} dto.ErrorResponse "Failed to post event"
// @Security BearerAuth
// @Router /postings [post]
func (h *postingHandler) post(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Post", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	event, err := req.ToSourceEvent(userID)
	if err != nil {
		logger.Warn("Invalid posting request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	logger = logger.With(
		slog.String("source_module", req.SourceModule),
		slog.String("source_reference_id", req.SourceReferenceID),
	)
	logger.Info("Received posting request", slog.String("event_type", req.EventType))

	result, err := h.postingService.Post(c.Request.Context(), event)
	if err != nil {
		respondError(c, logger, err, "Failed to post event")
		return
	}

	status := http.StatusCreated
	if result.AlreadyPosted {
		status = http.StatusOK
	}
	c.JSON(status, dto.PostEventResponse{
		EntryID:       result.Entry.EntryID,
		EntryNumber:   result.Entry.EntryNumber,
		AlreadyPosted: result.AlreadyPosted,
	})
}

// unpost godoc
// @Summary Remove the posting of a source event
// @Description Deletes the journal entry and lines posted for the source reference. Used when the source record is deleted.
// @Tags postings
// @Produce  json
// @Param   sourceModule path string true "Source module (CASH_BOX, STAFF_ADVANCE, PAYMENT_VOUCHER, RECEIPT_VOUCHER)"
// @Param   sourceReferenceID path string true "Source reference ID"
// @Success 200 {object} dto.JournalEntryResponse "Deleted entry"
// @Failure 400 {object} dto.ErrorResponse "Entry has been reversed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "No entry for the source reference"
// @Failure 500 {object} dto.ErrorResponse "Failed to unpost event"
// @Security BearerAuth
// @Router /postings/{sourceModule}/{sourceReferenceID} [delete]
func (h *postingHandler) unpost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	module := domain.SourceModule(strings.ToUpper(c.Param("sourceModule")))
	referenceID := c.Param("sourceReferenceID")

	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("source_module", string(module)), slog.String("source_reference_id", referenceID))
	logger.Info("Received unpost request")

	entry, err := h.postingService.Unpost(c.Request.Context(), module, referenceID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to unpost event")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}
