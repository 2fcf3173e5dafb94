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

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.PostingSvcFacade
}

func newJournalHandler(js portssvc.PostingSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.PostingSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists posted journal entries, newest first, with token based pagination
// @Tags journal
// @Produce  json
// @Param   sourceModule query string false "Filter by source module"
// @Param   from query string false "Earliest entry date (YYYY-MM-DD)"
// @Param   to query string false "Latest entry date (YYYY-MM-DD)"
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to list journal entries"
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	if _, ok := requireUser(c, logger); !ok {
		return
	}

	from, err := parseDateParam("from", params.From)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}
	to, err := parseDateParam("to", params.To)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}
	filter := domain.JournalFilter{
		SourceModule: domain.SourceModule(strings.ToUpper(params.SourceModule)),
		From:         from,
		To:           to,
	}

	entries, nextToken, err := h.journalService.ListEntries(c.Request.Context(), filter, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, dto.ListJournalEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: nextToken,
	})
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its lines
// @Tags journal
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	if _, ok := requireUser(c, logger); !ok {
		return
	}

	logger = logger.With(slog.String("entry_id", entryID))
	entry, err := h.journalService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Posts a mirror entry that cancels the given entry. Reversing twice returns the existing reversal.
// @Tags journal
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 201 {object} dto.PostEventResponse "Reversal created"
// @Success 200 {object} dto.PostEventResponse "Already reversed"
// @Failure 400 {object} dto.ErrorResponse "Entry cannot be reversed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to reverse journal entry"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("entry_id", entryID))
	logger.Info("Received request to reverse journal entry")

	result, err := h.journalService.Reverse(c.Request.Context(), entryID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse journal entry")
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
