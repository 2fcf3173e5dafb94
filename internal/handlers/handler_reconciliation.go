package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/SscSPs/finance_ledger_app/internal/middleware"
	"github.com/SscSPs/finance_ledger_app/internal/platform/analytics"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler links statement lines to ledger movements.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvc
	posthogClient         *analytics.PosthogClient
}

func newReconciliationHandler(rs portssvc.ReconciliationSvc, posthogClient *analytics.PosthogClient) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: rs, posthogClient: posthogClient}
}

func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvc, posthogClient *analytics.PosthogClient) {
	h := newReconciliationHandler(reconciliationService, posthogClient)

	rg.POST("/statements/:uploadID/reconcile", h.matchUpload)
	rg.POST("/reconciliation/bank-accounts", h.matchBankAccounts)

	lines := rg.Group("/statement-lines/:lineID/match")
	{
		lines.POST("", h.matchLine)
		lines.PUT("", h.manualMatch)
		lines.DELETE("", h.unmatch)
	}
}

// matchUpload godoc
// @Summary Reconcile a statement
// @Description Tries to match every unmatched line of the statement against bank account movements in the ledger
// @Tags reconciliation
// @Produce json
// @Param uploadID path string true "Upload ID"
// @Success 200 {object} domain.ReconciliationSummary
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Upload not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to reconcile statement"
// @Security BearerAuth
// @Router /statements/{uploadID}/reconcile [post]
func (h *reconciliationHandler) matchUpload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	uploadID := c.Param("uploadID")
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("upload_id", uploadID))
	summary, err := h.reconciliationService.MatchUpload(c.Request.Context(), uploadID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile statement")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "statement_reconciled", map[string]any{
		"processed": summary.Processed,
		"matched":   summary.Matched,
	})
	c.JSON(http.StatusOK, summary)
}

// matchBankAccounts godoc
// @Summary Reconcile bank accounts
// @Description Reconciles the unmatched statement lines of several bank accounts in parallel
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body dto.MatchBankAccountsRequest true "Bank accounts"
// @Success 200 {object} domain.ReconciliationSummary
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to reconcile bank accounts"
// @Security BearerAuth
// @Router /reconciliation/bank-accounts [post]
func (h *reconciliationHandler) matchBankAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MatchBankAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MatchBankAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	summary, err := h.reconciliationService.MatchBankAccounts(c.Request.Context(), req.BankAccountIDs, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile bank accounts")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// matchLine godoc
// @Summary Auto-match a statement line
// @Description Looks for the single ledger movement with the same amount and direction closest in date
// @Tags reconciliation
// @Produce json
// @Param lineID path string true "Statement line ID"
// @Success 200 {object} domain.MatchResult
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Statement line not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to match statement line"
// @Security BearerAuth
// @Router /statement-lines/{lineID}/match [post]
func (h *reconciliationHandler) matchLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID := c.Param("lineID")
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	result, err := h.reconciliationService.MatchLine(c.Request.Context(), lineID, userID)
	if err != nil {
		respondError(c, logger.With(slog.String("line_id", lineID)), err, "Failed to match statement line")
		return
	}
	c.JSON(http.StatusOK, result)
}

// manualMatch godoc
// @Summary Manually match a statement line
// @Description Links the statement line to the chosen journal line after checking account, amount and direction
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param lineID path string true "Statement line ID"
// @Param request body dto.ManualMatchRequest true "Journal line to link"
// @Success 200 {object} domain.MatchResult
// @Failure 400 {object} dto.ErrorResponse "Journal line does not fit the statement line"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Statement or journal line not found"
// @Failure 409 {object} dto.ErrorResponse "Line already matched elsewhere"
// @Failure 500 {object} dto.ErrorResponse "Failed to match statement line"
// @Security BearerAuth
// @Router /statement-lines/{lineID}/match [put]
func (h *reconciliationHandler) manualMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID := c.Param("lineID")
	var req dto.ManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ManualMatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("line_id", lineID), slog.String("journal_line_id", req.JournalLineID))
	result, err := h.reconciliationService.ManualMatch(c.Request.Context(), lineID, req.JournalLineID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to match statement line")
		return
	}
	logger.Info("Statement line matched manually")
	c.JSON(http.StatusOK, result)
}

// unmatch godoc
// @Summary Unmatch a statement line
// @Description Clears the link between a statement line and its journal line
// @Tags reconciliation
// @Param lineID path string true "Statement line ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Statement line not found"
// @Failure 409 {object} dto.ErrorResponse "Line is not matched"
// @Failure 500 {object} dto.ErrorResponse "Failed to unmatch statement line"
// @Security BearerAuth
// @Router /statement-lines/{lineID}/match [delete]
func (h *reconciliationHandler) unmatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID := c.Param("lineID")
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	if err := h.reconciliationService.Unmatch(c.Request.Context(), lineID, userID); err != nil {
		respondError(c, logger.With(slog.String("line_id", lineID)), err, "Failed to unmatch statement line")
		return
	}
	c.Status(http.StatusNoContent)
}
