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

// ledgerHandler serves the read-only ledger projections
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvc
}

func newLedgerHandler(ls portssvc.LedgerSvc) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ls,
	}
}

// registerLedgerRoutes registers the ledger and trial balance reports
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvc) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/accounts/:code", h.getAccountLedger)
		ledger.GET("/trial-balance", h.getTrialBalance)
		ledger.GET("/parties/:partyKey", h.getPartyLedger)
	}
}

// getAccountLedger godoc
// @Summary Account ledger
// @Description Lists the movements of one account in date order with a running balance
// @Tags ledger
// @Produce json
// @Param code path string true "Account code"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountLedgerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid date range"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to build ledger"
// @Security BearerAuth
// @Router /ledger/accounts/{code} [get]
func (h *ledgerHandler) getAccountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")
	if _, ok := requireUser(c, logger); !ok {
		return
	}

	rng, err := parseDateRange(c)
	if err != nil {
		respondError(c, logger, err, "Failed to build ledger")
		return
	}

	logger = logger.With(slog.String("account_code", code))
	ledger, err := h.ledgerService.AccountLedger(c.Request.Context(), code, rng)
	if err != nil {
		respondError(c, logger, err, "Failed to build ledger")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountLedgerResponse(ledger))
}

// getTrialBalance godoc
// @Summary Trial balance
// @Description Aggregates debits and credits per account. The check sum is zero for a consistent ledger.
// @Tags ledger
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid date range"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate trial balance"
// @Security BearerAuth
// @Router /ledger/trial-balance [get]
func (h *ledgerHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUser(c, logger); !ok {
		return
	}

	rng, err := parseDateRange(c)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance")
		return
	}

	tb, err := h.ledgerService.TrialBalance(c.Request.Context(), rng)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// getPartyLedger godoc
// @Summary Party ledger
// @Description Ledgers of every account provisioned for a counterparty kind, or for one counterparty when the key is given (e.g. "staff" or "staff:Budi")
// @Tags ledger
// @Produce json
// @Param partyKey path string true "Party kind with optional key"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.PartyLedgerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid party key or date range"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Party has no account"
// @Failure 500 {object} dto.ErrorResponse "Failed to build party ledger"
// @Security BearerAuth
// @Router /ledger/parties/{partyKey} [get]
func (h *ledgerHandler) getPartyLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUser(c, logger); !ok {
		return
	}

	party, err := domain.ParsePartyKey(c.Param("partyKey"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	rng, err := parseDateRange(c)
	if err != nil {
		respondError(c, logger, err, "Failed to build party ledger")
		return
	}

	logger = logger.With(slog.String("party", party.String()))
	ledger, err := h.ledgerService.PartyLedger(c.Request.Context(), party, rng)
	if err != nil {
		respondError(c, logger, err, "Failed to build party ledger")
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyLedgerResponse(ledger))
}
