package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/SscSPs/finance_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto a status code and writes the error body.
// Server side failures are logged at ERROR and hidden behind fallback.
//
// A PostingError is mapped on its kind, whatever its cause wraps. Storage kind
// errors fall through to the cause.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var postingErr *apperrors.PostingError
	if errors.As(err, &postingErr) && respondPostingError(c, logger, postingErr, fallback) {
		return
	}

	var parseErr *apperrors.ParseFailure
	switch {
	case errors.As(err, &parseErr):
		logger.Warn("Statement could not be parsed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error(), Diagnostics: parseErr.Diagnostics})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrAccountResolution),
		errors.Is(err, apperrors.ErrImbalancedEntry):
		logger.Warn("Posting rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrSequenceAllocation):
		logger.Error("Document number allocation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: fallback})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrConcurrentUpdate):
		logger.Warn("Conflicting request", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: fallback})
	}
}

// respondPostingError writes the response for every kind except storage and
// reports whether it did.
func respondPostingError(c *gin.Context, logger *slog.Logger, err *apperrors.PostingError, fallback string) bool {
	logger = logger.With(slog.String("posting_error_kind", string(err.Kind)))
	switch err.Kind {
	case apperrors.PostingValidation:
		logger.Warn("Posting rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case apperrors.PostingAccountResolution, apperrors.PostingImbalanced:
		logger.Warn("Posting rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case apperrors.PostingNumbering:
		logger.Error("Document number allocation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: fallback})
	default:
		return false
	}
	return true
}

// requireUser reads the authenticated user id, answering 401 when it is absent.
func requireUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

func parseDateParam(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s %q, expected YYYY-MM-DD", apperrors.ErrValidation, name, value)
	}
	return &t, nil
}

// parseDateRange reads the optional from/to query parameters.
func parseDateRange(c *gin.Context) (domain.DateRange, error) {
	var params dto.LedgerRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	from, err := parseDateParam("from", params.From)
	if err != nil {
		return domain.DateRange{}, err
	}
	to, err := parseDateParam("to", params.To)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.DateRange{From: from, To: to}, nil
}
