package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/SscSPs/finance_ledger_app/internal/statement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"
)

const uploadAttempts = 3

// statementService runs the ingestion pipeline: extract, parse, persist.
type statementService struct {
	BaseService
	txManager      portsrepo.TransactionManager
	statementRepo  portsrepo.StatementRepositoryFacade
	sequence       portssvc.SequenceSvc
	parser         *statement.Parser
	maxUploadBytes int64
}

// NewStatementService creates the statement ingestion service.
func NewStatementService(
	txManager portsrepo.TransactionManager,
	statementRepo portsrepo.StatementRepositoryFacade,
	sequence portssvc.SequenceSvc,
	parser *statement.Parser,
	maxUploadBytes int64,
) portssvc.StatementSvcFacade {
	return &statementService{
		txManager:      txManager,
		statementRepo:  statementRepo,
		sequence:       sequence,
		parser:         parser,
		maxUploadBytes: maxUploadBytes,
	}
}

var _ portssvc.StatementSvcFacade = (*statementService)(nil)

// DocumentFingerprint identifies a statement document independent of its file name.
func DocumentFingerprint(doc []byte) string {
	sum := blake2b.Sum256(doc)
	return "blake2b-256:" + hex.EncodeToString(sum[:])
}

func (s *statementService) Upload(ctx context.Context, req dto.StatementUploadRequest) (*domain.StatementUpload, error) {
	bankAccountID := strings.TrimSpace(req.BankAccountID)
	logger := s.GetLogger(ctx).With(
		slog.String("bank_account_id", bankAccountID),
		slog.String("file_name", req.FileName))

	if bankAccountID == "" {
		return nil, apperrors.NewValidationError("bankAccountID is required")
	}
	if len(req.Document) == 0 {
		return nil, apperrors.NewValidationError("statement document is empty")
	}
	if s.maxUploadBytes > 0 && int64(len(req.Document)) > s.maxUploadBytes {
		return nil, apperrors.NewValidationError("statement document exceeds %d bytes", s.maxUploadBytes)
	}

	fingerprint := DocumentFingerprint(req.Document)
	logger.Info("Statement uploaded", slog.Int("bytes", len(req.Document)), slog.String("fingerprint", fingerprint))

	if prior, err := s.statementRepo.FindUploadByDocument(ctx, bankAccountID, fingerprint); err == nil {
		return nil, fmt.Errorf("%w: document was already uploaded as %s", apperrors.ErrDuplicate, prior.UploadNumber)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := s.Now()
	parsed, err := s.parser.Parse(req.Document, req.Format, now)
	if err != nil {
		var pf *apperrors.ParseFailure
		if errors.As(err, &pf) {
			logger.Warn("Statement rejected",
				slog.String("reason", pf.Reason),
				slog.String("strategy", pf.Diagnostics.Strategy),
				slog.Int("text_length", pf.Diagnostics.TextLength),
				slog.Int("date_tokens", pf.Diagnostics.DateTokenCount))
		}
		return nil, err
	}
	logger.Info("Statement text extracted",
		slog.String("strategy", parsed.Strategy),
		slog.Int("text_length", parsed.TextLength))
	logger.Info("Statement parsed",
		slog.String("format", parsed.Format),
		slog.String("period", parsed.Header.PeriodLabel),
		slog.Int("transactions", len(parsed.Transactions)))

	upload, lines := buildUpload(parsed, req, bankAccountID, fingerprint, now)

	var txErr error
	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		txErr = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
			number, err := s.sequence.Next(ctx, domain.DocBankStatement, domain.PeriodKey(parsed.StartDate))
			if err != nil {
				return err
			}
			upload.UploadNumber = number
			return s.statementRepo.SaveUpload(ctx, upload, lines)
		})
		if txErr == nil || !errors.Is(txErr, apperrors.ErrConcurrentUpdate) {
			break
		}
	}
	if txErr != nil {
		s.LogUnexpected(ctx, txErr, "Failed to persist statement upload")
		return nil, txErr
	}

	logger.Info("Statement persisted",
		slog.String("upload_id", upload.UploadID),
		slog.String("upload_number", upload.UploadNumber),
		slog.Int("lines", len(lines)))
	return &upload, nil
}

func buildUpload(parsed *statement.Result, req dto.StatementUploadRequest, bankAccountID, fingerprint string, now time.Time) (domain.StatementUpload, []domain.StatementLine) {
	start, end := parsed.StartDate, parsed.EndDate
	upload := domain.StatementUpload{
		UploadID:          uuid.NewString(),
		BankAccountID:     bankAccountID,
		PeriodLabel:       parsed.Header.PeriodLabel,
		StartDate:         &start,
		EndDate:           &end,
		Currency:          parsed.Currency,
		OpeningBalance:    decimalOrZero(parsed.Header.OpeningBalance),
		ClosingBalance:    decimalOrZero(parsed.Header.ClosingBalance),
		TotalDebits:       parsed.TotalDebits,
		TotalCredits:      parsed.TotalCredits,
		TransactionCount:  len(parsed.Transactions),
		SourceDocumentRef: fingerprint,
		FileName:          req.FileName,
		Format:            parsed.Format,
		Status:            domain.UploadCompleted,
		UploadedBy:        req.UploadedBy,
		UploadedAt:        now,
	}

	lines := make([]domain.StatementLine, len(parsed.Transactions))
	for i, tx := range parsed.Transactions {
		line := domain.StatementLine{
			LineID:               uuid.NewString(),
			UploadID:             upload.UploadID,
			BankAccountID:        bankAccountID,
			LineNumber:           i + 1,
			TransactionDate:      tx.Date,
			Description:          tx.Description,
			DebitAmount:          decimal.Zero,
			CreditAmount:         decimal.Zero,
			RunningBalance:       tx.RunningBalance,
			Currency:             parsed.Currency,
			ReconciliationStatus: domain.StatusUnmatched,
		}
		if tx.Credit {
			line.CreditAmount = tx.Amount
		} else {
			line.DebitAmount = tx.Amount
		}
		lines[i] = line
	}
	return upload, lines
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func (s *statementService) GetUpload(ctx context.Context, uploadID string) (*domain.StatementUpload, error) {
	upload, err := s.statementRepo.FindUploadByID(ctx, uploadID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to get statement upload", slog.String("upload_id", uploadID))
		return nil, err
	}
	return upload, nil
}

func (s *statementService) ListLines(ctx context.Context, uploadID string) ([]domain.StatementLine, error) {
	if _, err := s.statementRepo.FindUploadByID(ctx, uploadID); err != nil {
		return nil, err
	}
	lines, err := s.statementRepo.ListLinesByUpload(ctx, uploadID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list statement lines", slog.String("upload_id", uploadID))
		return nil, err
	}
	return lines, nil
}
