package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"golang.org/x/sync/errgroup"
)

const (
	defaultToleranceDays = 3
	defaultWorkers       = 4
	defaultBatchSize     = 500
	// matchAttempts covers a best candidate being linked by a concurrent run.
	matchAttempts = 2
)

// ReconciliationServiceConfig carries the collaborators and limits of the matcher.
type ReconciliationServiceConfig struct {
	StatementRepo     portsrepo.StatementRepositoryFacade
	JournalRepo       portsrepo.JournalRepositoryFacade
	LedgerRepo        portsrepo.LedgerReader
	Accounts          portssvc.AccountResolverSvc
	DateToleranceDays int
	Workers           int
	BatchSize         int
}

type reconciliationService struct {
	BaseService
	statementRepo portsrepo.StatementRepositoryFacade
	journalRepo   portsrepo.JournalRepositoryFacade
	ledgerRepo    portsrepo.LedgerReader
	accounts      portssvc.AccountResolverSvc
	tolerance     int
	workers       int
	batchSize     int
}

// NewReconciliationService creates the statement-to-ledger matcher.
func NewReconciliationService(cfg ReconciliationServiceConfig) portssvc.ReconciliationSvc {
	s := &reconciliationService{
		statementRepo: cfg.StatementRepo,
		journalRepo:   cfg.JournalRepo,
		ledgerRepo:    cfg.LedgerRepo,
		accounts:      cfg.Accounts,
		tolerance:     cfg.DateToleranceDays,
		workers:       cfg.Workers,
		batchSize:     cfg.BatchSize,
	}
	if s.tolerance < 0 {
		s.tolerance = defaultToleranceDays
	}
	if s.workers <= 0 {
		s.workers = defaultWorkers
	}
	if s.batchSize <= 0 {
		s.batchSize = defaultBatchSize
	}
	return s
}

var _ portssvc.ReconciliationSvc = (*reconciliationService)(nil)

func daysBetween(a, b time.Time) int {
	d := int(dateOnly(a).Sub(dateOnly(b)).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}

func (s *reconciliationService) MatchLine(ctx context.Context, lineID string, userID string) (*domain.MatchResult, error) {
	line, err := s.statementRepo.FindLineByID(ctx, lineID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find statement line", slog.String("line_id", lineID))
		return nil, err
	}
	result, err := s.matchLine(ctx, *line, userID)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// matchLine applies the auto-match rules to one statement line.
func (s *reconciliationService) matchLine(ctx context.Context, line domain.StatementLine, userID string) (domain.MatchResult, error) {
	result := domain.MatchResult{StatementLineID: line.LineID}
	if line.ReconciliationStatus == domain.StatusMatched {
		result.Outcome = domain.OutcomeAlreadyMatched
		return result, nil
	}

	account, err := s.accounts.Lookup(ctx, domain.ProvisionBank, line.BankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			result.Outcome = domain.OutcomeNoLedgerAccount
			result.Reason = fmt.Sprintf("bank account %s has no ledger account", line.BankAccountID)
			return result, nil
		}
		return result, err
	}

	for attempt := 1; attempt <= matchAttempts; attempt++ {
		candidates, err := s.findCandidates(ctx, account.AccountID, line)
		if err != nil {
			return result, err
		}
		if len(candidates) == 0 {
			result.Outcome = domain.OutcomeNoMatch
			result.Reason = fmt.Sprintf("no unlinked ledger movement of %s within %d days", line.Amount().String(), s.tolerance)
			return result, nil
		}
		if len(candidates) > 1 && candidates[0].DaysApart == candidates[1].DaysApart {
			tied := candidates[:1]
			for _, c := range candidates[1:] {
				if c.DaysApart == candidates[0].DaysApart {
					tied = append(tied, c)
				}
			}
			result.Outcome = domain.OutcomeAmbiguous
			result.Candidates = tied
			result.Reason = fmt.Sprintf("%s: %d candidates at the same date distance",
				apperrors.ErrReconciliationConflict.Error(), len(tied))
			s.LogInfo(ctx, "Ambiguous statement line",
				slog.String("line_id", line.LineID), slog.Int("candidates", len(tied)))
			return result, nil
		}

		best := candidates[0]
		ok, err := s.statementRepo.MarkLineMatched(ctx, line.LineID, best.JournalLineID, userID, s.Now())
		if errors.Is(err, apperrors.ErrConflict) {
			// The candidate was linked elsewhere meanwhile; search again without it.
			continue
		}
		if err != nil {
			return result, err
		}
		if !ok {
			result.Outcome = domain.OutcomeAlreadyMatched
			return result, nil
		}
		result.Outcome = domain.OutcomeMatched
		result.Match = &best
		s.LogDebug(ctx, "Statement line matched",
			slog.String("line_id", line.LineID),
			slog.String("entry_number", best.EntryNumber))
		return result, nil
	}

	result.Outcome = domain.OutcomeNoMatch
	result.Reason = "candidates were linked by a concurrent reconciliation"
	return result, nil
}

// findCandidates returns matching ledger movements closest first.
func (s *reconciliationService) findCandidates(ctx context.Context, accountID string, line domain.StatementLine) ([]domain.MatchCandidate, error) {
	date := dateOnly(line.TransactionDate)
	from := date.AddDate(0, 0, -s.tolerance)
	to := date.AddDate(0, 0, s.tolerance)

	// Money into the bank is a debit on the bank's asset account.
	movements, err := s.ledgerRepo.FindBankMovements(ctx, accountID, line.Amount(), line.IsCredit(), from, to)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.MatchCandidate, 0, len(movements))
	for _, m := range movements {
		amount := m.Debit
		if !line.IsCredit() {
			amount = m.Credit
		}
		candidates = append(candidates, domain.MatchCandidate{
			JournalLineID: m.LineID,
			EntryID:       m.EntryID,
			EntryNumber:   m.EntryNumber,
			EntryDate:     m.EntryDate,
			Amount:        amount,
			DaysApart:     daysBetween(m.EntryDate, date),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].DaysApart != candidates[j].DaysApart {
			return candidates[i].DaysApart < candidates[j].DaysApart
		}
		return candidates[i].EntryNumber < candidates[j].EntryNumber
	})
	return candidates, nil
}

func (s *reconciliationService) MatchUpload(ctx context.Context, uploadID string, userID string) (*domain.ReconciliationSummary, error) {
	if _, err := s.statementRepo.FindUploadByID(ctx, uploadID); err != nil {
		return nil, err
	}
	lines, err := s.statementRepo.ListLinesByUpload(ctx, uploadID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list statement lines", slog.String("upload_id", uploadID))
		return nil, err
	}

	summary := &domain.ReconciliationSummary{Results: []domain.MatchResult{}}
	for _, line := range lines {
		if line.ReconciliationStatus != domain.StatusUnmatched {
			continue
		}
		result, err := s.matchLine(ctx, line, userID)
		if err != nil {
			s.LogError(ctx, err, "Reconciliation aborted", slog.String("upload_id", uploadID), slog.String("line_id", line.LineID))
			return nil, err
		}
		summary.Add(result)
	}

	s.LogInfo(ctx, "Upload reconciled",
		slog.String("upload_id", uploadID),
		slog.Int("processed", summary.Processed),
		slog.Int("matched", summary.Matched),
		slog.Int("ambiguous", summary.Ambiguous),
		slog.Int("unmatched", summary.Unmatched))
	return summary, nil
}

func (s *reconciliationService) MatchBankAccounts(ctx context.Context, bankAccountIDs []string, userID string) (*domain.ReconciliationSummary, error) {
	seen := make(map[string]bool, len(bankAccountIDs))
	ids := make([]string, 0, len(bankAccountIDs))
	for _, id := range bankAccountIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("at least one bank account is required")
	}

	perAccount := make([]domain.ReconciliationSummary, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			lines, err := s.statementRepo.ListUnmatchedLines(gctx, id, s.batchSize)
			if err != nil {
				return fmt.Errorf("bank account %s: %w", id, err)
			}
			for _, line := range lines {
				if err := gctx.Err(); err != nil {
					return err
				}
				result, err := s.matchLine(gctx, line, userID)
				if err != nil {
					return fmt.Errorf("bank account %s: %w", id, err)
				}
				perAccount[i].Add(result)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Bank account reconciliation failed")
		return nil, err
	}

	summary := &domain.ReconciliationSummary{Results: []domain.MatchResult{}}
	for _, sub := range perAccount {
		summary.Merge(sub)
	}
	s.LogInfo(ctx, "Bank accounts reconciled",
		slog.Int("accounts", len(ids)),
		slog.Int("processed", summary.Processed),
		slog.Int("matched", summary.Matched))
	return summary, nil
}

func (s *reconciliationService) ManualMatch(ctx context.Context, lineID string, journalLineID string, userID string) (*domain.MatchResult, error) {
	line, err := s.statementRepo.FindLineByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	result := &domain.MatchResult{StatementLineID: line.LineID}
	if line.ReconciliationStatus == domain.StatusMatched {
		if line.MatchedJournalLineID != nil && *line.MatchedJournalLineID == journalLineID {
			result.Outcome = domain.OutcomeAlreadyMatched
			return result, nil
		}
		return nil, fmt.Errorf("%w: statement line is matched to another journal line; unmatch it first", apperrors.ErrConflict)
	}

	account, err := s.accounts.Lookup(ctx, domain.ProvisionBank, line.BankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("bank account %s has no ledger account", line.BankAccountID)
		}
		return nil, err
	}

	jl, entry, err := s.journalRepo.FindLineByID(ctx, journalLineID)
	if err != nil {
		return nil, err
	}
	if jl.AccountID != account.AccountID {
		return nil, apperrors.NewValidationError("journal line %s is not on the ledger account %s of bank account %s",
			journalLineID, account.Code, line.BankAccountID)
	}
	if !jl.Amount().Equal(line.Amount()) {
		return nil, apperrors.NewValidationError("journal line amount %s does not equal statement amount %s",
			jl.Amount().String(), line.Amount().String())
	}
	if jl.IsDebit() != line.IsCredit() {
		return nil, apperrors.NewValidationError("journal line direction does not match the statement line")
	}

	ok, err := s.statementRepo.MarkLineMatched(ctx, line.LineID, jl.LineID, userID, s.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		result.Outcome = domain.OutcomeAlreadyMatched
		return result, nil
	}

	result.Outcome = domain.OutcomeMatched
	result.Match = &domain.MatchCandidate{
		JournalLineID: jl.LineID,
		EntryID:       entry.EntryID,
		EntryNumber:   entry.EntryNumber,
		EntryDate:     entry.EntryDate,
		Amount:        jl.Amount(),
		DaysApart:     daysBetween(entry.EntryDate, line.TransactionDate),
	}
	s.LogInfo(ctx, "Statement line matched manually",
		slog.String("line_id", line.LineID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("user_id", userID))
	return result, nil
}

func (s *reconciliationService) Unmatch(ctx context.Context, lineID string, userID string) error {
	if _, err := s.statementRepo.FindLineByID(ctx, lineID); err != nil {
		return err
	}
	ok, err := s.statementRepo.MarkLineUnmatched(ctx, lineID)
	if err != nil {
		s.LogError(ctx, err, "Failed to unmatch statement line", slog.String("line_id", lineID))
		return err
	}
	if !ok {
		return fmt.Errorf("%w: statement line is not matched", apperrors.ErrConflict)
	}
	s.LogInfo(ctx, "Statement line unmatched", slog.String("line_id", lineID), slog.String("user_id", userID))
	return nil
}
