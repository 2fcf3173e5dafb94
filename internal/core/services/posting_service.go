package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/utils/accounting"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultPostingAttempts = 5
	defaultEntryPageSize   = 20
	maxEntryPageSize       = 100
)

// postingService implements the PostingSvcFacade interface
type postingService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	journalRepo   portsrepo.JournalRepositoryFacade
	statementRepo portsrepo.StatementRepositoryFacade
	accounts      portssvc.AccountResolverSvc
	sequence      portssvc.SequenceSvc
	validate      *validator.Validate
	maxAttempts   int
}

// PostingServiceConfig carries the collaborators of the posting engine.
type PostingServiceConfig struct {
	TxManager     portsrepo.TransactionManager
	JournalRepo   portsrepo.JournalRepositoryFacade
	StatementRepo portsrepo.StatementRepositoryFacade
	Accounts      portssvc.AccountResolverSvc
	Sequence      portssvc.SequenceSvc
	MaxAttempts   int
}

// NewPostingService creates the posting engine.
func NewPostingService(cfg PostingServiceConfig) portssvc.PostingSvcFacade {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultPostingAttempts
	}
	return &postingService{
		txManager:     cfg.TxManager,
		journalRepo:   cfg.JournalRepo,
		statementRepo: cfg.StatementRepo,
		accounts:      cfg.Accounts,
		sequence:      cfg.Sequence,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		maxAttempts:   attempts,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

func applyPostOptions(opts []portssvc.PostOption) portssvc.PostOptions {
	var o portssvc.PostOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (s *postingService) Post(ctx context.Context, ev domain.SourceEvent, opts ...portssvc.PostOption) (*domain.PostingResult, error) {
	o := applyPostOptions(opts)
	module, ref := string(ev.Module), ev.ReferenceID
	logger := s.GetLogger(ctx).With(
		slog.String("source_module", module),
		slog.String("source_reference_id", ref),
		slog.String("event_type", string(ev.Type)))

	if err := s.validate.Struct(ev); err != nil {
		return nil, apperrors.NewPostingError(apperrors.PostingValidation, module, ref, describeValidation(err), err)
	}
	rule, ok := lookupRule(ev.Module, ev.Type)
	if !ok {
		return nil, apperrors.NewPostingError(apperrors.PostingValidation, module, ref,
			fmt.Sprintf("no posting rule for %s %s", ev.Module, ev.Type), nil)
	}
	if err := rule.check(ev); err != nil {
		return nil, apperrors.NewPostingError(apperrors.PostingValidation, module, ref, "", err)
	}
	ev.Date = dateOnly(ev.Date)

	var result *domain.PostingResult
	err := s.withRetry(ctx, module, ref, func(ctx context.Context) error {
		var err error
		result, err = s.postOnce(ctx, ev, rule, o)
		return err
	})
	if err != nil {
		logger.Error("Posting failed", slog.String("error", err.Error()))
		return nil, err
	}

	if result.AlreadyPosted {
		logger.Info("Source event already posted", slog.String("entry_number", result.Entry.EntryNumber))
	} else {
		logger.Info("Source event posted",
			slog.String("entry_id", result.Entry.EntryID),
			slog.String("entry_number", result.Entry.EntryNumber),
			slog.String("amount", entryTotal(result.Entry).String()),
			slog.Int("lines", len(result.Entry.Lines)))
	}
	return result, nil
}

func (s *postingService) postOnce(ctx context.Context, ev domain.SourceEvent, rule postingRule, o portssvc.PostOptions) (*domain.PostingResult, error) {
	module, ref := string(ev.Module), ev.ReferenceID

	existing, err := s.journalRepo.FindEntryBySource(ctx, ev.Module, ev.ReferenceID)
	if err == nil {
		return &domain.PostingResult{Entry: existing, AlreadyPosted: true}, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, classifyPostingError(module, ref, "look up existing entry", err)
	}

	b := &legBuilder{accounts: s.accounts, userID: ev.CreatedBy}
	lines, err := rule.buildLines(ctx, b, ev)
	if err != nil {
		return nil, classifyPostingError(module, ref, "resolve accounts", err)
	}

	now := s.Now()
	entry := domain.JournalEntry{
		EntryID:               uuid.NewString(),
		EntryDate:             ev.Date,
		SourceModule:          ev.Module,
		SourceReferenceID:     ev.ReferenceID,
		SourceReferenceNumber: ev.ReferenceNumber,
		Description:           ev.Description,
		Posted:                true,
		PostedAt:              now,
		AuditFields:           domain.NewAuditFields(ev.CreatedBy, now),
	}
	if err := s.writeEntry(ctx, &entry, lines, o); err != nil {
		return nil, classifyPostingError(module, ref, "", err)
	}
	return &domain.PostingResult{Entry: &entry}, nil
}

// writeEntry validates, numbers and saves the entry, then runs the caller's source write.
func (s *postingService) writeEntry(ctx context.Context, entry *domain.JournalEntry, lines []domain.JournalLine, o portssvc.PostOptions) error {
	module, ref := string(entry.SourceModule), entry.SourceReferenceID
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].EntryID = entry.EntryID
		lines[i].LineNumber = i + 1
	}
	if err := accounting.ValidateLines(lines); err != nil {
		return apperrors.NewPostingError(apperrors.PostingImbalanced, module, ref, "", err)
	}
	entry.Lines = lines

	number, err := s.sequence.Next(ctx, domain.DocJournal, domain.PeriodKey(entry.EntryDate))
	if err != nil {
		if errors.Is(err, apperrors.ErrConcurrentUpdate) {
			return err
		}
		return apperrors.NewPostingError(apperrors.PostingNumbering, module, ref, "allocate entry number", err)
	}
	entry.EntryNumber = number

	if err := s.journalRepo.SaveEntry(ctx, *entry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Another posting of the same source won; the retry returns its entry.
			return fmt.Errorf("%w: %v", apperrors.ErrConcurrentUpdate, err)
		}
		return err
	}

	if o.SourceWrite != nil {
		if err := o.SourceWrite(ctx); err != nil {
			return fmt.Errorf("source write: %w", err)
		}
	}
	return nil
}

// withRetry runs fn in a transaction, retrying on lost races up to maxAttempts.
func (s *postingService) withRetry(ctx context.Context, module, ref string, fn func(ctx context.Context) error) error {
	if s.txManager.InTx(ctx) {
		// The caller's transaction is aborted by a lost race; it has to retry itself.
		return s.txManager.WithinTx(ctx, fn)
	}

	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.txManager.WithinTx(ctx, fn)
		if err == nil || !errors.Is(err, apperrors.ErrConcurrentUpdate) {
			return err
		}
		s.LogDebug(ctx, "Posting transaction lost a race, retrying",
			slog.String("source_module", module),
			slog.String("source_reference_id", ref),
			slog.Int("attempt", attempt))
	}
	return apperrors.NewPostingError(apperrors.PostingNumbering, module, ref,
		fmt.Sprintf("gave up after %d attempts", s.maxAttempts), err)
}

// classifyPostingError maps an error raised while posting onto a PostingError kind.
// Lost races pass through unchanged so the caller retries.
func classifyPostingError(module, ref, step string, err error) error {
	var pe *apperrors.PostingError
	if errors.As(err, &pe) {
		return err
	}
	if errors.Is(err, apperrors.ErrConcurrentUpdate) {
		return err
	}

	kind := apperrors.PostingStorage
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		kind = apperrors.PostingValidation
	case errors.Is(err, apperrors.ErrAccountResolution), errors.Is(err, apperrors.ErrNotFound):
		kind = apperrors.PostingAccountResolution
	case errors.Is(err, apperrors.ErrImbalancedEntry):
		kind = apperrors.PostingImbalanced
	case errors.Is(err, apperrors.ErrSequenceAllocation):
		kind = apperrors.PostingNumbering
	}
	return apperrors.NewPostingError(kind, module, ref, step, err)
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func (s *postingService) Unpost(ctx context.Context, module domain.SourceModule, referenceID string, userID string, opts ...portssvc.PostOption) (*domain.JournalEntry, error) {
	o := applyPostOptions(opts)
	mod := string(module)

	var deleted *domain.JournalEntry
	err := s.withRetry(ctx, mod, referenceID, func(ctx context.Context) error {
		entry, err := s.journalRepo.FindEntryBySource(ctx, module, referenceID)
		if err != nil {
			return err
		}

		if module != domain.ModuleReversal {
			if _, err := s.journalRepo.FindEntryBySource(ctx, domain.ModuleReversal, entry.EntryID); err == nil {
				return apperrors.NewPostingError(apperrors.PostingValidation, mod, referenceID,
					"entry "+entry.EntryNumber+" has been reversed; unpost the reversal first", nil)
			} else if !errors.Is(err, apperrors.ErrNotFound) {
				return classifyPostingError(mod, referenceID, "look up reversal", err)
			}
		}

		unlinked, err := s.statementRepo.UnlinkJournalLines(ctx, entry.LineIDs())
		if err != nil {
			return classifyPostingError(mod, referenceID, "reset statement lines", err)
		}
		if err := s.journalRepo.DeleteEntry(ctx, entry.EntryID); err != nil {
			return classifyPostingError(mod, referenceID, "delete entry", err)
		}
		if o.SourceWrite != nil {
			if err := o.SourceWrite(ctx); err != nil {
				return classifyPostingError(mod, referenceID, "source write", err)
			}
		}
		if unlinked > 0 {
			s.LogInfo(ctx, "Statement lines reset to unmatched", slog.Int64("count", unlinked))
		}
		deleted = entry
		return nil
	})
	if err != nil {
		s.LogUnexpected(ctx, err, "Unposting failed",
			slog.String("source_module", mod), slog.String("source_reference_id", referenceID))
		return nil, err
	}

	s.LogInfo(ctx, "Source event unposted",
		slog.String("source_module", mod),
		slog.String("source_reference_id", referenceID),
		slog.String("entry_number", deleted.EntryNumber),
		slog.String("user_id", userID))
	return deleted, nil
}

func (s *postingService) Reverse(ctx context.Context, entryID string, userID string) (*domain.PostingResult, error) {
	original, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	module := string(domain.ModuleReversal)
	if original.SourceModule == domain.ModuleReversal {
		return nil, apperrors.NewPostingError(apperrors.PostingValidation, module, entryID,
			"a reversal cannot be reversed; unpost it instead", nil)
	}

	var result *domain.PostingResult
	err = s.withRetry(ctx, module, entryID, func(ctx context.Context) error {
		existing, err := s.journalRepo.FindEntryBySource(ctx, domain.ModuleReversal, entryID)
		if err == nil {
			result = &domain.PostingResult{Entry: existing, AlreadyPosted: true}
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return classifyPostingError(module, entryID, "look up existing reversal", err)
		}

		lines := make([]domain.JournalLine, len(original.Lines))
		for i, l := range original.Lines {
			lines[i] = domain.JournalLine{
				AccountID:   l.AccountID,
				AccountCode: l.AccountCode,
				Debit:       l.Credit,
				Credit:      l.Debit,
				Description: l.Description,
			}
		}

		now := s.Now()
		origID := original.EntryID
		entry := domain.JournalEntry{
			EntryID:               uuid.NewString(),
			EntryDate:             dateOnly(now),
			SourceModule:          domain.ModuleReversal,
			SourceReferenceID:     original.EntryID,
			SourceReferenceNumber: original.EntryNumber,
			Description:           "Reversal of " + original.EntryNumber,
			Posted:                true,
			PostedAt:              now,
			ReversalOfEntryID:     &origID,
			AuditFields:           domain.NewAuditFields(userID, now),
		}
		if err := s.writeEntry(ctx, &entry, lines, portssvc.PostOptions{}); err != nil {
			return classifyPostingError(module, entryID, "", err)
		}
		result = &domain.PostingResult{Entry: &entry}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Reversal failed", slog.String("entry_id", entryID))
		return nil, err
	}

	if !result.AlreadyPosted {
		s.LogInfo(ctx, "Entry reversed",
			slog.String("entry_number", original.EntryNumber),
			slog.String("reversal_number", result.Entry.EntryNumber))
	}
	return result, nil
}

func (s *postingService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to get journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	return entry, nil
}

func (s *postingService) GetEntryBySource(ctx context.Context, module domain.SourceModule, referenceID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryBySource(ctx, module, referenceID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to get journal entry by source",
			slog.String("source_module", string(module)), slog.String("source_reference_id", referenceID))
		return nil, err
	}
	return entry, nil
}

func (s *postingService) ListEntries(ctx context.Context, filter domain.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = defaultEntryPageSize
	}
	if limit > maxEntryPageSize {
		limit = maxEntryPageSize
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, nil, apperrors.NewValidationError("'to' date must not be before 'from' date")
	}

	entries, token, err := s.journalRepo.ListEntries(ctx, filter, limit, nextToken)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to list journal entries")
		return nil, nil, err
	}
	return entries, token, nil
}

// entryTotal is the debit total of an entry, used in log lines.
func entryTotal(e *domain.JournalEntry) decimal.Decimal {
	debit, _ := e.Totals()
	return debit
}
