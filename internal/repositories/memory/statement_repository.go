package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
)

type statementRepository struct {
	store *Store
}

var _ portsrepo.StatementRepositoryFacade = (*statementRepository)(nil)

func (r *statementRepository) SaveUpload(ctx context.Context, upload domain.StatementUpload, lines []domain.StatementLine) error {
	defer r.store.lock(ctx)()
	st := r.store.state
	for _, existing := range st.uploads {
		if existing.UploadNumber == upload.UploadNumber {
			return fmt.Errorf("%w: upload number %s already used", apperrors.ErrConcurrentUpdate, upload.UploadNumber)
		}
		if existing.BankAccountID == upload.BankAccountID && existing.SourceDocumentRef == upload.SourceDocumentRef {
			return fmt.Errorf("%w: statement already uploaded for bank account %s", apperrors.ErrDuplicate, upload.BankAccountID)
		}
	}
	st.uploads[upload.UploadID] = upload
	for _, line := range lines {
		st.statementLines[line.LineID] = line
	}
	return nil
}

func (r *statementRepository) FindUploadByID(ctx context.Context, uploadID string) (*domain.StatementUpload, error) {
	defer r.store.lock(ctx)()
	upload, ok := r.store.state.uploads[uploadID]
	if !ok {
		return nil, apperrors.NewNotFoundError("statement upload " + uploadID)
	}
	return &upload, nil
}

func (r *statementRepository) FindUploadByDocument(ctx context.Context, bankAccountID string, sourceDocumentRef string) (*domain.StatementUpload, error) {
	defer r.store.lock(ctx)()
	for _, upload := range r.store.state.uploads {
		if upload.BankAccountID == bankAccountID && upload.SourceDocumentRef == sourceDocumentRef {
			return &upload, nil
		}
	}
	return nil, apperrors.NewNotFoundError("statement upload for bank account " + bankAccountID)
}

func (r *statementRepository) ListLinesByUpload(ctx context.Context, uploadID string) ([]domain.StatementLine, error) {
	defer r.store.lock(ctx)()
	lines := []domain.StatementLine{}
	for _, line := range r.store.state.statementLines {
		if line.UploadID == uploadID {
			lines = append(lines, line)
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].LineNumber < lines[j].LineNumber })
	return lines, nil
}

func (r *statementRepository) FindLineByID(ctx context.Context, lineID string) (*domain.StatementLine, error) {
	defer r.store.lock(ctx)()
	line, ok := r.store.state.statementLines[lineID]
	if !ok {
		return nil, apperrors.NewNotFoundError("statement line " + lineID)
	}
	return &line, nil
}

func (r *statementRepository) ListUnmatchedLines(ctx context.Context, bankAccountID string, limit int) ([]domain.StatementLine, error) {
	defer r.store.lock(ctx)()
	lines := []domain.StatementLine{}
	for _, line := range r.store.state.statementLines {
		if line.BankAccountID == bankAccountID && line.ReconciliationStatus == domain.StatusUnmatched {
			lines = append(lines, line)
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.Before(b.TransactionDate)
		}
		if a.UploadID != b.UploadID {
			return a.UploadID < b.UploadID
		}
		return a.LineNumber < b.LineNumber
	})
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	return lines, nil
}

func (r *statementRepository) journalLineExists(journalLineID string) bool {
	for _, entry := range r.store.state.entries {
		for _, l := range entry.Lines {
			if l.LineID == journalLineID {
				return true
			}
		}
	}
	return false
}

func (r *statementRepository) MarkLineMatched(ctx context.Context, lineID string, journalLineID string, userID string, at time.Time) (bool, error) {
	defer r.store.lock(ctx)()
	st := r.store.state
	line, ok := st.statementLines[lineID]
	if !ok || line.ReconciliationStatus != domain.StatusUnmatched {
		return false, nil
	}
	if !r.journalLineExists(journalLineID) {
		return false, fmt.Errorf("%w: journal line %s does not exist", apperrors.ErrValidation, journalLineID)
	}
	for _, other := range st.statementLines {
		if other.MatchedJournalLineID != nil && *other.MatchedJournalLineID == journalLineID {
			return false, fmt.Errorf("%w: journal line %s is already matched to another statement line", apperrors.ErrConflict, journalLineID)
		}
	}

	matchedAt := at
	matchedBy := userID
	jl := journalLineID
	line.ReconciliationStatus = domain.StatusMatched
	line.MatchedJournalLineID = &jl
	line.MatchedAt = &matchedAt
	line.MatchedBy = &matchedBy
	st.statementLines[lineID] = line
	return true, nil
}

func clearMatch(line domain.StatementLine) domain.StatementLine {
	line.ReconciliationStatus = domain.StatusUnmatched
	line.MatchedJournalLineID = nil
	line.MatchedAt = nil
	line.MatchedBy = nil
	return line
}

func (r *statementRepository) MarkLineUnmatched(ctx context.Context, lineID string) (bool, error) {
	defer r.store.lock(ctx)()
	line, ok := r.store.state.statementLines[lineID]
	if !ok || line.ReconciliationStatus != domain.StatusMatched {
		return false, nil
	}
	r.store.state.statementLines[lineID] = clearMatch(line)
	return true, nil
}

func (r *statementRepository) UnlinkJournalLines(ctx context.Context, journalLineIDs []string) (int64, error) {
	defer r.store.lock(ctx)()
	targets := toSet(journalLineIDs)
	var n int64
	for id, line := range r.store.state.statementLines {
		if line.MatchedJournalLineID != nil && targets[*line.MatchedJournalLineID] {
			r.store.state.statementLines[id] = clearMatch(line)
			n++
		}
	}
	return n, nil
}
