package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
)

type sequenceService struct {
	BaseService
	repo portsrepo.SequenceRepository
}

// NewSequenceService creates the document number allocator.
func NewSequenceService(repo portsrepo.SequenceRepository) portssvc.SequenceSvc {
	return &sequenceService{repo: repo}
}

var _ portssvc.SequenceSvc = (*sequenceService)(nil)

func (s *sequenceService) Next(ctx context.Context, kind domain.DocumentKind, periodKey string) (string, error) {
	prefix, ok := kind.Prefix()
	if !ok {
		return "", apperrors.NewValidationError("document kind %q is not numbered", kind)
	}
	if !domain.ValidPeriodKey(periodKey) {
		return "", apperrors.NewValidationError("invalid period key %q", periodKey)
	}

	ordinal, err := s.repo.NextValue(ctx, kind, periodKey)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to allocate document number")
		return "", fmt.Errorf("allocate %s number for %s: %w", kind, periodKey, err)
	}
	return domain.FormatDocumentNumber(prefix, periodKey, ordinal), nil
}
