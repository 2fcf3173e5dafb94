package pgsql

import (
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     newPgxTxManager(dbPool),
		AccountRepo:   newPgxAccountRepository(dbPool),
		SequenceRepo:  newPgxSequenceRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		LedgerRepo:    newPgxLedgerRepository(dbPool),
		StatementRepo: newPgxStatementRepository(dbPool),
	}
}
