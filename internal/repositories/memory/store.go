// Package memory is an in-process implementation of the repository ports. It backs
// the service tests and the STORAGE_DRIVER=memory mode used for local runs.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_ledger_app/internal/core/ports/repositories"
)

type txKey struct{}

type sequenceKey struct {
	kind      domain.DocumentKind
	periodKey string
}

type state struct {
	accounts       map[string]domain.Account
	sequences      map[sequenceKey]int64
	entries        map[string]domain.JournalEntry
	uploads        map[string]domain.StatementUpload
	statementLines map[string]domain.StatementLine
}

func newState() *state {
	return &state{
		accounts:       map[string]domain.Account{},
		sequences:      map[sequenceKey]int64{},
		entries:        map[string]domain.JournalEntry{},
		uploads:        map[string]domain.StatementUpload{},
		statementLines: map[string]domain.StatementLine{},
	}
}

// clone copies every table. Entry lines are copied too since entries are stored by value.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.entries {
		v.Lines = append([]domain.JournalLine(nil), v.Lines...)
		c.entries[k] = v
	}
	for k, v := range s.uploads {
		c.uploads[k] = v
	}
	for k, v := range s.statementLines {
		c.statementLines[k] = v
	}
	return c
}

// Store holds all tables behind one mutex. A transaction holds the mutex for its
// whole duration and restores a snapshot when it fails.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// lock acquires the store mutex unless ctx already runs inside one of its transactions.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// InTx reports whether ctx runs inside one of the store's transactions.
func (s *Store) InTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) == s
}

// WithinTx runs fn with exclusive access to the store.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.InTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	defer func() {
		if p := recover(); p != nil {
			s.state = snapshot
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.state = snapshot
	}
	return err
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// NewRepositoryProvider wires every repository port to a fresh store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return NewStore().Provider()
}

// Provider exposes the store through the repository ports.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     s,
		AccountRepo:   &accountRepository{store: s},
		SequenceRepo:  &sequenceRepository{store: s},
		JournalRepo:   &journalRepository{store: s},
		LedgerRepo:    &ledgerRepository{store: s},
		StatementRepo: &statementRepository{store: s},
	}
}
