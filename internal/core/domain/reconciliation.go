package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchOutcome is the result of trying to reconcile one statement line.
type MatchOutcome string

const (
	OutcomeMatched         MatchOutcome = "MATCHED"
	OutcomeAlreadyMatched  MatchOutcome = "ALREADY_MATCHED"
	OutcomeNoMatch         MatchOutcome = "NO_MATCH"
	OutcomeAmbiguous       MatchOutcome = "AMBIGUOUS"
	OutcomeNoLedgerAccount MatchOutcome = "NO_LEDGER_ACCOUNT"
)

// MatchCandidate is a ledger movement that could explain a statement line.
type MatchCandidate struct {
	JournalLineID string          `json:"journalLineID"`
	EntryID       string          `json:"entryID"`
	EntryNumber   string          `json:"entryNumber"`
	EntryDate     time.Time       `json:"entryDate"`
	Amount        decimal.Decimal `json:"amount"`
	DaysApart     int             `json:"daysApart"`
}

// MatchResult reports what happened to one statement line.
type MatchResult struct {
	StatementLineID string           `json:"statementLineID"`
	Outcome         MatchOutcome     `json:"outcome"`
	Match           *MatchCandidate  `json:"match,omitempty"`
	Candidates      []MatchCandidate `json:"candidates,omitempty"`
	Reason          string           `json:"reason,omitempty"`
}

// ReconciliationSummary aggregates the results of a batch run.
type ReconciliationSummary struct {
	Processed      int           `json:"processed"`
	Matched        int           `json:"matched"`
	AlreadyMatched int           `json:"alreadyMatched"`
	Unmatched      int           `json:"unmatched"`
	Ambiguous      int           `json:"ambiguous"`
	Results        []MatchResult `json:"results"`
}

// Add folds one result into the summary.
func (s *ReconciliationSummary) Add(r MatchResult) {
	s.Processed++
	switch r.Outcome {
	case OutcomeMatched:
		s.Matched++
	case OutcomeAlreadyMatched:
		s.AlreadyMatched++
	case OutcomeAmbiguous:
		s.Ambiguous++
	default:
		s.Unmatched++
	}
	s.Results = append(s.Results, r)
}

// Merge folds another summary into s.
func (s *ReconciliationSummary) Merge(other ReconciliationSummary) {
	for _, r := range other.Results {
		s.Add(r)
	}
}
