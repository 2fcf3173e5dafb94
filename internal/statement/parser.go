// Package statement turns bank statement documents into dated debit and credit
// lines: text extraction, header recognition and per-format transaction parsing.
package statement

import (
	"time"
	"unicode/utf8"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

const diagnosticSampleLength = 300

// Options tune the parser. MaxInflatedBytes bounds the decompressed size of all
// Flate streams of one document.
type Options struct {
	MinTextLength        int
	DescriptionMaxLength int
	DefaultCurrency      string
	DefaultFormat        string
	MaxInflatedBytes     int64
}

// Result is a successfully parsed statement.
type Result struct {
	Format       string
	Strategy     string
	TextLength   int
	Header       Header
	Currency     string
	Transactions []Transaction
	StartDate    time.Time
	EndDate      time.Time
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
}

// Parser runs extraction and parsing for one document at a time. It holds no
// per-document state and is safe for concurrent use.
type Parser struct {
	opts       Options
	registry   *Registry
	extractors []Extractor
}

// NewParser creates a parser with the built-in formats and extractor chain.
func NewParser(opts Options) *Parser {
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = 20
	}
	if opts.DescriptionMaxLength <= 0 {
		opts.DescriptionMaxLength = 255
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "IDR"
	}
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = AutoFormat
	}
	if opts.MaxInflatedBytes <= 0 {
		opts.MaxInflatedBytes = DefaultInflateLimit
	}
	return &Parser{
		opts:       opts,
		registry:   NewRegistry(opts.DescriptionMaxLength),
		extractors: DefaultExtractors(),
	}
}

// Registry exposes the format registry so callers can add bank specific formats.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// Parse extracts and parses doc. uploadDate supplies the year when the header
// carries no period. A document without any transaction yields *apperrors.ParseFailure.
func (p *Parser) Parse(doc []byte, formatName string, uploadDate time.Time) (*Result, error) {
	if len(doc) == 0 {
		return nil, apperrors.NewValidationError("statement document is empty")
	}
	if formatName == "" {
		formatName = p.opts.DefaultFormat
	}

	extraction, ok, err := ExtractText(NewDocument(doc, p.opts.MaxInflatedBytes), p.extractors, p.opts.MinTextLength)
	if err != nil {
		return nil, &apperrors.ParseFailure{
			Reason:      err.Error(),
			Diagnostics: apperrors.ParseDiagnostics{Strategy: "inflate"},
		}
	}
	format, err := p.registry.Resolve(formatName, extraction.Text)
	if err != nil {
		return nil, apperrors.NewValidationError("%s", err.Error())
	}

	header := format.ParseHeader(extraction.Text)
	if !ok {
		return nil, p.failure("no readable text could be extracted from the document", extraction, format, header)
	}

	scoped := header
	if !scoped.HasPeriod() {
		scoped.Month = uploadDate.Month()
		scoped.Year = uploadDate.Year()
	}
	txs := format.ParseTransactions(extraction.Text, scoped)
	if len(txs) == 0 {
		return nil, p.failure("no transactions found in statement", extraction, format, header)
	}

	res := &Result{
		Format:       format.Name(),
		Strategy:     extraction.Strategy,
		TextLength:   utf8.RuneCountInString(extraction.Text),
		Header:       header,
		Currency:     header.Currency,
		Transactions: txs,
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}
	if res.Currency == "" {
		res.Currency = p.opts.DefaultCurrency
	}

	for i, tx := range txs {
		if tx.Credit {
			res.TotalCredits = res.TotalCredits.Add(tx.Amount)
		} else {
			res.TotalDebits = res.TotalDebits.Add(tx.Amount)
		}
		if i == 0 || tx.Date.Before(res.StartDate) {
			res.StartDate = tx.Date
		}
		if i == 0 || tx.Date.After(res.EndDate) {
			res.EndDate = tx.Date
		}
	}
	if header.HasPeriod() {
		res.StartDate = time.Date(header.Year, header.Month, 1, 0, 0, 0, 0, time.UTC)
		res.EndDate = res.StartDate.AddDate(0, 1, -1)
	}
	return res, nil
}

func (p *Parser) failure(reason string, ex Extraction, format Format, header Header) error {
	sample := ex.Text
	if utf8.RuneCountInString(sample) > diagnosticSampleLength {
		sample = string([]rune(sample)[:diagnosticSampleLength])
	}
	return &apperrors.ParseFailure{
		Reason: reason,
		Diagnostics: apperrors.ParseDiagnostics{
			Strategy:          ex.Strategy,
			TextLength:        utf8.RuneCountInString(ex.Text),
			Sample:            sample,
			DateTokenCount:    format.CountDateTokens(ex.Text),
			HasPeriod:         header.HasPeriod(),
			HasOpeningBalance: header.OpeningBalance != nil,
			HasClosingBalance: header.ClosingBalance != nil,
		},
	}
}
