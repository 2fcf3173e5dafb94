package statement

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Header is what a format recovers from the statement header.
type Header struct {
	PeriodLabel    string
	Month          time.Month
	Year           int
	OpeningBalance *decimal.Decimal
	ClosingBalance *decimal.Decimal
	Currency       string
}

// HasPeriod reports whether the statement month was recognised.
func (h Header) HasPeriod() bool {
	return h.Month != 0 && h.Year != 0
}

// Transaction is one movement recovered from the statement body.
type Transaction struct {
	Date           time.Time
	Description    string
	Amount         decimal.Decimal
	Credit         bool
	RunningBalance *decimal.Decimal
}

// signed is the amount's effect on the account balance.
func (t Transaction) signed() decimal.Decimal {
	if t.Credit {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Format understands the layout of one family of bank statements.
type Format interface {
	Name() string
	// Detect reports whether text looks like a statement in this format.
	Detect(text string) bool
	ParseHeader(text string) Header
	// ParseTransactions reads the movements. header.Month and header.Year are
	// always set by the caller, falling back to the upload date.
	ParseTransactions(text string, header Header) []Transaction
	// CountDateTokens reports how many transaction date tokens the text holds.
	CountDateTokens(text string) int
}

// AutoFormat asks the registry to detect the format from the text.
const AutoFormat = "auto"

// Registry holds the statement formats by name, in registration order.
type Registry struct {
	mu      sync.RWMutex
	formats []Format
}

// NewRegistry creates a registry with the built-in formats.
func NewRegistry(descriptionMaxLength int) *Registry {
	r := &Registry{}
	r.Register(NewIndonesianFormat(descriptionMaxLength))
	r.Register(NewEnglishFormat(descriptionMaxLength))
	return r
}

// Register adds a format, replacing one with the same name.
func (r *Registry) Register(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.formats {
		if existing.Name() == f.Name() {
			r.formats[i] = f
			return
		}
	}
	r.formats = append(r.formats, f)
}

// Names lists the registered format names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.formats))
	for _, f := range r.formats {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// Resolve returns the named format. For AutoFormat (or an empty name) it returns
// the first format whose Detect matches text, else the first registered format.
func (r *Registry) Resolve(name, text string) (Format, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.formats) == 0 {
		return nil, fmt.Errorf("no statement formats registered")
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == AutoFormat {
		for _, f := range r.formats {
			if f.Detect(text) {
				return f, nil
			}
		}
		return r.formats[0], nil
	}
	for _, f := range r.formats {
		if f.Name() == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown statement format %q", name)
}
