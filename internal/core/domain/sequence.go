package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DocumentKind is a family of numbered documents sharing one counter per period.
type DocumentKind string

const (
	DocJournal        DocumentKind = "JOURNAL"
	DocPaymentVoucher DocumentKind = "PAYMENT_VOUCHER"
	DocReceiptVoucher DocumentKind = "RECEIPT_VOUCHER"
	DocCashBox        DocumentKind = "CASH_BOX"
	DocStaffAdvance   DocumentKind = "STAFF_ADVANCE"
	DocBankStatement  DocumentKind = "BANK_STATEMENT"
)

var documentPrefixes = map[DocumentKind]string{
	DocJournal:        "JV",
	DocPaymentVoucher: "PV",
	DocReceiptVoucher: "RV",
	DocCashBox:        "CB",
	DocStaffAdvance:   "SA",
	DocBankStatement:  "BS",
}

// Prefix returns the printed prefix for the kind.
func (k DocumentKind) Prefix() (string, bool) {
	p, ok := documentPrefixes[k]
	return p, ok
}

// ParseDocumentKind accepts a kind name or its prefix, in any case.
func ParseDocumentKind(s string) (DocumentKind, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	if _, ok := documentPrefixes[DocumentKind(up)]; ok {
		return DocumentKind(up), nil
	}
	for kind, prefix := range documentPrefixes {
		if prefix == up {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

// AccountCodeCounter is the counter used to allocate codes for a provision kind.
// It shares the sequence table with documents but is never printed.
func AccountCodeCounter(kind ProvisionKind) DocumentKind {
	return DocumentKind("ACCOUNT_" + string(kind))
}

var periodKeyPattern = regexp.MustCompile(`^[0-9A-Z]{1,12}$`)

// PeriodKey is the monthly period key used for document numbers, e.g. 202401.
func PeriodKey(t time.Time) string {
	return t.Format("200601")
}

// ValidPeriodKey reports whether key is usable inside a document number.
func ValidPeriodKey(key string) bool {
	return periodKeyPattern.MatchString(key)
}

// FormatDocumentNumber renders PREFIX-PERIODKEY-NNNN. Ordinals beyond 9999 keep all digits.
func FormatDocumentNumber(prefix, periodKey string, ordinal int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, periodKey, ordinal)
}
