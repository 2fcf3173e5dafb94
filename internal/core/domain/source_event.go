package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceModule identifies the business module that emitted an event.
type SourceModule string

const (
	ModuleCashBox        SourceModule = "CASH_BOX"
	ModuleStaffAdvance   SourceModule = "STAFF_ADVANCE"
	ModulePaymentVoucher SourceModule = "PAYMENT_VOUCHER"
	ModuleReceiptVoucher SourceModule = "RECEIPT_VOUCHER"
	// ModuleReversal marks entries created by reversing another entry.
	ModuleReversal SourceModule = "REVERSAL"
)

// EventType distinguishes the events a module can emit.
type EventType string

const (
	EventWithdrawal EventType = "WITHDRAWAL"
	EventExpense    EventType = "EXPENSE"
	EventAdvance    EventType = "ADVANCE"
	EventRepayment  EventType = "REPAYMENT"
	EventSettlement EventType = "SETTLEMENT"
	EventPayment    EventType = "PAYMENT"
	EventReceipt    EventType = "RECEIPT"
)

// FundingSource says where money moved from or to.
type FundingSource string

const (
	FundingCash FundingSource = "CASH"
	FundingBank FundingSource = "BANK"
)

// SourceEvent is the payload a collaborator submits for posting.
type SourceEvent struct {
	Module          SourceModule    `json:"sourceModule" validate:"required,oneof=CASH_BOX STAFF_ADVANCE PAYMENT_VOUCHER RECEIPT_VOUCHER"`
	Type            EventType       `json:"eventType" validate:"required"`
	ReferenceID     string          `json:"sourceReferenceID" validate:"required,max=100"`
	ReferenceNumber string          `json:"sourceReferenceNumber" validate:"max=100"`
	Date            time.Time       `json:"date" validate:"required"`
	Description     string          `json:"description" validate:"max=500"`
	Amount          decimal.Decimal `json:"amount"`
	Category        AccountCategory `json:"category"`
	CostObjectID    string          `json:"costObjectID"`
	Funding         FundingSource   `json:"funding" validate:"omitempty,oneof=CASH BANK"`
	BankAccountID   string          `json:"bankAccountID"`
	StaffKey        string          `json:"staffKey"`
	PartyKey        string          `json:"partyKey"`
	Splits          []SplitLine     `json:"splits" validate:"dive"`
	CreatedBy       string          `json:"createdBy"`
}

// SplitLine allocates part of an event to its own category.
type SplitLine struct {
	Category     AccountCategory `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	CostObjectID string          `json:"costObjectID"`
	Description  string          `json:"description" validate:"max=500"`
}

// Allocations returns the category allocations of the event: the explicit splits
// when present, otherwise a single allocation of the whole amount.
func (e SourceEvent) Allocations() []SplitLine {
	if len(e.Splits) > 0 {
		return e.Splits
	}
	return []SplitLine{{
		Category:     e.Category,
		Amount:       e.Amount,
		CostObjectID: e.CostObjectID,
		Description:  e.Description,
	}}
}

// Total is the event amount, or the sum of the splits when no amount was given.
func (e SourceEvent) Total() decimal.Decimal {
	if !e.Amount.IsZero() || len(e.Splits) == 0 {
		return e.Amount
	}
	sum := decimal.Zero
	for _, s := range e.Splits {
		sum = sum.Add(s.Amount)
	}
	return sum
}

// FundingOrDefault treats an unset funding source as cash.
func (e SourceEvent) FundingOrDefault() FundingSource {
	if e.Funding == "" {
		return FundingCash
	}
	return e.Funding
}
