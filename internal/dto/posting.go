package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SplitLineRequest allocates part of a posting to its own category.
type SplitLineRequest struct {
	Category     string          `json:"category" binding:"required"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"string"`
	CostObjectID string          `json:"costObjectID"`
	Description  string          `json:"description" binding:"max=500"`
}

// PostEventRequest is the posting request a collaborator sends for one business event.
type PostEventRequest struct {
	SourceModule          string             `json:"sourceModule" binding:"required,oneof=CASH_BOX STAFF_ADVANCE PAYMENT_VOUCHER RECEIPT_VOUCHER"`
	EventType             string             `json:"eventType" binding:"required"`
	SourceReferenceID     string             `json:"sourceReferenceID" binding:"required,max=100"`
	SourceReferenceNumber string             `json:"sourceReferenceNumber" binding:"max=100"`
	Date                  string             `json:"date" binding:"required" example:"2024-01-15"`
	Description           string             `json:"description" binding:"max=500"`
	Amount                decimal.Decimal    `json:"amount" swaggertype:"string"`
	Category              string             `json:"category"`
	CostObjectID          string             `json:"costObjectID"`
	Funding               string             `json:"funding" binding:"omitempty,oneof=CASH BANK"`
	BankAccountID         string             `json:"bankAccountID"`
	StaffKey              string             `json:"staffKey"`
	PartyKey              string             `json:"partyKey"`
	Splits                []SplitLineRequest `json:"splits" binding:"dive"`
}

// ToSourceEvent converts the request into the domain event posted by the engine.
func (r PostEventRequest) ToSourceEvent(userID string) (domain.SourceEvent, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return domain.SourceEvent{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", r.Date)
	}
	category, err := domain.ParseAccountCategory(r.Category)
	if err != nil {
		return domain.SourceEvent{}, err
	}

	splits := make([]domain.SplitLine, 0, len(r.Splits))
	for i, s := range r.Splits {
		c, err := domain.ParseAccountCategory(s.Category)
		if err != nil {
			return domain.SourceEvent{}, fmt.Errorf("split %d: %w", i+1, err)
		}
		splits = append(splits, domain.SplitLine{
			Category:     c,
			Amount:       s.Amount,
			CostObjectID: s.CostObjectID,
			Description:  s.Description,
		})
	}

	return domain.SourceEvent{
		Module:          domain.SourceModule(r.SourceModule),
		Type:            domain.EventType(strings.ToUpper(r.EventType)),
		ReferenceID:     r.SourceReferenceID,
		ReferenceNumber: r.SourceReferenceNumber,
		Date:            date,
		Description:     r.Description,
		Amount:          r.Amount,
		Category:        category,
		CostObjectID:    r.CostObjectID,
		Funding:         domain.FundingSource(r.Funding),
		BankAccountID:   r.BankAccountID,
		StaffKey:        r.StaffKey,
		PartyKey:        r.PartyKey,
		Splits:          splits,
		CreatedBy:       userID,
	}, nil
}

// PostEventResponse is returned after a successful (or repeated) posting.
type PostEventResponse struct {
	EntryID       string `json:"entryID"`
	EntryNumber   string `json:"entryNumber"`
	AlreadyPosted bool   `json:"alreadyPosted"`
}
