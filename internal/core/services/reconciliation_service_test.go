package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger_app/internal/apperrors"
	"github.com/SscSPs/finance_ledger_app/internal/core/domain"
	"github.com/stretchr/testify/suite"
)

type ReconciliationTestSuite struct {
	suite.Suite
	h *harness
}

func (suite *ReconciliationTestSuite) SetupTest() {
	suite.h = newHarness(suite.T())
}

func (suite *ReconciliationTestSuite) bankReceipt(ref, amount string, date time.Time) *domain.JournalEntry {
	res, err := suite.h.svc.Posting.Post(suite.h.ctx, domain.SourceEvent{
		Module: domain.ModuleReceiptVoucher, Type: domain.EventReceipt, ReferenceID: ref,
		Date: date, Amount: dec(amount), Category: domain.CategorySalesRevenue,
		Funding: domain.FundingBank, BankAccountID: "BCA-001", CreatedBy: testUser,
	})
	suite.Require().NoError(err)
	return res.Entry
}

func (suite *ReconciliationTestSuite) bankFee(ref, amount string, date time.Time) *domain.JournalEntry {
	ev := cashExpense(ref, amount, domain.CategoryBankCharges, date)
	ev.Funding = domain.FundingBank
	ev.BankAccountID = "BCA-001"
	res, err := suite.h.svc.Posting.Post(suite.h.ctx, ev)
	suite.Require().NoError(err)
	return res.Entry
}

func (suite *ReconciliationTestSuite) upload(bank string) (*domain.StatementUpload, []domain.StatementLine) {
	upload, err := suite.h.svc.Statement.Upload(suite.h.ctx, uploadRequest(bank, januaryStatement))
	suite.Require().NoError(err)
	lines, err := suite.h.svc.Statement.ListLines(suite.h.ctx, upload.UploadID)
	suite.Require().NoError(err)
	suite.Require().Len(lines, 3)
	return upload, lines
}

func (suite *ReconciliationTestSuite) TestMatchUpload() {
	receipt := suite.bankReceipt("RV-1", "1500000", day(2024, time.January, 11))
	fee := suite.bankFee("CB-FEE", "15000", day(2024, time.January, 15))
	upload, lines := suite.upload("BCA-001")

	summary, err := suite.h.svc.Reconciliation.MatchUpload(suite.h.ctx, upload.UploadID, testUser)
	suite.Require().NoError(err)
	suite.Equal(3, summary.Processed)
	suite.Equal(2, summary.Matched)
	suite.Equal(1, summary.Unmatched)

	byLine := map[string]domain.MatchResult{}
	for _, r := range summary.Results {
		byLine[r.StatementLineID] = r
	}
	transfer := byLine[lines[0].LineID]
	suite.Equal(domain.OutcomeMatched, transfer.Outcome)
	suite.Require().NotNil(transfer.Match)
	suite.Equal(receipt.EntryID, transfer.Match.EntryID)
	suite.Equal(1, transfer.Match.DaysApart)
	suite.Equal(lineFor(suite.T(), receipt, "1210").LineID, transfer.Match.JournalLineID)

	feeResult := byLine[lines[1].LineID]
	suite.Equal(domain.OutcomeMatched, feeResult.Outcome)
	suite.Equal(fee.EntryID, feeResult.Match.EntryID)
	suite.Equal(0, feeResult.Match.DaysApart)

	suite.Equal(domain.OutcomeNoMatch, byLine[lines[2].LineID].Outcome)

	again, err := suite.h.svc.Reconciliation.MatchLine(suite.h.ctx, lines[0].LineID, testUser)
	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeAlreadyMatched, again.Outcome)

	rerun, err := suite.h.svc.Reconciliation.MatchUpload(suite.h.ctx, upload.UploadID, testUser)
	suite.Require().NoError(err)
	suite.Equal(1, rerun.Processed, "matched lines are not re-evaluated")
}

func (suite *ReconciliationTestSuite) TestUnpostResetsMatchedLine() {
	suite.bankReceipt("RV-1", "1500000", day(2024, time.January, 12))
	_, lines := suite.upload("BCA-001")

	res, err := suite.h.svc.Reconciliation.MatchLine(suite.h.ctx, lines[0].LineID, testUser)
	suite.Require().NoError(err)
	suite.Require().Equal(domain.OutcomeMatched, res.Outcome)

	_, err = suite.h.svc.Posting.Unpost(suite.h.ctx, domain.ModuleReceiptVoucher, "RV-1", testUser)
	suite.Require().NoError(err)

	line, err := suite.h.repos.StatementRepo.FindLineByID(suite.h.ctx, lines[0].LineID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusUnmatched, line.ReconciliationStatus)
	suite.Nil(line.MatchedJournalLineID)
}

func (suite *ReconciliationTestSuite) TestAmbiguousThenManualMatch() {
	early := suite.bankReceipt("RV-1", "1500000", day(2024, time.January, 11))
	late := suite.bankReceipt("RV-2", "1500000", day(2024, time.January, 13))
	_, lines := suite.upload("BCA-001")

	res, err := suite.h.svc.Reconciliation.MatchLine(suite.h.ctx, lines[0].LineID, testUser)
	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeAmbiguous, res.Outcome)
	suite.Len(res.Candidates, 2)
	suite.Nil(res.Match)

	lateLine := lineFor(suite.T(), late, "1210")
	manual, err := suite.h.svc.Reconciliation.ManualMatch(suite.h.ctx, lines[0].LineID, lateLine.LineID, testUser)
	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeMatched, manual.Outcome)
	suite.Equal(late.EntryID, manual.Match.EntryID)

	repeat, err := suite.h.svc.Reconciliation.ManualMatch(suite.h.ctx, lines[0].LineID, lateLine.LineID, testUser)
	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeAlreadyMatched, repeat.Outcome)

	earlyLine := lineFor(suite.T(), early, "1210")
	_, err = suite.h.svc.Reconciliation.ManualMatch(suite.h.ctx, lines[0].LineID, earlyLine.LineID, testUser)
	suite.ErrorIs(err, apperrors.ErrConflict)

	suite.Require().NoError(suite.h.svc.Reconciliation.Unmatch(suite.h.ctx, lines[0].LineID, testUser))
	suite.ErrorIs(suite.h.svc.Reconciliation.Unmatch(suite.h.ctx, lines[0].LineID, testUser), apperrors.ErrConflict)
}

func (suite *ReconciliationTestSuite) TestManualMatchValidation() {
	receipt := suite.bankReceipt("RV-1", "1500000", day(2024, time.January, 11))
	_, lines := suite.upload("BCA-001")

	revenueLine := lineFor(suite.T(), receipt, "4100")
	_, err := suite.h.svc.Reconciliation.ManualMatch(suite.h.ctx, lines[0].LineID, revenueLine.LineID, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation, "journal line on another account")

	bankLine := lineFor(suite.T(), receipt, "1210")
	_, err = suite.h.svc.Reconciliation.ManualMatch(suite.h.ctx, lines[1].LineID, bankLine.LineID, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation, "amount and direction differ")

	_, err = suite.h.svc.Reconciliation.ManualMatch(suite.h.ctx, lines[0].LineID, "00000000-0000-0000-0000-000000000000", testUser)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReconciliationTestSuite) TestNoLedgerAccount() {
	_, lines := suite.upload("MANDIRI-7")

	res, err := suite.h.svc.Reconciliation.MatchLine(suite.h.ctx, lines[0].LineID, testUser)
	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeNoLedgerAccount, res.Outcome)
}

func (suite *ReconciliationTestSuite) TestMatchBankAccounts() {
	suite.bankReceipt("RV-1", "1500000", day(2024, time.January, 10))
	suite.upload("BCA-001")
	suite.upload("MANDIRI-7")

	summary, err := suite.h.svc.Reconciliation.MatchBankAccounts(suite.h.ctx, []string{"BCA-001", "MANDIRI-7", "BCA-001"}, testUser)
	suite.Require().NoError(err)
	suite.Equal(6, summary.Processed)
	suite.Equal(1, summary.Matched)
	suite.Equal(5, summary.Unmatched)

	_, err = suite.h.svc.Reconciliation.MatchBankAccounts(suite.h.ctx, nil, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationTestSuite))
}
