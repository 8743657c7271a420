package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"textile-backend/internal/config"
	"textile-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDemoLedgerService() LedgerService {
	return NewLedgerService(config.LedgerConfig{Enabled: false}, nil, nil, nil, nil, nil, nil)
}

func TestGenerateBillNumberFormat(t *testing.T) {
	khataID := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	got := generateBillNumber(model.BillTypeSale, khataID, 12)
	assert.Equal(t, "SALE-a1b2c3d4-0012", got)
}

func TestDemoLedgerSeedsDefaultData(t *testing.T) {
	svc := newDemoLedgerService()
	ctx := context.Background()

	khatas, err := svc.ListKhatas(ctx)
	require.NoError(t, err)
	require.Len(t, khatas, 1)
	assert.Equal(t, "Main Khata", khatas[0].Name)

	bills, total, err := svc.ListBills(ctx, "", "", "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, bills, 1)
	assert.Equal(t, model.BillTypePurchase, bills[0].BillType)
	assert.Equal(t, model.BillStatusPending, bills[0].Status)

	parties, _, err := svc.ListParties(ctx, "", model.PartyTypeVendor, 1, 20)
	require.NoError(t, err)
	require.Len(t, parties, 1)
	assert.Equal(t, "Demo Thread Traders", parties[0].Name)
}

func TestDemoLedgerBillRoundTrip(t *testing.T) {
	svc := newDemoLedgerService()
	ctx := context.Background()

	khatas, err := svc.ListKhatas(ctx)
	require.NoError(t, err)
	khataID := khatas[0].ID

	created, err := svc.CreateBill(ctx, CreateBillRequest{
		KhataID:     khataID,
		BillType:    model.BillTypeSale,
		Amount:      1200.50,
		Description: "Fabric lot 42",
	})
	require.NoError(t, err)

	fetched, err := svc.GetBill(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200.50, fetched.Amount)
	assert.Equal(t, 1200.50, fetched.RemainingAmount)
	assert.Equal(t, "0", fetched.PaidAmount)
	assert.Equal(t, model.BillTypeSale, fetched.BillType)
	assert.Equal(t, model.BillStatusPending, fetched.Status)
	assert.Equal(t, "Fabric lot 42", fetched.Description)
}

func TestDemoLedgerBillNumberSequencesPerType(t *testing.T) {
	svc := newDemoLedgerService()
	ctx := context.Background()

	khatas, err := svc.ListKhatas(ctx)
	require.NoError(t, err)
	khataID := khatas[0].ID
	short := strings.SplitN(khataID, "-", 2)[0]

	first, err := svc.CreateBill(ctx, CreateBillRequest{KhataID: khataID, BillType: model.BillTypeSale, Amount: 100})
	require.NoError(t, err)
	second, err := svc.CreateBill(ctx, CreateBillRequest{KhataID: khataID, BillType: model.BillTypeSale, Amount: 200})
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("SALE-%s-0001", short), first.BillNumber)
	assert.Equal(t, fmt.Sprintf("SALE-%s-0002", short), second.BillNumber)

	// The seeded PURCHASE bill occupies seq 1 for its own type.
	purchase, err := svc.CreateBill(ctx, CreateBillRequest{KhataID: khataID, BillType: model.BillTypePurchase, Amount: 300})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PURCHASE-%s-0002", short), purchase.BillNumber)
}

func TestDemoLedgerPayBillTransitions(t *testing.T) {
	svc := newDemoLedgerService()
	ctx := context.Background()

	khatas, err := svc.ListKhatas(ctx)
	require.NoError(t, err)

	bill, err := svc.CreateBill(ctx, CreateBillRequest{
		KhataID:  khatas[0].ID,
		BillType: model.BillTypeExpense,
		Amount:   1000,
	})
	require.NoError(t, err)

	after, err := svc.PayBill(ctx, bill.ID, BillPaymentRequest{Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, model.BillStatusPartial, after.Status)
	assert.Equal(t, 600.0, after.RemainingAmount)
	assert.Equal(t, "400", after.PaidAmount)

	after, err = svc.PayBill(ctx, bill.ID, BillPaymentRequest{Amount: 600})
	require.NoError(t, err)
	assert.Equal(t, model.BillStatusPaid, after.Status)
	assert.Equal(t, 0.0, after.RemainingAmount)
	assert.Equal(t, "1000", after.PaidAmount)
}

func TestDemoLedgerPayBillRejectsOverpayment(t *testing.T) {
	svc := newDemoLedgerService()
	ctx := context.Background()

	khatas, err := svc.ListKhatas(ctx)
	require.NoError(t, err)

	bill, err := svc.CreateBill(ctx, CreateBillRequest{
		KhataID:  khatas[0].ID,
		BillType: model.BillTypeSale,
		Amount:   500,
	})
	require.NoError(t, err)

	_, err = svc.PayBill(ctx, bill.ID, BillPaymentRequest{Amount: 501})
	assert.ErrorIs(t, err, ErrValidation)

	// The failed payment must not move the bill.
	fetched, err := svc.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BillStatusPending, fetched.Status)
	assert.Equal(t, 500.0, fetched.RemainingAmount)
}

func TestGetBillIncludesLedgerTransactions(t *testing.T) {
	billRepo := new(mockLedgerBillRepo)
	ledgerTxRepo := new(mockLedgerTxRepo)
	svc := NewLedgerService(config.LedgerConfig{Enabled: true}, nil, billRepo, nil, ledgerTxRepo, nil, fakeTxManager{})

	billID := uuid.New()
	billRepo.On("FindByID", mock.Anything, billID).Return(&model.LedgerBill{
		ID:              billID,
		KhataID:         uuid.New(),
		BillNumber:      "SALE-a1b2c3d4-0001",
		BillType:        model.BillTypeSale,
		BillDate:        time.Now(),
		Amount:          decimal.NewFromInt(1000),
		RemainingAmount: decimal.NewFromInt(400),
		Status:          model.BillStatusPartial,
	}, nil)
	ledgerTxRepo.On("ListByBill", mock.Anything, billID).Return([]model.LedgerTransaction{
		{
			ID:              uuid.New(),
			TransactionType: model.LedgerTxReceipt,
			Amount:          decimal.NewFromInt(600),
			TransactionDate: time.Now(),
		},
	}, nil)

	res, err := svc.GetBill(context.Background(), billID.String())
	require.NoError(t, err)

	assert.Equal(t, "600", res.PaidAmount)
	assert.Equal(t, model.BillStatusPartial, res.Status)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, model.LedgerTxReceipt, res.Transactions[0].TransactionType)
	assert.Equal(t, 600.0, res.Transactions[0].Amount)
}

func TestDemoLedgerRejectsUnknownKhata(t *testing.T) {
	svc := newDemoLedgerService()

	_, err := svc.CreateBill(context.Background(), CreateBillRequest{
		KhataID:  uuid.NewString(),
		BillType: model.BillTypeSale,
		Amount:   100,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDemoLedgerPartyAndBankAccounts(t *testing.T) {
	svc := newDemoLedgerService()
	ctx := context.Background()

	khatas, err := svc.ListKhatas(ctx)
	require.NoError(t, err)
	khataID := khatas[0].ID

	party, err := svc.CreateParty(ctx, CreatePartyRequest{
		KhataID: khataID,
		Name:    "City Fabrics",
		Type:    model.PartyTypeCustomer,
		Phone:   "0301-1111111",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PartyTypeCustomer, party.Type)

	customers, _, err := svc.ListParties(ctx, khataID, model.PartyTypeCustomer, 1, 20)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "City Fabrics", customers[0].Name)

	account, err := svc.CreateBankAccount(ctx, CreateBankAccountRequest{
		KhataID:     khataID,
		AccountName: "Operating Account",
		BankName:    "Habib Bank",
		Balance:     25000,
	})
	require.NoError(t, err)
	assert.Equal(t, 25000.0, account.Balance)

	accounts, err := svc.ListBankAccounts(ctx, khataID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Operating Account", accounts[0].AccountName)
}
