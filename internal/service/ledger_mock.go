package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"textile-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// mockLedgerService serves fabricated ledger data from process memory when no
// ledger database is configured, so the UI stays demoable without one. Writes
// land in the in-memory store and survive until the process exits.
type mockLedgerService struct {
	mu       sync.Mutex
	khatas   map[uuid.UUID]model.Khata
	bills    map[uuid.UUID]model.LedgerBill
	parties  map[uuid.UUID]model.LedgerParty
	accounts map[uuid.UUID]model.BankAccount
}

func newMockLedgerService() *mockLedgerService {
	s := &mockLedgerService{
		khatas:   make(map[uuid.UUID]model.Khata),
		bills:    make(map[uuid.UUID]model.LedgerBill),
		parties:  make(map[uuid.UUID]model.LedgerParty),
		accounts: make(map[uuid.UUID]model.BankAccount),
	}

	khata := model.Khata{
		ID:          uuid.New(),
		Name:        defaultKhataName,
		Description: "Default account book (demo data)",
		CreatedAt:   time.Now(),
	}
	s.khatas[khata.ID] = khata

	party := model.LedgerParty{
		ID:          uuid.New(),
		KhataID:     khata.ID,
		Name:        "Demo Thread Traders",
		Type:        model.PartyTypeVendor,
		Phone:       "0300-0000000",
		TotalAmount: decimal.NewFromInt(45000),
		CreatedAt:   time.Now(),
	}
	s.parties[party.ID] = party

	amount := decimal.NewFromInt(45000)
	bill := model.LedgerBill{
		ID:              uuid.New(),
		KhataID:         khata.ID,
		PartyID:         &party.ID,
		BillNumber:      generateBillNumber(model.BillTypePurchase, khata.ID, 1),
		BillType:        model.BillTypePurchase,
		BillDate:        time.Now().AddDate(0, 0, -7),
		Amount:          amount,
		RemainingAmount: amount,
		Status:          model.BillStatusPending,
		Description:     "Raw cotton thread lot",
		CreatedAt:       time.Now().AddDate(0, 0, -7),
	}
	s.bills[bill.ID] = bill

	return s
}

func (s *mockLedgerService) ListKhatas(ctx context.Context) ([]KhataResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]KhataResponse, 0, len(s.khatas))
	for _, k := range s.khatas {
		res = append(res, toKhataResponse(k))
	}
	return res, nil
}

func (s *mockLedgerService) CreateKhata(ctx context.Context, req CreateKhataRequest) (KhataResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	khata := model.Khata{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	s.khatas[khata.ID] = khata
	return toKhataResponse(khata), nil
}

func (s *mockLedgerService) ListBills(ctx context.Context, khataID, billType, status string, page, limit int) ([]BillResponse, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]BillResponse, 0, len(s.bills))
	for _, b := range s.bills {
		if khataID != "" && b.KhataID.String() != khataID {
			continue
		}
		if billType != "" && b.BillType != billType {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		res = append(res, toBillResponse(b))
	}
	return res, int64(len(res)), nil
}

func (s *mockLedgerService) CreateBill(ctx context.Context, req CreateBillRequest) (BillResponse, error) {
	khataID, err := uuid.Parse(req.KhataID)
	if err != nil {
		return BillResponse{}, fmt.Errorf("%w: invalid khata_id", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.khatas[khataID]; !ok {
		return BillResponse{}, fmt.Errorf("%w: khata", ErrNotFound)
	}

	var seq int64 = 1
	for _, b := range s.bills {
		if b.KhataID == khataID && b.BillType == req.BillType {
			seq++
		}
	}

	amount := decimal.NewFromFloat(req.Amount)
	bill := model.LedgerBill{
		ID:              uuid.New(),
		KhataID:         khataID,
		BillNumber:      generateBillNumber(req.BillType, khataID, seq),
		BillType:        req.BillType,
		BillDate:        time.Now(),
		Amount:          amount,
		RemainingAmount: amount,
		Status:          model.BillStatusPending,
		Description:     req.Description,
		CreatedAt:       time.Now(),
	}
	if req.PartyID != "" {
		partyID, parseErr := uuid.Parse(req.PartyID)
		if parseErr != nil {
			return BillResponse{}, fmt.Errorf("%w: invalid party_id", ErrValidation)
		}
		bill.PartyID = &partyID
	}
	s.bills[bill.ID] = bill
	return toBillResponse(bill), nil
}

func (s *mockLedgerService) GetBill(ctx context.Context, id string) (BillResponse, error) {
	billID, err := uuid.Parse(id)
	if err != nil {
		return BillResponse{}, fmt.Errorf("%w: invalid bill id", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bill, ok := s.bills[billID]
	if !ok {
		return BillResponse{}, fmt.Errorf("%w: bill", ErrNotFound)
	}
	return toBillResponse(bill), nil
}

func (s *mockLedgerService) PayBill(ctx context.Context, id string, req BillPaymentRequest) (BillResponse, error) {
	billID, err := uuid.Parse(id)
	if err != nil {
		return BillResponse{}, fmt.Errorf("%w: invalid bill id", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bill, ok := s.bills[billID]
	if !ok {
		return BillResponse{}, fmt.Errorf("%w: bill", ErrNotFound)
	}
	if bill.Status == model.BillStatusCancelled {
		return BillResponse{}, fmt.Errorf("%w: bill is cancelled", ErrValidation)
	}

	amount := decimal.NewFromFloat(req.Amount)
	if amount.GreaterThan(bill.RemainingAmount) {
		return BillResponse{}, fmt.Errorf("%w: payment exceeds remaining amount", ErrValidation)
	}
	bill.RemainingAmount = bill.RemainingAmount.Sub(amount)
	if bill.RemainingAmount.IsZero() {
		bill.Status = model.BillStatusPaid
	} else {
		bill.Status = model.BillStatusPartial
	}
	s.bills[billID] = bill
	return toBillResponse(bill), nil
}

func (s *mockLedgerService) ListParties(ctx context.Context, khataID, partyType string, page, limit int) ([]PartyResponse, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]PartyResponse, 0, len(s.parties))
	for _, p := range s.parties {
		if khataID != "" && p.KhataID.String() != khataID {
			continue
		}
		if partyType != "" && p.Type != partyType {
			continue
		}
		res = append(res, toPartyResponse(p))
	}
	return res, int64(len(res)), nil
}

func (s *mockLedgerService) CreateParty(ctx context.Context, req CreatePartyRequest) (PartyResponse, error) {
	khataID, err := uuid.Parse(req.KhataID)
	if err != nil {
		return PartyResponse{}, fmt.Errorf("%w: invalid khata_id", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	party := model.LedgerParty{
		ID:        uuid.New(),
		KhataID:   khataID,
		Name:      req.Name,
		Type:      req.Type,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: time.Now(),
	}
	s.parties[party.ID] = party
	return toPartyResponse(party), nil
}

func (s *mockLedgerService) ListBankAccounts(ctx context.Context, khataID string) ([]BankAccountResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]BankAccountResponse, 0, len(s.accounts))
	for _, a := range s.accounts {
		if khataID != "" && a.KhataID.String() != khataID {
			continue
		}
		res = append(res, toBankAccountResponse(a))
	}
	return res, nil
}

func (s *mockLedgerService) CreateBankAccount(ctx context.Context, req CreateBankAccountRequest) (BankAccountResponse, error) {
	khataID, err := uuid.Parse(req.KhataID)
	if err != nil {
		return BankAccountResponse{}, fmt.Errorf("%w: invalid khata_id", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	account := model.BankAccount{
		ID:            uuid.New(),
		KhataID:       khataID,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		Balance:       decimal.NewFromFloat(req.Balance),
		CreatedAt:     time.Now(),
	}
	s.accounts[account.ID] = account
	return toBankAccountResponse(account), nil
}
