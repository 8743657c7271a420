package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"textile-backend/internal/config"
	"textile-backend/internal/model"
	"textile-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultKhataName = "Main Khata"

// --- DTOs ---

type CreateKhataRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type KhataResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type CreateBillRequest struct {
	KhataID     string  `json:"khata_id" binding:"required"`
	PartyID     string  `json:"party_id"`
	BillType    string  `json:"bill_type" binding:"required,oneof=PURCHASE SALE EXPENSE"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	BillDate    string  `json:"bill_date"`
	DueDate     string  `json:"due_date"`
	Description string  `json:"description"`
}

type LedgerTxResponse struct {
	ID              string  `json:"id"`
	TransactionType string  `json:"transaction_type"`
	Amount          float64 `json:"amount"`
	TransactionDate string  `json:"transaction_date"`
	BankAccountID   *string `json:"bank_account_id"`
	Description     string  `json:"description"`
}

type BillResponse struct {
	ID              string             `json:"id"`
	KhataID         string             `json:"khata_id"`
	PartyID         *string            `json:"party_id"`
	BillNumber      string             `json:"bill_number"`
	BillType        string             `json:"bill_type"`
	BillDate        string             `json:"bill_date"`
	DueDate         *string            `json:"due_date"`
	Amount          float64            `json:"amount"`
	PaidAmount      string             `json:"paid_amount"`
	RemainingAmount float64            `json:"remaining_amount"`
	Status          string             `json:"status"`
	Description     string             `json:"description"`
	Transactions    []LedgerTxResponse `json:"transactions,omitempty"`
	CreatedAt       string             `json:"created_at"`
}

type BillPaymentRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	BankAccountID string  `json:"bank_account_id"`
	Description   string  `json:"description"`
}

type CreatePartyRequest struct {
	KhataID string `json:"khata_id" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=VENDOR CUSTOMER"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type PartyResponse struct {
	ID          string  `json:"id"`
	KhataID     string  `json:"khata_id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	TotalAmount float64 `json:"total_amount"`
	CreatedAt   string  `json:"created_at"`
}

type CreateBankAccountRequest struct {
	KhataID       string  `json:"khata_id" binding:"required"`
	AccountName   string  `json:"account_name" binding:"required"`
	AccountNumber string  `json:"account_number"`
	BankName      string  `json:"bank_name"`
	Balance       float64 `json:"balance"`
}

type BankAccountResponse struct {
	ID            string  `json:"id"`
	KhataID       string  `json:"khata_id"`
	AccountName   string  `json:"account_name"`
	AccountNumber string  `json:"account_number"`
	BankName      string  `json:"bank_name"`
	Balance       float64 `json:"balance"`
	CreatedAt     string  `json:"created_at"`
}

func toKhataResponse(k model.Khata) KhataResponse {
	return KhataResponse{
		ID:          k.ID.String(),
		Name:        k.Name,
		Description: k.Description,
		CreatedAt:   k.CreatedAt.Format(time.RFC3339),
	}
}

func toBillResponse(b model.LedgerBill) BillResponse {
	res := BillResponse{
		ID:              b.ID.String(),
		KhataID:         b.KhataID.String(),
		BillNumber:      b.BillNumber,
		BillType:        b.BillType,
		BillDate:        b.BillDate.Format(time.RFC3339),
		Amount:          b.Amount.InexactFloat64(),
		PaidAmount:      b.Amount.Sub(b.RemainingAmount).String(),
		RemainingAmount: b.RemainingAmount.InexactFloat64(),
		Status:          b.Status,
		Description:     b.Description,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
	if b.PartyID != nil {
		s := b.PartyID.String()
		res.PartyID = &s
	}
	if b.DueDate != nil {
		s := b.DueDate.Format(time.RFC3339)
		res.DueDate = &s
	}
	return res
}

func toLedgerTxResponse(tx model.LedgerTransaction) LedgerTxResponse {
	res := LedgerTxResponse{
		ID:              tx.ID.String(),
		TransactionType: tx.TransactionType,
		Amount:          tx.Amount.InexactFloat64(),
		TransactionDate: tx.TransactionDate.Format(time.RFC3339),
		Description:     tx.Description,
	}
	if tx.BankAccountID != nil {
		s := tx.BankAccountID.String()
		res.BankAccountID = &s
	}
	return res
}

func toPartyResponse(p model.LedgerParty) PartyResponse {
	return PartyResponse{
		ID:          p.ID.String(),
		KhataID:     p.KhataID.String(),
		Name:        p.Name,
		Type:        p.Type,
		Phone:       p.Phone,
		Address:     p.Address,
		TotalAmount: p.TotalAmount.InexactFloat64(),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func toBankAccountResponse(a model.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:            a.ID.String(),
		KhataID:       a.KhataID.String(),
		AccountName:   a.AccountName,
		AccountNumber: a.AccountNumber,
		BankName:      a.BankName,
		Balance:       a.Balance.InexactFloat64(),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}

// generateBillNumber builds <billType>-<khata id prefix>-<zero-padded seq>.
// Callers compute seq inside the creating transaction.
func generateBillNumber(billType string, khataID uuid.UUID, seq int64) string {
	short := strings.SplitN(khataID.String(), "-", 2)[0]
	return fmt.Sprintf("%s-%s-%04d", billType, short, seq)
}

// --- Interface ---

type LedgerService interface {
	ListKhatas(ctx context.Context) ([]KhataResponse, error)
	CreateKhata(ctx context.Context, req CreateKhataRequest) (KhataResponse, error)
	ListBills(ctx context.Context, khataID, billType, status string, page, limit int) ([]BillResponse, int64, error)
	CreateBill(ctx context.Context, req CreateBillRequest) (BillResponse, error)
	GetBill(ctx context.Context, id string) (BillResponse, error)
	PayBill(ctx context.Context, id string, req BillPaymentRequest) (BillResponse, error)
	ListParties(ctx context.Context, khataID, partyType string, page, limit int) ([]PartyResponse, int64, error)
	CreateParty(ctx context.Context, req CreatePartyRequest) (PartyResponse, error)
	ListBankAccounts(ctx context.Context, khataID string) ([]BankAccountResponse, error)
	CreateBankAccount(ctx context.Context, req CreateBankAccountRequest) (BankAccountResponse, error)
}

// NewLedgerService selects the persistence-backed implementation or the
// fabricated demo one based on startup configuration, never on per-request
// environment checks.
func NewLedgerService(
	cfg config.LedgerConfig,
	khataRepo repository.KhataRepository,
	billRepo repository.LedgerBillRepository,
	partyRepo repository.LedgerPartyRepository,
	ledgerTxRepo repository.LedgerTransactionRepository,
	bankRepo repository.BankAccountRepository,
	txManager repository.TransactionManager,
) LedgerService {
	if !cfg.Enabled {
		return newMockLedgerService()
	}
	return &ledgerService{
		khataRepo:    khataRepo,
		billRepo:     billRepo,
		partyRepo:    partyRepo,
		ledgerTxRepo: ledgerTxRepo,
		bankRepo:     bankRepo,
		txManager:    txManager,
	}
}

type ledgerService struct {
	khataRepo    repository.KhataRepository
	billRepo     repository.LedgerBillRepository
	partyRepo    repository.LedgerPartyRepository
	ledgerTxRepo repository.LedgerTransactionRepository
	bankRepo     repository.BankAccountRepository
	txManager    repository.TransactionManager
}

// ListKhatas lazily ensures the default khata. The unique name index makes
// concurrent first calls converge on one row.
func (s *ledgerService) ListKhatas(ctx context.Context) ([]KhataResponse, error) {
	khatas, err := s.khataRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list khatas: %w", err)
	}
	if len(khatas) == 0 {
		def := model.Khata{Name: defaultKhataName, Description: "Default account book"}
		if err := s.khataRepo.FirstOrCreateByName(ctx, &def); err != nil {
			return nil, fmt.Errorf("failed to create default khata: %w", err)
		}
		khatas = []model.Khata{def}
	}

	res := make([]KhataResponse, 0, len(khatas))
	for _, k := range khatas {
		res = append(res, toKhataResponse(k))
	}
	return res, nil
}

func (s *ledgerService) CreateKhata(ctx context.Context, req CreateKhataRequest) (KhataResponse, error) {
	khata := model.Khata{Name: req.Name, Description: req.Description}
	if err := s.khataRepo.Create(ctx, &khata); err != nil {
		return KhataResponse{}, fmt.Errorf("failed to create khata: %w", err)
	}
	return toKhataResponse(khata), nil
}

func (s *ledgerService) ListBills(ctx context.Context, khataID, billType, status string, page, limit int) ([]BillResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var khataFilter *uuid.UUID
	if khataID != "" {
		parsed, err := uuid.Parse(khataID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid khata_id", ErrValidation)
		}
		khataFilter = &parsed
	}

	bills, total, err := s.billRepo.List(ctx, khataFilter, billType, status, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		res = append(res, toBillResponse(b))
	}
	return res, total, nil
}

func (s *ledgerService) CreateBill(ctx context.Context, req CreateBillRequest) (BillResponse, error) {
	khataID, err := uuid.Parse(req.KhataID)
	if err != nil {
		return BillResponse{}, fmt.Errorf("%w: invalid khata_id", ErrValidation)
	}
	if _, err := s.khataRepo.FindByID(ctx, khataID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BillResponse{}, fmt.Errorf("%w: khata", ErrNotFound)
		}
		return BillResponse{}, fmt.Errorf("database error: %w", err)
	}

	amount := decimal.NewFromFloat(req.Amount)
	bill := model.LedgerBill{
		KhataID:         khataID,
		BillType:        req.BillType,
		BillDate:        time.Now(),
		Amount:          amount,
		RemainingAmount: amount,
		Status:          model.BillStatusPending,
		Description:     req.Description,
	}
	if req.PartyID != "" {
		partyID, parseErr := uuid.Parse(req.PartyID)
		if parseErr != nil {
			return BillResponse{}, fmt.Errorf("%w: invalid party_id", ErrValidation)
		}
		if _, err := s.partyRepo.FindByID(ctx, partyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return BillResponse{}, fmt.Errorf("%w: ledger party", ErrNotFound)
			}
			return BillResponse{}, fmt.Errorf("database error: %w", err)
		}
		bill.PartyID = &partyID
	}
	if req.BillDate != "" {
		parsed, parseErr := time.Parse(time.RFC3339, req.BillDate)
		if parseErr != nil {
			return BillResponse{}, fmt.Errorf("%w: invalid bill_date", ErrValidation)
		}
		bill.BillDate = parsed
	}
	if req.DueDate != "" {
		parsed, parseErr := time.Parse(time.RFC3339, req.DueDate)
		if parseErr != nil {
			return BillResponse{}, fmt.Errorf("%w: invalid due_date", ErrValidation)
		}
		bill.DueDate = &parsed
	}

	// Bill number sequencing happens inside the creating transaction; the
	// unique index on bill_number backstops concurrent creators.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		count, err := s.billRepo.CountByKhataAndType(txCtx, khataID, req.BillType)
		if err != nil {
			return fmt.Errorf("failed to count bills: %w", err)
		}
		bill.BillNumber = generateBillNumber(req.BillType, khataID, count+1)
		if err := s.billRepo.Create(txCtx, &bill); err != nil {
			return fmt.Errorf("failed to create bill: %w", err)
		}
		return nil
	})
	if err != nil {
		return BillResponse{}, err
	}

	return toBillResponse(bill), nil
}

func (s *ledgerService) GetBill(ctx context.Context, id string) (BillResponse, error) {
	billID, err := uuid.Parse(id)
	if err != nil {
		return BillResponse{}, fmt.Errorf("%w: invalid bill id", ErrValidation)
	}
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BillResponse{}, fmt.Errorf("%w: bill", ErrNotFound)
		}
		return BillResponse{}, fmt.Errorf("database error: %w", err)
	}

	res := toBillResponse(*bill)
	txs, err := s.ledgerTxRepo.ListByBill(ctx, billID)
	if err != nil {
		return BillResponse{}, fmt.Errorf("failed to load bill transactions: %w", err)
	}
	for _, tx := range txs {
		res.Transactions = append(res.Transactions, toLedgerTxResponse(tx))
	}
	return res, nil
}

// PayBill applies a payment to a bill, moving remaining amount and status,
// recording the ledger transaction and the optional bank movement in one
// transaction.
func (s *ledgerService) PayBill(ctx context.Context, id string, req BillPaymentRequest) (BillResponse, error) {
	billID, err := uuid.Parse(id)
	if err != nil {
		return BillResponse{}, fmt.Errorf("%w: invalid bill id", ErrValidation)
	}
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BillResponse{}, fmt.Errorf("%w: bill", ErrNotFound)
		}
		return BillResponse{}, fmt.Errorf("database error: %w", err)
	}
	if bill.Status == model.BillStatusCancelled {
		return BillResponse{}, fmt.Errorf("%w: bill is cancelled", ErrValidation)
	}

	amount := decimal.NewFromFloat(req.Amount)
	if amount.GreaterThan(bill.RemainingAmount) {
		return BillResponse{}, fmt.Errorf("%w: payment exceeds remaining amount", ErrValidation)
	}

	var bankAccountID *uuid.UUID
	if req.BankAccountID != "" {
		parsed, parseErr := uuid.Parse(req.BankAccountID)
		if parseErr != nil {
			return BillResponse{}, fmt.Errorf("%w: invalid bank_account_id", ErrValidation)
		}
		if _, err := s.bankRepo.FindByID(ctx, parsed); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return BillResponse{}, fmt.Errorf("%w: bank account", ErrNotFound)
			}
			return BillResponse{}, fmt.Errorf("database error: %w", err)
		}
		bankAccountID = &parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		bill.RemainingAmount = bill.RemainingAmount.Sub(amount)
		if bill.RemainingAmount.IsZero() {
			bill.Status = model.BillStatusPaid
		} else {
			bill.Status = model.BillStatusPartial
		}
		if err := s.billRepo.Update(txCtx, bill); err != nil {
			return fmt.Errorf("failed to update bill: %w", err)
		}

		txType := model.LedgerTxReceipt
		if bill.BillType == model.BillTypePurchase || bill.BillType == model.BillTypeExpense {
			txType = model.LedgerTxPayment
		}
		ledgerTx := &model.LedgerTransaction{
			KhataID:         bill.KhataID,
			BillID:          &bill.ID,
			PartyID:         bill.PartyID,
			BankAccountID:   bankAccountID,
			TransactionType: txType,
			Amount:          amount,
			TransactionDate: time.Now(),
			Description:     req.Description,
		}
		if err := s.ledgerTxRepo.Create(txCtx, ledgerTx); err != nil {
			return fmt.Errorf("failed to record ledger transaction: %w", err)
		}

		if bankAccountID != nil {
			delta := amount
			if txType == model.LedgerTxPayment {
				delta = amount.Neg()
			}
			if err := s.bankRepo.AdjustBalance(txCtx, *bankAccountID, delta); err != nil {
				return fmt.Errorf("failed to adjust bank balance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return BillResponse{}, err
	}

	return toBillResponse(*bill), nil
}

func (s *ledgerService) ListParties(ctx context.Context, khataID, partyType string, page, limit int) ([]PartyResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var khataFilter *uuid.UUID
	if khataID != "" {
		parsed, err := uuid.Parse(khataID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid khata_id", ErrValidation)
		}
		khataFilter = &parsed
	}

	parties, total, err := s.partyRepo.List(ctx, khataFilter, partyType, page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]PartyResponse, 0, len(parties))
	for _, p := range parties {
		res = append(res, toPartyResponse(p))
	}
	return res, total, nil
}

func (s *ledgerService) CreateParty(ctx context.Context, req CreatePartyRequest) (PartyResponse, error) {
	khataID, err := uuid.Parse(req.KhataID)
	if err != nil {
		return PartyResponse{}, fmt.Errorf("%w: invalid khata_id", ErrValidation)
	}
	party := model.LedgerParty{
		KhataID: khataID,
		Name:    req.Name,
		Type:    req.Type,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.partyRepo.Create(ctx, &party); err != nil {
		return PartyResponse{}, fmt.Errorf("failed to create party: %w", err)
	}
	return toPartyResponse(party), nil
}

func (s *ledgerService) ListBankAccounts(ctx context.Context, khataID string) ([]BankAccountResponse, error) {
	var khataFilter *uuid.UUID
	if khataID != "" {
		parsed, err := uuid.Parse(khataID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid khata_id", ErrValidation)
		}
		khataFilter = &parsed
	}

	accounts, err := s.bankRepo.List(ctx, khataFilter)
	if err != nil {
		return nil, err
	}
	res := make([]BankAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		res = append(res, toBankAccountResponse(a))
	}
	return res, nil
}

func (s *ledgerService) CreateBankAccount(ctx context.Context, req CreateBankAccountRequest) (BankAccountResponse, error) {
	khataID, err := uuid.Parse(req.KhataID)
	if err != nil {
		return BankAccountResponse{}, fmt.Errorf("%w: invalid khata_id", ErrValidation)
	}
	account := model.BankAccount{
		KhataID:       khataID,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		Balance:       decimal.NewFromFloat(req.Balance),
	}
	if err := s.bankRepo.Create(ctx, &account); err != nil {
		return BankAccountResponse{}, fmt.Errorf("failed to create bank account: %w", err)
	}
	return toBankAccountResponse(account), nil
}
