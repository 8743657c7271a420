package repository

import (
	"context"
	"errors"

	"textile-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KhataRepository interface {
	Create(ctx context.Context, khata *model.Khata) error
	// FirstOrCreateByName resolves a khata by its unique name, creating it
	// when absent. The unique index makes concurrent callers converge on a
	// single row instead of racing a check-then-create.
	FirstOrCreateByName(ctx context.Context, khata *model.Khata) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Khata, error)
	List(ctx context.Context) ([]model.Khata, error)
}

type khataRepository struct {
	db *gorm.DB
}

func NewKhataRepository(db *gorm.DB) KhataRepository {
	return &khataRepository{db: db}
}

func (r *khataRepository) Create(ctx context.Context, khata *model.Khata) error {
	return GetDB(ctx, r.db).Create(khata).Error
}

func (r *khataRepository) FirstOrCreateByName(ctx context.Context, khata *model.Khata) error {
	db := GetDB(ctx, r.db)

	err := db.Where("name = ?", khata.Name).First(khata).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// A concurrent creator may win between the select and the insert; the
	// conflict clause turns the losing insert into a no-op and we re-read
	// the surviving row.
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(khata)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return db.Where("name = ?", khata.Name).First(khata).Error
	}
	return nil
}

func (r *khataRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Khata, error) {
	var khata model.Khata
	if err := GetDB(ctx, r.db).First(&khata, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &khata, nil
}

func (r *khataRepository) List(ctx context.Context) ([]model.Khata, error) {
	var khatas []model.Khata
	if err := GetDB(ctx, r.db).Order("created_at ASC").Find(&khatas).Error; err != nil {
		return nil, err
	}
	return khatas, nil
}

type LedgerBillRepository interface {
	Create(ctx context.Context, bill *model.LedgerBill) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LedgerBill, error)
	List(ctx context.Context, khataID *uuid.UUID, billType, status string, page, limit int) ([]model.LedgerBill, int64, error)
	Update(ctx context.Context, bill *model.LedgerBill) error
	CountByKhataAndType(ctx context.Context, khataID uuid.UUID, billType string) (int64, error)
}

type ledgerBillRepository struct {
	db *gorm.DB
}

func NewLedgerBillRepository(db *gorm.DB) LedgerBillRepository {
	return &ledgerBillRepository{db: db}
}

func (r *ledgerBillRepository) Create(ctx context.Context, bill *model.LedgerBill) error {
	return GetDB(ctx, r.db).Create(bill).Error
}

func (r *ledgerBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LedgerBill, error) {
	var bill model.LedgerBill
	if err := GetDB(ctx, r.db).
		Preload("Party").
		First(&bill, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *ledgerBillRepository) List(ctx context.Context, khataID *uuid.UUID, billType, status string, page, limit int) ([]model.LedgerBill, int64, error) {
	var bills []model.LedgerBill
	var total int64

	query := GetDB(ctx, r.db).Model(&model.LedgerBill{})
	if khataID != nil {
		query = query.Where("khata_id = ?", *khataID)
	}
	if billType != "" {
		query = query.Where("bill_type = ?", billType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Party").
		Order("bill_date DESC").
		Offset(offset).Limit(limit).
		Find(&bills).Error; err != nil {
		return nil, 0, err
	}

	return bills, total, nil
}

func (r *ledgerBillRepository) Update(ctx context.Context, bill *model.LedgerBill) error {
	return GetDB(ctx, r.db).Save(bill).Error
}

// CountByKhataAndType feeds bill number generation; callers invoke it inside
// the creating transaction so the sequence cannot be reused concurrently.
func (r *ledgerBillRepository) CountByKhataAndType(ctx context.Context, khataID uuid.UUID, billType string) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.LedgerBill{}).
		Where("khata_id = ? AND bill_type = ?", khataID, billType).
		Count(&count).Error
	return count, err
}

type LedgerPartyRepository interface {
	Create(ctx context.Context, party *model.LedgerParty) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LedgerParty, error)
	List(ctx context.Context, khataID *uuid.UUID, partyType string, page, limit int) ([]model.LedgerParty, int64, error)
	Update(ctx context.Context, party *model.LedgerParty) error
}

type ledgerPartyRepository struct {
	db *gorm.DB
}

func NewLedgerPartyRepository(db *gorm.DB) LedgerPartyRepository {
	return &ledgerPartyRepository{db: db}
}

func (r *ledgerPartyRepository) Create(ctx context.Context, party *model.LedgerParty) error {
	return GetDB(ctx, r.db).Create(party).Error
}

func (r *ledgerPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LedgerParty, error) {
	var party model.LedgerParty
	if err := GetDB(ctx, r.db).First(&party, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &party, nil
}

func (r *ledgerPartyRepository) List(ctx context.Context, khataID *uuid.UUID, partyType string, page, limit int) ([]model.LedgerParty, int64, error) {
	var parties []model.LedgerParty
	var total int64

	query := GetDB(ctx, r.db).Model(&model.LedgerParty{})
	if khataID != nil {
		query = query.Where("khata_id = ?", *khataID)
	}
	if partyType != "" {
		query = query.Where("type = ?", partyType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&parties).Error; err != nil {
		return nil, 0, err
	}

	return parties, total, nil
}

func (r *ledgerPartyRepository) Update(ctx context.Context, party *model.LedgerParty) error {
	return GetDB(ctx, r.db).Save(party).Error
}

type LedgerTransactionRepository interface {
	Create(ctx context.Context, tx *model.LedgerTransaction) error
	ListByBill(ctx context.Context, billID uuid.UUID) ([]model.LedgerTransaction, error)
}

type ledgerTransactionRepository struct {
	db *gorm.DB
}

func NewLedgerTransactionRepository(db *gorm.DB) LedgerTransactionRepository {
	return &ledgerTransactionRepository{db: db}
}

func (r *ledgerTransactionRepository) Create(ctx context.Context, tx *model.LedgerTransaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *ledgerTransactionRepository) ListByBill(ctx context.Context, billID uuid.UUID) ([]model.LedgerTransaction, error) {
	var txs []model.LedgerTransaction
	if err := GetDB(ctx, r.db).Where("bill_id = ?", billID).Order("transaction_date ASC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

type BankAccountRepository interface {
	Create(ctx context.Context, account *model.BankAccount) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error)
	List(ctx context.Context, khataID *uuid.UUID) ([]model.BankAccount, error)
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

type bankAccountRepository struct {
	db *gorm.DB
}

func NewBankAccountRepository(db *gorm.DB) BankAccountRepository {
	return &bankAccountRepository{db: db}
}

func (r *bankAccountRepository) Create(ctx context.Context, account *model.BankAccount) error {
	return GetDB(ctx, r.db).Create(account).Error
}

func (r *bankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BankAccount, error) {
	var account model.BankAccount
	if err := GetDB(ctx, r.db).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *bankAccountRepository) List(ctx context.Context, khataID *uuid.UUID) ([]model.BankAccount, error) {
	var accounts []model.BankAccount
	query := GetDB(ctx, r.db).Model(&model.BankAccount{})
	if khataID != nil {
		query = query.Where("khata_id = ?", *khataID)
	}
	if err := query.Order("account_name ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *bankAccountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.BankAccount{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
}
