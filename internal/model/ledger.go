package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartyType enum constants
const (
	PartyTypeVendor   = "VENDOR"
	PartyTypeCustomer = "CUSTOMER"
)

// BillType enum constants
const (
	BillTypePurchase = "PURCHASE"
	BillTypeSale     = "SALE"
	BillTypeExpense  = "EXPENSE"
)

// BillStatus enum constants
const (
	BillStatusPending   = "PENDING"
	BillStatusPartial   = "PARTIAL"
	BillStatusPaid      = "PAID"
	BillStatusCancelled = "CANCELLED"
)

// LedgerTxType enum constants
const (
	LedgerTxPayment        = "PAYMENT"
	LedgerTxReceipt        = "RECEIPT"
	LedgerTxBankDeposit    = "BANK_DEPOSIT"
	LedgerTxBankWithdrawal = "BANK_WITHDRAWAL"
)

// Khata is a named account book grouping ledger parties, bills and
// transactions. Name is unique so lazy default creation cannot produce
// duplicates under concurrent requests.
type Khata struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Bills       []LedgerBill `gorm:"foreignKey:KhataID" json:"bills,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// LedgerParty is a vendor or customer tracked inside a khata
type LedgerParty struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	KhataID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"khata_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Type        string          `gorm:"type:varchar(20);not null;index" json:"type"` // VENDOR, CUSTOMER
	Phone       string          `gorm:"type:varchar(50)" json:"phone"`
	Address     string          `gorm:"type:text" json:"address"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LedgerBill is an invoice inside a khata, tracking payment progress through
// Amount/RemainingAmount and Status.
type LedgerBill struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	KhataID         uuid.UUID           `gorm:"type:uuid;not null;index" json:"khata_id"`
	Khata           *Khata              `gorm:"foreignKey:KhataID" json:"khata,omitempty"`
	PartyID         *uuid.UUID          `gorm:"type:uuid;index" json:"party_id"`
	Party           *LedgerParty        `gorm:"foreignKey:PartyID" json:"party,omitempty"`
	BillNumber      string              `gorm:"type:varchar(100);uniqueIndex;not null" json:"bill_number"`
	BillType        string              `gorm:"type:varchar(20);not null;index" json:"bill_type"` // PURCHASE, SALE, EXPENSE
	BillDate        time.Time           `json:"bill_date"`
	DueDate         *time.Time          `json:"due_date"`
	Amount          decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"amount"`
	RemainingAmount decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"remaining_amount"`
	Status          string              `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Description     string              `gorm:"type:text" json:"description"`
	Transactions    []LedgerTransaction `gorm:"foreignKey:BillID" json:"transactions,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// LedgerTransaction is a payment or receipt applied to a bill or a party
type LedgerTransaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	KhataID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"khata_id"`
	BillID          *uuid.UUID      `gorm:"type:uuid;index" json:"bill_id"`
	PartyID         *uuid.UUID      `gorm:"type:uuid;index" json:"party_id"`
	BankAccountID   *uuid.UUID      `gorm:"type:uuid;index" json:"bank_account_id"`
	TransactionType string          `gorm:"type:varchar(30);not null" json:"transaction_type"` // PAYMENT, RECEIPT, BANK_DEPOSIT, BANK_WITHDRAWAL
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	Description     string          `gorm:"type:text" json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BankAccount is a bank account whose balance moves with ledger transactions
type BankAccount struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	KhataID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"khata_id"`
	AccountName   string          `gorm:"type:varchar(255);not null" json:"account_name"`
	AccountNumber string          `gorm:"type:varchar(100)" json:"account_number"`
	BankName      string          `gorm:"type:varchar(255)" json:"bank_name"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
