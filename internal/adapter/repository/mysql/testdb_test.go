package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	accountDomain "github.com/okonpatrick/DefiTrust-Vault/internal/domain/account"
	endorsementDomain "github.com/okonpatrick/DefiTrust-Vault/internal/domain/endorsement"
	ledgerDomain "github.com/okonpatrick/DefiTrust-Vault/internal/domain/ledger"
	poolDomain "github.com/okonpatrick/DefiTrust-Vault/internal/domain/pool"
)

// --- SQLite-friendly loans schema only for tests (no ENUM) ---

type loanSQLite struct {
	ID                 uint64     `gorm:"primaryKey;column:id"`
	LoanID             string     `gorm:"size:32;uniqueIndex;column:loan_id"`
	Borrower           string     `gorm:"size:42;column:borrower"`
	Lender             string     `gorm:"size:42;column:lender"`
	Amount             int64      `gorm:"column:amount"`
	InterestRate       int64      `gorm:"column:interest_rate"`
	CollateralAmount   int64      `gorm:"column:collateral_amount"`
	RepaymentAmount    int64      `gorm:"column:repayment_amount"`
	Status             string     `gorm:"type:text;column:status"` // ← no enum
	RequestedAt        time.Time  `gorm:"column:requested_at"`
	ApprovedAt         *time.Time `gorm:"column:approved_at"`
	RepaymentDeadline  *time.Time `gorm:"column:repayment_deadline"`
	CollateralReturned bool       `gorm:"column:collateral_returned"`
	StateUpdatedAt     time.Time  `gorm:"column:state_updated_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (loanSQLite) TableName() string { return "loans" }

// openTestDB creates an in-memory sqlite DB with all tables. Only the
// loans table needs a sqlite-safe substitute schema; the other domain
// models carry no MySQL-only column types.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&loanSQLite{},
		&accountDomain.Account{},
		&endorsementDomain.Endorsement{},
		&poolDomain.Pool{},
		&ledgerDomain.Entry{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
