package loan

import (
	"errors"
	"time"
)

type Status string

const (
	StatusRequested Status = "requested"
	StatusActive    Status = "active"
	StatusRepaid    Status = "repaid"
	StatusDefaulted Status = "defaulted"
	StatusCancelled Status = "cancelled"
)

// LenderPool is the lender value once the liquidity pool funds a loan.
const LenderPool = "pool"

var (
	ErrNotFound             = errors.New("loan: not found")
	ErrNotActive            = errors.New("loan: not active")
	ErrInvalidAmount        = errors.New("loan: amount must be positive")
	ErrTrustScoreTooLow     = errors.New("loan: trust score too low")
	ErrCollateralMismatch   = errors.New("loan: supplied collateral does not match required amount")
	ErrWrongRepaymentAmount = errors.New("loan: supplied amount does not match repayment amount")
	ErrDeadlineNotReached   = errors.New("loan: repayment deadline not reached")
)

// Loan is owned exclusively by the loan engine; borrower and lender hold
// only the public LoanID. Terminal rows (repaid, defaulted, cancelled)
// are retained for audit and never transition again.
type Loan struct {
	ID                 uint64     `gorm:"primaryKey;column:id"`
	LoanID             string     `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	Borrower           string     `gorm:"size:42;index:idx_loans_borrower" json:"borrower"`
	Lender             string     `gorm:"size:42" json:"lender"`
	Amount             int64      `gorm:"not null" json:"amount"`
	InterestRate       int64      `gorm:"not null" json:"interest_rate"`
	CollateralAmount   int64      `gorm:"not null" json:"collateral_amount"`
	RepaymentAmount    int64      `gorm:"not null" json:"repayment_amount"`
	Status             Status     `gorm:"type:enum('requested','active','repaid','defaulted','cancelled');default:'requested'" json:"status"`
	RequestedAt        time.Time  `gorm:"not null" json:"requested_at"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	RepaymentDeadline  *time.Time `json:"repayment_deadline,omitempty"`
	CollateralReturned bool       `gorm:"not null;default:false" json:"collateral_returned"`
	StateUpdatedAt     time.Time  `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Terminal reports whether the loan can never transition again.
func (l *Loan) Terminal() bool {
	switch l.Status {
	case StatusRepaid, StatusDefaulted, StatusCancelled:
		return true
	}
	return false
}

// CollateralFor sizes the locked collateral: principal scaled by the
// collateral factor in percent, floor division.
func CollateralFor(amount, factorPct int64) int64 {
	return amount * factorPct / 100
}

// RepaymentFor computes principal plus interest at rateBps basis points,
// floor division. Fixed at creation and never recomputed.
func RepaymentFor(amount, rateBps int64) int64 {
	return amount + amount*rateBps/10000
}

// CommissionFor computes the endorser commission on the principal at
// commissionBps basis points, floor division.
func CommissionFor(amount, commissionBps int64) int64 {
	return amount * commissionBps / 10000
}
