package loan

import "time"

// Terms carries the configured lending parameters. Values are fixed at
// loan creation; later config changes never touch existing loans.
type Terms struct {
	MinTrustScore       int64
	InterestRateBps     int64
	CollateralFactorPct int64
	CommissionBps       int64
	Duration            time.Duration
	RepayScoreReward    int64
	DefaultScorePenalty int64
}

type RequestInput struct {
	Borrower   string `json:"borrower"`
	Amount     int64  `json:"amount"`
	Collateral int64  `json:"collateral"`
}

type RepayInput struct {
	LoanID string
	Payer  string `json:"payer"`
	Amount int64  `json:"amount"`
}

// LedgerEntryDTO is one audit row of a loan's value movements.
type LedgerEntryDTO struct {
	EntryID   string `json:"entry_id"`
	Address   string `json:"address"`
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	CreatedAt int64  `json:"created_at"`
}

// LoanDTO is the wire representation of a loan. Timestamps are unix
// seconds; zero means not set (e.g. approved_at on a cancelled loan).
type LoanDTO struct {
	LoanID             string `json:"loan_id"`
	Borrower           string `json:"borrower"`
	Lender             string `json:"lender"`
	Amount             int64  `json:"amount"`
	InterestRate       int64  `json:"interest_rate"`
	CollateralAmount   int64  `json:"collateral_amount"`
	RepaymentAmount    int64  `json:"repayment_amount"`
	Status             string `json:"status"`
	RequestedAt        int64  `json:"requested_at"`
	ApprovedAt         int64  `json:"approved_at,omitempty"`
	RepaymentDeadline  int64  `json:"repayment_deadline,omitempty"`
	CollateralReturned bool   `json:"collateral_returned"`
}
