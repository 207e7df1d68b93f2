package account

import (
	"errors"
	"time"
)

const (
	// MaxTrustScore is the upper clamp for every score adjustment.
	MaxTrustScore int64 = 1000
	// ZeroAddress marks "no address" slots (e.g. an unfunded loan's lender).
	ZeroAddress = "0x0000000000000000000000000000000000000000"
)

var (
	ErrNotRegistered     = errors.New("account: not registered")
	ErrAlreadyRegistered = errors.New("account: already registered")
)

// Account is a trust registry record. Created by explicit registration,
// never deleted; the score is mutated only through AdjustScore so the
// [0, MaxTrustScore] clamp cannot be bypassed.
type Account struct {
	ID                uint64    `gorm:"primaryKey;column:id"`
	Address           string    `gorm:"size:42;uniqueIndex:ux_accounts_address" json:"address"`
	TrustScore        int64     `gorm:"not null" json:"trust_score"`
	LoansCompleted    int64     `gorm:"not null;default:0" json:"loans_completed"`
	LoansDefaulted    int64     `gorm:"not null;default:0" json:"loans_defaulted"`
	TotalStakedOnUser int64     `gorm:"not null;default:0" json:"total_staked_on_user"`
	IsRegistered      bool      `gorm:"not null" json:"is_registered"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// AdjustScore applies a signed delta clamped to [0, MaxTrustScore].
func (a *Account) AdjustScore(delta int64) {
	s := a.TrustScore + delta
	if s < 0 {
		s = 0
	}
	if s > MaxTrustScore {
		s = MaxTrustScore
	}
	a.TrustScore = s
}

// RecordRepayment applies the completed-loan reward.
func (a *Account) RecordRepayment(reward int64) {
	a.LoansCompleted++
	a.AdjustScore(reward)
}

// RecordDefault applies the default penalty. The penalty magnitude is
// configured larger than the repayment reward so repeated
// borrow-and-default cycles are strictly loss-making.
func (a *Account) RecordDefault(penalty int64) {
	a.LoansDefaulted++
	a.AdjustScore(-penalty)
}
