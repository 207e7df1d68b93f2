package pool

import (
	"errors"
	"time"
)

var (
	ErrInvalidAmount         = errors.New("pool: amount must be positive")
	ErrInsufficientLiquidity = errors.New("pool: insufficient liquidity")
	// ErrCorrupted signals an invariant breach (negative balance or
	// available exceeding total). It marks an implementation bug and must
	// abort the enclosing transaction.
	ErrCorrupted = errors.New("pool: accounting invariant violated")
)

// Pool is the singleton custody record. AvailableToBorrow equals
// TotalLiquidity minus principal locked in active loans; lent principal
// stays inside TotalLiquidity as a receivable until repaid or written
// off on default.
type Pool struct {
	ID                uint64    `gorm:"primaryKey;column:id"`
	TotalLiquidity    int64     `gorm:"not null;default:0" json:"total_liquidity"`
	AvailableToBorrow int64     `gorm:"not null;default:0" json:"available_to_borrow"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Pool) TableName() string { return "pool" }

func (p *Pool) check() error {
	if p.TotalLiquidity < 0 || p.AvailableToBorrow < 0 || p.AvailableToBorrow > p.TotalLiquidity {
		return ErrCorrupted
	}
	return nil
}

// Deposit adds external capital (deposits, endorsement stakes, net
// interest) to both totals.
func (p *Pool) Deposit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	p.TotalLiquidity += amount
	p.AvailableToBorrow += amount
	return p.check()
}

// Lock reserves principal for a funded loan.
func (p *Pool) Lock(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > p.AvailableToBorrow {
		return ErrInsufficientLiquidity
	}
	p.AvailableToBorrow -= amount
	return p.check()
}

// Release unlocks repaid principal.
func (p *Pool) Release(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	p.AvailableToBorrow += amount
	return p.check()
}

// Seize moves forfeited collateral into pool custody.
func (p *Pool) Seize(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	p.TotalLiquidity += amount
	p.AvailableToBorrow += amount
	return p.check()
}

// WriteOff removes defaulted principal from TotalLiquidity. The amount
// was locked at funding time, so AvailableToBorrow is untouched.
func (p *Pool) WriteOff(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	p.TotalLiquidity -= amount
	return p.check()
}
