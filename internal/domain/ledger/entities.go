// Package ledger records every value movement as an append-only audit
// entry. Entries are written inside the same transaction as the state
// change they describe and are never updated or deleted.
package ledger

import "time"

type EntryType string

const (
	EntryDeposit          EntryType = "deposit"
	EntryEndorsementStake EntryType = "endorsement_stake"
	EntryCollateralLock   EntryType = "collateral_lock"
	EntryDisbursement     EntryType = "disbursement"
	EntryRepayment        EntryType = "repayment"
	EntryCommission       EntryType = "commission"
	EntryCollateralRefund EntryType = "collateral_refund"
	EntryCollateralSeized EntryType = "collateral_seizure"
)

type Entry struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	EntryID   string    `gorm:"size:32;uniqueIndex:ux_ledger_entry_id" json:"entry_id"`
	Address   string    `gorm:"size:42;index:idx_ledger_address" json:"address"`
	LoanID    string    `gorm:"size:32;index:idx_ledger_loan" json:"loan_id,omitempty"`
	Type      EntryType `gorm:"size:32;not null" json:"type"`
	Amount    int64     `gorm:"not null" json:"amount"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "ledger_entries" }
