package mysql

import (
	"context"

	ledgerDomain "github.com/okonpatrick/DefiTrust-Vault/internal/domain/ledger"

	"gorm.io/gorm"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Create(ctx context.Context, e *ledgerDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *LedgerRepository) ListByAddress(ctx context.Context, address string) ([]*ledgerDomain.Entry, error) {
	var out []*ledgerDomain.Entry
	res := r.db.WithContext(ctx).
		Where("address = ?", address).
		Order("id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LedgerRepository) ListByLoanID(ctx context.Context, loanID string) ([]*ledgerDomain.Entry, error) {
	var out []*ledgerDomain.Entry
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
