package mysql

import (
	"context"
	"errors"

	accountDomain "github.com/okonpatrick/DefiTrust-Vault/internal/domain/account"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository { return &AccountRepository{db: db} }

func (r *AccountRepository) Create(ctx context.Context, a *accountDomain.Account) error {
	err := r.db.WithContext(ctx).Create(a).Error
	// Two registrations can race past the usecase existence check; the
	// unique index on address is the arbiter.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return accountDomain.ErrAlreadyRegistered
	}
	return err
}

func (r *AccountRepository) GetByAddress(ctx context.Context, address string) (*accountDomain.Account, error) {
	var out accountDomain.Account
	res := r.db.WithContext(ctx).Where("address = ?", address).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, accountDomain.ErrNotRegistered
	}
	return &out, res.Error
}

func (r *AccountRepository) GetByAddressForUpdate(ctx context.Context, address string) (*accountDomain.Account, error) {
	var out accountDomain.Account
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, accountDomain.ErrNotRegistered
	}
	return &out, res.Error
}

func (r *AccountRepository) Save(ctx context.Context, a *accountDomain.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}
