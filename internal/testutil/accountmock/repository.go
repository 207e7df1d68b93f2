package accountmock

import (
	"context"
	"errors"

	domain "github.com/okonpatrick/DefiTrust-Vault/internal/domain/account"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("accountmock: method not implemented")

// Repo is a function-backed mock that satisfies account.Repository.
// Fill in the function fields a test needs; unfilled ones fail loudly.
type Repo struct {
	CreateFn                func(ctx context.Context, a *domain.Account) error
	GetByAddressFn          func(ctx context.Context, address string) (*domain.Account, error)
	GetByAddressForUpdateFn func(ctx context.Context, address string) (*domain.Account, error)
	SaveFn                  func(ctx context.Context, a *domain.Account) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByAddress(ctx context.Context, address string) (*domain.Account, error) {
	if m.GetByAddressFn != nil {
		return m.GetByAddressFn(ctx, address)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByAddressForUpdate(ctx context.Context, address string) (*domain.Account, error) {
	if m.GetByAddressForUpdateFn != nil {
		return m.GetByAddressForUpdateFn(ctx, address)
	}
	return nil, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, a *domain.Account) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}
