package ledgermock

import (
	"context"
	"errors"

	domain "github.com/okonpatrick/DefiTrust-Vault/internal/domain/ledger"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("ledgermock: method not implemented")

// Repo is a function-backed mock that satisfies ledger.Repository.
// The zero value accepts every Create call, which is what most
// usecase tests want; list methods must be filled in explicitly.
type Repo struct {
	CreateFn        func(ctx context.Context, e *domain.Entry) error
	ListByAddressFn func(ctx context.Context, address string) ([]*domain.Entry, error)
	ListByLoanIDFn  func(ctx context.Context, loanID string) ([]*domain.Entry, error)
}

func (m *Repo) Create(ctx context.Context, e *domain.Entry) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) ListByAddress(ctx context.Context, address string) ([]*domain.Entry, error) {
	if m.ListByAddressFn != nil {
		return m.ListByAddressFn(ctx, address)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID string) ([]*domain.Entry, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, errUnimplemented
}
