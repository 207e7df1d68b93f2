package poolmock

import (
	"context"
	"errors"

	domain "github.com/okonpatrick/DefiTrust-Vault/internal/domain/pool"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("poolmock: method not implemented")

// Repo is a function-backed mock that satisfies pool.Repository.
type Repo struct {
	GetFn          func(ctx context.Context) (*domain.Pool, error)
	GetForUpdateFn func(ctx context.Context) (*domain.Pool, error)
	SaveFn         func(ctx context.Context, p *domain.Pool) error
}

func (m *Repo) Get(ctx context.Context) (*domain.Pool, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetForUpdate(ctx context.Context) (*domain.Pool, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, p *domain.Pool) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}
