package endorsementmock

import (
	"context"
	"errors"

	domain "github.com/okonpatrick/DefiTrust-Vault/internal/domain/endorsement"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("endorsementmock: method not implemented")

// Repo is a function-backed mock that satisfies endorsement.Repository.
type Repo struct {
	CreateFn                func(ctx context.Context, e *domain.Endorsement) error
	ListActiveByEndorseeFn  func(ctx context.Context, endorsee string) ([]*domain.Endorsement, error)
	CountActiveByEndorseeFn func(ctx context.Context, endorsee string) (int64, error)
	SaveFn                  func(ctx context.Context, e *domain.Endorsement) error
}

func (m *Repo) Create(ctx context.Context, e *domain.Endorsement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) ListActiveByEndorsee(ctx context.Context, endorsee string) ([]*domain.Endorsement, error) {
	if m.ListActiveByEndorseeFn != nil {
		return m.ListActiveByEndorseeFn(ctx, endorsee)
	}
	return nil, errUnimplemented
}

func (m *Repo) CountActiveByEndorsee(ctx context.Context, endorsee string) (int64, error) {
	if m.CountActiveByEndorseeFn != nil {
		return m.CountActiveByEndorseeFn(ctx, endorsee)
	}
	return 0, errUnimplemented
}

func (m *Repo) Save(ctx context.Context, e *domain.Endorsement) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, e)
	}
	return nil
}
