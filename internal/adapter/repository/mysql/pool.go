package mysql

import (
	"context"
	"errors"

	poolDomain "github.com/okonpatrick/DefiTrust-Vault/internal/domain/pool"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PoolRepository struct{ db *gorm.DB }

func NewPoolRepository(db *gorm.DB) *PoolRepository { return &PoolRepository{db: db} }

// The pool is a single row created lazily with zero balances.

func (r *PoolRepository) Get(ctx context.Context) (*poolDomain.Pool, error) {
	return r.fetch(ctx, r.db.WithContext(ctx))
}

func (r *PoolRepository) GetForUpdate(ctx context.Context) (*poolDomain.Pool, error) {
	return r.fetch(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}))
}

func (r *PoolRepository) fetch(ctx context.Context, q *gorm.DB) (*poolDomain.Pool, error) {
	var out poolDomain.Pool
	res := q.First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		seed := &poolDomain.Pool{}
		if err := r.db.WithContext(ctx).Create(seed).Error; err != nil {
			return nil, err
		}
		return seed, nil
	}
	return &out, res.Error
}

func (r *PoolRepository) Save(ctx context.Context, p *poolDomain.Pool) error {
	return r.db.WithContext(ctx).Save(p).Error
}
