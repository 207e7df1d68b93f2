package mysql

import (
	"context"

	endorsementDomain "github.com/okonpatrick/DefiTrust-Vault/internal/domain/endorsement"

	"gorm.io/gorm"
)

type EndorsementRepository struct{ db *gorm.DB }

func NewEndorsementRepository(db *gorm.DB) *EndorsementRepository {
	return &EndorsementRepository{db: db}
}

func (r *EndorsementRepository) Create(ctx context.Context, e *endorsementDomain.Endorsement) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EndorsementRepository) ListActiveByEndorsee(ctx context.Context, endorsee string) ([]*endorsementDomain.Endorsement, error) {
	var out []*endorsementDomain.Endorsement
	res := r.db.WithContext(ctx).
		Where("endorsee = ? AND active = ?", endorsee, true).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *EndorsementRepository) CountActiveByEndorsee(ctx context.Context, endorsee string) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&endorsementDomain.Endorsement{}).
		Where("endorsee = ? AND active = ?", endorsee, true).
		Count(&n)
	return n, res.Error
}

func (r *EndorsementRepository) Save(ctx context.Context, e *endorsementDomain.Endorsement) error {
	return r.db.WithContext(ctx).Save(e).Error
}
