package endorsement

import "context"

type Repository interface {
	Create(ctx context.Context, e *Endorsement) error
	// ListActiveByEndorsee returns every active endorsement backing the
	// given address, oldest first.
	ListActiveByEndorsee(ctx context.Context, endorsee string) ([]*Endorsement, error)
	CountActiveByEndorsee(ctx context.Context, endorsee string) (int64, error)
	Save(ctx context.Context, e *Endorsement) error
}
