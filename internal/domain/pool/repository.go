package pool

import "context"

type Repository interface {
	// Get returns the singleton pool row, creating it with zero balances
	// on first use.
	Get(ctx context.Context) (*Pool, error)
	// GetForUpdate locks the pool row for the enclosing transaction.
	GetForUpdate(ctx context.Context) (*Pool, error)
	Save(ctx context.Context, p *Pool) error
}
