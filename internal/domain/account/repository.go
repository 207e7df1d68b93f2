package account

import "context"

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByAddress(ctx context.Context, address string) (*Account, error)
	// GetByAddressForUpdate locks the row for the enclosing transaction.
	GetByAddressForUpdate(ctx context.Context, address string) (*Account, error)
	Save(ctx context.Context, a *Account) error
}
