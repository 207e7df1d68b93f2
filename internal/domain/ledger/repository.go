package ledger

import "context"

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	ListByAddress(ctx context.Context, address string) ([]*Entry, error)
	ListByLoanID(ctx context.Context, loanID string) ([]*Entry, error)
}
