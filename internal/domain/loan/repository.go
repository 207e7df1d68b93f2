package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the enclosing
	// transaction so no two transitions can race.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	ListActiveByBorrower(ctx context.Context, borrower string) ([]*Loan, error)
	Save(ctx context.Context, l *Loan) error
}
