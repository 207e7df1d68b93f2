package uow

import (
	"context"

	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/account"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/endorsement"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/ledger"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/loan"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/pool"
)

// Repos bundles every repository bound to one transaction. All mutating
// ledger operations run through one of the Within* helpers so external
// callers perceive strict serializability.
type Repos struct {
	Accounts     account.Repository
	Endorsements endorsement.Repository
	Loans        loan.Repository
	Pool         pool.Repository
	Entries      ledger.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn in a database transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then passes it in. Loan
	// state transitions (repay, default sweep) go through here so no two
	// transitions ever observe the same pre-state.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
