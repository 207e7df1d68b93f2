package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/account"
	domainEndorsement "github.com/okonpatrick/DefiTrust-Vault/internal/domain/endorsement"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/ledger"
	domainLoan "github.com/okonpatrick/DefiTrust-Vault/internal/domain/loan"
	domainPool "github.com/okonpatrick/DefiTrust-Vault/internal/domain/pool"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/uow"
	"github.com/okonpatrick/DefiTrust-Vault/pkg/events"
	"github.com/okonpatrick/DefiTrust-Vault/pkg/id"

	"github.com/google/uuid"
)

var ErrInvalidAddress = errors.New("loan: invalid address")

type Usecase struct {
	repo     domainLoan.Repository
	accounts account.Repository
	entries  ledger.Repository
	uow      uow.UnitOfWork
	terms    Terms
	pub      events.Publisher
	idGen    func() string
	now      func() time.Time
}

func NewUsecase(repo domainLoan.Repository, accounts account.Repository, entries ledger.Repository, tx uow.UnitOfWork, terms Terms, pub events.Publisher) *Usecase {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Usecase{
		repo:     repo,
		accounts: accounts,
		entries:  entries,
		uow:      tx,
		terms:    terms,
		pub:      pub,
		idGen:    id.NewID32,
		now:      time.Now,
	}
}

// Request creates and synchronously funds a loan. The caller must
// supply exactly collateralFactor x amount as collateral. If the pool
// cannot cover the principal the loan is persisted as cancelled, the
// collateral is refunded, and pool.ErrInsufficientLiquidity is returned
// together with the cancelled loan for the audit trail.
func (u *Usecase) Request(ctx context.Context, in RequestInput) (*LoanDTO, error) {
	borrower := account.Normalize(in.Borrower)
	if !account.ValidAddress(borrower) {
		return nil, ErrInvalidAddress
	}
	if in.Amount <= 0 {
		return nil, domainLoan.ErrInvalidAmount
	}

	var (
		dto       *LoanDTO
		cancelled bool
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		acct, err := r.Accounts.GetByAddressForUpdate(ctx, borrower)
		if err != nil {
			return err
		}
		if acct.TrustScore < u.terms.MinTrustScore {
			return domainLoan.ErrTrustScoreTooLow
		}

		required := domainLoan.CollateralFor(in.Amount, u.terms.CollateralFactorPct)
		if in.Collateral != required {
			return domainLoan.ErrCollateralMismatch
		}

		now := u.now().UTC()
		l := &domainLoan.Loan{
			LoanID:           u.idGen(),
			Borrower:         borrower,
			Lender:           account.ZeroAddress,
			Amount:           in.Amount,
			InterestRate:     u.terms.InterestRateBps,
			CollateralAmount: required,
			RepaymentAmount:  domainLoan.RepaymentFor(in.Amount, u.terms.InterestRateBps),
			Status:           domainLoan.StatusRequested,
			RequestedAt:      now,
			StateUpdatedAt:   now,
		}

		if err := r.Entries.Create(ctx, &ledger.Entry{
			EntryID: u.idGen(),
			Address: borrower,
			LoanID:  l.LoanID,
			Type:    ledger.EntryCollateralLock,
			Amount:  required,
		}); err != nil {
			return err
		}

		p, err := r.Pool.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if err := p.Lock(in.Amount); err != nil {
			if !errors.Is(err, domainPool.ErrInsufficientLiquidity) {
				return err
			}
			// Funding failed after the collateral deposit was accepted:
			// record the loan as cancelled and refund in full.
			l.Status = domainLoan.StatusCancelled
			l.CollateralReturned = true
			if err := r.Loans.Create(ctx, l); err != nil {
				return err
			}
			if err := r.Entries.Create(ctx, &ledger.Entry{
				EntryID: u.idGen(),
				Address: borrower,
				LoanID:  l.LoanID,
				Type:    ledger.EntryCollateralRefund,
				Amount:  required,
			}); err != nil {
				return err
			}
			cancelled = true
			dto = toDTO(l)
			return nil
		}
		if err := r.Pool.Save(ctx, p); err != nil {
			return err
		}

		deadline := now.Add(u.terms.Duration)
		l.Status = domainLoan.StatusActive
		l.Lender = domainLoan.LenderPool
		l.ApprovedAt = &now
		l.RepaymentDeadline = &deadline
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		if err := r.Entries.Create(ctx, &ledger.Entry{
			EntryID: u.idGen(),
			Address: borrower,
			LoanID:  l.LoanID,
			Type:    ledger.EntryDisbursement,
			Amount:  in.Amount,
		}); err != nil {
			return err
		}

		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cancelled {
		u.publish(ctx, events.LoanCancelled, dto)
		return dto, domainPool.ErrInsufficientLiquidity
	}
	u.publish(ctx, events.LoanActivated, dto)
	return dto, nil
}

// Repay settles an active loan. Any payer may repay on the borrower's
// behalf, but the supplied amount must equal the repayment amount
// exactly. Late repayment is accepted as long as no default sweep fired.
func (u *Usecase) Repay(ctx context.Context, in RepayInput) (*LoanDTO, error) {
	payer := account.Normalize(in.Payer)
	if !account.ValidAddress(payer) {
		return nil, ErrInvalidAddress
	}

	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusActive {
			return domainLoan.ErrNotActive
		}
		if in.Amount != l.RepaymentAmount {
			return domainLoan.ErrWrongRepaymentAmount
		}

		// Account before pool, the same order Request uses; inverting it
		// can deadlock two concurrent transactions.
		acct, err := r.Accounts.GetByAddressForUpdate(ctx, l.Borrower)
		if err != nil {
			return err
		}

		p, err := r.Pool.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if err := p.Release(l.Amount); err != nil {
			return err
		}

		interest := l.RepaymentAmount - l.Amount
		commission := domainLoan.CommissionFor(l.Amount, u.terms.CommissionBps)
		if commission > interest {
			return fmt.Errorf("loan: commission %d exceeds interest %d: %w", commission, interest, domainPool.ErrCorrupted)
		}

		endorsers, err := r.Endorsements.ListActiveByEndorsee(ctx, l.Borrower)
		if err != nil {
			return fmt.Errorf("loan: list endorsers: %w", err)
		}
		shares := domainEndorsement.SplitCommission(commission, endorsers)

		var paid int64
		for _, s := range shares {
			if s.Amount == 0 {
				continue
			}
			s.Endorsement.CommissionEarned += s.Amount
			if err := r.Endorsements.Save(ctx, s.Endorsement); err != nil {
				return err
			}
			if err := r.Entries.Create(ctx, &ledger.Entry{
				EntryID: u.idGen(),
				Address: s.Endorsement.Endorser,
				LoanID:  l.LoanID,
				Type:    ledger.EntryCommission,
				Amount:  s.Amount,
			}); err != nil {
				return err
			}
			paid += s.Amount
		}
		// Whatever the endorsers did not claim stays with the pool.
		if net := interest - paid; net > 0 {
			if err := p.Deposit(net); err != nil {
				return err
			}
		}
		if err := r.Pool.Save(ctx, p); err != nil {
			return err
		}

		acct.RecordRepayment(u.terms.RepayScoreReward)
		if err := r.Accounts.Save(ctx, acct); err != nil {
			return err
		}

		l.Status = domainLoan.StatusRepaid
		l.CollateralReturned = true
		l.StateUpdatedAt = u.now().UTC()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		for _, e := range []*ledger.Entry{
			{EntryID: u.idGen(), Address: payer, LoanID: l.LoanID, Type: ledger.EntryRepayment, Amount: l.RepaymentAmount},
			{EntryID: u.idGen(), Address: l.Borrower, LoanID: l.LoanID, Type: ledger.EntryCollateralRefund, Amount: l.CollateralAmount},
		} {
			if err := r.Entries.Create(ctx, e); err != nil {
				return err
			}
		}

		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.publish(ctx, events.LoanRepaid, dto)
	return dto, nil
}

// Sweep transitions an overdue active loan to defaulted: the collateral
// is seized into the pool, the unpaid principal written off, and the
// borrower penalized. A second call fails with ErrNotActive and applies
// nothing.
func (u *Usecase) Sweep(ctx context.Context, loanID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusActive {
			return domainLoan.ErrNotActive
		}
		if l.RepaymentDeadline == nil || u.now().UTC().Before(*l.RepaymentDeadline) {
			return domainLoan.ErrDeadlineNotReached
		}

		// Account before pool, matching Request and Repay.
		acct, err := r.Accounts.GetByAddressForUpdate(ctx, l.Borrower)
		if err != nil {
			return err
		}

		p, err := r.Pool.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if err := p.WriteOff(l.Amount); err != nil {
			return err
		}
		if err := p.Seize(l.CollateralAmount); err != nil {
			return err
		}
		if err := r.Pool.Save(ctx, p); err != nil {
			return err
		}

		acct.RecordDefault(u.terms.DefaultScorePenalty)
		if err := r.Accounts.Save(ctx, acct); err != nil {
			return err
		}

		l.Status = domainLoan.StatusDefaulted
		l.StateUpdatedAt = u.now().UTC()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		if err := r.Entries.Create(ctx, &ledger.Entry{
			EntryID: u.idGen(),
			Address: l.Borrower,
			LoanID:  l.LoanID,
			Type:    ledger.EntryCollateralSeized,
			Amount:  l.CollateralAmount,
		}); err != nil {
			return err
		}

		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.publish(ctx, events.LoanDefaulted, dto)
	return dto, nil
}

// Get returns the loan or domainLoan.ErrNotFound.
func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

// Ledger returns the loan's audit trail, oldest first, or
// domainLoan.ErrNotFound for an unknown loan.
func (u *Usecase) Ledger(ctx context.Context, loanID string) ([]LedgerEntryDTO, error) {
	if _, err := u.repo.GetByLoanID(ctx, loanID); err != nil {
		return nil, err
	}
	list, err := u.entries.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]LedgerEntryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, LedgerEntryDTO{
			EntryID:   e.EntryID,
			Address:   e.Address,
			Type:      string(e.Type),
			Amount:    e.Amount,
			CreatedAt: e.CreatedAt.Unix(),
		})
	}
	return out, nil
}

// ActiveForBorrower lists the public ids of the borrower's active loans.
func (u *Usecase) ActiveForBorrower(ctx context.Context, address string) ([]string, error) {
	addr := account.Normalize(address)
	if !account.ValidAddress(addr) {
		return nil, ErrInvalidAddress
	}
	if _, err := u.accounts.GetByAddress(ctx, addr); err != nil {
		return nil, err
	}
	loans, err := u.repo.ListActiveByBorrower(ctx, addr)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(loans))
	for _, l := range loans {
		ids = append(ids, l.LoanID)
	}
	return ids, nil
}

func (u *Usecase) publish(ctx context.Context, routingKey string, dto *LoanDTO) {
	if dto == nil {
		return
	}
	_ = u.pub.Publish(ctx, routingKey, events.LoanEvent{
		EventID:   uuid.New(),
		LoanID:    dto.LoanID,
		Borrower:  dto.Borrower,
		Amount:    dto.Amount,
		Status:    dto.Status,
		Timestamp: u.now().UTC(),
	})
}

func toDTO(l *domainLoan.Loan) *LoanDTO {
	dto := &LoanDTO{
		LoanID:             l.LoanID,
		Borrower:           l.Borrower,
		Lender:             l.Lender,
		Amount:             l.Amount,
		InterestRate:       l.InterestRate,
		CollateralAmount:   l.CollateralAmount,
		RepaymentAmount:    l.RepaymentAmount,
		Status:             string(l.Status),
		RequestedAt:        l.RequestedAt.Unix(),
		CollateralReturned: l.CollateralReturned,
	}
	if l.ApprovedAt != nil {
		dto.ApprovedAt = l.ApprovedAt.Unix()
	}
	if l.RepaymentDeadline != nil {
		dto.RepaymentDeadline = l.RepaymentDeadline.Unix()
	}
	return dto
}
