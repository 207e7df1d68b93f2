package loan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/account"
	domainEndorsement "github.com/okonpatrick/DefiTrust-Vault/internal/domain/endorsement"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/ledger"
	domainLoan "github.com/okonpatrick/DefiTrust-Vault/internal/domain/loan"
	domainPool "github.com/okonpatrick/DefiTrust-Vault/internal/domain/pool"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/uow"
	"github.com/okonpatrick/DefiTrust-Vault/internal/testutil/accountmock"
	"github.com/okonpatrick/DefiTrust-Vault/internal/testutil/endorsementmock"
	"github.com/okonpatrick/DefiTrust-Vault/internal/testutil/ledgermock"
	"github.com/okonpatrick/DefiTrust-Vault/internal/testutil/loanmock"
	"github.com/okonpatrick/DefiTrust-Vault/internal/testutil/poolmock"
	"github.com/okonpatrick/DefiTrust-Vault/internal/testutil/uowmock"
)

const (
	borrowerAddr = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	endorserAddr = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	payerAddr    = "0xcccccccccccccccccccccccccccccccccccccccc"
)

func testTerms() Terms {
	return Terms{
		MinTrustScore:       60,
		InterestRateBps:     700,
		CollateralFactorPct: 130,
		CommissionBps:       600,
		Duration:            30 * 24 * time.Hour,
		RepayScoreReward:    25,
		DefaultScorePenalty: 100,
	}
}

type pubRecorder struct{ keys []string }

func (p *pubRecorder) Publish(_ context.Context, routingKey string, _ any) error {
	p.keys = append(p.keys, routingKey)
	return nil
}
func (p *pubRecorder) Close() {}

// fixture wires the usecase against in-memory state so each test can
// inspect every side effect of a flow.
type fixture struct {
	uc           *Usecase
	acct         *account.Account
	pool         *domainPool.Pool
	endorsements []*domainEndorsement.Endorsement
	loans        map[string]*domainLoan.Loan
	entries      []*ledger.Entry
	pub          *pubRecorder
	lockOrder    []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		acct:  &account.Account{ID: 1, Address: borrowerAddr, TrustScore: 70, IsRegistered: true},
		pool:  &domainPool.Pool{ID: 1, TotalLiquidity: 50_000, AvailableToBorrow: 50_000},
		loans: map[string]*domainLoan.Loan{},
		pub:   &pubRecorder{},
	}

	accounts := &accountmock.Repo{
		GetByAddressFn: func(_ context.Context, addr string) (*account.Account, error) {
			if addr == f.acct.Address {
				return f.acct, nil
			}
			return nil, account.ErrNotRegistered
		},
	}
	accounts.GetByAddressForUpdateFn = func(ctx context.Context, addr string) (*account.Account, error) {
		f.lockOrder = append(f.lockOrder, "account")
		return accounts.GetByAddressFn(ctx, addr)
	}

	loans := &loanmock.Repo{
		CreateFn: func(_ context.Context, l *domainLoan.Loan) error {
			f.loans[l.LoanID] = l
			return nil
		},
		GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*domainLoan.Loan, error) {
			if l, ok := f.loans[loanID]; ok {
				return l, nil
			}
			return nil, domainLoan.ErrNotFound
		},
	}
	loans.GetByLoanIDFn = loans.GetByLoanIDForUpdateFn
	loans.ListActiveByBorrowerFn = func(_ context.Context, borrower string) ([]*domainLoan.Loan, error) {
		var out []*domainLoan.Loan
		for _, l := range f.loans {
			if l.Borrower == borrower && l.Status == domainLoan.StatusActive {
				out = append(out, l)
			}
		}
		return out, nil
	}

	pools := &poolmock.Repo{
		GetFn: func(context.Context) (*domainPool.Pool, error) { return f.pool, nil },
		GetForUpdateFn: func(context.Context) (*domainPool.Pool, error) {
			f.lockOrder = append(f.lockOrder, "pool")
			return f.pool, nil
		},
	}

	endorsements := &endorsementmock.Repo{
		ListActiveByEndorseeFn: func(context.Context, string) ([]*domainEndorsement.Endorsement, error) {
			return f.endorsements, nil
		},
	}

	entries := &ledgermock.Repo{
		CreateFn: func(_ context.Context, e *ledger.Entry) error {
			f.entries = append(f.entries, e)
			return nil
		},
		ListByLoanIDFn: func(_ context.Context, loanID string) ([]*ledger.Entry, error) {
			var out []*ledger.Entry
			for _, e := range f.entries {
				if e.LoanID == loanID {
					out = append(out, e)
				}
			}
			return out, nil
		},
	}

	repos := uow.Repos{
		Accounts:     accounts,
		Endorsements: endorsements,
		Loans:        loans,
		Pool:         pools,
		Entries:      entries,
	}
	f.uc = NewUsecase(loans, accounts, entries, uowmock.Passthrough(repos), testTerms(), f.pub)
	return f
}

func (f *fixture) entryTypes(loanID string) []ledger.EntryType {
	var out []ledger.EntryType
	for _, e := range f.entries {
		if loanID == "" || e.LoanID == loanID {
			out = append(out, e.Type)
		}
	}
	return out
}

func (f *fixture) activate(t *testing.T, amount int64) *LoanDTO {
	t.Helper()
	dto, err := f.uc.Request(context.Background(), RequestInput{
		Borrower:   borrowerAddr,
		Amount:     amount,
		Collateral: domainLoan.CollateralFor(amount, testTerms().CollateralFactorPct),
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	return dto
}

// ----- Request -----

func TestRequest_ActivatesAndDisburses(t *testing.T) {
	f := newFixture(t)

	dto := f.activate(t, 10_000)

	if dto.Status != string(domainLoan.StatusActive) {
		t.Fatalf("Status = %q, want active", dto.Status)
	}
	if dto.CollateralAmount != 13_000 || dto.RepaymentAmount != 10_700 {
		t.Fatalf("terms wrong: %+v", dto)
	}
	if dto.Lender != domainLoan.LenderPool {
		t.Fatalf("Lender = %q, want %q", dto.Lender, domainLoan.LenderPool)
	}
	if dto.ApprovedAt == 0 || dto.RepaymentDeadline != dto.ApprovedAt+30*24*3600 {
		t.Fatalf("deadline wrong: approved=%d deadline=%d", dto.ApprovedAt, dto.RepaymentDeadline)
	}

	// principal locked: total unchanged, available reduced
	if f.pool.TotalLiquidity != 50_000 || f.pool.AvailableToBorrow != 40_000 {
		t.Fatalf("pool after funding: %+v", f.pool)
	}

	want := []ledger.EntryType{ledger.EntryCollateralLock, ledger.EntryDisbursement}
	got := f.entryTypes(dto.LoanID)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("ledger = %v, want %v", got, want)
	}
	if len(f.pub.keys) != 1 || f.pub.keys[0] != "loan.activated" {
		t.Fatalf("events = %v", f.pub.keys)
	}
}

func TestRequest_TrustScoreTooLow(t *testing.T) {
	f := newFixture(t)
	f.acct.TrustScore = 59

	_, err := f.uc.Request(context.Background(), RequestInput{
		Borrower: borrowerAddr, Amount: 10_000, Collateral: 13_000,
	})
	if !errors.Is(err, domainLoan.ErrTrustScoreTooLow) {
		t.Fatalf("want ErrTrustScoreTooLow, got %v", err)
	}
	if len(f.loans) != 0 || len(f.entries) != 0 {
		t.Fatalf("side effects on rejected request: loans=%d entries=%d", len(f.loans), len(f.entries))
	}
}

func TestRequest_CollateralMustMatchExactly(t *testing.T) {
	f := newFixture(t)

	for _, collateral := range []int64{12_999, 13_001, 0} {
		_, err := f.uc.Request(context.Background(), RequestInput{
			Borrower: borrowerAddr, Amount: 10_000, Collateral: collateral,
		})
		if !errors.Is(err, domainLoan.ErrCollateralMismatch) {
			t.Fatalf("collateral %d: want ErrCollateralMismatch, got %v", collateral, err)
		}
	}
}

func TestRequest_RejectsBadInput(t *testing.T) {
	f := newFixture(t)

	if _, err := f.uc.Request(context.Background(), RequestInput{Borrower: "bogus", Amount: 10}); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("want ErrInvalidAddress, got %v", err)
	}
	if _, err := f.uc.Request(context.Background(), RequestInput{Borrower: borrowerAddr, Amount: 0}); !errors.Is(err, domainLoan.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
}

func TestRequest_UnregisteredBorrower(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Request(context.Background(), RequestInput{
		Borrower: payerAddr, Amount: 10_000, Collateral: 13_000,
	})
	if !errors.Is(err, account.ErrNotRegistered) {
		t.Fatalf("want ErrNotRegistered, got %v", err)
	}
}

func TestRequest_InsufficientLiquidity_CancelsAndRefunds(t *testing.T) {
	f := newFixture(t)
	f.pool.TotalLiquidity = 5_000
	f.pool.AvailableToBorrow = 5_000

	dto, err := f.uc.Request(context.Background(), RequestInput{
		Borrower: borrowerAddr, Amount: 10_000, Collateral: 13_000,
	})
	if !errors.Is(err, domainPool.ErrInsufficientLiquidity) {
		t.Fatalf("want ErrInsufficientLiquidity, got %v", err)
	}
	if dto == nil {
		t.Fatalf("cancelled loan must still be returned")
	}
	if dto.Status != string(domainLoan.StatusCancelled) || !dto.CollateralReturned {
		t.Fatalf("cancelled dto wrong: %+v", dto)
	}
	if dto.ApprovedAt != 0 || dto.RepaymentDeadline != 0 {
		t.Fatalf("cancelled loan must not carry funding timestamps: %+v", dto)
	}

	// pool untouched, full audit trail written
	if f.pool.TotalLiquidity != 5_000 || f.pool.AvailableToBorrow != 5_000 {
		t.Fatalf("pool moved on failed funding: %+v", f.pool)
	}
	want := []ledger.EntryType{ledger.EntryCollateralLock, ledger.EntryCollateralRefund}
	got := f.entryTypes(dto.LoanID)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("ledger = %v, want %v", got, want)
	}
	if len(f.pub.keys) != 1 || f.pub.keys[0] != "loan.cancelled" {
		t.Fatalf("events = %v", f.pub.keys)
	}
}

// ----- Repay -----

func TestRepay_SettlesAndPaysCommission(t *testing.T) {
	f := newFixture(t)
	f.endorsements = []*domainEndorsement.Endorsement{
		{ID: 1, Endorser: endorserAddr, Endorsee: borrowerAddr, Stake: 5_000, Active: true},
	}
	dto := f.activate(t, 10_000)

	got, err := f.uc.Repay(context.Background(), RepayInput{
		LoanID: dto.LoanID, Payer: payerAddr, Amount: 10_700,
	})
	if err != nil {
		t.Fatalf("Repay: %v", err)
	}
	if got.Status != string(domainLoan.StatusRepaid) || !got.CollateralReturned {
		t.Fatalf("repaid dto wrong: %+v", got)
	}

	// interest 700 = 600 commission + 100 retained by the pool
	if f.endorsements[0].CommissionEarned != 600 {
		t.Fatalf("commission = %d, want 600", f.endorsements[0].CommissionEarned)
	}
	if f.pool.TotalLiquidity != 50_100 || f.pool.AvailableToBorrow != 50_100 {
		t.Fatalf("pool after repay: %+v", f.pool)
	}

	if f.acct.TrustScore != 95 || f.acct.LoansCompleted != 1 {
		t.Fatalf("borrower after repay: %+v", f.acct)
	}

	types := f.entryTypes(dto.LoanID)
	want := []ledger.EntryType{
		ledger.EntryCollateralLock, ledger.EntryDisbursement,
		ledger.EntryCommission, ledger.EntryRepayment, ledger.EntryCollateralRefund,
	}
	if len(types) != len(want) {
		t.Fatalf("ledger = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("ledger[%d] = %v, want %v", i, types[i], want[i])
		}
	}
	if f.pub.keys[len(f.pub.keys)-1] != "loan.repaid" {
		t.Fatalf("events = %v", f.pub.keys)
	}
}

func TestRepay_NoEndorsers_PoolKeepsAllInterest(t *testing.T) {
	f := newFixture(t)
	dto := f.activate(t, 10_000)

	if _, err := f.uc.Repay(context.Background(), RepayInput{
		LoanID: dto.LoanID, Payer: borrowerAddr, Amount: 10_700,
	}); err != nil {
		t.Fatalf("Repay: %v", err)
	}
	if f.pool.TotalLiquidity != 50_700 || f.pool.AvailableToBorrow != 50_700 {
		t.Fatalf("pool after repay: %+v", f.pool)
	}
}

func TestRepay_WrongAmount(t *testing.T) {
	f := newFixture(t)
	dto := f.activate(t, 10_000)

	for _, amount := range []int64{10_000, 10_699, 10_701} {
		_, err := f.uc.Repay(context.Background(), RepayInput{
			LoanID: dto.LoanID, Payer: borrowerAddr, Amount: amount,
		})
		if !errors.Is(err, domainLoan.ErrWrongRepaymentAmount) {
			t.Fatalf("amount %d: want ErrWrongRepaymentAmount, got %v", amount, err)
		}
	}
	if f.loans[dto.LoanID].Status != domainLoan.StatusActive {
		t.Fatalf("loan mutated on failed repay")
	}
}

func TestRepay_TerminalLoan(t *testing.T) {
	f := newFixture(t)
	dto := f.activate(t, 10_000)
	if _, err := f.uc.Repay(context.Background(), RepayInput{
		LoanID: dto.LoanID, Payer: borrowerAddr, Amount: 10_700,
	}); err != nil {
		t.Fatalf("first repay: %v", err)
	}

	_, err := f.uc.Repay(context.Background(), RepayInput{
		LoanID: dto.LoanID, Payer: borrowerAddr, Amount: 10_700,
	})
	if !errors.Is(err, domainLoan.ErrNotActive) {
		t.Fatalf("want ErrNotActive, got %v", err)
	}
	if f.acct.LoansCompleted != 1 {
		t.Fatalf("double repay counted twice: %+v", f.acct)
	}
}

func TestRepay_UnknownLoan(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Repay(context.Background(), RepayInput{
		LoanID: "ffffffffffffffffffffffffffffffff", Payer: borrowerAddr, Amount: 1,
	})
	if !errors.Is(err, domainLoan.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

// ----- Sweep -----

func TestSweep_SeizesCollateralAndPenalizes(t *testing.T) {
	f := newFixture(t)
	dto := f.activate(t, 10_000)

	// move the clock past the deadline
	f.uc.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }

	got, err := f.uc.Sweep(context.Background(), dto.LoanID)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if got.Status != string(domainLoan.StatusDefaulted) {
		t.Fatalf("Status = %q, want defaulted", got.Status)
	}
	if got.CollateralReturned {
		t.Fatalf("defaulted loan must not refund collateral")
	}

	// principal written off, collateral absorbed: 50000 - 10000 + 13000
	if f.pool.TotalLiquidity != 53_000 || f.pool.AvailableToBorrow != 53_000 {
		t.Fatalf("pool after sweep: %+v", f.pool)
	}
	if f.acct.TrustScore != 0 || f.acct.LoansDefaulted != 1 {
		t.Fatalf("borrower after sweep: %+v", f.acct)
	}

	types := f.entryTypes(dto.LoanID)
	if types[len(types)-1] != ledger.EntryCollateralSeized {
		t.Fatalf("ledger = %v", types)
	}
	if f.pub.keys[len(f.pub.keys)-1] != "loan.defaulted" {
		t.Fatalf("events = %v", f.pub.keys)
	}
}

func TestSweep_BeforeDeadline(t *testing.T) {
	f := newFixture(t)
	dto := f.activate(t, 10_000)

	_, err := f.uc.Sweep(context.Background(), dto.LoanID)
	if !errors.Is(err, domainLoan.ErrDeadlineNotReached) {
		t.Fatalf("want ErrDeadlineNotReached, got %v", err)
	}
	if f.loans[dto.LoanID].Status != domainLoan.StatusActive {
		t.Fatalf("loan mutated on premature sweep")
	}
}

func TestSweep_Twice(t *testing.T) {
	f := newFixture(t)
	dto := f.activate(t, 10_000)
	f.uc.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }

	if _, err := f.uc.Sweep(context.Background(), dto.LoanID); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if _, err := f.uc.Sweep(context.Background(), dto.LoanID); !errors.Is(err, domainLoan.ErrNotActive) {
		t.Fatalf("second sweep: want ErrNotActive, got %v", err)
	}
	if f.acct.LoansDefaulted != 1 {
		t.Fatalf("double sweep counted twice: %+v", f.acct)
	}
}

// Every flow must take the account lock before the pool lock; two
// transactions acquiring them in opposite order can deadlock.
func TestLockOrder_AccountBeforePool(t *testing.T) {
	assertOrder := func(t *testing.T, f *fixture, flow string) {
		t.Helper()
		var prev string
		for _, l := range f.lockOrder {
			if l == "account" && prev == "pool" {
				t.Fatalf("%s: pool locked before account: %v", flow, f.lockOrder)
			}
			prev = l
		}
	}

	t.Run("request", func(t *testing.T) {
		f := newFixture(t)
		f.activate(t, 10_000)
		assertOrder(t, f, "request")
	})

	t.Run("repay", func(t *testing.T) {
		f := newFixture(t)
		dto := f.activate(t, 10_000)
		f.lockOrder = nil
		if _, err := f.uc.Repay(context.Background(), RepayInput{
			LoanID: dto.LoanID, Payer: payerAddr, Amount: 10_700,
		}); err != nil {
			t.Fatalf("Repay: %v", err)
		}
		assertOrder(t, f, "repay")
	})

	t.Run("sweep", func(t *testing.T) {
		f := newFixture(t)
		dto := f.activate(t, 10_000)
		f.uc.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }
		f.lockOrder = nil
		if _, err := f.uc.Sweep(context.Background(), dto.LoanID); err != nil {
			t.Fatalf("Sweep: %v", err)
		}
		assertOrder(t, f, "sweep")
	})
}

// ----- queries -----

func TestActiveForBorrower(t *testing.T) {
	f := newFixture(t)
	dto := f.activate(t, 10_000)

	ids, err := f.uc.ActiveForBorrower(context.Background(), borrowerAddr)
	if err != nil {
		t.Fatalf("ActiveForBorrower: %v", err)
	}
	if len(ids) != 1 || ids[0] != dto.LoanID {
		t.Fatalf("ids = %v", ids)
	}

	if _, err := f.uc.ActiveForBorrower(context.Background(), payerAddr); !errors.Is(err, account.ErrNotRegistered) {
		t.Fatalf("unknown borrower: want ErrNotRegistered, got %v", err)
	}
}

func TestLedger_PerLoanTrail(t *testing.T) {
	f := newFixture(t)
	dto := f.activate(t, 10_000)
	if _, err := f.uc.Repay(context.Background(), RepayInput{
		LoanID: dto.LoanID, Payer: payerAddr, Amount: 10_700,
	}); err != nil {
		t.Fatalf("Repay: %v", err)
	}

	got, err := f.uc.Ledger(context.Background(), dto.LoanID)
	if err != nil {
		t.Fatalf("Ledger: %v", err)
	}
	// lock, disbursement, repayment, collateral refund
	if len(got) != 4 {
		t.Fatalf("entries = %+v", got)
	}
	if got[0].Type != string(ledger.EntryCollateralLock) || got[len(got)-1].Type != string(ledger.EntryCollateralRefund) {
		t.Fatalf("entry order wrong: %+v", got)
	}
	if got[2].Address != payerAddr || got[2].Amount != 10_700 {
		t.Fatalf("repayment entry wrong: %+v", got[2])
	}
}

func TestLedger_UnknownLoan(t *testing.T) {
	f := newFixture(t)
	if _, err := f.uc.Ledger(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeef"); !errors.Is(err, domainLoan.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
